package main

import (
	"log/slog"
	"net/http"

	"github.com/CTAG07/vowelchain/pkg/history"
)

// Server owns the API handlers and the mux they are registered on.
type Server struct {
	config     *Config
	logger     *slog.Logger
	store      *history.Store
	analyzeAPI *AnalyzeAPI
	historyAPI *HistoryAPI
	serverAPI  *ServerAPI
	apiMux     *http.ServeMux
}

func NewServer(config *Config, logger *slog.Logger, store *history.Store) *Server {
	server := &Server{
		config:     config,
		logger:     logger,
		store:      store,
		analyzeAPI: NewAnalyzeAPI(config.Server, store, logger),
		historyAPI: NewHistoryAPI(config.Server, store, logger),
		serverAPI:  NewServerAPI(logger),
		apiMux:     http.NewServeMux(),
	}

	server.analyzeAPI.RegisterRoutes(server.apiMux)
	server.historyAPI.RegisterRoutes(server.apiMux)
	server.serverAPI.RegisterRoutes(server.apiMux)

	return server
}

func (s *Server) Handler() http.Handler {
	return s.apiMux
}
