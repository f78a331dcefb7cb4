package main

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/CTAG07/vowelchain/pkg/history"
	"github.com/CTAG07/vowelchain/pkg/letters"
)

// AnalyzeAPI runs analyses over request bodies.
type AnalyzeAPI struct {
	maxBodyBytes int64
	store        *history.Store
	logger       *slog.Logger
}

// ValidationErrorResponse is the body returned for text that fails validation.
type ValidationErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
	Char  string `json:"char,omitempty"`
}

type analyzeResponse struct {
	RunID string `json:"run_id,omitempty"`
	Report
}

func NewAnalyzeAPI(config *ServerConfig, store *history.Store, logger *slog.Logger) *AnalyzeAPI {
	return &AnalyzeAPI{
		maxBodyBytes: config.MaxBodyBytes,
		store:        store,
		logger:       logger,
	}
}

func (a *AnalyzeAPI) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/analyze", a.handleAnalyze)
}

// handleAnalyze analyses the raw request body. With ?record=NAME the summary
// is also stored in the history.
func (a *AnalyzeAPI) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	body := r.Body
	if a.maxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, a.maxBodyBytes)
	}

	seq := letters.New()
	if err := seq.UpdateFrom(body); err != nil {
		a.respondWithAnalyzeError(w, err)
		return
	}
	summary := seq.Summary()

	resp := analyzeResponse{Report: newReport(summary)}
	if name := r.URL.Query().Get("record"); name != "" {
		run, err := a.store.Record(r.Context(), name, "api", summary)
		if err != nil {
			a.logger.Error("Failed to record run", "name", name, "error", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to record run")
			return
		}
		resp.RunID = run.ID
	}

	a.logger.Debug("Analyzed request body", "letters", summary.Total, "remote_addr", r.RemoteAddr)
	respondWithJSON(w, http.StatusOK, resp)
}

func (a *AnalyzeAPI) respondWithAnalyzeError(w http.ResponseWriter, err error) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		respondWithError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}

	var validationErr *letters.ValidationError
	if errors.As(err, &validationErr) {
		resp := ValidationErrorResponse{Error: err.Error(), Kind: validationErr.Kind.String()}
		if validationErr.Kind != letters.NotASCII {
			resp.Char = string(rune(validationErr.Char))
		}
		respondWithJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}

	a.logger.Warn("Failed to read request body", "error", err)
	respondWithError(w, http.StatusBadRequest, "Failed to read request body")
}
