package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/CTAG07/vowelchain/pkg/history"
)

// HistoryAPI exposes the run history over HTTP.
type HistoryAPI struct {
	maxBodyBytes int64
	store        *history.Store
	logger       *slog.Logger
}

// PruneRequest is the body accepted by /api/history/prune.
type PruneRequest struct {
	OlderThanHours float64 `json:"older_than_hours"`
}

func NewHistoryAPI(config *ServerConfig, store *history.Store, logger *slog.Logger) *HistoryAPI {
	return &HistoryAPI{
		maxBodyBytes: config.MaxBodyBytes,
		store:        store,
		logger:       logger,
	}
}

// RegisterRoutes sets up the routing for all /api/history endpoints.
func (h *HistoryAPI) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/history/runs", h.handleListRuns)
	mux.HandleFunc("/api/history/runs/", h.handleRunByID)
	mux.HandleFunc("/api/history/totals", h.handleTotals)
	mux.HandleFunc("/api/history/prune", h.handlePrune)
	mux.HandleFunc("/api/history/export", h.handleExport)
	mux.HandleFunc("/api/history/import", h.handleImport)
}

func (h *HistoryAPI) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondWithError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	runs, err := h.store.ListRuns(r.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list runs", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to list runs")
		return
	}
	respondWithJSON(w, http.StatusOK, runs)
}

// handleRunByID gets or deletes a single run.
func (h *HistoryAPI) handleRunByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/history/runs/")
	if id == "" || strings.Contains(id, "/") {
		respondWithError(w, http.StatusNotFound, "Run not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		run, err := h.store.GetRun(r.Context(), id)
		if err != nil {
			h.respondWithStoreError(w, "get run", err)
			return
		}
		respondWithJSON(w, http.StatusOK, run)
	case http.MethodDelete:
		if err := h.store.RemoveRun(r.Context(), id); err != nil {
			h.respondWithStoreError(w, "remove run", err)
			return
		}
		h.logger.Info("Run removed via API", "run_id", id)
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, "GET, DELETE")
	}
}

func (h *HistoryAPI) handleTotals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	totals, err := h.store.Totals(r.Context())
	if err != nil {
		h.respondWithStoreError(w, "compute totals", err)
		return
	}
	report := newReport(totals.Summary)
	report.Runs = totals.Runs
	respondWithJSON(w, http.StatusOK, report)
}

func (h *HistoryAPI) handlePrune(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	var req PruneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid JSON request body")
		return
	}
	if req.OlderThanHours <= 0 {
		respondWithError(w, http.StatusBadRequest, "older_than_hours must be positive")
		return
	}

	cutoff := time.Now().Add(-time.Duration(req.OlderThanHours * float64(time.Hour)))
	removed, err := h.store.PruneRuns(r.Context(), cutoff)
	if err != nil {
		h.respondWithStoreError(w, "prune runs", err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]int64{"removed": removed})
}

func (h *HistoryAPI) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	var buf bytes.Buffer
	if err := h.store.Export(r.Context(), &buf, history.FormatJSON); err != nil {
		h.respondWithStoreError(w, "export history", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="vowelchain-history.json"`)
	_, _ = buf.WriteTo(w)
}

func (h *HistoryAPI) handleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	body := r.Body
	if h.maxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}
	inserted, err := h.store.Import(r.Context(), body, history.FormatJSON)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			respondWithError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Import failed: %v", err))
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]int{"imported": inserted})
}

func (h *HistoryAPI) respondWithStoreError(w http.ResponseWriter, action string, err error) {
	if errors.Is(err, history.ErrRunNotFound) {
		respondWithError(w, http.StatusNotFound, "Run not found")
		return
	}
	h.logger.Error("Failed to "+action, "error", err)
	respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Database error: %v", err))
}
