package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/haoyuan-z/trigate/internal/contracts"
	"github.com/haoyuan-z/trigate/internal/integrator"
	"github.com/haoyuan-z/trigate/pkg/logger"
)

// SignalHandler serves stored screening signals.
// SSOT: signal read endpoints live only in this struct.
type SignalHandler struct {
	repo   contracts.SignalRepository
	topN   int
	logger *logger.Logger
}

// NewSignalHandler creates a new signal handler
func NewSignalHandler(repo contracts.SignalRepository, topN int, log *logger.Logger) *SignalHandler {
	return &SignalHandler{
		repo:   repo,
		topN:   topN,
		logger: log,
	}
}

// GetSignals returns all signals for a date, strongest first
// GET /api/signals?date=YYYY-MM-DD (default: latest stored date)
func (h *SignalHandler) GetSignals(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.repo == nil {
		respondError(w, http.StatusServiceUnavailable, "No signal store configured")
		return
	}

	date, err := h.resolveDate(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid 'date' format (expected YYYY-MM-DD)")
		return
	}
	if date.IsZero() {
		respondError(w, http.StatusNotFound, "No signals stored yet")
		return
	}

	signals, err := h.repo.GetSignals(ctx, date)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get signals")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve signals")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"date":    date.Format("2006-01-02"),
		"count":   len(signals),
		"signals": signals,
	})
}

// GetSignal returns one instrument's signal
// GET /api/signals/{code}?date=YYYY-MM-DD
func (h *SignalHandler) GetSignal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	code := mux.Vars(r)["code"]

	if h.repo == nil {
		respondError(w, http.StatusServiceUnavailable, "No signal store configured")
		return
	}

	date, err := h.resolveDate(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid 'date' format (expected YYYY-MM-DD)")
		return
	}
	if date.IsZero() {
		respondError(w, http.StatusNotFound, "No signals stored yet")
		return
	}

	signal, err := h.repo.GetSignal(ctx, date, code)
	if err != nil {
		respondError(w, http.StatusNotFound, "No signal found for "+code)
		return
	}

	respondJSON(w, http.StatusOK, signal)
}

// GetReport returns the aggregate report for a date
// GET /api/report?date=YYYY-MM-DD
func (h *SignalHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.repo == nil {
		respondError(w, http.StatusServiceUnavailable, "No signal store configured")
		return
	}

	date, err := h.resolveDate(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid 'date' format (expected YYYY-MM-DD)")
		return
	}
	if date.IsZero() {
		respondError(w, http.StatusNotFound, "No signals stored yet")
		return
	}

	signals, err := h.repo.GetSignals(ctx, date)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get signals for report")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve signals")
		return
	}

	report := integrator.BuildReport(signals, h.topN)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"date":   date.Format("2006-01-02"),
		"report": report,
	})
}

// resolveDate picks the requested date or falls back to the latest
// stored one. A zero date with nil error means the store is empty.
func (h *SignalHandler) resolveDate(r *http.Request) (time.Time, error) {
	if raw := r.URL.Query().Get("date"); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return time.Time{}, err
		}
		return date, nil
	}

	date, err := h.repo.GetLatestDate(r.Context())
	if err != nil {
		return time.Time{}, nil
	}
	return date, nil
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
