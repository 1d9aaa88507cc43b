package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/wonny/siphon/internal/contracts"
	"github.com/wonny/siphon/pkg/logger"
)

// CandidateSource reads persisted pick lists.
type CandidateSource interface {
	GetLatestCandidates(ctx context.Context) ([]contracts.Candidate, error)
	GetCandidatesByDate(ctx context.Context, date string) ([]contracts.Candidate, error)
}

// CandidateHandler serves the daily pick lists.
// ⭐ SSOT: candidate API handlers live in this struct only
type CandidateHandler struct {
	source CandidateSource
	logger *logger.Logger
}

// NewCandidateHandler creates a candidate handler.
func NewCandidateHandler(source CandidateSource, log *logger.Logger) *CandidateHandler {
	return &CandidateHandler{source: source, logger: log}
}

// GetLatest returns the most recent scan's picks
// GET /api/candidates/latest
func (h *CandidateHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	candidates, err := h.source.GetLatestCandidates(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to get latest candidates")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve candidates")
		return
	}

	respondJSON(w, http.StatusOK, candidates)
}

// GetByDate returns the picks for one scan date
// GET /api/candidates?date=YYYY-MM-DD
func (h *CandidateHandler) GetByDate(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		respondError(w, http.StatusBadRequest, "Missing 'date' query parameter")
		return
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid 'date' format (expected YYYY-MM-DD)")
		return
	}

	candidates, err := h.source.GetCandidatesByDate(r.Context(), date)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get candidates by date")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve candidates")
		return
	}

	respondJSON(w, http.StatusOK, candidates)
}
