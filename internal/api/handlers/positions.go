package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/wonny/siphon/internal/contracts"
	"github.com/wonny/siphon/internal/pipeline"
	"github.com/wonny/siphon/pkg/logger"
)

// PositionSource reads the tracked position book.
type PositionSource interface {
	Active(ctx context.Context) ([]contracts.TrackedPosition, error)
	Closed(ctx context.Context, withinDays int) ([]contracts.TrackedPosition, error)
	MetricsByStrategyTag(ctx context.Context, withinDays int) (map[string]contracts.StrategyMetrics, error)
}

// ShieldReporter evaluates the exit shield over open positions.
type ShieldReporter interface {
	ShieldReport(ctx context.Context) ([]pipeline.PositionReport, error)
}

// PositionHandler serves the tracked position book and its scorecards.
type PositionHandler struct {
	positions PositionSource
	shield    ShieldReporter
	logger    *logger.Logger
}

// NewPositionHandler creates a position handler.
func NewPositionHandler(positions PositionSource, shield ShieldReporter, log *logger.Logger) *PositionHandler {
	return &PositionHandler{positions: positions, shield: shield, logger: log}
}

// GetActive returns open positions with their shield verdicts
// GET /api/positions/active
func (h *PositionHandler) GetActive(w http.ResponseWriter, r *http.Request) {
	reports, err := h.shield.ShieldReport(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to build shield report")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve active positions")
		return
	}

	respondJSON(w, http.StatusOK, reports)
}

// GetClosed returns recently closed positions
// GET /api/positions/closed?days=N (default 30)
func (h *PositionHandler) GetClosed(w http.ResponseWriter, r *http.Request) {
	days := queryDays(r, 30)

	positions, err := h.positions.Closed(r.Context(), days)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get closed positions")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve closed positions")
		return
	}

	respondJSON(w, http.StatusOK, positions)
}

// GetMetrics returns the per-strategy-tag scorecard over closed lineages
// GET /api/metrics?days=N (default 90)
func (h *PositionHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	days := queryDays(r, 90)

	metrics, err := h.positions.MetricsByStrategyTag(r.Context(), days)
	if err != nil {
		h.logger.WithError(err).Error("Failed to compute strategy metrics")
		respondError(w, http.StatusInternalServerError, "Failed to compute metrics")
		return
	}

	respondJSON(w, http.StatusOK, metrics)
}

// queryDays parses the optional "days" query parameter.
func queryDays(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("days")
	if raw == "" {
		return fallback
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days <= 0 {
		return fallback
	}
	return days
}
