package handlers

import (
	"context"
	"net/http"

	"github.com/wonny/siphon/internal/pipeline"
	"github.com/wonny/siphon/internal/scheduler"
	"github.com/wonny/siphon/pkg/logger"
)

// ScanRunner executes a screening run on demand.
type ScanRunner interface {
	RunScan(ctx context.Context) (*pipeline.ScanResult, error)
}

// JobStatsSource exposes scheduler execution statistics.
type JobStatsSource interface {
	GetJobStats() map[string]scheduler.JobStats
}

// ScanHandler triggers runs and reports job health.
type ScanHandler struct {
	runner ScanRunner
	jobs   JobStatsSource
	logger *logger.Logger
}

// NewScanHandler creates a scan handler. jobs may be nil when running
// without the scheduler.
func NewScanHandler(runner ScanRunner, jobs JobStatsSource, log *logger.Logger) *ScanHandler {
	return &ScanHandler{runner: runner, jobs: jobs, logger: log}
}

// Run triggers a screening run synchronously
// POST /api/scan/run
func (h *ScanHandler) Run(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("Scan run triggered via API")

	result, err := h.runner.RunScan(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("API-triggered scan failed")
		respondError(w, http.StatusInternalServerError, "Scan run failed")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetJobs returns scheduler job statistics
// GET /api/jobs
func (h *ScanHandler) GetJobs(w http.ResponseWriter, r *http.Request) {
	if h.jobs == nil {
		respondError(w, http.StatusServiceUnavailable, "Scheduler not running")
		return
	}

	respondJSON(w, http.StatusOK, h.jobs.GetJobStats())
}
