package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/siphon/internal/pipeline"
	"github.com/wonny/siphon/pkg/logger"
)

// ScanJob runs the morning screening shortly after the open, once volume
// ratios have enough prints behind them to mean something.
// ⭐ SSOT: the scan schedule lives in this job only
type ScanJob struct {
	pipeline *pipeline.Pipeline
	schedule string
	logger   *logger.Logger
}

// NewScanJob creates the morning scan job.
func NewScanJob(p *pipeline.Pipeline, schedule string, log *logger.Logger) *ScanJob {
	return &ScanJob{
		pipeline: p,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *ScanJob) Name() string {
	return "daily_scan"
}

// Schedule returns the cron schedule (with seconds)
func (j *ScanJob) Schedule() string {
	return j.schedule
}

// Run executes the screening run.
func (j *ScanJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled scan")

	result, err := j.pipeline.RunScan(ctx)
	if err != nil {
		return fmt.Errorf("scan run: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"pool":     result.PoolSize,
		"picks":    len(result.Picks),
		"duration": result.Duration.Seconds(),
	}).Info("Scheduled scan finished")
	return nil
}
