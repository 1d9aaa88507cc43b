package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/siphon/internal/pipeline"
	"github.com/wonny/siphon/pkg/logger"
)

// TrackingJob accrues the day's performance row for every open position
// after the close, then logs the shield's verdicts.
type TrackingJob struct {
	pipeline *pipeline.Pipeline
	schedule string
	logger   *logger.Logger
}

// NewTrackingJob creates the after-close tracking job.
func NewTrackingJob(p *pipeline.Pipeline, schedule string, log *logger.Logger) *TrackingJob {
	return &TrackingJob{
		pipeline: p,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *TrackingJob) Name() string {
	return "daily_tracking"
}

// Schedule returns the cron schedule (with seconds)
func (j *TrackingJob) Schedule() string {
	return j.schedule
}

// Run executes the tracking update and shield evaluation.
func (j *TrackingJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled tracking update")

	if err := j.pipeline.RunTracking(ctx); err != nil {
		return fmt.Errorf("tracking run: %w", err)
	}

	reports, err := j.pipeline.ShieldReport(ctx)
	if err != nil {
		return fmt.Errorf("shield report: %w", err)
	}

	for _, r := range reports {
		j.logger.WithFields(map[string]interface{}{
			"symbol": r.Position.StockCode,
			"action": string(r.Decision.Action),
			"reason": r.Decision.Reason,
			"risk":   r.Decision.RiskScore,
			"return": r.Position.CumulativeReturn,
		}).Info("Shield verdict")
	}

	j.logger.WithField("positions", len(reports)).Info("Scheduled tracking finished")
	return nil
}
