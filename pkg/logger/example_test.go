package logger_test

import (
	"errors"

	"github.com/wonny/siphon/pkg/logger"
)

// Example_basic demonstrates basic logger usage
func Example_basic() {
	// Create logger (SSOT)
	log := logger.New(logger.Config{
		Env:    "development",
		Level:  "info",
		Format: "console",
	})

	// Basic logging
	log.Debug("This won't appear (level is info)")
	log.Info("Scan started")
	log.Warn("Board ranking unavailable")
	log.Error("Snapshot fetch failed")

	// Formatted logging
	log.Infof("Scored %d symbols", 487)
	log.Warnf("Retry attempt %d of %d", 3, 5)
}

// Example_withFields demonstrates structured logging with fields
func Example_withFields() {
	log := logger.New(logger.Config{
		Env:    "production",
		Level:  "info",
		Format: "json",
	})

	// Add single field
	jobLog := log.WithField("job", "daily_scan")
	jobLog.Info("Job started")

	// Add multiple fields
	pickLog := log.WithFields(map[string]interface{}{
		"symbol":    "600519",
		"name":      "贵州茅台",
		"composite": 72.5,
		"rank":      1,
	})
	pickLog.Info("Candidate selected")
}

// Example_withError demonstrates error logging
func Example_withError() {
	log := logger.New(logger.Config{
		Env:    "production",
		Level:  "error",
		Format: "json",
	})

	// Log with error
	err := errors.New("database connection timeout")
	log.WithError(err).Error("Failed to save candidates")

	// Combine error with fields
	log.WithError(err).
		WithFields(map[string]interface{}{
			"retry_count": 3,
			"timeout_ms":  5000,
		}).
		Error("Connection failed after retries")
}

// Example_environments demonstrates different log formats
func Example_environments() {
	// Development: Pretty console logs
	devLog := logger.New(logger.Config{
		Env:    "development",
		Level:  "debug",
		Format: "console",
	})
	devLog.Debug("Debugging screening flow")
	devLog.Info("Request received")

	// Production: JSON logs
	prodLog := logger.New(logger.Config{
		Env:    "production",
		Level:  "info",
		Format: "json",
	})
	prodLog.Info("Service started")
	prodLog.Warn("High memory usage detected")
}
