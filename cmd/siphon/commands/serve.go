package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/siphon/internal/api"
	"github.com/wonny/siphon/internal/api/handlers"
	"github.com/wonny/siphon/internal/scheduler"
	"github.com/wonny/siphon/internal/scheduler/jobs"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scheduler daemon and the REST API",
	Long: `Starts the long-running siphon process.

The process:
- schedules the morning scan and the after-close tracking run
- serves the REST API

Endpoints:
  GET  /health                 - Health check
  GET  /api/candidates/latest  - Latest pick list
  GET  /api/candidates?date=   - Pick list by scan date
  GET  /api/positions/active   - Open positions with shield verdicts
  GET  /api/positions/closed   - Recently closed positions
  GET  /api/metrics            - Strategy scorecards
  POST /api/scan/run           - Trigger a scan now
  GET  /api/jobs               - Scheduler job statistics

Example:
  go run ./cmd/siphon serve
  go run ./cmd/siphon serve --port 8090`,
	RunE: runServe,
}

var servePort string

func init() {
	rootCmd.AddCommand(serveCmd)

	// Flags
	serveCmd.Flags().StringVar(&servePort, "port", "", "API server port")
}

func runServe(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Siphon Server ===")

	a, err := initApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if servePort != "" {
		a.cfg.Port = servePort
	}

	a.log.WithFields(map[string]interface{}{
		"port": a.cfg.Port,
		"env":  a.cfg.Env,
	}).Info("Initializing server")

	// 1. Scheduler with the two daily jobs
	sched := scheduler.New(a.log)
	if err := sched.AddJob(jobs.NewScanJob(a.pipe, a.cfg.Strategy.ScanCron, a.log)); err != nil {
		return fmt.Errorf("register scan job: %w", err)
	}
	if err := sched.AddJob(jobs.NewTrackingJob(a.pipe, a.cfg.Strategy.TrackCron, a.log)); err != nil {
		return fmt.Errorf("register tracking job: %w", err)
	}

	// 2. Handlers and router
	candidateHandler := handlers.NewCandidateHandler(a.candidates, a.log)
	positionHandler := handlers.NewPositionHandler(a.tracker, a.pipe, a.log)
	scanHandler := handlers.NewScanHandler(a.pipe, sched, a.log)
	router := api.NewRouter(candidateHandler, positionHandler, scanHandler, a.log)

	// 3. HTTP server
	server := api.New(a.cfg, a.log, router)

	// 4. Start everything
	sched.Start()
	go func() {
		if err := server.Start(); err != nil {
			a.log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", a.cfg.Port)
	fmt.Println("\nScheduled jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Printf("  - %s\n", jobName)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	a.log.Info("Shutting down...")
	sched.Stop()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	a.log.Info("Server stopped")
	return nil
}
