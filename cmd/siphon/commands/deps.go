package commands

import (
	"fmt"

	"github.com/wonny/siphon/internal/contracts"
	"github.com/wonny/siphon/internal/external/eastmoney"
	"github.com/wonny/siphon/internal/marketdata"
	"github.com/wonny/siphon/internal/pipeline"
	"github.com/wonny/siphon/internal/shield"
	"github.com/wonny/siphon/internal/strategy"
	"github.com/wonny/siphon/internal/tracker"
	"github.com/wonny/siphon/pkg/config"
	"github.com/wonny/siphon/pkg/database"
	"github.com/wonny/siphon/pkg/logger"
	"github.com/wonny/siphon/pkg/redis"
)

// app bundles the wired dependency graph shared by every subcommand.
type app struct {
	cfg        *config.Config
	log        *logger.Logger
	db         *database.DB
	rdb        *redis.Client
	pipe       *pipeline.Pipeline
	candidates *strategy.Repository
	tracker    *tracker.Tracker
}

// initApp builds the full dependency graph bottom-up. Every subcommand
// goes through here so the wiring stays in one place.
func initApp() (*app, error) {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if env != "" {
		cfg.Env = env
	}

	// 2. Initialize logger
	logCfg := logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Env: cfg.Env}
	if verbose {
		logCfg.Level = "debug"
	}
	log := logger.New(logCfg)

	// 3. Connect to database
	db, err := database.New(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	// 4. Connect to Redis (no-op client when disabled)
	rdb, err := redis.New(cfg.Redis)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	cache := redis.NewCache(rdb, "siphon")

	// 5. Market data: eastmoney client + cached service
	emClient := eastmoney.NewClient(cfg.Eastmoney, log)
	market := eastmoney.NewService(emClient, cache, cfg.Eastmoney, log)

	// 6. Strategy: scorer, selector, candidate repository
	strategyCfg := contracts.DefaultStrategyConfig()
	strategyCfg.Version = cfg.Strategy.Version
	strategyCfg.TopN = cfg.Strategy.TopN
	strategyCfg.TrackingDays = cfg.Strategy.TrackingDays
	scorer := strategy.NewWeightedScorer(contracts.DefaultWeightTable())
	selector := strategy.NewSelector(strategyCfg, scorer, log)
	candidates := strategy.NewRepository(db.Pool)

	// 7. Tracking and exit shield
	trk := tracker.New(tracker.NewRepository(db.Pool), cfg.Strategy.TrackingDays, log)
	shd := shield.New(contracts.DefaultShieldConfig(), log)
	bench := marketdata.NewBenchmarkService(market)

	// 8. Pipeline on top of everything
	pipe := pipeline.New(
		market,
		selector,
		candidates,
		trk,
		shd,
		bench,
		cfg.Eastmoney.HistoryDays,
		cfg.Eastmoney.MaxPoolScan,
		log,
	)

	return &app{
		cfg:        cfg,
		log:        log,
		db:         db,
		rdb:        rdb,
		pipe:       pipe,
		candidates: candidates,
		tracker:    trk,
	}, nil
}

// Close releases the app's connections.
func (a *app) Close() {
	if err := a.rdb.Close(); err != nil {
		a.log.WithError(err).Warn("Closing redis failed")
	}
	a.db.Close()
}
