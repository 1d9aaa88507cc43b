package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: all environment variables are read here only
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Market data provider
	Eastmoney EastmoneyConfig

	// Strategy
	Strategy StrategySettings

	// Logging
	LogLevel  string
	LogFormat string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	URL      string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// EastmoneyConfig holds the data provider configuration
type EastmoneyConfig struct {
	QuoteBaseURL string // push2 quote endpoints
	HistBaseURL  string // push2his kline endpoints
	DataBaseURL  string // datacenter report endpoints (earnings growth)
	BoardHTMLURL string // board ranking HTML fallback
	RequestsPerS float64
	HistoryDays  int           // trailing bars fetched per symbol
	CacheTTL     time.Duration // redis cache TTL for bar series
	SpotCacheTTL time.Duration // redis cache TTL for the spot snapshot
	MaxPoolScan  int           // cap on symbols scored per run
}

// StrategySettings holds the per-run strategy knobs that come from the
// environment. Scoring thresholds live in contracts.StrategyConfig.
type StrategySettings struct {
	Version      string
	TopN         int
	TrackingDays int
	ScanCron     string // morning screening run
	TrackCron    string // after-close tracking run
}

// Load reads configuration from environment variables
// ⭐ SSOT: only this function calls os.Getenv()
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8090"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			Name:            getEnv("DB_NAME", "siphon"),
			User:            getEnv("DB_USER", "siphon"),
			Password:        getEnv("DB_PASSWORD", ""),
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
		},

		// Market data provider
		Eastmoney: EastmoneyConfig{
			QuoteBaseURL: getEnv("EASTMONEY_QUOTE_URL", "https://push2.eastmoney.com"),
			HistBaseURL:  getEnv("EASTMONEY_HIST_URL", "https://push2his.eastmoney.com"),
			DataBaseURL:  getEnv("EASTMONEY_DATA_URL", "https://datacenter-web.eastmoney.com"),
			BoardHTMLURL: getEnv("BOARD_HTML_URL", "https://q.10jqka.com.cn/thshy/"),
			RequestsPerS: getEnvAsFloat("EASTMONEY_RPS", 5),
			HistoryDays:  getEnvAsInt("EASTMONEY_HISTORY_DAYS", 60),
			CacheTTL:     getEnvAsDuration("EASTMONEY_CACHE_TTL", "4h"),
			SpotCacheTTL: getEnvAsDuration("EASTMONEY_SPOT_CACHE_TTL", "5m"),
			MaxPoolScan:  getEnvAsInt("EASTMONEY_MAX_POOL_SCAN", 500),
		},

		// Strategy
		Strategy: StrategySettings{
			Version:      getEnv("STRATEGY_VERSION", "v10.0"),
			TopN:         getEnvAsInt("STRATEGY_TOP_N", 3),
			TrackingDays: getEnvAsInt("STRATEGY_TRACKING_DAYS", 14),
			ScanCron:     getEnv("SCAN_CRON", "0 35 9 * * 1-5"),
			TrackCron:    getEnv("TRACK_CRON", "0 30 15 * * 1-5"),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	// Database URL is required
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	// Validate environment
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Strategy.TopN <= 0 {
		return fmt.Errorf("STRATEGY_TOP_N must be positive")
	}
	if c.Strategy.TrackingDays <= 0 {
		return fmt.Errorf("STRATEGY_TRACKING_DAYS must be positive")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	// Try paths in order of priority
	paths := []string{
		".env", // Current directory
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
			filepath.Join(exeDir, "..", "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
