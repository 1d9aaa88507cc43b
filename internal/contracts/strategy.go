package contracts

import "fmt"

// =============================================================================
// Strategy Configuration
// ⭐ SSOT: every tunable threshold in the pipeline lives here
// =============================================================================

// StrategyConfig holds the screening and factor thresholds for a daily scan.
type StrategyConfig struct {
	Version string `json:"version"`

	// Technical gates
	MaxDrop      float64 `json:"max_drop"`       // reject today's change below this
	MaxGain5D    float64 `json:"max_gain_5d"`    // reject 5-day gain above this (chasing)
	MaxRSI       float64 `json:"max_rsi"`        // reject RSI14 above this
	LimitUpPct   float64 `json:"limit_up_pct"`   // reject today's change above this
	MinAvgVolume float64 `json:"min_avg_volume"` // 5-day average volume floor, shares

	// Fundamental gates
	MinGrowth  float64 `json:"min_growth"`  // net profit YoY floor, percent
	HighGrowth float64 `json:"high_growth"` // growth above this skips the PEG gate
	MaxPEG     float64 `json:"max_peg"`

	// Liquidity band
	MinTurnover float64 `json:"min_turnover"`
	MaxTurnover float64 `json:"max_turnover"`

	// Factor thresholds
	MAPeriod          int     `json:"ma_period"`           // trend filter moving average
	VCPVolRatio       float64 `json:"vcp_vol_ratio"`       // contraction: yesterday vs 5-day avg
	VCPSteadyRatio    float64 `json:"vcp_steady_ratio"`    // breakout: today vs yesterday
	MinAGScore        float64 `json:"min_ag_score"`        // antigravity floor for selection
	MinComposite      float64 `json:"min_composite"`       // composite floor for selection
	SectorMomentumPct float64 `json:"sector_momentum_pct"` // top fraction of boards counted hot

	// Selection & tracking window
	TopN         int `json:"top_n"`
	TrackingDays int `json:"tracking_days"` // auto-close after this many calendar days
}

// DefaultStrategyConfig returns the tuned production thresholds.
func DefaultStrategyConfig() StrategyConfig {
	return StrategyConfig{
		Version:           "v10.0",
		MaxDrop:           -3.0,
		MaxGain5D:         25.0,
		MaxRSI:            80.0,
		LimitUpPct:        8.5,
		MinAvgVolume:      1_000_000,
		MinGrowth:         10.0,
		HighGrowth:        30.0,
		MaxPEG:            1.5,
		MinTurnover:       5.0,
		MaxTurnover:       35.0,
		MAPeriod:          50,
		VCPVolRatio:       0.6,
		VCPSteadyRatio:    1.5,
		MinAGScore:        2.0,
		MinComposite:      30.0,
		SectorMomentumPct: 0.4,
		TopN:              3,
		TrackingDays:      14,
	}
}

// Validate checks internal consistency of the thresholds.
func (c StrategyConfig) Validate() error {
	if c.TopN <= 0 {
		return fmt.Errorf("top_n must be positive, got %d", c.TopN)
	}
	if c.TrackingDays <= 0 {
		return fmt.Errorf("tracking_days must be positive, got %d", c.TrackingDays)
	}
	if c.MinTurnover >= c.MaxTurnover {
		return fmt.Errorf("turnover band invalid: [%.1f, %.1f]", c.MinTurnover, c.MaxTurnover)
	}
	if c.MAPeriod <= 0 {
		return fmt.Errorf("ma_period must be positive, got %d", c.MAPeriod)
	}
	if c.SectorMomentumPct <= 0 || c.SectorMomentumPct > 1 {
		return fmt.Errorf("sector_momentum_pct must be in (0, 1], got %.2f", c.SectorMomentumPct)
	}
	return nil
}

// WeightTable controls how per-factor scores combine into the composite.
// Swapping the table re-weights the strategy without touching factor code.
type WeightTable struct {
	Version          string  `json:"version"`
	Burst            float64 `json:"burst"`             // institutional burst, additive cap
	MicroMomentum    float64 `json:"micro_momentum"`    // additive cap
	AntigravityScale float64 `json:"antigravity_scale"` // multiplier on the raw AG score
	AntigravityCap   float64 `json:"antigravity_cap"`
	VCP              float64 `json:"vcp"` // additive cap
}

// DefaultWeightTable returns the production composite weights. The caps sum
// to 100 so a perfect candidate saturates the composite scale exactly.
func DefaultWeightTable() WeightTable {
	return WeightTable{
		Version:          "v10.0",
		Burst:            40,
		MicroMomentum:    25,
		AntigravityScale: 2,
		AntigravityCap:   20,
		VCP:              15,
	}
}

// =============================================================================
// Exit Shield Configuration
// =============================================================================

// ShieldConfig holds the exit ladder thresholds and risk score weights.
type ShieldConfig struct {
	StopLossPct     float64 `json:"stop_loss_pct"`     // hard stop, return at or below
	TakeProfitPct   float64 `json:"take_profit_pct"`   // hard take-profit, return at or above
	PeakProfitPct   float64 `json:"peak_profit_pct"`   // trailing: peak return at or above ...
	PeakDrawdownPct float64 `json:"peak_drawdown_pct"` // ... with giveback at or above this
	StagnantDays    int     `json:"stagnant_days"`     // held longer than this and going nowhere
	StagnantMaxRet  float64 `json:"stagnant_max_ret"`
	TimeoutDays     int     `json:"timeout_days"` // held longer than this and underwater
	MinBars         int     `json:"min_bars"`     // below this the technical checks abstain

	// Risk score weights
	MACDDeadCross int `json:"macd_dead_cross"`
	KDJDeadCross  int `json:"kdj_dead_cross"`
	BelowMA20     int `json:"below_ma20"`
	WarningScore  int `json:"warning_score"` // risk score at or above -> WARNING
	WeakScore     int `json:"weak_score"`    // risk score at or above -> WEAK
}

// DefaultShieldConfig returns the production exit thresholds.
func DefaultShieldConfig() ShieldConfig {
	return ShieldConfig{
		StopLossPct:     -7.0,
		TakeProfitPct:   20.0,
		PeakProfitPct:   15.0,
		PeakDrawdownPct: 5.0,
		StagnantDays:    10,
		StagnantMaxRet:  3.0,
		TimeoutDays:     5,
		MinBars:         30,
		MACDDeadCross:   30,
		KDJDeadCross:    20,
		BelowMA20:       25,
		WarningScore:    60,
		WeakScore:       50,
	}
}
