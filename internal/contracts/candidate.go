package contracts

import "time"

// =============================================================================
// Market Snapshot & Candidates
// =============================================================================

// SpotQuote is one row of the real-time market snapshot, the raw material the
// screening gates run on before any history is fetched.
type SpotQuote struct {
	Symbol       string  `json:"symbol"`        // 6-digit code, e.g. "600519"
	Name         string  `json:"name"`
	Industry     string  `json:"industry"`      // sector/industry board name
	Price        float64 `json:"price"`         // latest price
	ChangePct    float64 `json:"change_pct"`    // today's change vs prior close
	VolumeRatio  float64 `json:"volume_ratio"`  // today's volume vs 5-day average
	TurnoverRate float64 `json:"turnover_rate"` // percent of float traded today
	PETTM        float64 `json:"pe_ttm"`        // trailing P/E; <= 0 means loss-making or missing
	MarketCap    float64 `json:"market_cap"`    // total market cap in CNY
	GrowthRate   float64 `json:"growth_rate"`   // net profit YoY growth, percent
}

// IsLossMaking reports whether the trailing P/E indicates no positive earnings.
func (q SpotQuote) IsLossMaking() bool { return q.PETTM <= 0 }

// PEG returns P/E over growth. Zero when growth is non-positive, in which
// case the PEG gate does not apply.
func (q SpotQuote) PEG() float64 {
	if q.GrowthRate <= 0 {
		return 0
	}
	return q.PETTM / q.GrowthRate
}

// BoardQuote is one industry board's day summary from the exchange-side
// board ranking, strongest board first.
type BoardQuote struct {
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	ChangePct float64 `json:"change_pct"`
}

// Candidate is a stock that passed all screening gates, with its factor
// breakdown attached. The final pick list is the top slice of these after
// composite ranking.
type Candidate struct {
	Symbol         string             `json:"symbol"`
	Name           string             `json:"name"`
	Industry       string             `json:"industry"`
	Price          float64            `json:"price"`
	ChangePct      float64            `json:"change_pct"`
	VolumeRatio    float64            `json:"volume_ratio"`
	TurnoverRate   float64            `json:"turnover_rate"`
	GrowthRate     float64            `json:"growth_rate"`
	FactorScores   map[string]float64 `json:"factor_scores"`   // per-factor raw scores
	CompositeScore float64            `json:"composite_score"` // [0, 100]
	SignalTags     []string           `json:"signal_tags"`     // human-readable signal markers
	ScanDate       time.Time          `json:"scan_date"`
}

// Factor score map keys. Every FactorScores map uses exactly these keys so
// downstream reporting never has to guess.
const (
	FactorAntigravity   = "antigravity"
	FactorMicroMomentum = "micro_momentum"
	FactorInstFlow      = "institutional_flow"
	FactorVolume        = "volume_explosion"
	FactorVCP           = "vcp_breakout"
	FactorSector        = "sector_momentum"
	FactorBurst         = "institutional_burst"
)

// Score returns the named factor score, 0 when absent.
func (c Candidate) Score(factor string) float64 {
	if c.FactorScores == nil {
		return 0
	}
	return c.FactorScores[factor]
}
