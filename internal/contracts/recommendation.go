package contracts

import "time"

// =============================================================================
// Position Tracking Records
// ⭐ SSOT: the tracker's persistence schema mirrors these types 1:1
// =============================================================================

// RecommendationStatus is the lifecycle state of a tracked recommendation.
type RecommendationStatus string

const (
	StatusActive RecommendationStatus = "ACTIVE"
	StatusClosed RecommendationStatus = "CLOSED"
)

// Recommendation is one picked stock entering the tracking window. A symbol
// has at most one ACTIVE recommendation at a time; re-picks while a lineage
// is open are deduplicated keeping the earliest entry date.
type Recommendation struct {
	ID          int64                `json:"id"`
	StockCode   string               `json:"stock_code"`
	StockName   string               `json:"stock_name"`
	RecDate     time.Time            `json:"rec_date"`   // entry date
	RecPrice    float64              `json:"rec_price"`  // entry reference price
	StrategyTag string               `json:"strategy_tag"`
	SiphonScore float64              `json:"siphon_score"` // composite at pick time
	Industry    string               `json:"industry"`
	CoreLogic   string               `json:"core_logic"` // joined signal tags at pick time
	Status      RecommendationStatus `json:"status"`
	CreatedAt   time.Time            `json:"created_at"`
}

// DaysHeld returns the number of calendar days between the entry date and
// the given trade date, inclusive of neither end's time component.
func (r Recommendation) DaysHeld(tradeDate time.Time) int {
	return int(tradeDate.Truncate(24*time.Hour).Sub(r.RecDate.Truncate(24*time.Hour)).Hours() / 24)
}

// DailyPerformance is one (recommendation, trade date) performance row.
// Upserts on the (RecID, TradeDate) pair are idempotent.
type DailyPerformance struct {
	ID               int64     `json:"id"`
	RecID            int64     `json:"rec_id"`
	TradeDate        time.Time `json:"trade_date"`
	ClosePrice       float64   `json:"close_price"`
	DailyChangePct   float64   `json:"daily_change_pct"`
	CumulativeReturn float64   `json:"cumulative_return"` // vs rec_price, percent
	MaxDrawdown      float64   `json:"max_drawdown"`      // worst cumulative return so far, percent, <= 0
	MaxHigh          float64   `json:"max_high"`          // best cumulative return so far, percent (not a price level)
	IndexReturn      float64   `json:"index_return"`      // benchmark cumulative return, same window
}

// ExcessReturn is the position's cumulative return minus its benchmark's.
func (p DailyPerformance) ExcessReturn() float64 {
	return p.CumulativeReturn - p.IndexReturn
}

// TrackedPosition is the joined view of a recommendation and its latest
// performance row, the unit the exit shield and the report surface consume.
type TrackedPosition struct {
	Recommendation
	LatestClose      float64   `json:"latest_close"`
	LatestTradeDate  time.Time `json:"latest_trade_date"`
	CumulativeReturn float64   `json:"cumulative_return"`
	MaxDrawdown      float64   `json:"max_drawdown"`
	MaxHigh          float64   `json:"max_high"` // best cumulative return, percent; feeds the trailing stop
	IndexReturn      float64   `json:"index_return"`
	HeldDays         int       `json:"held_days"`
}

// =============================================================================
// Strategy Quality Metrics
// =============================================================================

// MetricTier buckets a closed lineage by its final return profile.
type MetricTier string

const (
	TierGold   MetricTier = "GOLD"   // final return > 15%
	TierSilver MetricTier = "SILVER" // final return > 5%
	TierTrash  MetricTier = "TRASH"  // final return < -5% or drawdown < -8%
	TierNone   MetricTier = "NONE"
)

// StrategyMetrics is the aggregate scorecard over a set of closed lineages.
type StrategyMetrics struct {
	Total       int     `json:"total"`
	GoldCount   int     `json:"gold_count"`
	SilverCount int     `json:"silver_count"`
	TrashCount  int     `json:"trash_count"`
	WinCount    int     `json:"win_count"` // final return > 0
	WinRate     float64 `json:"win_rate"`  // percent
	AvgReturn   float64 `json:"avg_return"`
	AvgExcess   float64 `json:"avg_excess"` // vs benchmark
	BestReturn  float64 `json:"best_return"`
	WorstReturn float64 `json:"worst_return"`
}
