package strategy

import (
	"math"

	"github.com/wonny/siphon/internal/contracts"
)

// Scorer folds a candidate's factor scores into one composite in [0, 100].
// Implementations are swapped per strategy version; weight tables are data,
// not code.
type Scorer interface {
	Version() string
	Composite(scores map[string]float64) float64
}

// WeightedScorer implements Scorer with a versioned weight table.
// ⭐ SSOT: composite scoring math lives here only
type WeightedScorer struct {
	table contracts.WeightTable
}

// NewWeightedScorer creates a scorer over the given weight table.
func NewWeightedScorer(table contracts.WeightTable) *WeightedScorer {
	return &WeightedScorer{table: table}
}

// Version returns the weight table version identifier.
func (s *WeightedScorer) Version() string { return s.table.Version }

// Composite combines the factor scores: institutional burst capped at its
// weight, micro momentum capped at its weight, antigravity scaled then
// capped, VCP capped, with the sum clamped to [0, 100].
func (s *WeightedScorer) Composite(scores map[string]float64) float64 {
	get := func(key string) float64 { return scores[key] }

	total := 0.0
	total += math.Min(get(contracts.FactorBurst), s.table.Burst)
	total += math.Min(get(contracts.FactorMicroMomentum), s.table.MicroMomentum)
	total += math.Min(get(contracts.FactorAntigravity)*s.table.AntigravityScale, s.table.AntigravityCap)
	total += math.Min(get(contracts.FactorVCP), s.table.VCP)

	if total < 0 {
		total = 0
	}
	if total > 100 {
		total = 100
	}
	return math.Round(total*10) / 10
}
