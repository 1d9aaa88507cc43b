package tracker

import (
	"context"
	"fmt"

	"github.com/wonny/siphon/internal/contracts"
)

// Tier buckets a closed lineage by its final return and drawdown.
func Tier(finalReturn, maxDrawdown float64) contracts.MetricTier {
	switch {
	case finalReturn < -5 || maxDrawdown < -8:
		return contracts.TierTrash
	case finalReturn > 15:
		return contracts.TierGold
	case finalReturn > 5:
		return contracts.TierSilver
	}
	return contracts.TierNone
}

// MetricsByStrategyTag aggregates the closed lineages of the last
// withinDays days into a scorecard per strategy tag.
func (t *Tracker) MetricsByStrategyTag(ctx context.Context, withinDays int) (map[string]contracts.StrategyMetrics, error) {
	closed, err := t.Closed(ctx, withinDays)
	if err != nil {
		return nil, fmt.Errorf("failed to load closed positions: %w", err)
	}

	out := make(map[string]contracts.StrategyMetrics)
	sums := make(map[string]*struct{ ret, excess float64 })

	for _, pos := range closed {
		m := out[pos.StrategyTag]
		s := sums[pos.StrategyTag]
		if s == nil {
			s = &struct{ ret, excess float64 }{}
			sums[pos.StrategyTag] = s
			m.BestReturn = pos.CumulativeReturn
			m.WorstReturn = pos.CumulativeReturn
		}

		m.Total++
		s.ret += pos.CumulativeReturn
		s.excess += pos.CumulativeReturn - pos.IndexReturn

		if pos.CumulativeReturn > 0 {
			m.WinCount++
		}
		switch Tier(pos.CumulativeReturn, pos.MaxDrawdown) {
		case contracts.TierGold:
			m.GoldCount++
		case contracts.TierSilver:
			m.SilverCount++
		case contracts.TierTrash:
			m.TrashCount++
		}
		if pos.CumulativeReturn > m.BestReturn {
			m.BestReturn = pos.CumulativeReturn
		}
		if pos.CumulativeReturn < m.WorstReturn {
			m.WorstReturn = pos.CumulativeReturn
		}
		out[pos.StrategyTag] = m
	}

	for tag, m := range out {
		if m.Total > 0 {
			m.WinRate = float64(m.WinCount) / float64(m.Total) * 100
			m.AvgReturn = sums[tag].ret / float64(m.Total)
			m.AvgExcess = sums[tag].excess / float64(m.Total)
		}
		out[tag] = m
	}
	return out, nil
}
