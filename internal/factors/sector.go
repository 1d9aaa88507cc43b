package factors

import (
	"sort"

	"github.com/wonny/siphon/internal/contracts"
)

// =============================================================================
// Sector Momentum Factor
// =============================================================================

const sectorMinMembers = 3

// SectorMap holds the day's hot sectors and each member stock's change-rank
// percentile within its sector.
type SectorMap struct {
	HotSectors map[string]bool
	Rankings   map[string]float64 // symbol -> percentile rank within hot sector
}

// IsHot reports whether the given industry is a hot sector today.
func (m SectorMap) IsHot(industry string) bool {
	return m.HotSectors[industry]
}

// SectorMomentum groups the candidate pool by industry, ranks industries by
// mean daily change, and marks those whose percentile rank exceeds minRank
// as hot (0.4 keeps the top 60% of boards). Industries with fewer than 3
// members are skipped. Within each hot
// industry, members are percentile-ranked by their own change.
func SectorMomentum(pool []contracts.SpotQuote, minRank float64) SectorMap {
	m := SectorMap{HotSectors: map[string]bool{}, Rankings: map[string]float64{}}

	byIndustry := map[string][]contracts.SpotQuote{}
	for _, q := range pool {
		if q.Industry == "" {
			continue
		}
		byIndustry[q.Industry] = append(byIndustry[q.Industry], q)
	}

	type sectorStat struct {
		name string
		avg  float64
	}
	stats := make([]sectorStat, 0, len(byIndustry))
	for name, members := range byIndustry {
		if len(members) < sectorMinMembers {
			continue
		}
		sum := 0.0
		for _, q := range members {
			sum += q.ChangePct
		}
		stats = append(stats, sectorStat{name: name, avg: sum / float64(len(members))})
	}
	if len(stats) == 0 {
		return m
	}

	sort.Slice(stats, func(i, j int) bool { return stats[i].avg < stats[j].avg })
	for i, s := range stats {
		rank := float64(i+1) / float64(len(stats))
		if rank > minRank {
			m.HotSectors[s.name] = true
		}
	}

	for name := range m.HotSectors {
		members := byIndustry[name]
		sorted := make([]contracts.SpotQuote, len(members))
		copy(sorted, members)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].ChangePct < sorted[j].ChangePct })
		for i, q := range sorted {
			m.Rankings[q.Symbol] = float64(i+1) / float64(len(sorted))
		}
	}
	return m
}

// SectorLeaderScore rewards stocks leading their hot sector (0-10).
// Top 10% scores 10, top 30% scores 7, above median 4, trailing members 2.
// Stocks outside hot sectors score 0.
func SectorLeaderScore(symbol string, isHot bool, m SectorMap) float64 {
	if !isHot {
		return 0
	}
	rank, ok := m.Rankings[symbol]
	if !ok {
		rank = 0.5
	}
	switch {
	case rank >= 0.9:
		return 10
	case rank >= 0.7:
		return 7
	case rank >= 0.5:
		return 4
	}
	return 2
}
