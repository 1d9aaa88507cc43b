package factors

import "github.com/wonny/siphon/internal/contracts"

// =============================================================================
// Volume Explosion Factor
// =============================================================================

// VolumeExplosion scores today's volume against the trailing 5-day average
// (excluding today). Tiers: ratio >= 4.0 scores 5, >= 3.0 scores 4,
// >= 2.0 scores 3, >= 1.5 scores 2, >= 1.2 scores 1, else 0. A gain day
// with ratio >= 2.0 earns a +0.5 bonus, never past the top tier.
// Returns the score and the volume ratio.
func VolumeExplosion(bars contracts.BarSeries) (float64, float64) {
	if len(bars) < 6 {
		return 0, 0
	}
	today, _ := bars.Last()
	avg := bars.AvgVolume(5, true)
	if avg <= 0 {
		return 0, 0
	}
	ratio := today.Volume / avg

	var score float64
	switch {
	case ratio >= 4.0:
		score = 5
	case ratio >= 3.0:
		score = 4
	case ratio >= 2.0:
		score = 3
	case ratio >= 1.5:
		score = 2
	case ratio >= 1.2:
		score = 1
	}
	if score > 0 && ratio >= 2.0 && today.ChangePct > 0 {
		score += 0.5
		if score > 5 {
			score = 5
		}
	}
	return score, ratio
}
