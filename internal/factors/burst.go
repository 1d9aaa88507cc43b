package factors

import "github.com/wonny/siphon/internal/contracts"

// =============================================================================
// Institutional Burst Factor
// =============================================================================

const burstScoreCap = 40.0

// BurstResult carries the burst score with the inputs the signal tags need.
type BurstResult struct {
	Score       float64
	VolumeRatio float64
	NearHigh    bool // close in the top 15% of the day's range
}

// InstitutionalBurst scores extreme volume anomalies with strong price
// action (0-40). Needs 11 bars; shorter history scores zero.
//
// Components: close near the day's high with exploding volume (15 or 8),
// a pocket pivot where today's up-volume tops every down-day volume of the
// trailing 10 days (15, or 5 for the milder volume-only form), and a flat
// 10-point bonus for membership in a hot sector.
func InstitutionalBurst(bars contracts.BarSeries, isHotSector bool) BurstResult {
	if len(bars) < 11 {
		return BurstResult{VolumeRatio: 1.0}
	}
	today, _ := bars.Last()
	ma5Vol := bars.AvgVolume(5, true)
	volRatio := 1.0
	if ma5Vol > 0 {
		volRatio = today.Volume / ma5Vol
	}

	score := 0.0

	// Close position in the day's range
	closePos := 1.0
	if r := today.High - today.Low; r > 0 {
		closePos = (today.Close - today.Low) / r
	}
	if closePos > 0.85 && volRatio >= 2.0 {
		score += 15.0
	} else if closePos > 0.70 && volRatio >= 1.5 {
		score += 8.0
	}

	// Pocket pivot: today's volume vs max down-day volume of last 10 days
	recent := bars[len(bars)-11 : len(bars)-1]
	maxDownVol := 0.0
	for _, b := range recent {
		if b.ChangePct < 0 && b.Volume > maxDownVol {
			maxDownVol = b.Volume
		}
	}
	if today.Volume > maxDownVol && today.ChangePct > 0 {
		score += 15.0
	} else if today.Volume > ma5Vol*1.5 && today.ChangePct > 0 {
		score += 5.0
	}

	if isHotSector {
		score += 10.0
	}

	if score > burstScoreCap {
		score = burstScoreCap
	}
	return BurstResult{Score: score, VolumeRatio: volRatio, NearHigh: closePos > 0.85}
}
