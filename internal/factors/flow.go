package factors

import "github.com/wonny/siphon/internal/contracts"

// =============================================================================
// Institutional Flow Proxy
// =============================================================================

const (
	flowWindow       = 10
	flowRatioStrong  = 1.5
	flowRatioMild    = 1.2
	flowFlatRangePct = 3.0
	flowVolDropRatio = 0.7
	flowScoreCap     = 5.0
)

// InstitutionalFlow estimates quiet accumulation over the last 10 bars from
// volume asymmetry. Up-day vs down-day average volume ratio above 1.5 scores
// 2, above 1.2 scores 1. A "rising floor" (3-day rolling close minimum
// strictly increasing across three successive blocks) adds 2. Flat price
// with volume drying up by 30% or more adds 1. The sum is capped at 5.
func InstitutionalFlow(bars contracts.BarSeries) (float64, []string) {
	if len(bars) < flowWindow {
		return 0, nil
	}
	window := bars.Tail(flowWindow)

	score := 0.0
	var details []string

	// Up-day vs down-day volume asymmetry
	var upVol, downVol float64
	var upDays, downDays int
	for _, b := range window {
		if b.ChangePct > 0 {
			upVol += b.Volume
			upDays++
		} else if b.ChangePct < 0 {
			downVol += b.Volume
			downDays++
		}
	}
	if upDays > 0 && downDays > 0 {
		ratio := (upVol / float64(upDays)) / (downVol / float64(downDays))
		switch {
		case ratio > flowRatioStrong:
			score += 2
			details = append(details, "放量上攻")
		case ratio > flowRatioMild:
			score += 1
			details = append(details, "量能偏多")
		}
	}

	if hasRisingFloor(window) {
		score += 2
		details = append(details, "底部抬高")
	}

	if hasQuietDivergence(window) {
		score += 1
		details = append(details, "缩量横盘")
	}

	if score > flowScoreCap {
		score = flowScoreCap
	}
	return score, details
}

// hasRisingFloor checks that the minimum close of each successive 3-day
// block strictly increases across the last three blocks.
func hasRisingFloor(window contracts.BarSeries) bool {
	if len(window) < 9 {
		return false
	}
	tail := window.Tail(9)
	minClose := func(bars contracts.BarSeries) float64 {
		lo := bars[0].Close
		for _, b := range bars[1:] {
			if b.Close < lo {
				lo = b.Close
			}
		}
		return lo
	}
	m1 := minClose(tail[0:3])
	m2 := minClose(tail[3:6])
	m3 := minClose(tail[6:9])
	return m3 > m2 && m2 > m1
}

// hasQuietDivergence checks for a flat price range with trailing volume at
// least 30% below leading volume, the classic dry-up before a move.
func hasQuietDivergence(window contracts.BarSeries) bool {
	if len(window) < flowWindow {
		return false
	}
	lo, hi := window[0].Close, window[0].Close
	for _, b := range window[1:] {
		if b.Close < lo {
			lo = b.Close
		}
		if b.Close > hi {
			hi = b.Close
		}
	}
	if lo == 0 || (hi-lo)/lo*100 >= flowFlatRangePct {
		return false
	}
	half := len(window) / 2
	var leading, trailing float64
	for _, b := range window[:half] {
		leading += b.Volume
	}
	for _, b := range window[half:] {
		trailing += b.Volume
	}
	if leading == 0 {
		return false
	}
	return trailing/leading <= flowVolDropRatio
}
