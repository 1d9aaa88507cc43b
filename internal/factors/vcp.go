package factors

import "github.com/wonny/siphon/internal/contracts"

// =============================================================================
// VCP / Squeeze Breakout Factor
// =============================================================================

// VCPBreakout scores the slingshot pattern (0-15): yesterday's volume in
// extreme contraction below 60% of its own trailing 5-day average, then
// today exploding. Today above 2x yesterday on a >2% gain scores 15; above
// 1.5x on any gain scores 8. The bool reports the full-strength pattern.
func VCPBreakout(bars contracts.BarSeries, cfg contracts.StrategyConfig) (float64, bool) {
	if len(bars) < 7 {
		return 0, false
	}
	today, _ := bars.Last()
	yesterday := bars[len(bars)-2]

	// 5-day average ending the day before yesterday
	prev5 := bars[len(bars)-7 : len(bars)-2]
	sum := 0.0
	for _, b := range prev5 {
		sum += b.Volume
	}
	ma5Prev := sum / float64(len(prev5))

	if ma5Prev <= 0 || yesterday.Volume >= ma5Prev*cfg.VCPVolRatio {
		return 0, false
	}
	switch {
	case today.Volume > yesterday.Volume*2.0 && today.ChangePct > 2.0:
		return 15.0, true
	case today.Volume > yesterday.Volume*cfg.VCPSteadyRatio && today.ChangePct > 0:
		return 8.0, false
	}
	return 0, false
}
