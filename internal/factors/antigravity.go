package factors

import (
	"fmt"

	"github.com/wonny/siphon/internal/contracts"
)

// =============================================================================
// Antigravity / Resilience Factor
// ⭐ SSOT: the strategy's core edge, stocks that refuse to fall with the index
// =============================================================================

const (
	antigravityWindow   = 10
	indexDownThreshold  = -0.3
	resistMarginPct     = 1.5
	counterTrendPoints  = 2.0
	resistsPoints       = 1.0
	consecutiveBonus    = 1.0
	consecutiveMinCount = 2
)

// Antigravity scores resilience over the last 10 joined trading days.
// On each index-down day (index change below -0.3%): a positive stock change
// earns 2.0, a stock beating the index by more than 1.5 points earns 1.0,
// anything else resets the consecutive counter. Two or more consecutive
// qualifying days add a one-time +1.0 bonus. Zero means no measurable
// resilience in the window.
func Antigravity(joined []contracts.JoinedBar) (float64, []string) {
	if len(joined) == 0 {
		return 0, nil
	}
	window := joined
	if len(window) > antigravityWindow {
		window = window[len(window)-antigravityWindow:]
	}

	score := 0.0
	consecutive := 0
	var details []string

	for _, day := range window {
		if day.IndexChangePct >= indexDownThreshold {
			continue
		}
		stk := day.Stock.ChangePct
		switch {
		case stk > 0:
			score += counterTrendPoints
			consecutive++
			details = append(details, fmt.Sprintf("%s:逆势(Idx%.2f%%)", day.Date.Format("2006-01-02"), day.IndexChangePct))
		case stk > day.IndexChangePct+resistMarginPct:
			score += resistsPoints
			consecutive++
			details = append(details, fmt.Sprintf("%s:抗跌(Idx%.2f%%)", day.Date.Format("2006-01-02"), day.IndexChangePct))
		default:
			consecutive = 0
		}
	}

	if consecutive >= consecutiveMinCount {
		score += consecutiveBonus
		details = append(details, "连续抗跌")
	}
	return score, details
}
