package factors

import (
	"math"

	"github.com/wonny/siphon/internal/contracts"
)

// =============================================================================
// Micro Momentum Factor
// =============================================================================

// MicroMomentum scores short-window alpha (0-25): up to 15 points from
// 3-day alpha at 2.0 per point, up to 10 from 5-day alpha at 1.5 per
// point. Negative alpha contributes nothing. The accelerating flag is
// true when 3-day alpha > 5-day alpha > 0.
func MicroMomentum(joined []contracts.JoinedBar) (float64, bool) {
	if len(joined) < 6 {
		return 0, false
	}

	stock3d := gainOver(joined, 3, func(j contracts.JoinedBar) float64 { return j.Stock.Close })
	stock5d := gainOver(joined, 5, func(j contracts.JoinedBar) float64 { return j.Stock.Close })
	idx3d := gainOver(joined, 3, func(j contracts.JoinedBar) float64 { return j.IndexClose })
	idx5d := gainOver(joined, 5, func(j contracts.JoinedBar) float64 { return j.IndexClose })

	alpha3d := stock3d - idx3d
	alpha5d := stock5d - idx5d

	score3d := math.Min(math.Max(alpha3d*2.0, 0), 15.0)
	score5d := math.Min(math.Max(alpha5d*1.5, 0), 10.0)

	score := math.Round((score3d+score5d)*10) / 10
	accelerating := alpha3d > alpha5d && alpha5d > 0
	return score, accelerating
}

func gainOver(joined []contracts.JoinedBar, days int, value func(contracts.JoinedBar) float64) float64 {
	if len(joined) <= days {
		return 0
	}
	base := value(joined[len(joined)-1-days])
	if base == 0 {
		return 0
	}
	return (value(joined[len(joined)-1])/base - 1) * 100
}
