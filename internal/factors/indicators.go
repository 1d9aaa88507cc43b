package factors

import "github.com/wonny/siphon/internal/contracts"

// =============================================================================
// Technical Indicators
// =============================================================================

// SMA returns the simple moving average of the last period closes.
// Returns 0 when the series is shorter than period.
func SMA(bars contracts.BarSeries, period int) float64 {
	if period <= 0 || len(bars) < period {
		return 0
	}
	sum := 0.0
	for _, b := range bars.Tail(period) {
		sum += b.Close
	}
	return sum / float64(period)
}

// ema computes an exponential moving average series with the standard
// smoothing factor 2/(period+1), seeded from the first value.
func ema(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	k := 2.0 / float64(period+1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = values[i]*k + out[i-1]*(1-k)
	}
	return out
}

// RSI14 returns the 14-period RSI of the closes, using simple rolling means
// of gains and losses. Returns 0 when there is not enough history and 100
// when the window has no losses at all.
func RSI14(bars contracts.BarSeries) float64 {
	const period = 14
	if len(bars) < period+1 {
		return 0
	}
	gains, losses := 0.0, 0.0
	for i := len(bars) - period; i < len(bars); i++ {
		delta := bars[i].Close - bars[i-1].Close
		if delta > 0 {
			gains += delta
		} else {
			losses -= delta
		}
	}
	if losses == 0 {
		return 100
	}
	rs := gains / losses
	return 100 - 100/(1+rs)
}

// MACDResult holds the last two points of the DIF/DEA pair so callers can
// detect crosses without recomputing the series.
type MACDResult struct {
	DIF     float64
	DEA     float64
	Hist    float64 // 2 * (DIF - DEA)
	PrevDIF float64
	PrevDEA float64
}

// DeadCross reports whether DIF crossed below DEA on the latest bar.
func (m MACDResult) DeadCross() bool {
	return m.PrevDIF >= m.PrevDEA && m.DIF < m.DEA
}

// MACD computes the 12/26/9 EMA-based MACD over the closes. Second return
// is false when there are fewer than 27 bars.
func MACD(bars contracts.BarSeries) (MACDResult, bool) {
	if len(bars) < 27 {
		return MACDResult{}, false
	}
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	ema12 := ema(closes, 12)
	ema26 := ema(closes, 26)
	dif := make([]float64, len(closes))
	for i := range closes {
		dif[i] = ema12[i] - ema26[i]
	}
	dea := ema(dif, 9)
	n := len(closes) - 1
	return MACDResult{
		DIF:     dif[n],
		DEA:     dea[n],
		Hist:    2 * (dif[n] - dea[n]),
		PrevDIF: dif[n-1],
		PrevDEA: dea[n-1],
	}, true
}

// KDJResult holds the last two K/D points plus J for cross detection.
type KDJResult struct {
	K     float64
	D     float64
	J     float64
	PrevK float64
	PrevD float64
}

// HighDeadCross reports a dead cross from the overbought zone: prior %K
// above 80 and %K crossing below %D on the latest bar.
func (k KDJResult) HighDeadCross() bool {
	return k.PrevK > 80 && k.PrevK >= k.PrevD && k.K < k.D
}

// KDJ computes the 9-period KDJ with K and D smoothed as EWMs (com=2,
// i.e. alpha=1/3), the convention A-share chart packages use. Second return
// is false when there are fewer than 10 bars.
func KDJ(bars contracts.BarSeries) (KDJResult, bool) {
	const period = 9
	if len(bars) < period+1 {
		return KDJResult{}, false
	}
	rsv := make([]float64, 0, len(bars)-period+1)
	for i := period - 1; i < len(bars); i++ {
		lo, hi := bars[i-period+1].Low, bars[i-period+1].High
		for j := i - period + 2; j <= i; j++ {
			if bars[j].Low < lo {
				lo = bars[j].Low
			}
			if bars[j].High > hi {
				hi = bars[j].High
			}
		}
		if hi == lo {
			rsv = append(rsv, 50)
			continue
		}
		rsv = append(rsv, (bars[i].Close-lo)/(hi-lo)*100)
	}
	// alpha = 1/(1+com) with com=2
	const alpha = 1.0 / 3.0
	k := make([]float64, len(rsv))
	k[0] = rsv[0]
	for i := 1; i < len(rsv); i++ {
		k[i] = alpha*rsv[i] + (1-alpha)*k[i-1]
	}
	d := make([]float64, len(k))
	d[0] = k[0]
	for i := 1; i < len(k); i++ {
		d[i] = alpha*k[i] + (1-alpha)*d[i-1]
	}
	n := len(k) - 1
	res := KDJResult{
		K: k[n],
		D: d[n],
		J: 3*k[n] - 2*d[n],
	}
	if n > 0 {
		res.PrevK, res.PrevD = k[n-1], d[n-1]
	}
	return res, true
}
