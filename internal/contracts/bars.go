package contracts

import "time"

// =============================================================================
// Daily Bar Data
// ⭐ SSOT: all price history flows through these types
// =============================================================================

// Bar is one daily OHLCV bar for a single stock.
type Bar struct {
	Date      time.Time `json:"date"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
	ChangePct float64   `json:"change_pct"` // close-over-close vs prior bar; first bar is 0
}

// BarSeries is a stock's daily bars, ascending by date.
type BarSeries []Bar

// Len returns the number of bars.
func (s BarSeries) Len() int { return len(s) }

// Last returns the most recent bar. Second return is false on an empty series.
func (s BarSeries) Last() (Bar, bool) {
	if len(s) == 0 {
		return Bar{}, false
	}
	return s[len(s)-1], true
}

// Tail returns the last n bars (all bars when n >= len).
func (s BarSeries) Tail(n int) BarSeries {
	if n >= len(s) {
		return s
	}
	return s[len(s)-n:]
}

// FillChangePct recomputes ChangePct from consecutive closes.
// The first bar's change is 0 (undefined in the data model).
func (s BarSeries) FillChangePct() {
	for i := range s {
		if i == 0 || s[i-1].Close == 0 {
			s[i].ChangePct = 0
			continue
		}
		s[i].ChangePct = (s[i].Close - s[i-1].Close) / s[i-1].Close * 100
	}
}

// GainOverDays returns the percentage change of the close over the last n
// trading days ((close[t] / close[t-n] - 1) * 100). Returns 0 when the
// series is too short.
func (s BarSeries) GainOverDays(n int) float64 {
	if len(s) <= n || n <= 0 {
		return 0
	}
	base := s[len(s)-1-n].Close
	if base == 0 {
		return 0
	}
	return (s[len(s)-1].Close/base - 1) * 100
}

// AvgVolume returns the mean volume of the last n bars, optionally excluding
// the most recent bar (the usual "trailing average vs today" comparison).
func (s BarSeries) AvgVolume(n int, excludeLast bool) float64 {
	bars := s
	if excludeLast && len(bars) > 0 {
		bars = bars[:len(bars)-1]
	}
	bars = bars.Tail(n)
	if len(bars) == 0 {
		return 0
	}
	sum := 0.0
	for _, b := range bars {
		sum += b.Volume
	}
	return sum / float64(len(bars))
}

// =============================================================================
// Benchmark Index Data
// =============================================================================

// IndexBar is one daily close for a benchmark index.
type IndexBar struct {
	Date      time.Time `json:"date"`
	Close     float64   `json:"close"`
	ChangePct float64   `json:"index_change_pct"` // same close-over-close invariant as Bar
}

// IndexSeries is a benchmark index's daily bars, ascending by date.
type IndexSeries []IndexBar

// Len returns the number of index bars.
func (s IndexSeries) Len() int { return len(s) }

// Last returns the most recent index bar.
func (s IndexSeries) Last() (IndexBar, bool) {
	if len(s) == 0 {
		return IndexBar{}, false
	}
	return s[len(s)-1], true
}

// LastDate returns the date of the most recent index bar, the effective
// analysis date for a daily run.
func (s IndexSeries) LastDate() (time.Time, bool) {
	b, ok := s.Last()
	return b.Date, ok
}

// FillChangePct recomputes ChangePct from consecutive closes.
func (s IndexSeries) FillChangePct() {
	for i := range s {
		if i == 0 || s[i-1].Close == 0 {
			s[i].ChangePct = 0
			continue
		}
		s[i].ChangePct = (s[i].Close - s[i-1].Close) / s[i-1].Close * 100
	}
}

// =============================================================================
// Date Alignment
// =============================================================================

// JoinedBar pairs a stock bar with the same-day index change.
type JoinedBar struct {
	Date           time.Time
	Stock          Bar
	IndexClose     float64
	IndexChangePct float64
}

// Align inner-joins a stock series with an index series on date; dates absent
// in either series are dropped. Both inputs are ascending, so a single merge
// pass is enough.
func Align(stock BarSeries, index IndexSeries) []JoinedBar {
	joined := make([]JoinedBar, 0, len(stock))
	i, j := 0, 0
	for i < len(stock) && j < len(index) {
		sd, id := dateKey(stock[i].Date), dateKey(index[j].Date)
		switch {
		case sd == id:
			joined = append(joined, JoinedBar{
				Date:           stock[i].Date,
				Stock:          stock[i],
				IndexClose:     index[j].Close,
				IndexChangePct: index[j].ChangePct,
			})
			i++
			j++
		case sd < id:
			i++
		default:
			j++
		}
	}
	return joined
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
