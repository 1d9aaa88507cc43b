package marketdata

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wonny/siphon/internal/contracts"
)

// =============================================================================
// Benchmark Resolution
// ⭐ SSOT: symbol-to-index mapping lives here only
// =============================================================================

// Benchmark index codes.
const (
	IndexSHComposite = "sh000001" // Shanghai main board
	IndexSZComponent = "sz399001" // Shenzhen main board
	IndexChiNext     = "sz399006" // ChiNext
	IndexSTAR        = "sh000688" // STAR market
)

// BenchmarkIndex resolves a stock's benchmark index by its listing-board
// prefix. Unknown prefixes default to the Shanghai composite.
func BenchmarkIndex(symbol string) string {
	switch {
	case strings.HasPrefix(symbol, "688"):
		return IndexSTAR
	case strings.HasPrefix(symbol, "300"), strings.HasPrefix(symbol, "301"):
		return IndexChiNext
	case strings.HasPrefix(symbol, "6"):
		return IndexSHComposite
	case strings.HasPrefix(symbol, "0"), strings.HasPrefix(symbol, "3"):
		return IndexSZComponent
	}
	return IndexSHComposite
}

// IndexSource supplies benchmark index history.
type IndexSource interface {
	IndexHistory(ctx context.Context, indexCode string, days int) (contracts.IndexSeries, error)
}

// BenchmarkService computes benchmark-relative returns for tracked
// positions. It applies the prior-close base rule uniformly: the return
// from a reference date is measured against the close of the trading day
// BEFORE that date, never the reference date's own close, so a pick made
// on day T captures the index's full move from T onward.
type BenchmarkService struct {
	source IndexSource
	window int // history days fetched per index
}

// NewBenchmarkService creates a benchmark service over the given source.
func NewBenchmarkService(source IndexSource) *BenchmarkService {
	return &BenchmarkService{source: source, window: 60}
}

// ReturnSince returns the symbol's benchmark index return from the trading
// day before refDate through the latest available close.
func (s *BenchmarkService) ReturnSince(ctx context.Context, symbol string, refDate time.Time) (float64, error) {
	indexCode := BenchmarkIndex(symbol)
	series, err := s.source.IndexHistory(ctx, indexCode, s.window)
	if err != nil {
		return 0, fmt.Errorf("failed to load %s history: %w", indexCode, err)
	}
	if len(series) == 0 {
		return 0, fmt.Errorf("no data for benchmark %s", indexCode)
	}

	current, _ := series.Last()
	base := priorClose(series, refDate)
	if base == 0 {
		return 0, fmt.Errorf("no base close before %s for %s", refDate.Format("2006-01-02"), indexCode)
	}
	return (current.Close - base) / base * 100, nil
}

// priorClose finds the close of the last trading day strictly before
// refDate. When refDate is the series' first day there is no prior bar and
// that day's own close stands in.
func priorClose(series contracts.IndexSeries, refDate time.Time) float64 {
	ref := refDate.Format("2006-01-02")
	prior := 0.0
	for _, bar := range series {
		d := bar.Date.Format("2006-01-02")
		if d >= ref {
			break
		}
		prior = bar.Close
	}
	if prior == 0 {
		return series[0].Close
	}
	return prior
}
