package marketdata

import (
	"context"

	"github.com/wonny/siphon/internal/contracts"
)

// Provider is the full market-data surface the pipeline consumes. The
// eastmoney client implements it; tests use in-memory fakes.
type Provider interface {
	// Spot returns the day's full market snapshot.
	Spot(ctx context.Context) ([]contracts.SpotQuote, error)
	// History returns a symbol's trailing daily bars, ascending by date.
	History(ctx context.Context, symbol string, days int) (contracts.BarSeries, error)
	// IndexHistory returns a benchmark index's trailing daily bars.
	IndexHistory(ctx context.Context, indexCode string, days int) (contracts.IndexSeries, error)
	// LatestClose returns a symbol's latest close and daily change.
	LatestClose(ctx context.Context, symbol string) (float64, float64, error)
	// BoardRanking returns the industry board ranking, strongest first.
	BoardRanking(ctx context.Context) ([]contracts.BoardQuote, error)
}
