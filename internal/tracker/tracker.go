package tracker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wonny/siphon/internal/contracts"
	"github.com/wonny/siphon/pkg/logger"
)

// Store is the persistence boundary for recommendations and their daily
// performance rows.
type Store interface {
	ActiveBySymbol(ctx context.Context, code string) (*contracts.Recommendation, error)
	Insert(ctx context.Context, rec *contracts.Recommendation) error
	Update(ctx context.Context, rec *contracts.Recommendation) error
	CloseRecommendation(ctx context.Context, recID int64) error

	Active(ctx context.Context) ([]contracts.Recommendation, error)
	ClosedWithin(ctx context.Context, days int) ([]contracts.Recommendation, error)

	UpsertPerformance(ctx context.Context, perf *contracts.DailyPerformance) error
	LatestPerformance(ctx context.Context, recID int64) (*contracts.DailyPerformance, error)
	PerformanceHistory(ctx context.Context, recID int64) ([]contracts.DailyPerformance, error)
}

// PriceSource resolves a symbol's latest close and daily change.
type PriceSource interface {
	LatestClose(ctx context.Context, symbol string) (close float64, changePct float64, err error)
}

// BenchmarkSource resolves the benchmark return for a symbol from the
// trading day before a reference date through today.
type BenchmarkSource interface {
	ReturnSince(ctx context.Context, symbol string, refDate time.Time) (float64, error)
}

// Tracker manages the recommendation lifecycle: dedup on entry, daily
// performance accrual, and window-based auto-close.
// ⭐ SSOT: position lifecycle state transitions live here only
type Tracker struct {
	store        Store
	trackingDays int
	logger       *logger.Logger
}

// New creates a tracker over the given store. trackingDays is the holding
// window after which positions auto-close.
func New(store Store, trackingDays int, logger *logger.Logger) *Tracker {
	return &Tracker{store: store, trackingDays: trackingDays, logger: logger}
}

// Track records a candidate pick. A symbol holds at most one open lineage:
// re-picking an already-tracked symbol updates score, price, tag, and
// industry in place and keeps the earliest entry date, never a second row.
func (t *Tracker) Track(ctx context.Context, cand contracts.Candidate, entryDate time.Time) error {
	existing, err := t.store.ActiveBySymbol(ctx, cand.Symbol)
	if err != nil {
		return fmt.Errorf("failed to look up open lineage for %s: %w", cand.Symbol, err)
	}

	if existing == nil {
		rec := &contracts.Recommendation{
			StockCode:   cand.Symbol,
			StockName:   cand.Name,
			RecDate:     entryDate,
			RecPrice:    cand.Price,
			StrategyTag: "siphon-" + cand.ScanDate.Format("2006-01"),
			SiphonScore: cand.CompositeScore,
			Industry:    cand.Industry,
			CoreLogic:   strings.Join(cand.SignalTags, " | "),
			Status:      contracts.StatusActive,
			CreatedAt:   time.Now(),
		}
		if err := t.store.Insert(ctx, rec); err != nil {
			return fmt.Errorf("failed to insert recommendation for %s: %w", cand.Symbol, err)
		}
		t.logger.WithFields(map[string]interface{}{
			"code":  cand.Symbol,
			"score": cand.CompositeScore,
		}).Info("New recommendation tracked")
		return nil
	}

	existing.SiphonScore = cand.CompositeScore
	existing.RecPrice = cand.Price
	existing.Industry = cand.Industry
	existing.CoreLogic = strings.Join(cand.SignalTags, " | ")
	if entryDate.Before(existing.RecDate) {
		existing.RecDate = entryDate
	}
	if err := t.store.Update(ctx, existing); err != nil {
		return fmt.Errorf("failed to refresh open lineage for %s: %w", cand.Symbol, err)
	}
	t.logger.WithField("code", cand.Symbol).Info("Open lineage refreshed, no duplicate created")
	return nil
}

// UpdateDailyPerformance accrues one performance row per active position
// for today. Positions past the holding window flip to Closed and get no
// further rows. A missing price falls back to the entry price and is
// flagged, never fatal.
func (t *Tracker) UpdateDailyPerformance(ctx context.Context, prices PriceSource, bench BenchmarkSource, today time.Time) error {
	active, err := t.store.Active(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active recommendations: %w", err)
	}

	for _, rec := range active {
		if rec.DaysHeld(today) > t.trackingDays {
			if err := t.store.CloseRecommendation(ctx, rec.ID); err != nil {
				return fmt.Errorf("failed to close %s: %w", rec.StockCode, err)
			}
			t.logger.WithFields(map[string]interface{}{
				"code": rec.StockCode,
				"days": rec.DaysHeld(today),
			}).Info("Holding window elapsed, position closed")
			continue
		}

		closePrice, dailyChg, err := prices.LatestClose(ctx, rec.StockCode)
		if err != nil || closePrice <= 0 {
			t.logger.WithFields(map[string]interface{}{
				"code":  rec.StockCode,
				"error": fmt.Sprint(err),
			}).Warn("Price unavailable, falling back to entry price")
			closePrice, dailyChg = rec.RecPrice, 0
		}

		cumReturn := 0.0
		if rec.RecPrice > 0 {
			cumReturn = (closePrice - rec.RecPrice) / rec.RecPrice * 100
		}

		maxHigh, maxDD := cumReturn, cumReturn
		if maxDD > 0 {
			maxDD = 0
		}
		if prev, err := t.store.LatestPerformance(ctx, rec.ID); err == nil && prev != nil {
			if prev.MaxHigh > maxHigh {
				maxHigh = prev.MaxHigh
			}
			if prev.MaxDrawdown < maxDD {
				maxDD = prev.MaxDrawdown
			}
		}

		indexReturn := 0.0
		if bench != nil {
			if r, err := bench.ReturnSince(ctx, rec.StockCode, rec.RecDate); err == nil {
				indexReturn = r
			} else {
				t.logger.WithField("code", rec.StockCode).Warn("Benchmark return unavailable")
			}
		}

		perf := &contracts.DailyPerformance{
			RecID:            rec.ID,
			TradeDate:        today,
			ClosePrice:       closePrice,
			DailyChangePct:   dailyChg,
			CumulativeReturn: cumReturn,
			MaxDrawdown:      maxDD,
			MaxHigh:          maxHigh,
			IndexReturn:      indexReturn,
		}
		if err := t.store.UpsertPerformance(ctx, perf); err != nil {
			return fmt.Errorf("failed to upsert performance for %s: %w", rec.StockCode, err)
		}
	}
	return nil
}

// Active returns the latest-performance-joined view of open positions,
// one row per symbol.
func (t *Tracker) Active(ctx context.Context) ([]contracts.TrackedPosition, error) {
	recs, err := t.store.Active(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active recommendations: %w", err)
	}
	return t.joinLatest(ctx, recs)
}

// Closed returns positions closed within the given number of days, one row
// per symbol, most recent lineage.
func (t *Tracker) Closed(ctx context.Context, withinDays int) ([]contracts.TrackedPosition, error) {
	recs, err := t.store.ClosedWithin(ctx, withinDays)
	if err != nil {
		return nil, fmt.Errorf("failed to list closed recommendations: %w", err)
	}
	return t.joinLatest(ctx, recs)
}

func (t *Tracker) joinLatest(ctx context.Context, recs []contracts.Recommendation) ([]contracts.TrackedPosition, error) {
	seen := make(map[string]bool, len(recs))
	out := make([]contracts.TrackedPosition, 0, len(recs))
	for _, rec := range recs {
		if seen[rec.StockCode] {
			continue
		}
		seen[rec.StockCode] = true

		pos := contracts.TrackedPosition{Recommendation: rec}
		if perf, err := t.store.LatestPerformance(ctx, rec.ID); err == nil && perf != nil {
			pos.LatestClose = perf.ClosePrice
			pos.LatestTradeDate = perf.TradeDate
			pos.CumulativeReturn = perf.CumulativeReturn
			pos.MaxDrawdown = perf.MaxDrawdown
			pos.MaxHigh = perf.MaxHigh
			pos.IndexReturn = perf.IndexReturn
			pos.HeldDays = rec.DaysHeld(perf.TradeDate)
		}
		out = append(out, pos)
	}
	return out, nil
}
