package tracker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wonny/siphon/internal/contracts"
	"github.com/wonny/siphon/pkg/logger"
)

type fixedPrices map[string][2]float64 // symbol -> {close, change}

func (p fixedPrices) LatestClose(_ context.Context, symbol string) (float64, float64, error) {
	v, ok := p[symbol]
	if !ok {
		return 0, 0, errors.New("no quote")
	}
	return v[0], v[1], nil
}

type fixedBench float64

func (b fixedBench) ReturnSince(context.Context, string, time.Time) (float64, error) {
	return float64(b), nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: "console"})
}

func candidate(symbol string, price, score float64, scanDate time.Time) contracts.Candidate {
	return contracts.Candidate{
		Symbol: symbol, Name: "测试" + symbol, Industry: "半导体",
		Price: price, CompositeScore: score,
		SignalTags: []string{"放量冲高(2.5x)"},
		ScanDate:   scanDate,
	}
}

func date(d int) time.Time {
	return time.Date(2026, 8, d, 0, 0, 0, 0, time.UTC)
}

func daysAgo(n int) time.Time {
	return time.Now().AddDate(0, 0, -n)
}

func TestTrackDedupKeepsOneLineage(t *testing.T) {
	store := NewMemoryStore()
	tr := New(store, 14, testLogger())
	ctx := context.Background()

	require.NoError(t, tr.Track(ctx, candidate("600001", 10.0, 55, date(10)), date(10)))
	require.NoError(t, tr.Track(ctx, candidate("600001", 11.0, 62, date(12)), date(12)))

	active, err := store.Active(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1, "re-picking an open symbol must not create a second row")

	rec := active[0]
	assert.Equal(t, 62.0, rec.SiphonScore, "score refreshed in place")
	assert.Equal(t, 11.0, rec.RecPrice, "price refreshed in place")
	assert.True(t, rec.RecDate.Equal(date(10)), "entry date keeps the earliest selection")
}

func TestTrackDedupAdoptsEarlierEntryDate(t *testing.T) {
	store := NewMemoryStore()
	tr := New(store, 14, testLogger())
	ctx := context.Background()

	require.NoError(t, tr.Track(ctx, candidate("600001", 10.0, 55, date(12)), date(12)))
	require.NoError(t, tr.Track(ctx, candidate("600001", 10.5, 58, date(10)), date(10)))

	active, _ := store.Active(ctx)
	require.Len(t, active, 1)
	assert.True(t, active[0].RecDate.Equal(date(10)), "backfilled earlier date is adopted")
}

func TestUpdateDailyPerformanceIdempotent(t *testing.T) {
	store := NewMemoryStore()
	tr := New(store, 14, testLogger())
	ctx := context.Background()

	require.NoError(t, tr.Track(ctx, candidate("600001", 10.0, 55, date(10)), date(10)))
	prices := fixedPrices{"600001": {11.0, 2.0}}

	require.NoError(t, tr.UpdateDailyPerformance(ctx, prices, fixedBench(1.5), date(12)))
	require.NoError(t, tr.UpdateDailyPerformance(ctx, prices, fixedBench(1.5), date(12)))

	active, _ := store.Active(ctx)
	history, err := store.PerformanceHistory(ctx, active[0].ID)
	require.NoError(t, err)
	require.Len(t, history, 1, "same trade date upserts into one row")

	row := history[0]
	assert.InDelta(t, 10.0, row.CumulativeReturn, 1e-9)
	assert.InDelta(t, 1.5, row.IndexReturn, 1e-9)
	assert.InDelta(t, 10.0, row.MaxHigh, 1e-9)
	assert.InDelta(t, 0.0, row.MaxDrawdown, 1e-9)
}

func TestUpdateDailyPerformanceTracksPeaks(t *testing.T) {
	store := NewMemoryStore()
	tr := New(store, 14, testLogger())
	ctx := context.Background()

	require.NoError(t, tr.Track(ctx, candidate("600001", 10.0, 55, date(10)), date(10)))

	require.NoError(t, tr.UpdateDailyPerformance(ctx, fixedPrices{"600001": {12.0, 5.0}}, nil, date(11)))
	require.NoError(t, tr.UpdateDailyPerformance(ctx, fixedPrices{"600001": {9.0, -8.0}}, nil, date(12)))
	require.NoError(t, tr.UpdateDailyPerformance(ctx, fixedPrices{"600001": {10.5, 3.0}}, nil, date(13)))

	active, _ := store.Active(ctx)
	latest, err := store.LatestPerformance(ctx, active[0].ID)
	require.NoError(t, err)
	assert.InDelta(t, 20.0, latest.MaxHigh, 1e-9, "peak return survives the dip")
	assert.InDelta(t, -10.0, latest.MaxDrawdown, 1e-9, "trough survives the recovery")
	assert.InDelta(t, 5.0, latest.CumulativeReturn, 1e-9)
}

func TestUpdateDailyPerformanceMissingPriceFallsBack(t *testing.T) {
	store := NewMemoryStore()
	tr := New(store, 14, testLogger())
	ctx := context.Background()

	require.NoError(t, tr.Track(ctx, candidate("600001", 10.0, 55, date(10)), date(10)))
	require.NoError(t, tr.UpdateDailyPerformance(ctx, fixedPrices{}, nil, date(11)))

	active, _ := store.Active(ctx)
	latest, _ := store.LatestPerformance(ctx, active[0].ID)
	require.NotNil(t, latest)
	assert.Equal(t, 10.0, latest.ClosePrice, "entry price stands in for a missing quote")
	assert.Equal(t, 0.0, latest.CumulativeReturn)
}

func TestAutoCloseAfterHoldingWindow(t *testing.T) {
	store := NewMemoryStore()
	tr := New(store, 14, testLogger())
	ctx := context.Background()

	entry := daysAgo(15)
	require.NoError(t, tr.Track(ctx, candidate("600001", 10.0, 55, entry), entry))
	prices := fixedPrices{"600001": {11.0, 1.0}}

	// 15 days held is past the 14-day window: the position closes and
	// gets no row.
	require.NoError(t, tr.UpdateDailyPerformance(ctx, prices, nil, time.Now()))

	active, _ := store.Active(ctx)
	assert.Empty(t, active, "position should flip to CLOSED")

	closed, _ := store.ClosedWithin(ctx, 30)
	require.Len(t, closed, 1)
	history, _ := store.PerformanceHistory(ctx, closed[0].ID)
	assert.Empty(t, history, "no performance rows after closure")

	// Further updates must not resurrect it.
	require.NoError(t, tr.UpdateDailyPerformance(ctx, prices, nil, time.Now().AddDate(0, 0, 1)))
	history, _ = store.PerformanceHistory(ctx, closed[0].ID)
	assert.Empty(t, history)
}

func TestActiveJoinsLatestPerformance(t *testing.T) {
	store := NewMemoryStore()
	tr := New(store, 14, testLogger())
	ctx := context.Background()

	require.NoError(t, tr.Track(ctx, candidate("600001", 10.0, 55, date(10)), date(10)))
	require.NoError(t, tr.UpdateDailyPerformance(ctx, fixedPrices{"600001": {10.8, 1.0}}, fixedBench(0.5), date(12)))

	positions, err := tr.Active(ctx)
	require.NoError(t, err)
	require.Len(t, positions, 1)

	pos := positions[0]
	assert.Equal(t, 10.8, pos.LatestClose)
	assert.InDelta(t, 8.0, pos.CumulativeReturn, 1e-9)
	assert.InDelta(t, 0.5, pos.IndexReturn, 1e-9)
	assert.Equal(t, 2, pos.HeldDays)
}

func TestMetricsByStrategyTag(t *testing.T) {
	store := NewMemoryStore()
	tr := New(store, 14, testLogger())
	ctx := context.Background()

	seed := func(symbol string, finalReturn, drawdown float64) {
		rec := &contracts.Recommendation{
			StockCode: symbol, StockName: symbol, RecDate: daysAgo(14),
			RecPrice: 10, StrategyTag: "siphon-2026-08",
			Status: contracts.StatusActive, CreatedAt: time.Now(),
		}
		require.NoError(t, store.Insert(ctx, rec))
		require.NoError(t, store.UpsertPerformance(ctx, &contracts.DailyPerformance{
			RecID: rec.ID, TradeDate: daysAgo(1),
			CumulativeReturn: finalReturn, MaxDrawdown: drawdown,
			IndexReturn: 1.0,
		}))
		require.NoError(t, store.CloseRecommendation(ctx, rec.ID))
	}

	seed("600001", 18.0, -2.0) // gold
	seed("600002", 8.0, -3.0)  // silver
	seed("600003", -6.0, -9.0) // trash
	seed("600004", 2.0, -1.0)  // plain win

	metrics, err := tr.MetricsByStrategyTag(ctx, 30)
	require.NoError(t, err)
	m, ok := metrics["siphon-2026-08"]
	require.True(t, ok)

	assert.Equal(t, 4, m.Total)
	assert.Equal(t, 1, m.GoldCount)
	assert.Equal(t, 1, m.SilverCount)
	assert.Equal(t, 1, m.TrashCount)
	assert.Equal(t, 3, m.WinCount)
	assert.InDelta(t, 75.0, m.WinRate, 1e-9)
	assert.InDelta(t, 5.5, m.AvgReturn, 1e-9)
	assert.InDelta(t, 4.5, m.AvgExcess, 1e-9)
	assert.InDelta(t, 18.0, m.BestReturn, 1e-9)
	assert.InDelta(t, -6.0, m.WorstReturn, 1e-9)
}

func TestTierBoundaries(t *testing.T) {
	tests := []struct {
		name     string
		ret, dd  float64
		want     contracts.MetricTier
	}{
		{"gold above 15", 15.1, -1, contracts.TierGold},
		{"silver above 5", 5.1, -1, contracts.TierSilver},
		{"exactly 15 is silver", 15.0, -1, contracts.TierSilver},
		{"trash on return", -5.1, -1, contracts.TierTrash},
		{"trash on drawdown wins over gold", 20.0, -8.5, contracts.TierTrash},
		{"small win is untiered", 2.0, -1, contracts.TierNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tier(tt.ret, tt.dd))
		})
	}
}
