package shield

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wonny/siphon/internal/contracts"
	"github.com/wonny/siphon/internal/factors"
	"github.com/wonny/siphon/pkg/logger"
)

func newShield() *Shield {
	return New(contracts.DefaultShieldConfig(), logger.New(logger.Config{Level: "error", Format: "console"}))
}

// flatBars builds n identical bars so the technical checks stay quiet.
func flatBars(n int, price float64) contracts.BarSeries {
	bars := make(contracts.BarSeries, n)
	for i := range bars {
		bars[i] = contracts.Bar{Open: price, High: price * 1.005, Low: price * 0.995, Close: price, Volume: 1000}
	}
	return bars
}

func TestHardRuleLadder(t *testing.T) {
	tests := []struct {
		name string
		snap contracts.PositionSnapshot
		want contracts.ExitAction
	}{
		{
			"stop loss dominates everything",
			contracts.PositionSnapshot{ReturnPct: -10, DaysHeld: 3, Bars: flatBars(60, 10)},
			contracts.ActionStopLoss,
		},
		{
			"stop loss boundary inclusive",
			contracts.PositionSnapshot{ReturnPct: -7.0, DaysHeld: 1},
			contracts.ActionStopLoss,
		},
		{
			"take profit at 22 on day 4",
			contracts.PositionSnapshot{ReturnPct: 22, DaysHeld: 4},
			contracts.ActionTakeProfit,
		},
		{
			"trailing stop after a 15 peak gives back 5",
			contracts.PositionSnapshot{ReturnPct: 9, MaxReturnPct: 16, DaysHeld: 4},
			contracts.ActionTakeProfit,
		},
		{
			"no trailing stop when the peak never reached 15",
			contracts.PositionSnapshot{ReturnPct: 2, MaxReturnPct: 9, DaysHeld: 4, Bars: flatBars(60, 10)},
			contracts.ActionHold,
		},
		{
			"stagnant after 11 days going nowhere",
			contracts.PositionSnapshot{ReturnPct: 1.5, DaysHeld: 11},
			contracts.ActionStagnant,
		},
		{
			"timeout after 6 days underwater",
			contracts.PositionSnapshot{ReturnPct: -2, DaysHeld: 6},
			contracts.ActionTimeOut,
		},
		{
			"stagnant outranks timeout",
			contracts.PositionSnapshot{ReturnPct: -2, DaysHeld: 12},
			contracts.ActionStagnant,
		},
	}
	s := newShield()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Evaluate(tt.snap)
			assert.Equal(t, tt.want, got.Action, "reason: %s", got.Reason)
		})
	}
}

func TestInsufficientHistoryHolds(t *testing.T) {
	s := newShield()
	snap := contracts.PositionSnapshot{ReturnPct: 3, DaysHeld: 2, Bars: flatBars(10, 10)}
	got := s.Evaluate(snap)
	assert.Equal(t, contracts.ActionHold, got.Action)
	assert.Contains(t, got.Reason, "数据少")
}

func TestTechnicalRiskBelowMA20(t *testing.T) {
	s := newShield()

	// A long rally then a collapse below the 20-day average. The broken
	// trend alone contributes 25, under the 50-point WEAK floor, so the
	// position still holds unless the oscillators pile on.
	bars := make(contracts.BarSeries, 0, 60)
	px := 10.0
	for i := 0; i < 50; i++ {
		px *= 1.004
		bars = append(bars, contracts.Bar{Open: px, High: px * 1.01, Low: px * 0.99, Close: px, Volume: 1000})
	}
	for i := 0; i < 10; i++ {
		px *= 0.97
		bars = append(bars, contracts.Bar{Open: px, High: px * 1.01, Low: px * 0.99, Close: px, Volume: 1000, ChangePct: -3})
	}
	snap := contracts.PositionSnapshot{ReturnPct: 2, DaysHeld: 3, CurrentPrice: px, Bars: bars}

	score, reasons := s.technicalRisk(snap)
	assert.GreaterOrEqual(t, score, 25, "broken MA20 must register")
	assert.Contains(t, reasons, "破生命线")

	got := s.Evaluate(snap)
	if got.RiskScore >= 60 {
		assert.Equal(t, contracts.ActionWarning, got.Action)
	} else if got.RiskScore >= 50 {
		assert.Equal(t, contracts.ActionWeak, got.Action)
	} else {
		assert.Equal(t, contracts.ActionHold, got.Action)
	}
}

func TestTechnicalRiskKDJHighDeadCross(t *testing.T) {
	s := newShield()

	// Closes ride the top of their 9-day range for weeks, pinning %K near
	// 100, then one hard down bar drops %K below %D from the overbought
	// zone. That is the 20-point dead cross, not the lesser 10-point dip.
	bars := make(contracts.BarSeries, 0, 40)
	px := 10.0
	for i := 0; i < 39; i++ {
		px += 1.0
		bars = append(bars, contracts.Bar{Open: px - 0.5, High: px + 0.1, Low: px - 0.8, Close: px, Volume: 1000})
	}
	drop := px - 7.5
	bars = append(bars, contracts.Bar{Open: px, High: px, Low: drop - 0.1, Close: drop, Volume: 3000, ChangePct: -5})

	kdj, ok := factors.KDJ(bars)
	if assert.True(t, ok) {
		assert.True(t, kdj.HighDeadCross(), "fixture must produce an overbought dead cross")
	}

	snap := contracts.PositionSnapshot{ReturnPct: 2, DaysHeld: 3, CurrentPrice: drop, Bars: bars}
	score, reasons := s.technicalRisk(snap)
	assert.GreaterOrEqual(t, score, 20, "overbought dead cross must register")
	assert.Contains(t, reasons, "KDJ高位死叉")
}

func TestCleanChartHolds(t *testing.T) {
	s := newShield()
	snap := contracts.PositionSnapshot{ReturnPct: 4, DaysHeld: 3, CurrentPrice: 10, Bars: flatBars(60, 10)}
	got := s.Evaluate(snap)
	assert.Equal(t, contracts.ActionHold, got.Action)
	assert.Contains(t, got.Reason, "趋势稳")
	assert.Equal(t, 0, got.RiskScore)
}
