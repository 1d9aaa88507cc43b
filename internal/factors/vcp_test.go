package factors

import (
	"testing"

	"github.com/wonny/siphon/internal/contracts"
)

// vcpSeries builds 5 baseline bars followed by yesterday and today.
func vcpSeries(baseVol, yesterdayVol, todayVol, todayChg float64) contracts.BarSeries {
	s := make(contracts.BarSeries, 0, 7)
	for i := 0; i < 5; i++ {
		s = append(s, contracts.Bar{Close: 10, Volume: baseVol})
	}
	s = append(s, contracts.Bar{Close: 10, Volume: yesterdayVol})
	return append(s, contracts.Bar{Close: 10.3, Volume: todayVol, ChangePct: todayChg})
}

func TestVCPBreakout(t *testing.T) {
	cfg := contracts.DefaultStrategyConfig()

	tests := []struct {
		name     string
		bars     contracts.BarSeries
		want     float64
		wantFull bool
	}{
		{
			"perfect slingshot",
			vcpSeries(1000, 500, 1100, 3.0), // contraction 0.5 < 0.6, today >2x on >2% gain
			15, true,
		},
		{
			"partial breakout",
			vcpSeries(1000, 500, 800, 0.5), // 1.6x on a modest gain
			8, false,
		},
		{
			"no contraction yesterday",
			vcpSeries(1000, 900, 2000, 3.0),
			0, false,
		},
		{
			"contraction but no follow-through",
			vcpSeries(1000, 500, 600, 3.0),
			0, false,
		},
		{
			"breakout volume on a down day",
			vcpSeries(1000, 500, 1100, -1.0),
			0, false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, full := VCPBreakout(tt.bars, cfg)
			if score != tt.want || full != tt.wantFull {
				t.Errorf("score = %v full = %v, want %v / %v", score, full, tt.want, tt.wantFull)
			}
		})
	}
}

func TestVCPBreakoutShortSeries(t *testing.T) {
	cfg := contracts.DefaultStrategyConfig()
	bars := contracts.BarSeries{{Volume: 100}, {Volume: 50}, {Volume: 200}}
	if score, _ := VCPBreakout(bars, cfg); score != 0 {
		t.Errorf("score = %v, want 0", score)
	}
}
