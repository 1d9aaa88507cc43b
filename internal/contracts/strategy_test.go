package contracts

import "testing"

func TestDefaultStrategyConfigValidates(t *testing.T) {
	if err := DefaultStrategyConfig().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestStrategyConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*StrategyConfig)
	}{
		{"zero top_n", func(c *StrategyConfig) { c.TopN = 0 }},
		{"negative tracking days", func(c *StrategyConfig) { c.TrackingDays = -1 }},
		{"inverted turnover band", func(c *StrategyConfig) { c.MinTurnover = 40; c.MaxTurnover = 5 }},
		{"zero ma period", func(c *StrategyConfig) { c.MAPeriod = 0 }},
		{"sector pct above one", func(c *StrategyConfig) { c.SectorMomentumPct = 1.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultStrategyConfig()
			tt.mutate(&c)
			if err := c.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestDefaultWeightTableSaturatesAtHundred(t *testing.T) {
	w := DefaultWeightTable()
	total := w.Burst + w.MicroMomentum + w.AntigravityCap + w.VCP
	if total != 100 {
		t.Errorf("weight caps sum to %v, want 100", total)
	}
}

func TestExitActionIsHardExit(t *testing.T) {
	hard := []ExitAction{ActionStopLoss, ActionTakeProfit, ActionStagnant, ActionTimeOut}
	for _, a := range hard {
		if !a.IsHardExit() {
			t.Errorf("%s should be a hard exit", a)
		}
	}
	soft := []ExitAction{ActionHold, ActionWarning, ActionWeak}
	for _, a := range soft {
		if a.IsHardExit() {
			t.Errorf("%s should not be a hard exit", a)
		}
	}
}

func TestSpotQuotePEG(t *testing.T) {
	tests := []struct {
		name string
		q    SpotQuote
		want float64
	}{
		{"normal", SpotQuote{PETTM: 30, GrowthRate: 20}, 1.5},
		{"no growth", SpotQuote{PETTM: 30, GrowthRate: 0}, 0},
		{"shrinking", SpotQuote{PETTM: 30, GrowthRate: -10}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.q.PEG(); got != tt.want {
				t.Errorf("PEG() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRecommendationDaysHeld(t *testing.T) {
	r := Recommendation{RecDate: day(10)}
	if got := r.DaysHeld(day(24)); got != 14 {
		t.Errorf("DaysHeld = %d, want 14", got)
	}
	if got := r.DaysHeld(day(10)); got != 0 {
		t.Errorf("DaysHeld same day = %d, want 0", got)
	}
}
