package factors

import (
	"testing"

	"github.com/wonny/siphon/internal/contracts"
)

// barsWithVolumes builds a series whose last bar has the given volume and
// change while the prior five bars each traded baseVol.
func barsWithVolumes(baseVol, todayVol, todayChg float64) contracts.BarSeries {
	s := make(contracts.BarSeries, 0, 6)
	for i := 0; i < 5; i++ {
		s = append(s, contracts.Bar{Close: 10, Volume: baseVol})
	}
	s = append(s, contracts.Bar{Close: 10, Volume: todayVol, ChangePct: todayChg})
	return s
}

func TestVolumeExplosionTierBoundaries(t *testing.T) {
	tests := []struct {
		ratio float64
		chg   float64
		want  float64
	}{
		{4.0, -1.0, 5},
		{3.0, -1.0, 4},
		{3.2, 1.0, 4.5}, // gain day at ratio >= 2.0 earns the bonus
		{2.0, -1.0, 3},
		{2.0, 1.0, 3.5},
		{1.5, -1.0, 2},
		{1.5, 1.0, 2}, // below 2.0 no bonus even on a gain day
		{1.2, -1.0, 1},
		{1.19, 1.0, 0},
		{0.5, 1.0, 0},
		{4.5, 1.0, 5}, // bonus never pushes past the top tier
	}
	for _, tt := range tests {
		bars := barsWithVolumes(1000, 1000*tt.ratio, tt.chg)
		score, ratio := VolumeExplosion(bars)
		if score != tt.want {
			t.Errorf("ratio %.2f chg %.1f: score = %v, want %v (computed ratio %.2f)",
				tt.ratio, tt.chg, score, tt.want, ratio)
		}
	}
}

func TestVolumeExplosionShortSeries(t *testing.T) {
	bars := contracts.BarSeries{{Volume: 100}, {Volume: 500}}
	if score, _ := VolumeExplosion(bars); score != 0 {
		t.Errorf("score = %v, want 0 on short series", score)
	}
}
