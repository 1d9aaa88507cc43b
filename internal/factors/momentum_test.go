package factors

import (
	"math"
	"testing"
	"time"

	"github.com/wonny/siphon/internal/contracts"
)

// joinedCloses builds a joined series from parallel close slices.
func joinedCloses(stock, index []float64) []contracts.JoinedBar {
	joined := make([]contracts.JoinedBar, len(stock))
	for i := range stock {
		joined[i] = contracts.JoinedBar{
			Date:       time.Date(2026, 8, i+1, 0, 0, 0, 0, time.UTC),
			Stock:      contracts.Bar{Close: stock[i]},
			IndexClose: index[i],
		}
	}
	return joined
}

func TestMicroMomentumShortWindow(t *testing.T) {
	joined := joinedCloses([]float64{10, 10, 10}, []float64{100, 100, 100})
	score, accel := MicroMomentum(joined)
	if score != 0 || accel {
		t.Errorf("short window: score = %v accel = %v, want 0 and false", score, accel)
	}
}

func TestMicroMomentumPositiveAlpha(t *testing.T) {
	// Stock up 5% over 3 days and 6% over 5 while the index is flat:
	// alpha3d=5 -> 10 points, alpha5d=6 -> 9 points.
	stock := []float64{100, 100.95, 101, 102, 104, 106}
	index := []float64{3000, 3000, 3000, 3000, 3000, 3000}
	score, accel := MicroMomentum(joinedCloses(stock, index))

	alpha3d := (106.0/101.0 - 1) * 100
	alpha5d := 6.0
	want := math.Round((math.Min(alpha3d*2, 15)+math.Min(alpha5d*1.5, 10))*10) / 10
	if score != want {
		t.Errorf("score = %v, want %v", score, want)
	}
	if accel {
		t.Errorf("alpha3d %.2f < alpha5d %.2f should not flag accelerating", alpha3d, alpha5d)
	}
}

func TestMicroMomentumClampsNegativeAlpha(t *testing.T) {
	// Stock flat, index rallying: negative alpha contributes nothing.
	stock := []float64{100, 100, 100, 100, 100, 100}
	index := []float64{3000, 3050, 3100, 3150, 3200, 3300}
	score, accel := MicroMomentum(joinedCloses(stock, index))
	if score != 0 || accel {
		t.Errorf("score = %v accel = %v, want 0 and false", score, accel)
	}
}

func TestMicroMomentumCaps(t *testing.T) {
	// Huge alpha saturates both caps: 15 + 10 = 25.
	stock := []float64{100, 90, 90, 95, 120, 150}
	index := []float64{3000, 3000, 3000, 3000, 3000, 3000}
	score, accel := MicroMomentum(joinedCloses(stock, index))
	if score != 25 {
		t.Errorf("score = %v, want 25", score)
	}
	if !accel {
		t.Error("3-day alpha above 5-day alpha above zero should flag accelerating")
	}
}
