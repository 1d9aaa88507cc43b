package factors

import (
	"testing"

	"github.com/wonny/siphon/internal/contracts"
)

func TestInstitutionalFlowVolumeAsymmetry(t *testing.T) {
	// Up days trade twice the volume of down days: ratio 2.0 > 1.5
	// scores 2. Closes oscillate so there is no rising floor and the
	// range is too wide for divergence.
	s := contracts.BarSeries{}
	for i := 0; i < 10; i++ {
		if i%2 == 0 {
			s = append(s, contracts.Bar{Close: 12, Volume: 2000, ChangePct: 1.0})
		} else {
			s = append(s, contracts.Bar{Close: 10, Volume: 1000, ChangePct: -1.0})
		}
	}
	score, details := InstitutionalFlow(s)
	if score != 2 {
		t.Errorf("score = %v, want 2 (details %v)", score, details)
	}
}

func TestInstitutionalFlowMildAsymmetry(t *testing.T) {
	// Ratio 1.3 lands in the (1.2, 1.5] band for 1 point.
	s := contracts.BarSeries{}
	for i := 0; i < 10; i++ {
		if i%2 == 0 {
			s = append(s, contracts.Bar{Close: 12, Volume: 1300, ChangePct: 1.0})
		} else {
			s = append(s, contracts.Bar{Close: 10, Volume: 1000, ChangePct: -1.0})
		}
	}
	score, _ := InstitutionalFlow(s)
	if score != 1 {
		t.Errorf("score = %v, want 1", score)
	}
}

func TestInstitutionalFlowRisingFloor(t *testing.T) {
	// Strictly rising 3-day block minima (+2) with balanced volume on a
	// wide range, no other sub-scores.
	closes := []float64{10, 10.5, 10.4, 11, 11.5, 11.2, 12, 12.5, 12.2, 12.8}
	s := contracts.BarSeries{}
	for i, c := range closes {
		chg := 1.0
		if i%2 == 1 {
			chg = -1.0
		}
		s = append(s, contracts.Bar{Close: c, Volume: 1000, ChangePct: chg})
	}
	score, _ := InstitutionalFlow(s)
	if score != 2 {
		t.Errorf("score = %v, want 2", score)
	}
}

func TestInstitutionalFlowQuietDivergence(t *testing.T) {
	// Price dead flat while the back half of the window trades 40% less
	// than the front half: +1 from the divergence signal only.
	s := contracts.BarSeries{}
	for i := 0; i < 10; i++ {
		vol := 1000.0
		if i >= 5 {
			vol = 600
		}
		s = append(s, contracts.Bar{Close: 10, Volume: vol, ChangePct: 0})
	}
	score, _ := InstitutionalFlow(s)
	if score != 1 {
		t.Errorf("score = %v, want 1", score)
	}
}

func TestInstitutionalFlowCap(t *testing.T) {
	// Strong asymmetry plus a rising floor plus near-flat drift would sum
	// past 5 if every signal were achievable at once; the asymmetry and
	// floor alone reach 4, and the cap holds them at or below 5.
	closes := []float64{10, 10.1, 10.05, 10.2, 10.3, 10.25, 10.4, 10.5, 10.45, 10.6}
	s := contracts.BarSeries{}
	for i, c := range closes {
		if i%2 == 0 {
			s = append(s, contracts.Bar{Close: c, Volume: 2000, ChangePct: 0.5})
		} else {
			s = append(s, contracts.Bar{Close: c, Volume: 1000, ChangePct: -0.5})
		}
	}
	score, _ := InstitutionalFlow(s)
	if score > 5 {
		t.Errorf("score = %v, exceeds cap of 5", score)
	}
	if score < 4 {
		t.Errorf("score = %v, want at least asymmetry + rising floor = 4", score)
	}
}

func TestInstitutionalFlowShortWindow(t *testing.T) {
	s := contracts.BarSeries{{Close: 10, Volume: 100}}
	if score, details := InstitutionalFlow(s); score != 0 || details != nil {
		t.Errorf("short window: score = %v details = %v", score, details)
	}
}
