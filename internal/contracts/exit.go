package contracts

// =============================================================================
// Exit Shield Decisions
// =============================================================================

// ExitAction is the category of an exit decision. Hard actions come from
// the priority ladder; WARNING and WEAK come from the risk score.
type ExitAction string

const (
	ActionHold       ExitAction = "HOLD"
	ActionWarning    ExitAction = "WARNING"
	ActionWeak       ExitAction = "WEAK"
	ActionStopLoss   ExitAction = "STOP_LOSS"
	ActionTakeProfit ExitAction = "TAKE_PROFIT"
	ActionStagnant   ExitAction = "STAGNANT"
	ActionTimeOut    ExitAction = "TIME_OUT"
)

// IsHardExit reports whether the action came from the hard rule ladder and
// therefore overrides any score-based tier.
func (a ExitAction) IsHardExit() bool {
	switch a {
	case ActionStopLoss, ActionTakeProfit, ActionStagnant, ActionTimeOut:
		return true
	}
	return false
}

// ExitDecision is the shield's verdict for one position on one day.
type ExitDecision struct {
	Action    ExitAction `json:"action"`
	Reason    string     `json:"reason"`
	RiskScore int        `json:"risk_score"` // sum of technical risk signals, 0..75
	BgColor   string     `json:"bg_color"`   // report rendering hint
	FgColor   string     `json:"fg_color"`
}

// PositionSnapshot is the shield's input: the position state as of the
// evaluation date plus enough price history for the technical checks.
type PositionSnapshot struct {
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	CurrentPrice float64   `json:"current_price"`
	DaysHeld     int       `json:"days_held"`
	ReturnPct    float64   `json:"return_pct"`     // cumulative vs entry
	MaxReturnPct float64   `json:"max_return_pct"` // best cumulative so far
	Bars         BarSeries `json:"-"`
}

// PeakDrawdown returns how far the position has fallen from its best
// cumulative return, in percentage points (>= 0).
func (p PositionSnapshot) PeakDrawdown() float64 {
	dd := p.MaxReturnPct - p.ReturnPct
	if dd < 0 {
		return 0
	}
	return dd
}
