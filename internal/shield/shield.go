package shield

import (
	"fmt"
	"strings"

	"github.com/wonny/siphon/internal/contracts"
	"github.com/wonny/siphon/internal/factors"
	"github.com/wonny/siphon/pkg/logger"
)

// Shield evaluates one open position per day into an exit decision.
// Evaluation is a pure function of the position snapshot; nothing is
// persisted between calls.
// ⭐ SSOT: exit decision ladder lives here only
type Shield struct {
	config contracts.ShieldConfig
	logger *logger.Logger
}

// New creates a shield with the given thresholds.
func New(config contracts.ShieldConfig, logger *logger.Logger) *Shield {
	return &Shield{config: config, logger: logger}
}

// Evaluate walks the decision ladder, first match wins. Hard rules run
// first so a blown stop resolves to STOP_LOSS no matter how clean the
// chart looks. With fewer than MinBars of history the technical checks
// abstain and the position holds.
func (s *Shield) Evaluate(snap contracts.PositionSnapshot) contracts.ExitDecision {
	cfg := s.config

	if snap.ReturnPct <= cfg.StopLossPct {
		return decision(contracts.ActionStopLoss, fmt.Sprintf("⛔️ 止损 (%.0f%%)", cfg.StopLossPct), "#ef4444", "#ffffff", 0)
	}
	if snap.ReturnPct >= cfg.TakeProfitPct {
		return decision(contracts.ActionTakeProfit, fmt.Sprintf("💰 止盈 (>%.0f%%)", cfg.TakeProfitPct), "#10b981", "#ffffff", 0)
	}
	if snap.MaxReturnPct >= cfg.PeakProfitPct {
		if dd := snap.PeakDrawdown(); dd >= cfg.PeakDrawdownPct {
			return decision(contracts.ActionTakeProfit, fmt.Sprintf("💰 止盈 (回撤%.1f%%)", dd), "#059669", "#ffffff", 0)
		}
	}
	if snap.DaysHeld > cfg.StagnantDays && snap.ReturnPct < cfg.StagnantMaxRet {
		return decision(contracts.ActionStagnant, "🌫 僵滞 (换股)", "#94a3b8", "#ffffff", 0)
	}
	if snap.DaysHeld > cfg.TimeoutDays && snap.ReturnPct < 0 {
		return decision(contracts.ActionTimeOut, "⏳ 超时 (负收益)", "#f97316", "#ffffff", 0)
	}

	if snap.Bars.Len() < cfg.MinBars {
		return decision(contracts.ActionHold, "🛡 持有 (数据少)", "#f1f5f9", "#475569", 0)
	}

	score, reasons := s.technicalRisk(snap)
	if score >= cfg.WeakScore {
		text := "⚠️ 警示: " + strings.Join(reasons, ",")
		if score >= cfg.WarningScore {
			return decision(contracts.ActionWarning, text, "#f59e0b", "#ffffff", score)
		}
		return decision(contracts.ActionWeak, text, "#fef3c7", "#92400e", score)
	}
	return decision(contracts.ActionHold, "🛡 持有 (趋势稳)", "#f1f5f9", "#475569", score)
}

// technicalRisk sums the weighted indicator signals: MACD dead cross,
// KDJ dead cross out of the overbought zone, and price under the 20-day
// average. Lesser variants of the first two contribute 10 each without a
// named reason.
func (s *Shield) technicalRisk(snap contracts.PositionSnapshot) (int, []string) {
	cfg := s.config
	score := 0
	var reasons []string

	if macd, ok := factors.MACD(snap.Bars); ok {
		if macd.DeadCross() {
			score += cfg.MACDDeadCross
			reasons = append(reasons, "MACD死叉")
		} else if macd.Hist < 0 && macd.Hist < 2*(macd.PrevDIF-macd.PrevDEA) {
			score += 10
		}
	}

	if kdj, ok := factors.KDJ(snap.Bars); ok {
		if kdj.HighDeadCross() {
			score += cfg.KDJDeadCross
			reasons = append(reasons, "KDJ高位死叉")
		} else if kdj.K < kdj.D && kdj.PrevK >= kdj.PrevD {
			score += 10
		}
	}

	checkPrice := snap.CurrentPrice
	if checkPrice <= 0 {
		if last, ok := snap.Bars.Last(); ok {
			checkPrice = last.Close
		}
	}
	if ma20 := factors.SMA(snap.Bars, 20); ma20 > 0 && checkPrice < ma20 {
		score += cfg.BelowMA20
		reasons = append(reasons, "破生命线")
	}

	return score, reasons
}

func decision(action contracts.ExitAction, reason, bg, fg string, risk int) contracts.ExitDecision {
	return contracts.ExitDecision{
		Action:    action,
		Reason:    reason,
		BgColor:   bg,
		FgColor:   fg,
		RiskScore: risk,
	}
}
