package strategy

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/wonny/siphon/internal/contracts"
	"github.com/wonny/siphon/internal/factors"
	"github.com/wonny/siphon/pkg/logger"
)

// Rejection reason labels, used as counter keys in the scan summary.
const (
	rejectGuillotine   = "guillotine"
	rejectSectorVeto   = "sector_veto"
	rejectFundamental  = "peg_gate"
	rejectChasing      = "gain_5d"
	rejectOverbought   = "rsi"
	rejectLimitUp      = "limit_up"
	rejectBelowMA      = "below_ma"
	rejectLiquidity    = "liquidity"
	rejectNoHistory    = "no_history"
	rejectNoResilience = "antigravity"
	rejectLowComposite = "composite"
)

// Selector implements the daily screening pipeline: fundamental gate,
// technical gate, factor gate, then rank and truncate to top-N.
// ⭐ SSOT: candidate selection logic lives here only
type Selector struct {
	config contracts.StrategyConfig
	scorer Scorer
	logger *logger.Logger
}

// NewSelector creates a selector with the given thresholds and scorer.
func NewSelector(config contracts.StrategyConfig, scorer Scorer, logger *logger.Logger) *Selector {
	return &Selector{
		config: config,
		scorer: scorer,
		logger: logger,
	}
}

// Select runs the full pipeline over the day's pool. History is a
// pre-populated bar lookup; symbols without history are soft-rejected, not
// errors. Survivors are ranked by composite descending with symbol
// ascending as the tiebreak, truncated to top-N.
func (s *Selector) Select(ctx context.Context, pool []contracts.SpotQuote, history map[string]contracts.BarSeries, index contracts.IndexSeries) ([]contracts.Candidate, error) {
	if len(pool) == 0 {
		return nil, fmt.Errorf("candidate pool is empty")
	}
	if len(index) == 0 {
		return nil, fmt.Errorf("benchmark index series is empty")
	}

	scanDate, _ := index.LastDate()
	sectors := factors.SectorMomentum(pool, s.config.SectorMomentumPct)

	candidates := make([]contracts.Candidate, 0, s.config.TopN*2)
	rejected := make(map[string]int)

	for _, quote := range pool {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if reason := s.fundamentalGate(quote); reason != "" {
			rejected[reason]++
			continue
		}

		bars, ok := history[quote.Symbol]
		if !ok || bars.Len() == 0 {
			rejected[rejectNoHistory]++
			continue
		}

		if reason := s.technicalGate(quote, bars); reason != "" {
			rejected[reason]++
			continue
		}

		cand, reason := s.factorGate(quote, bars, index, sectors, scanDate)
		if reason != "" {
			rejected[reason]++
			continue
		}
		candidates = append(candidates, cand)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].CompositeScore != candidates[j].CompositeScore {
			return candidates[i].CompositeScore > candidates[j].CompositeScore
		}
		return candidates[i].Symbol < candidates[j].Symbol
	})
	if len(candidates) > s.config.TopN {
		candidates = candidates[:s.config.TopN]
	}

	s.logger.WithFields(map[string]interface{}{
		"pool":      len(pool),
		"picked":    len(candidates),
		"rejected":  rejected,
		"scan_date": scanDate.Format("2006-01-02"),
	}).Info("Candidate selection complete")

	return candidates, nil
}

// Prescreen runs the fundamental gate alone. Callers use it to fetch price
// history only for survivors instead of the whole market.
func (s *Selector) Prescreen(pool []contracts.SpotQuote) []contracts.SpotQuote {
	survivors := make([]contracts.SpotQuote, 0, len(pool)/4)
	for _, quote := range pool {
		if s.fundamentalGate(quote) == "" {
			survivors = append(survivors, quote)
		}
	}
	return survivors
}

// fundamentalGate applies the cheapest checks first: the freefall
// guillotine, the photovoltaic sector veto, then the growth/PEG gate.
// Missing fundamental data skips the PEG gate rather than rejecting.
func (s *Selector) fundamentalGate(q contracts.SpotQuote) string {
	if q.ChangePct < s.config.MaxDrop {
		return rejectGuillotine
	}
	if strings.Contains(q.Industry, "光伏") && q.ChangePct <= 0 {
		return rejectSectorVeto
	}
	if q.GrowthRate != 0 {
		peg := 999.0
		if q.GrowthRate > 0 {
			peg = q.PETTM / q.GrowthRate
		}
		ok := q.GrowthRate > s.config.HighGrowth ||
			(peg < s.config.MaxPEG && q.GrowthRate > s.config.MinGrowth)
		if !ok {
			return rejectFundamental
		}
	}
	return ""
}

// technicalGate rejects chasing, overbought, limit-up, broken-trend, and
// illiquid names.
func (s *Selector) technicalGate(q contracts.SpotQuote, bars contracts.BarSeries) string {
	if gain5d := bars.GainOverDays(5); gain5d > s.config.MaxGain5D {
		return rejectChasing
	}
	if rsi := factors.RSI14(bars); rsi > s.config.MaxRSI {
		return rejectOverbought
	}
	if q.ChangePct > s.config.LimitUpPct {
		return rejectLimitUp
	}
	if bars.Len() >= s.config.MAPeriod {
		last, _ := bars.Last()
		if last.Close < factors.SMA(bars, s.config.MAPeriod) {
			return rejectBelowMA
		}
	}
	if q.TurnoverRate > 0 {
		if q.TurnoverRate < s.config.MinTurnover || q.TurnoverRate > s.config.MaxTurnover {
			return rejectLiquidity
		}
	} else if avg := bars.AvgVolume(20, false); avg > 0 && avg < s.config.MinAvgVolume {
		return rejectLiquidity
	}
	return ""
}

// factorGate computes the factor set, rejects on the antigravity and
// composite floors, and materializes the candidate with its signal tags.
func (s *Selector) factorGate(q contracts.SpotQuote, bars contracts.BarSeries, index contracts.IndexSeries, sectors factors.SectorMap, scanDate time.Time) (contracts.Candidate, string) {
	joined := contracts.Align(bars, index)
	if len(joined) == 0 {
		return contracts.Candidate{}, rejectNoHistory
	}

	agScore, agDetails := factors.Antigravity(joined)
	if agScore < s.config.MinAGScore {
		return contracts.Candidate{}, rejectNoResilience
	}

	isHot := sectors.IsHot(q.Industry)
	momScore, accelerating := factors.MicroMomentum(joined)
	burst := factors.InstitutionalBurst(bars, isHot)
	vcpScore, fullVCP := factors.VCPBreakout(bars, s.config)
	volScore, volRatio := factors.VolumeExplosion(bars)
	flowScore, flowDetails := factors.InstitutionalFlow(bars)
	leaderScore := factors.SectorLeaderScore(q.Symbol, isHot, sectors)

	scores := map[string]float64{
		contracts.FactorAntigravity:   agScore,
		contracts.FactorMicroMomentum: momScore,
		contracts.FactorBurst:         burst.Score,
		contracts.FactorVCP:           vcpScore,
		contracts.FactorVolume:        volScore,
		contracts.FactorInstFlow:      flowScore,
		contracts.FactorSector:        leaderScore,
	}
	composite := s.scorer.Composite(scores)
	if composite < s.config.MinComposite {
		return contracts.Candidate{}, rejectLowComposite
	}

	tags := make([]string, 0, 6)
	if burst.NearHigh {
		tags = append(tags, fmt.Sprintf("放量冲高(%.1fx)", burst.VolumeRatio))
	} else if volRatio >= 2.0 {
		tags = append(tags, fmt.Sprintf("温和放量(%.1fx)", volRatio))
	}
	if accelerating {
		tags = append(tags, "加速上攻")
	}
	if fullVCP {
		tags = append(tags, "VCP突破")
	} else if vcpScore > 0 {
		tags = append(tags, "缩量回升")
	}
	if isHot {
		tags = append(tags, "热门板块:"+q.Industry)
	}
	tags = append(tags, agDetails...)
	tags = append(tags, flowDetails...)

	return contracts.Candidate{
		Symbol:         q.Symbol,
		Name:           q.Name,
		Industry:       q.Industry,
		Price:          q.Price,
		ChangePct:      q.ChangePct,
		VolumeRatio:    volRatio,
		TurnoverRate:   q.TurnoverRate,
		GrowthRate:     q.GrowthRate,
		FactorScores:   scores,
		CompositeScore: composite,
		SignalTags:     tags,
		ScanDate:       scanDate,
	}, ""
}
