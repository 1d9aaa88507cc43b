package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/siphon/internal/contracts"
	"github.com/wonny/siphon/internal/marketdata"
	"github.com/wonny/siphon/internal/shield"
	"github.com/wonny/siphon/internal/strategy"
	"github.com/wonny/siphon/internal/tracker"
	"github.com/wonny/siphon/pkg/logger"
)

// scanIndex is the benchmark the factor gate joins stock bars against.
const scanIndex = "sh000300"

// hotBoardCount caps how many leading boards the scan report carries.
const hotBoardCount = 5

// CandidateStore persists the day's pick list.
type CandidateStore interface {
	SaveCandidates(ctx context.Context, candidates []contracts.Candidate) error
}

// Pipeline coordinates the daily run: snapshot, screening, persistence,
// tracking, and the exit shield report.
// ⭐ SSOT: run orchestration lives here only
type Pipeline struct {
	provider   marketdata.Provider
	selector   *strategy.Selector
	candidates CandidateStore
	tracker    *tracker.Tracker
	shield     *shield.Shield
	benchmark  tracker.BenchmarkSource
	logger     *logger.Logger

	historyDays int
	maxPoolScan int
}

// New creates a pipeline. historyDays bounds the bars fetched per symbol;
// maxPoolScan caps how many prescreen survivors get a history fetch.
func New(
	provider marketdata.Provider,
	selector *strategy.Selector,
	candidates CandidateStore,
	trk *tracker.Tracker,
	shd *shield.Shield,
	benchmark tracker.BenchmarkSource,
	historyDays int,
	maxPoolScan int,
	log *logger.Logger,
) *Pipeline {
	return &Pipeline{
		provider:    provider,
		selector:    selector,
		candidates:  candidates,
		tracker:     trk,
		shield:      shd,
		benchmark:   benchmark,
		logger:      log,
		historyDays: historyDays,
		maxPoolScan: maxPoolScan,
	}
}

// ScanResult summarizes one daily scan.
type ScanResult struct {
	ScanDate       time.Time              `json:"scan_date"`
	PoolSize       int                    `json:"pool_size"`
	Prescreened    int                    `json:"prescreened"`
	HistoryFetched int                    `json:"history_fetched"`
	Picks          []contracts.Candidate  `json:"picks"`
	HotBoards      []contracts.BoardQuote `json:"hot_boards"` // leading industry boards, report context
	Duration       time.Duration          `json:"duration"`
}

// RunScan executes the morning screening run. Per-symbol data failures
// degrade to rejections; only an empty pool or missing index series aborts.
func (p *Pipeline) RunScan(ctx context.Context) (*ScanResult, error) {
	start := time.Now()

	pool, err := p.provider.Spot(ctx)
	if err != nil {
		return nil, fmt.Errorf("spot snapshot failed: %w", err)
	}
	if len(pool) == 0 {
		return nil, fmt.Errorf("spot snapshot is empty")
	}

	index, err := p.provider.IndexHistory(ctx, scanIndex, p.historyDays)
	if err != nil {
		return nil, fmt.Errorf("index history failed: %w", err)
	}
	if len(index) == 0 {
		return nil, fmt.Errorf("index history is empty")
	}
	index.FillChangePct()

	// The snapshot arrives sorted by change descending, so capping keeps
	// the strongest movers.
	survivors := p.selector.Prescreen(pool)
	if len(survivors) > p.maxPoolScan {
		survivors = survivors[:p.maxPoolScan]
	}

	history := make(map[string]contracts.BarSeries, len(survivors))
	for _, quote := range survivors {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		bars, err := p.provider.History(ctx, quote.Symbol, p.historyDays)
		if err != nil {
			p.logger.WithFields(map[string]interface{}{
				"symbol": quote.Symbol,
				"error":  err.Error(),
			}).Warn("History fetch failed, skipping symbol")
			continue
		}
		if bars.Len() == 0 {
			continue
		}
		history[quote.Symbol] = bars
	}

	picks, err := p.selector.Select(ctx, pool, history, index)
	if err != nil {
		return nil, err
	}

	hotBoards := p.hotBoards(ctx)

	if len(picks) > 0 {
		if err := p.candidates.SaveCandidates(ctx, picks); err != nil {
			p.logger.WithError(err).Error("Saving candidates failed")
		}
	}

	scanDate, _ := index.LastDate()
	for _, cand := range picks {
		if err := p.tracker.Track(ctx, cand, scanDate); err != nil {
			p.logger.WithFields(map[string]interface{}{
				"symbol": cand.Symbol,
				"error":  err.Error(),
			}).Error("Tracking pick failed")
		}
	}

	result := &ScanResult{
		ScanDate:       scanDate,
		PoolSize:       len(pool),
		Prescreened:    len(survivors),
		HistoryFetched: len(history),
		Picks:          picks,
		HotBoards:      hotBoards,
		Duration:       time.Since(start),
	}

	p.logger.WithFields(map[string]interface{}{
		"pool":        result.PoolSize,
		"prescreened": result.Prescreened,
		"picks":       len(picks),
		"hot_boards":  boardNames(hotBoards),
		"duration":    result.Duration.Seconds(),
	}).Info("Scan run completed")

	return result, nil
}

// hotBoards fetches the leading industry boards for the day's report.
// Board context is decoration on the scan summary, so a fetch failure
// degrades to an empty list instead of failing the run.
func (p *Pipeline) hotBoards(ctx context.Context) []contracts.BoardQuote {
	boards, err := p.provider.BoardRanking(ctx)
	if err != nil {
		p.logger.WithError(err).Warn("Board ranking fetch failed")
		return nil
	}
	if len(boards) > hotBoardCount {
		boards = boards[:hotBoardCount]
	}
	return boards
}

func boardNames(boards []contracts.BoardQuote) []string {
	names := make([]string, 0, len(boards))
	for _, b := range boards {
		names = append(names, b.Name)
	}
	return names
}

// RunTracking executes the evening performance run: auto-close expired
// lineages, then accrue today's performance row for each open position.
func (p *Pipeline) RunTracking(ctx context.Context) error {
	return p.tracker.UpdateDailyPerformance(ctx, p.provider, p.benchmark, time.Now())
}

// PositionReport pairs an open position with its shield verdict.
type PositionReport struct {
	Position contracts.TrackedPosition `json:"position"`
	Decision contracts.ExitDecision    `json:"decision"`
}

// ShieldReport evaluates the exit shield over every open position. A failed
// history fetch still yields a verdict: the shield treats missing bars as
// the short-history hold.
func (p *Pipeline) ShieldReport(ctx context.Context) ([]PositionReport, error) {
	positions, err := p.tracker.Active(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading active positions failed: %w", err)
	}

	reports := make([]PositionReport, 0, len(positions))
	for _, pos := range positions {
		bars, err := p.provider.History(ctx, pos.StockCode, p.historyDays)
		if err != nil {
			p.logger.WithFields(map[string]interface{}{
				"symbol": pos.StockCode,
				"error":  err.Error(),
			}).Warn("History fetch failed for shield check")
			bars = nil
		}

		snap := contracts.PositionSnapshot{
			Code:         pos.StockCode,
			Name:         pos.StockName,
			CurrentPrice: pos.LatestClose,
			DaysHeld:     pos.HeldDays,
			ReturnPct:    pos.CumulativeReturn,
			MaxReturnPct: pos.MaxHigh,
			Bars:         bars,
		}
		reports = append(reports, PositionReport{
			Position: pos,
			Decision: p.shield.Evaluate(snap),
		})
	}

	return reports, nil
}
