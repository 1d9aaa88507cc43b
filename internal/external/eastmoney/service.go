package eastmoney

import (
	"context"
	"time"

	"github.com/wonny/siphon/internal/contracts"
	"github.com/wonny/siphon/internal/marketdata"
	"github.com/wonny/siphon/pkg/config"
	"github.com/wonny/siphon/pkg/logger"
	"github.com/wonny/siphon/pkg/redis"
)

// Service is the cached market-data provider backed by the Eastmoney client.
// Bars are cached per trading day so re-runs and backfills stay cheap.
type Service struct {
	client *Client
	cache  *redis.Cache
	logger *logger.Logger

	historyDays int
	barTTL      time.Duration
	spotTTL     time.Duration
}

var _ marketdata.Provider = (*Service)(nil)

// NewService creates the cached provider.
func NewService(client *Client, cache *redis.Cache, cfg config.EastmoneyConfig, log *logger.Logger) *Service {
	return &Service{
		client:      client,
		cache:       cache,
		logger:      log,
		historyDays: cfg.HistoryDays,
		barTTL:      cfg.CacheTTL,
		spotTTL:     cfg.SpotCacheTTL,
	}
}

// Spot returns the day's market snapshot with earnings growth merged in.
// A growth fetch failure degrades to zero growth rather than failing the run.
func (s *Service) Spot(ctx context.Context) ([]contracts.SpotQuote, error) {
	today := time.Now().Format("2006-01-02")

	var quotes []contracts.SpotQuote
	err := s.cache.GetOrSet(ctx, redis.SpotKey(today), &quotes, s.spotTTL, func() (interface{}, error) {
		fetched, err := s.client.FetchSpot(ctx)
		if err != nil {
			return nil, err
		}

		growth, err := s.client.FetchGrowthRates(ctx)
		if err != nil {
			s.logger.WithError(err).Warn("Earnings growth unavailable, PEG gate will be skipped")
			growth = map[string]float64{}
		}
		for i := range fetched {
			fetched[i].GrowthRate = growth[fetched[i].Symbol]
		}
		return fetched, nil
	})
	if err != nil {
		return nil, err
	}
	return quotes, nil
}

// History returns a symbol's trailing daily bars, ascending by date.
func (s *Service) History(ctx context.Context, symbol string, days int) (contracts.BarSeries, error) {
	if days <= 0 {
		days = s.historyDays
	}
	today := time.Now().Format("2006-01-02")

	var bars contracts.BarSeries
	err := s.cache.GetOrSet(ctx, redis.BarsKey(symbol, today), &bars, s.barTTL, func() (interface{}, error) {
		return s.client.FetchHistory(ctx, symbol, days)
	})
	if err != nil {
		return nil, err
	}
	return bars, nil
}

// IndexHistory returns a benchmark index's trailing daily bars.
func (s *Service) IndexHistory(ctx context.Context, indexCode string, days int) (contracts.IndexSeries, error) {
	if days <= 0 {
		days = s.historyDays
	}
	today := time.Now().Format("2006-01-02")

	var series contracts.IndexSeries
	err := s.cache.GetOrSet(ctx, redis.IndexKey(indexCode, today), &series, s.barTTL, func() (interface{}, error) {
		return s.client.FetchIndexHistory(ctx, indexCode, days)
	})
	if err != nil {
		return nil, err
	}
	return series, nil
}

// LatestClose returns a symbol's latest close and daily change. Not cached:
// it backs the evening tracking run, which wants the freshest print.
func (s *Service) LatestClose(ctx context.Context, symbol string) (float64, float64, error) {
	return s.client.FetchLatestClose(ctx, symbol)
}

// BoardRanking returns the industry board ranking for the daily report.
func (s *Service) BoardRanking(ctx context.Context) ([]contracts.BoardQuote, error) {
	return s.client.FetchBoardRanking(ctx)
}
