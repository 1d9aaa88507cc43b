package tracker

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/wonny/siphon/internal/contracts"
)

// MemoryStore is an in-memory Store used by tests and dry runs.
type MemoryStore struct {
	mu     sync.Mutex
	nextID int64
	recs   map[int64]*contracts.Recommendation
	perfs  map[int64][]contracts.DailyPerformance
	closed map[int64]time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID: 1,
		recs:   make(map[int64]*contracts.Recommendation),
		perfs:  make(map[int64][]contracts.DailyPerformance),
		closed: make(map[int64]time.Time),
	}
}

func (m *MemoryStore) ActiveBySymbol(_ context.Context, code string) (*contracts.Recommendation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var found *contracts.Recommendation
	for _, rec := range m.recs {
		if rec.StockCode == code && rec.Status == contracts.StatusActive {
			if found == nil || rec.RecDate.Before(found.RecDate) {
				found = rec
			}
		}
	}
	if found == nil {
		return nil, nil
	}
	cp := *found
	return &cp, nil
}

func (m *MemoryStore) Insert(_ context.Context, rec *contracts.Recommendation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec.ID = m.nextID
	m.nextID++
	cp := *rec
	m.recs[rec.ID] = &cp
	return nil
}

func (m *MemoryStore) Update(_ context.Context, rec *contracts.Recommendation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.recs[rec.ID]
	if !ok {
		return nil
	}
	stored.RecDate = rec.RecDate
	stored.RecPrice = rec.RecPrice
	stored.SiphonScore = rec.SiphonScore
	stored.Industry = rec.Industry
	stored.CoreLogic = rec.CoreLogic
	return nil
}

func (m *MemoryStore) CloseRecommendation(_ context.Context, recID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec, ok := m.recs[recID]; ok {
		rec.Status = contracts.StatusClosed
		m.closed[recID] = time.Now()
	}
	return nil
}

func (m *MemoryStore) Active(_ context.Context) ([]contracts.Recommendation, error) {
	return m.listByStatus(contracts.StatusActive, 0), nil
}

func (m *MemoryStore) ClosedWithin(_ context.Context, days int) ([]contracts.Recommendation, error) {
	return m.listByStatus(contracts.StatusClosed, days), nil
}

func (m *MemoryStore) listByStatus(status contracts.RecommendationStatus, withinDays int) []contracts.Recommendation {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := time.Now().AddDate(0, 0, -withinDays)
	out := make([]contracts.Recommendation, 0)
	for _, rec := range m.recs {
		if rec.Status != status {
			continue
		}
		if withinDays > 0 && rec.RecDate.Before(cutoff) {
			continue
		}
		out = append(out, *rec)
	}
	// most recent lineage first, symbol ascending as the tiebreak
	sort.Slice(out, func(i, j int) bool {
		if !out[i].RecDate.Equal(out[j].RecDate) {
			return out[i].RecDate.After(out[j].RecDate)
		}
		return out[i].StockCode < out[j].StockCode
	})
	return out
}

func (m *MemoryStore) UpsertPerformance(_ context.Context, perf *contracts.DailyPerformance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := m.perfs[perf.RecID]
	key := perf.TradeDate.Format("2006-01-02")
	for i, row := range rows {
		if row.TradeDate.Format("2006-01-02") == key {
			perf.ID = row.ID
			rows[i] = *perf
			return nil
		}
	}
	perf.ID = int64(len(rows) + 1)
	m.perfs[perf.RecID] = append(rows, *perf)
	return nil
}

func (m *MemoryStore) LatestPerformance(_ context.Context, recID int64) (*contracts.DailyPerformance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := m.perfs[recID]
	if len(rows) == 0 {
		return nil, nil
	}
	latest := rows[0]
	for _, row := range rows[1:] {
		if row.TradeDate.After(latest.TradeDate) {
			latest = row
		}
	}
	return &latest, nil
}

func (m *MemoryStore) PerformanceHistory(_ context.Context, recID int64) ([]contracts.DailyPerformance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := append([]contracts.DailyPerformance(nil), m.perfs[recID]...)
	sort.Slice(rows, func(i, j int) bool { return rows[i].TradeDate.Before(rows[j].TradeDate) })
	return rows, nil
}
