package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wonny/siphon/internal/contracts"
)

// Repository is the PostgreSQL-backed Store
// ⭐ SSOT: tracking persistence lives here only
type Repository struct {
	pool *pgxpool.Pool
}

var _ Store = (*Repository)(nil)

// NewRepository creates a new tracking repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ActiveBySymbol returns the symbol's open recommendation, nil when none.
func (r *Repository) ActiveBySymbol(ctx context.Context, code string) (*contracts.Recommendation, error) {
	query := `
		SELECT id, stock_code, stock_name, rec_date, rec_price, strategy_tag,
		       siphon_score, industry, core_logic, status, created_at
		FROM recommendations
		WHERE stock_code = $1 AND status = 'ACTIVE'
		ORDER BY rec_date ASC
		LIMIT 1
	`
	var rec contracts.Recommendation
	err := r.pool.QueryRow(ctx, query, code).Scan(
		&rec.ID, &rec.StockCode, &rec.StockName, &rec.RecDate, &rec.RecPrice,
		&rec.StrategyTag, &rec.SiphonScore, &rec.Industry, &rec.CoreLogic,
		&rec.Status, &rec.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query open lineage: %w", err)
	}
	return &rec, nil
}

// Insert creates a new recommendation row and fills in its ID.
func (r *Repository) Insert(ctx context.Context, rec *contracts.Recommendation) error {
	query := `
		INSERT INTO recommendations (
			stock_code, stock_name, rec_date, rec_price, strategy_tag,
			siphon_score, industry, core_logic, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	err := r.pool.QueryRow(ctx, query,
		rec.StockCode, rec.StockName, rec.RecDate, rec.RecPrice, rec.StrategyTag,
		rec.SiphonScore, rec.Industry, rec.CoreLogic, rec.Status, rec.CreatedAt,
	).Scan(&rec.ID)
	if err != nil {
		return fmt.Errorf("failed to insert recommendation: %w", err)
	}
	return nil
}

// Update rewrites a recommendation's mutable fields.
func (r *Repository) Update(ctx context.Context, rec *contracts.Recommendation) error {
	query := `
		UPDATE recommendations
		SET rec_date = $1, rec_price = $2, siphon_score = $3,
		    industry = $4, core_logic = $5
		WHERE id = $6
	`
	_, err := r.pool.Exec(ctx, query,
		rec.RecDate, rec.RecPrice, rec.SiphonScore, rec.Industry, rec.CoreLogic, rec.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update recommendation: %w", err)
	}
	return nil
}

// CloseRecommendation flips a recommendation to CLOSED.
func (r *Repository) CloseRecommendation(ctx context.Context, recID int64) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE recommendations SET status = 'CLOSED' WHERE id = $1`, recID)
	if err != nil {
		return fmt.Errorf("failed to close recommendation %d: %w", recID, err)
	}
	return nil
}

// Active lists open recommendations, most recent lineage first.
func (r *Repository) Active(ctx context.Context) ([]contracts.Recommendation, error) {
	return r.list(ctx, `
		SELECT id, stock_code, stock_name, rec_date, rec_price, strategy_tag,
		       siphon_score, industry, core_logic, status, created_at
		FROM recommendations
		WHERE status = 'ACTIVE'
		ORDER BY rec_date DESC, stock_code ASC
	`)
}

// ClosedWithin lists recommendations closed within the given day window.
func (r *Repository) ClosedWithin(ctx context.Context, days int) ([]contracts.Recommendation, error) {
	return r.list(ctx, `
		SELECT id, stock_code, stock_name, rec_date, rec_price, strategy_tag,
		       siphon_score, industry, core_logic, status, created_at
		FROM recommendations
		WHERE status = 'CLOSED' AND rec_date >= $1
		ORDER BY rec_date DESC, stock_code ASC
	`, time.Now().AddDate(0, 0, -days))
}

func (r *Repository) list(ctx context.Context, query string, args ...interface{}) ([]contracts.Recommendation, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendations: %w", err)
	}
	defer rows.Close()

	var out []contracts.Recommendation
	for rows.Next() {
		var rec contracts.Recommendation
		if err := rows.Scan(
			&rec.ID, &rec.StockCode, &rec.StockName, &rec.RecDate, &rec.RecPrice,
			&rec.StrategyTag, &rec.SiphonScore, &rec.Industry, &rec.CoreLogic,
			&rec.Status, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation row: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// UpsertPerformance writes one (rec_id, trade_date) row idempotently.
func (r *Repository) UpsertPerformance(ctx context.Context, perf *contracts.DailyPerformance) error {
	query := `
		INSERT INTO daily_performance (
			rec_id, trade_date, close_price, daily_change_pct,
			cumulative_return, max_drawdown, max_high, index_return
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (rec_id, trade_date) DO UPDATE SET
			close_price = EXCLUDED.close_price,
			daily_change_pct = EXCLUDED.daily_change_pct,
			cumulative_return = EXCLUDED.cumulative_return,
			max_drawdown = EXCLUDED.max_drawdown,
			max_high = EXCLUDED.max_high,
			index_return = EXCLUDED.index_return
	`
	_, err := r.pool.Exec(ctx, query,
		perf.RecID, perf.TradeDate, perf.ClosePrice, perf.DailyChangePct,
		perf.CumulativeReturn, perf.MaxDrawdown, perf.MaxHigh, perf.IndexReturn,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert daily performance: %w", err)
	}
	return nil
}

// LatestPerformance returns the most recent performance row, nil when the
// position has none yet.
func (r *Repository) LatestPerformance(ctx context.Context, recID int64) (*contracts.DailyPerformance, error) {
	query := `
		SELECT id, rec_id, trade_date, close_price, daily_change_pct,
		       cumulative_return, max_drawdown, max_high, index_return
		FROM daily_performance
		WHERE rec_id = $1
		ORDER BY trade_date DESC
		LIMIT 1
	`
	var p contracts.DailyPerformance
	err := r.pool.QueryRow(ctx, query, recID).Scan(
		&p.ID, &p.RecID, &p.TradeDate, &p.ClosePrice, &p.DailyChangePct,
		&p.CumulativeReturn, &p.MaxDrawdown, &p.MaxHigh, &p.IndexReturn,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest performance: %w", err)
	}
	return &p, nil
}

// PerformanceHistory returns every performance row for a recommendation,
// ascending by trade date.
func (r *Repository) PerformanceHistory(ctx context.Context, recID int64) ([]contracts.DailyPerformance, error) {
	query := `
		SELECT id, rec_id, trade_date, close_price, daily_change_pct,
		       cumulative_return, max_drawdown, max_high, index_return
		FROM daily_performance
		WHERE rec_id = $1
		ORDER BY trade_date ASC
	`
	rows, err := r.pool.Query(ctx, query, recID)
	if err != nil {
		return nil, fmt.Errorf("failed to query performance history: %w", err)
	}
	defer rows.Close()

	var out []contracts.DailyPerformance
	for rows.Next() {
		var p contracts.DailyPerformance
		if err := rows.Scan(
			&p.ID, &p.RecID, &p.TradeDate, &p.ClosePrice, &p.DailyChangePct,
			&p.CumulativeReturn, &p.MaxDrawdown, &p.MaxHigh, &p.IndexReturn,
		); err != nil {
			return nil, fmt.Errorf("failed to scan performance row: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
