package strategy

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wonny/siphon/internal/contracts"
)

// Repository persists the day's candidate picks
// ⭐ SSOT: candidate persistence lives here only
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new candidate repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// SaveCandidates replaces the given scan date's picks. Re-running the scan
// for the same day prunes the earlier rows first so the table holds exactly
// one pick set per date.
func (r *Repository) SaveCandidates(ctx context.Context, candidates []contracts.Candidate) error {
	if len(candidates) == 0 {
		return nil
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin candidate tx: %w", err)
	}
	defer tx.Rollback(ctx)

	scanDate := candidates[0].ScanDate
	if _, err := tx.Exec(ctx, `DELETE FROM candidates WHERE scan_date = $1`, scanDate); err != nil {
		return fmt.Errorf("failed to prune same-day candidates: %w", err)
	}

	query := `
		INSERT INTO candidates (
			symbol, name, industry, price, change_pct, volume_ratio,
			turnover_rate, composite_score, signal_tags, scan_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	for _, c := range candidates {
		if _, err := tx.Exec(ctx, query,
			c.Symbol, c.Name, c.Industry, c.Price, c.ChangePct, c.VolumeRatio,
			c.TurnoverRate, c.CompositeScore, c.SignalTags, c.ScanDate,
		); err != nil {
			return fmt.Errorf("failed to insert candidate %s: %w", c.Symbol, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit candidates: %w", err)
	}
	return nil
}

// GetCandidatesByDate returns a scan date's picks ordered by score descending.
func (r *Repository) GetCandidatesByDate(ctx context.Context, date string) ([]contracts.Candidate, error) {
	query := `
		SELECT symbol, name, industry, price, change_pct, volume_ratio,
		       turnover_rate, composite_score, signal_tags, scan_date
		FROM candidates
		WHERE scan_date = $1
		ORDER BY composite_score DESC, symbol ASC
	`
	rows, err := r.pool.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	var out []contracts.Candidate
	for rows.Next() {
		var c contracts.Candidate
		if err := rows.Scan(
			&c.Symbol, &c.Name, &c.Industry, &c.Price, &c.ChangePct, &c.VolumeRatio,
			&c.TurnoverRate, &c.CompositeScore, &c.SignalTags, &c.ScanDate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan candidate row: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetLatestCandidates returns the most recent scan's picks.
func (r *Repository) GetLatestCandidates(ctx context.Context) ([]contracts.Candidate, error) {
	query := `
		SELECT symbol, name, industry, price, change_pct, volume_ratio,
		       turnover_rate, composite_score, signal_tags, scan_date
		FROM candidates
		WHERE scan_date = (SELECT MAX(scan_date) FROM candidates)
		ORDER BY composite_score DESC, symbol ASC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest candidates: %w", err)
	}
	defer rows.Close()

	var out []contracts.Candidate
	for rows.Next() {
		var c contracts.Candidate
		if err := rows.Scan(
			&c.Symbol, &c.Name, &c.Industry, &c.Price, &c.ChangePct, &c.VolumeRatio,
			&c.TurnoverRate, &c.CompositeScore, &c.SignalTags, &c.ScanDate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan candidate row: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
