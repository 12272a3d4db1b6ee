package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/padelhq/padel-data/internal/domain"
)

type metricsStore struct {
	q querier
}

func (s metricsStore) Create(ctx context.Context, sm *domain.SummaryMetrics) (*domain.SummaryMetrics, error) {
	created, err := scanMetrics(s.q.QueryRow(ctx, "insert_metrics",
		sm.MatchPlayerID, sm.TotalHits, sm.TotalRallies))
	if err != nil {
		return nil, fmt.Errorf("insert summary metrics: %w", err)
	}
	return created, nil
}

func (s metricsStore) GetByMatchPlayerID(ctx context.Context, matchPlayerID int64) (*domain.SummaryMetrics, error) {
	sm, err := scanMetrics(s.q.QueryRow(ctx, "metrics_by_match_player", matchPlayerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrDataUnavailable
	}
	if err != nil {
		return nil, fmt.Errorf("get summary metrics: %w", err)
	}
	return sm, nil
}

// GetAllByMatchID returns the metrics rows for every slot of a match. The
// statement sorts by total_hits descending for convenience, but callers must
// not rely on that ordering.
func (s metricsStore) GetAllByMatchID(ctx context.Context, matchID int64) ([]domain.SummaryMetrics, error) {
	rows, err := s.q.Query(ctx, "metrics_by_match", matchID)
	if err != nil {
		return nil, fmt.Errorf("get match metrics: %w", err)
	}
	defer rows.Close()

	var out []domain.SummaryMetrics
	for rows.Next() {
		var sm domain.SummaryMetrics
		if err := rows.Scan(&sm.ID, &sm.MatchPlayerID, &sm.TotalHits, &sm.TotalRallies,
			&sm.CreatedAt, &sm.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan summary metrics: %w", err)
		}
		out = append(out, sm)
	}
	return out, rows.Err()
}

func scanMetrics(row pgx.Row) (*domain.SummaryMetrics, error) {
	var sm domain.SummaryMetrics
	err := row.Scan(&sm.ID, &sm.MatchPlayerID, &sm.TotalHits, &sm.TotalRallies,
		&sm.CreatedAt, &sm.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &sm, nil
}
