package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/padelhq/padel-data/internal/domain"
)

type analysisStore struct {
	q querier
}

func (s analysisStore) Create(ctx context.Context, a *domain.Analysis) (*domain.Analysis, error) {
	row := s.q.QueryRow(ctx, "insert_analysis",
		a.PlayerID, a.VideoID, a.MatchID, a.AnalysisTimestamp)
	created, err := scanAnalysis(row)
	if err != nil {
		return nil, fmt.Errorf("insert analysis: %w", err)
	}
	return created, nil
}

func (s analysisStore) Update(ctx context.Context, a *domain.Analysis) (*domain.Analysis, error) {
	updated, err := scanAnalysis(s.q.QueryRow(ctx, "update_analysis", a.ID, a.MatchID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrAnalysisNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update analysis: %w", err)
	}
	return updated, nil
}

func (s analysisStore) GetByVideoID(ctx context.Context, videoID int64) (*domain.Analysis, error) {
	a, err := scanAnalysis(s.q.QueryRow(ctx, "analysis_by_video", videoID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrAnalysisNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get analysis by video: %w", err)
	}
	return a, nil
}

func (s analysisStore) GetByMatchID(ctx context.Context, matchID int64) (*domain.Analysis, error) {
	a, err := scanAnalysis(s.q.QueryRow(ctx, "analysis_by_match", matchID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrAnalysisNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get analysis by match: %w", err)
	}
	return a, nil
}

func scanAnalysis(row pgx.Row) (*domain.Analysis, error) {
	var a domain.Analysis
	err := row.Scan(&a.ID, &a.PlayerID, &a.VideoID, &a.MatchID,
		&a.AnalysisTimestamp, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
