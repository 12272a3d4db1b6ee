package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/padelhq/padel-data/internal/domain"
)

type matchStore struct {
	q querier
}

func (s matchStore) Create(ctx context.Context, m *domain.Match) (*domain.Match, error) {
	var created domain.Match
	err := s.q.QueryRow(ctx, "insert_match").Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert match: %w", err)
	}
	return &created, nil
}

func (s matchStore) GetByID(ctx context.Context, id int64) (*domain.Match, error) {
	var m domain.Match
	err := s.q.QueryRow(ctx, "match_by_id", id).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrMatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get match: %w", err)
	}
	return &m, nil
}

type matchPlayerStore struct {
	q querier
}

func (s matchPlayerStore) Create(ctx context.Context, mp *domain.MatchPlayer) (*domain.MatchPlayer, error) {
	created, err := scanMatchPlayer(s.q.QueryRow(ctx, "insert_match_player", mp.MatchID, mp.PlayerIdentifier))
	if err != nil {
		return nil, fmt.Errorf("insert match player: %w", err)
	}
	return created, nil
}

func (s matchPlayerStore) GetByID(ctx context.Context, id int64) (*domain.MatchPlayer, error) {
	mp, err := scanMatchPlayer(s.q.QueryRow(ctx, "match_player_by_id", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPlayerInMatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get match player: %w", err)
	}
	return mp, nil
}

func (s matchPlayerStore) GetByMatchID(ctx context.Context, matchID int64) ([]domain.MatchPlayer, error) {
	rows, err := s.q.Query(ctx, "match_players_by_match", matchID)
	if err != nil {
		return nil, fmt.Errorf("get match players: %w", err)
	}
	defer rows.Close()

	var out []domain.MatchPlayer
	for rows.Next() {
		var mp domain.MatchPlayer
		if err := rows.Scan(&mp.ID, &mp.MatchID, &mp.PlayerIdentifier, &mp.CreatedAt, &mp.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan match player: %w", err)
		}
		out = append(out, mp)
	}
	return out, rows.Err()
}

func (s matchPlayerStore) GetByIdentifier(ctx context.Context, matchID int64, identifier string) (*domain.MatchPlayer, error) {
	mp, err := scanMatchPlayer(s.q.QueryRow(ctx, "match_player_by_identifier", matchID, identifier))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPlayerInMatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get match player by identifier: %w", err)
	}
	return mp, nil
}

func scanMatchPlayer(row pgx.Row) (*domain.MatchPlayer, error) {
	var mp domain.MatchPlayer
	err := row.Scan(&mp.ID, &mp.MatchID, &mp.PlayerIdentifier, &mp.CreatedAt, &mp.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &mp, nil
}
