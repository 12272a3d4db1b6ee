package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/padelhq/padel-data/internal/domain"
)

type playerStore struct {
	q querier
}

func (s playerStore) Create(ctx context.Context, p *domain.Player) (*domain.Player, error) {
	row := s.q.QueryRow(ctx, "insert_player", p.ID, p.Name, p.Email, p.Role)
	created, err := scanPlayer(row)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23505 = unique_violation (duplicate id or email)
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrPlayerExists
		}
		return nil, fmt.Errorf("insert player: %w", err)
	}
	return created, nil
}

func (s playerStore) GetByID(ctx context.Context, id string) (*domain.Player, error) {
	p, err := scanPlayer(s.q.QueryRow(ctx, "player_by_id", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get player: %w", err)
	}
	return p, nil
}

func (s playerStore) GetByEmail(ctx context.Context, email string) (*domain.Player, error) {
	p, err := scanPlayer(s.q.QueryRow(ctx, "player_by_email", email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get player by email: %w", err)
	}
	return p, nil
}

func scanPlayer(row pgx.Row) (*domain.Player, error) {
	var p domain.Player
	err := row.Scan(&p.ID, &p.Name, &p.Email, &p.Role, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
