// Package player manages registered accounts. Player IDs come from the
// external identity provider and are assigned exactly once.
package player

import (
	"context"
	"fmt"
	"strings"

	"github.com/padelhq/padel-data/internal/domain"
	"github.com/padelhq/padel-data/internal/store"
)

// Service implements player account operations.
type Service struct {
	store store.Store
}

// NewService creates the player service.
func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// Create registers a new player for an external identity. Duplicate IDs or
// emails fail with domain.ErrPlayerExists.
func (s *Service) Create(ctx context.Context, id, name, email, role string) (*domain.Player, error) {
	id = strings.TrimSpace(id)
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if role == "" {
		role = "player"
	}

	if id == "" {
		return nil, fmt.Errorf("%w: identity id cannot be empty", domain.ErrValidation)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", domain.ErrValidation)
	}
	if len(name) > 100 {
		return nil, fmt.Errorf("%w: name must be at most 100 characters", domain.ErrValidation)
	}
	if email == "" {
		return nil, fmt.Errorf("%w: email cannot be empty", domain.ErrValidation)
	}

	return s.store.Players().Create(ctx, &domain.Player{
		ID:    id,
		Name:  name,
		Email: email,
		Role:  role,
	})
}

// GetByID returns a player or domain.ErrPlayerNotFound.
func (s *Service) GetByID(ctx context.Context, id string) (*domain.Player, error) {
	return s.store.Players().GetByID(ctx, id)
}

// GetByEmail returns a player or domain.ErrPlayerNotFound.
func (s *Service) GetByEmail(ctx context.Context, email string) (*domain.Player, error) {
	return s.store.Players().GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}
