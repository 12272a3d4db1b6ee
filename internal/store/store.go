// Package store defines per-entity persistence interfaces. The orchestrator
// and statistics reader depend only on these, so they can be tested against
// the in-memory implementation without a database.
//
// Lookup methods return the matching domain sentinel error (ErrVideoNotFound,
// ErrMatchNotFound, ...) when no row exists.
package store

import (
	"context"

	"github.com/padelhq/padel-data/internal/domain"
)

// PlayerStore persists registered player accounts.
type PlayerStore interface {
	Create(ctx context.Context, p *domain.Player) (*domain.Player, error)
	GetByID(ctx context.Context, id string) (*domain.Player, error)
	GetByEmail(ctx context.Context, email string) (*domain.Player, error)
}

// VideoStore persists uploaded videos. Videos are soft-deleted only.
type VideoStore interface {
	Create(ctx context.Context, v *domain.Video) (*domain.Video, error)
	GetByID(ctx context.Context, id int64) (*domain.Video, error)
	UpdateStatus(ctx context.Context, id int64, status domain.VideoStatus) error
	SoftDelete(ctx context.Context, id int64) error
}

// AnalysisStore persists analysis records. Update is used once, to link the
// analysis to its match.
type AnalysisStore interface {
	Create(ctx context.Context, a *domain.Analysis) (*domain.Analysis, error)
	Update(ctx context.Context, a *domain.Analysis) (*domain.Analysis, error)
	GetByVideoID(ctx context.Context, videoID int64) (*domain.Analysis, error)
	GetByMatchID(ctx context.Context, matchID int64) (*domain.Analysis, error)
}

// MatchStore persists matches.
type MatchStore interface {
	Create(ctx context.Context, m *domain.Match) (*domain.Match, error)
	GetByID(ctx context.Context, id int64) (*domain.Match, error)
}

// MatchPlayerStore persists the four slot rows per match.
type MatchPlayerStore interface {
	Create(ctx context.Context, mp *domain.MatchPlayer) (*domain.MatchPlayer, error)
	GetByID(ctx context.Context, id int64) (*domain.MatchPlayer, error)
	GetByMatchID(ctx context.Context, matchID int64) ([]domain.MatchPlayer, error)
	GetByIdentifier(ctx context.Context, matchID int64, identifier string) (*domain.MatchPlayer, error)
}

// SummaryMetricsStore persists per-slot aggregate statistics.
// GetAllByMatchID returns an empty slice, not an error, when no metrics
// exist yet; callers decide whether that means "data unavailable".
type SummaryMetricsStore interface {
	Create(ctx context.Context, sm *domain.SummaryMetrics) (*domain.SummaryMetrics, error)
	GetByMatchPlayerID(ctx context.Context, matchPlayerID int64) (*domain.SummaryMetrics, error)
	GetAllByMatchID(ctx context.Context, matchID int64) ([]domain.SummaryMetrics, error)
}

// Store aggregates the per-entity stores and provides transaction scoping.
type Store interface {
	Players() PlayerStore
	Videos() VideoStore
	Analyses() AnalysisStore
	Matches() MatchStore
	MatchPlayers() MatchPlayerStore
	Metrics() SummaryMetricsStore

	// InTx runs fn against a transactional view of the store. All writes made
	// through the passed Store commit together when fn returns nil and roll
	// back when it returns an error. The analysis creation chain relies on
	// this so a failure never leaves an analysis pointing at a missing match.
	InTx(ctx context.Context, fn func(Store) error) error
}
