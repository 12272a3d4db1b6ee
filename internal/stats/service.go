// Package stats answers read queries over persisted match statistics. It
// never mutates state and enforces the data-availability contract: a match
// with no metrics yet yields domain.ErrDataUnavailable, not an empty result.
package stats

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/padelhq/padel-data/internal/domain"
	"github.com/padelhq/padel-data/internal/store"
)

// PlayerStat is one slot's hit count.
type PlayerStat struct {
	PlayerIdentifier string `json:"player_identifier"`
	TotalHits        int    `json:"total_hits"`
}

// Overview is the match summary with per-player statistics. AnalysisID is
// nil when the match has no linked analysis row; that is accepted, not an
// error. PlayerStatistics carries the store's ordering, which is not a
// contract — the chart endpoint sorts explicitly.
type Overview struct {
	MatchID          int64        `json:"match_id"`
	AnalysisID       *int64       `json:"analysis_id"`
	PlayerStatistics []PlayerStat `json:"player_statistics"`
	CreatedAt        time.Time    `json:"created_at"`
}

// SetStatistics tags the aggregate match statistics with a set number.
// True per-set filtering needs a Set entity the schema does not have yet, so
// the numbers equal the match totals. Known limitation, kept deliberately.
type SetStatistics struct {
	MatchID          int64        `json:"match_id"`
	AnalysisID       *int64       `json:"analysis_id"`
	SetNumber        int          `json:"set_number"`
	PlayerStatistics []PlayerStat `json:"player_statistics"`
}

// ChartData is the hit comparison payload shaped for a bar chart. Players
// are sorted by total hits descending.
type ChartData struct {
	ChartType string       `json:"chart_type"`
	Players   []PlayerStat `json:"players"`
}

// Service is the match statistics reader.
type Service struct {
	store store.Store
}

// NewService creates the reader.
func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// MatchOverview returns the match summary with per-player hit counts.
func (s *Service) MatchOverview(ctx context.Context, matchID int64) (*Overview, error) {
	match, err := s.store.Matches().GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}

	analysisID, err := s.analysisID(ctx, matchID)
	if err != nil {
		return nil, err
	}

	playerStats, err := s.playerStatistics(ctx, matchID)
	if err != nil {
		return nil, err
	}

	return &Overview{
		MatchID:          match.ID,
		AnalysisID:       analysisID,
		PlayerStatistics: playerStats,
		CreatedAt:        match.CreatedAt,
	}, nil
}

// MatchStatisticsBySet validates the set number and returns the aggregate
// match statistics tagged with it. Validation runs before any store access.
func (s *Service) MatchStatisticsBySet(ctx context.Context, matchID int64, setNumber int) (*SetStatistics, error) {
	if setNumber < 1 {
		return nil, fmt.Errorf("%w: set number must be >= 1, got %d", domain.ErrInvalidSetNumber, setNumber)
	}

	match, err := s.store.Matches().GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}

	analysisID, err := s.analysisID(ctx, matchID)
	if err != nil {
		return nil, err
	}

	playerStats, err := s.playerStatistics(ctx, matchID)
	if err != nil {
		return nil, err
	}

	return &SetStatistics{
		MatchID:          match.ID,
		AnalysisID:       analysisID,
		SetNumber:        setNumber,
		PlayerStatistics: playerStats,
	}, nil
}

// HitComparisonChartData returns per-player hit counts shaped for a bar
// chart, sorted by total hits descending. The sort is mandatory here
// regardless of how the store orders its rows; ties keep input order.
func (s *Service) HitComparisonChartData(ctx context.Context, matchID int64) (*ChartData, error) {
	if _, err := s.store.Matches().GetByID(ctx, matchID); err != nil {
		return nil, err
	}

	playerStats, err := s.playerStatistics(ctx, matchID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(playerStats, func(i, j int) bool {
		return playerStats[i].TotalHits > playerStats[j].TotalHits
	})

	return &ChartData{ChartType: "bar", Players: playerStats}, nil
}

// PlayerHitCount returns the total hits for one slot of a match. The error
// distinguishes "slot does not exist" (ErrPlayerInMatchNotFound) from "slot
// exists but has no metrics yet" (ErrDataUnavailable).
func (s *Service) PlayerHitCount(ctx context.Context, matchID int64, playerIdentifier string) (int, error) {
	if _, err := s.store.Matches().GetByID(ctx, matchID); err != nil {
		return 0, err
	}

	mp, err := s.store.MatchPlayers().GetByIdentifier(ctx, matchID, playerIdentifier)
	if err != nil {
		return 0, err
	}

	sm, err := s.store.Metrics().GetByMatchPlayerID(ctx, mp.ID)
	if err != nil {
		return 0, err
	}
	return sm.TotalHits, nil
}

// analysisID resolves the 1:1 analysis link; a missing analysis is fine.
func (s *Service) analysisID(ctx context.Context, matchID int64) (*int64, error) {
	a, err := s.store.Analyses().GetByMatchID(ctx, matchID)
	if errors.Is(err, domain.ErrAnalysisNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a.ID, nil
}

// playerStatistics loads all metrics for a match and resolves each to its
// slot label. An empty metrics set means the analysis has not produced data
// yet (or failed) and surfaces as ErrDataUnavailable.
func (s *Service) playerStatistics(ctx context.Context, matchID int64) ([]PlayerStat, error) {
	metricsList, err := s.store.Metrics().GetAllByMatchID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if len(metricsList) == 0 {
		return nil, domain.ErrDataUnavailable
	}

	stats := make([]PlayerStat, 0, len(metricsList))
	for _, sm := range metricsList {
		mp, err := s.store.MatchPlayers().GetByID(ctx, sm.MatchPlayerID)
		if err != nil {
			return nil, err
		}
		stats = append(stats, PlayerStat{
			PlayerIdentifier: mp.PlayerIdentifier,
			TotalHits:        sm.TotalHits,
		})
	}
	return stats, nil
}
