// Package analysis drives the entity chain that turns an uploaded video into
// queryable match statistics: Analysis -> Match -> 4 MatchPlayers ->
// SummaryMetrics, with the video's status tracking the outcome.
package analysis

import (
	"context"
	"log/slog"
	"time"

	"github.com/padelhq/padel-data/internal/domain"
	"github.com/padelhq/padel-data/internal/store"
)

// Service is the analysis orchestrator. It owns the Analysis/Match/
// MatchPlayer/SummaryMetrics creation sequence and the video status field
// while processing is in flight.
type Service struct {
	store  store.Store
	logger *slog.Logger
}

// NewService creates the orchestrator.
func NewService(st store.Store, logger *slog.Logger) *Service {
	return &Service{store: st, logger: logger}
}

// CreateAnalysisForVideo creates the full entity chain for a freshly uploaded
// video and moves it to PROCESSING. The five writes run in one transaction:
// a failure rolls everything back, so no analysis can be left pointing at a
// missing match. After a rollback the video is forced to ERROR (best effort;
// a failure of that write is logged, never masks the original error).
func (s *Service) CreateAnalysisForVideo(ctx context.Context, videoID int64, playerID string) (*domain.Analysis, error) {
	if _, err := s.store.Videos().GetByID(ctx, videoID); err != nil {
		return nil, err
	}

	var created *domain.Analysis
	err := s.store.InTx(ctx, func(tx store.Store) error {
		a, err := tx.Analyses().Create(ctx, &domain.Analysis{
			PlayerID:          playerID,
			VideoID:           videoID,
			AnalysisTimestamp: time.Now(),
		})
		if err != nil {
			return err
		}

		match, err := tx.Matches().Create(ctx, &domain.Match{})
		if err != nil {
			return err
		}

		a.MatchID = &match.ID
		if a, err = tx.Analyses().Update(ctx, a); err != nil {
			return err
		}

		for _, label := range domain.SlotLabels {
			if _, err := tx.MatchPlayers().Create(ctx, &domain.MatchPlayer{
				MatchID:          match.ID,
				PlayerIdentifier: label,
			}); err != nil {
				return err
			}
		}

		if err := tx.Videos().UpdateStatus(ctx, videoID, domain.StatusProcessing); err != nil {
			return err
		}

		created = a
		return nil
	})
	if err != nil {
		if statusErr := s.store.Videos().UpdateStatus(ctx, videoID, domain.StatusError); statusErr != nil {
			s.logger.Error("failed to mark video ERROR after chain failure",
				"video_id", videoID, "error", statusErr)
		}
		return nil, &domain.AnalysisError{Op: "create", Err: err}
	}
	return created, nil
}

// StoreAnalysisResults persists one SummaryMetrics row per slot of the match.
// A slot missing from results gets zero counts; that is the documented
// default for the current pipeline, logged so an omission stays visible.
func (s *Service) StoreAnalysisResults(ctx context.Context, matchID int64, results map[string]PlayerResult) error {
	err := s.store.InTx(ctx, func(tx store.Store) error {
		matchPlayers, err := tx.MatchPlayers().GetByMatchID(ctx, matchID)
		if err != nil {
			return err
		}

		for _, mp := range matchPlayers {
			r, ok := results[mp.PlayerIdentifier]
			if !ok {
				s.logger.Warn("no result for slot, storing zero counts",
					"match_id", matchID, "player_identifier", mp.PlayerIdentifier)
			}
			if _, err := tx.Metrics().Create(ctx, &domain.SummaryMetrics{
				MatchPlayerID: mp.ID,
				TotalHits:     r.Hits,
				TotalRallies:  r.Rallies,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return &domain.AnalysisError{Op: "store", Err: err}
	}
	return nil
}

// CompleteAnalysis records the outcome on the video: ANALYZED on success,
// ERROR otherwise. No other side effects.
func (s *Service) CompleteAnalysis(ctx context.Context, videoID int64, success bool, errorMessage string) error {
	status := domain.StatusAnalyzed
	if !success {
		status = domain.StatusError
		if errorMessage != "" {
			s.logger.Error("analysis failed", "video_id", videoID, "reason", errorMessage)
		}
	}
	return s.store.Videos().UpdateStatus(ctx, videoID, status)
}

// GetAnalysisByVideo returns the analysis for a video, or
// domain.ErrAnalysisNotFound.
func (s *Service) GetAnalysisByVideo(ctx context.Context, videoID int64) (*domain.Analysis, error) {
	return s.store.Analyses().GetByVideoID(ctx, videoID)
}

// Video returns a video by ID. Used by the runner to hand the stored file to
// the result adapter.
func (s *Service) Video(ctx context.Context, videoID int64) (*domain.Video, error) {
	return s.store.Videos().GetByID(ctx, videoID)
}
