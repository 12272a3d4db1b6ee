// Package video handles the upload path: validate the file, store it on
// disk, create the UPLOADED record, and hand the video to the analysis queue.
package video

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/padelhq/padel-data/internal/domain"
	"github.com/padelhq/padel-data/internal/metrics"
	"github.com/padelhq/padel-data/internal/store"
)

// FileStore is the subset of file storage the ingest path needs.
type FileStore interface {
	Save(r io.Reader, originalFilename, playerID string) (string, error)
}

// Enqueuer schedules the background analysis for an uploaded video. The
// upload response does not wait for it.
type Enqueuer interface {
	EnqueueAnalysis(videoID int64, playerID string) bool
}

// Service implements video ingest and status management.
type Service struct {
	store          store.Store
	files          FileStore
	queue          Enqueuer
	allowedFormats []string
	maxSizeBytes   int64
	maxSizeMB      int
	logger         *slog.Logger
}

// NewService creates the ingest service.
func NewService(st store.Store, files FileStore, queue Enqueuer, allowedFormats []string, maxSizeMB int, logger *slog.Logger) *Service {
	return &Service{
		store:          st,
		files:          files,
		queue:          queue,
		allowedFormats: allowedFormats,
		maxSizeBytes:   int64(maxSizeMB) * 1024 * 1024,
		maxSizeMB:      maxSizeMB,
		logger:         logger,
	}
}

// Upload validates and stores the file, persists the video in UPLOADED
// status, and schedules analysis after the record is committed.
func (s *Service) Upload(ctx context.Context, r io.Reader, filename string, size int64, playerID string) (*domain.Video, error) {
	if err := s.Validate(filename, size); err != nil {
		return nil, err
	}

	storagePath, err := s.files.Save(r, filename, playerID)
	if err != nil {
		return nil, err
	}

	created, err := s.store.Videos().Create(ctx, &domain.Video{
		PlayerID:        playerID,
		FileName:        filename,
		StoragePath:     storagePath,
		Status:          domain.StatusUploaded,
		UploadTimestamp: time.Now(),
	})
	if err != nil {
		return nil, err
	}
	metrics.VideosUploaded.Inc()

	// Analysis runs detached; the client hears "uploaded" before it begins.
	if s.queue != nil {
		if !s.queue.EnqueueAnalysis(created.ID, playerID) {
			s.logger.Error("could not schedule analysis", "video_id", created.ID)
		}
	}

	s.logger.Info("video uploaded", "video_id", created.ID, "player_id", playerID, "file", filename)
	return created, nil
}

// Validate checks extension and size against the configured limits.
func (s *Service) Validate(filename string, size int64) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	allowed := false
	for _, f := range s.allowedFormats {
		if ext == f {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("%w: %q (allowed: %s)",
			domain.ErrInvalidFileFormat, ext, strings.Join(s.allowedFormats, ", "))
	}

	if size > s.maxSizeBytes {
		return fmt.Errorf("%w: %.2fMB exceeds %dMB",
			domain.ErrFileTooLarge, float64(size)/(1024*1024), s.maxSizeMB)
	}
	return nil
}

// Get returns a video by ID.
func (s *Service) Get(ctx context.Context, videoID int64) (*domain.Video, error) {
	return s.store.Videos().GetByID(ctx, videoID)
}

// UpdateStatus sets a video's processing status.
func (s *Service) UpdateStatus(ctx context.Context, videoID int64, status domain.VideoStatus) error {
	if _, err := s.store.Videos().GetByID(ctx, videoID); err != nil {
		return err
	}
	return s.store.Videos().UpdateStatus(ctx, videoID, status)
}

// SoftDelete marks a video deleted without touching the file or any derived
// entities.
func (s *Service) SoftDelete(ctx context.Context, videoID int64) error {
	return s.store.Videos().SoftDelete(ctx, videoID)
}

// AllowedFormats returns the configured extension allow-list.
func (s *Service) AllowedFormats() []string {
	out := make([]string, len(s.allowedFormats))
	copy(out, s.allowedFormats)
	return out
}

// MaxFileSizeMB returns the configured upload cap in megabytes.
func (s *Service) MaxFileSizeMB() int {
	return s.maxSizeMB
}
