// Package maintenance runs periodic background tasks as Go tickers. The
// analysis chain is at-most-once: a crash mid-chain leaves a video in
// PROCESSING with no job to finish it. The sweep makes that degraded state
// observable instead of letting it rot silently.
package maintenance

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/padelhq/padel-data/internal/metrics"
)

// Config controls maintenance task intervals. Zero duration disables a task.
type Config struct {
	SweepInterval   time.Duration // Stuck-video scan
	StuckVideoAfter time.Duration // PROCESSING age before a video counts as stuck
}

// DefaultConfig returns sensible production defaults.
func DefaultConfig() Config {
	return Config{
		SweepInterval:   15 * time.Minute,
		StuckVideoAfter: time.Hour,
	}
}

// Start launches the maintenance tickers. Blocks until ctx is cancelled.
// Intended to be called with `go`.
func Start(ctx context.Context, pool *pgxpool.Pool, cfg Config, logger *slog.Logger) {
	if cfg.SweepInterval <= 0 {
		logger.Info("Maintenance sweep disabled")
		return
	}
	logger.Info("Maintenance sweep started",
		"interval", cfg.SweepInterval, "stuck_after", cfg.StuckVideoAfter)

	t := time.NewTicker(cfg.SweepInterval)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			SweepStuckVideos(ctx, pool, cfg.StuckVideoAfter, logger)
		case <-ctx.Done():
			logger.Info("Maintenance sweep stopped")
			return
		}
	}
}

// SweepStuckVideos reports videos that have sat in PROCESSING longer than
// the threshold. It only observes — the job model is non-resumable, so the
// fix (re-upload or manual status change) stays a human decision.
func SweepStuckVideos(ctx context.Context, pool *pgxpool.Pool, olderThan time.Duration, logger *slog.Logger) int {
	rows, err := pool.Query(ctx, "stuck_processing_videos", olderThan.Seconds())
	if err != nil {
		logger.Warn("Sweep: stuck video query failed", "error", err)
		return 0
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var id int64
		var updatedAt time.Time
		if err := rows.Scan(&id, &updatedAt); err != nil {
			logger.Warn("Sweep: scan failed", "error", err)
			return count
		}
		count++
		logger.Warn("Sweep: video stuck in PROCESSING",
			"video_id", id, "since", updatedAt, "age", time.Since(updatedAt).Round(time.Minute))
	}
	if err := rows.Err(); err != nil {
		logger.Warn("Sweep: stuck video query failed", "error", err)
	}

	metrics.StuckVideos.Set(float64(count))
	if count == 0 {
		logger.Debug("Sweep: no stuck videos")
	}
	return count
}
