package analysis

import (
	"context"
	"log/slog"
	"sync"

	"github.com/padelhq/padel-data/internal/metrics"
)

// Job is one queued analysis request. Jobs are at-most-once: a crash between
// enqueue and completion loses the job, and the maintenance sweep reports the
// video left behind in PROCESSING.
type Job struct {
	VideoID  int64
	PlayerID string
}

// Runner executes analysis chains in the background, decoupling upload
// latency from ML processing time. Chains for different videos run
// concurrently; the store serializes writers to the same rows.
type Runner struct {
	svc     *Service
	adapter ResultAdapter
	jobs    chan Job
	workers int
	logger  *slog.Logger
}

// NewRunner creates a runner with a bounded job queue.
func NewRunner(svc *Service, adapter ResultAdapter, workers, queueSize int, logger *slog.Logger) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		svc:     svc,
		adapter: adapter,
		jobs:    make(chan Job, queueSize),
		workers: workers,
		logger:  logger,
	}
}

// Enqueue schedules an analysis job. Returns false when the queue is full;
// the caller decides whether that is fatal (the upload itself already
// succeeded either way).
func (r *Runner) Enqueue(job Job) bool {
	select {
	case r.jobs <- job:
		return true
	default:
		r.logger.Error("analysis queue full, dropping job", "video_id", job.VideoID)
		return false
	}
}

// EnqueueAnalysis satisfies the ingest layer's queue interface.
func (r *Runner) EnqueueAnalysis(videoID int64, playerID string) bool {
	return r.Enqueue(Job{VideoID: videoID, PlayerID: playerID})
}

// Start runs the worker pool until ctx is cancelled. Blocks; intended to be
// called with `go`.
func (r *Runner) Start(ctx context.Context) {
	r.logger.Info("analysis runner started", "workers", r.workers, "queue", cap(r.jobs))

	var wg sync.WaitGroup
	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case job := <-r.jobs:
					r.process(ctx, job)
				case <-ctx.Done():
					return
				}
			}
		}()
	}
	wg.Wait()
	r.logger.Info("analysis runner stopped")
}

// process runs the full chain for one video: create entities, call the ML
// adapter, store results, mark the outcome. Any failure along the way turns
// into a best-effort CompleteAnalysis(success=false); if even that write
// fails the video is left in its current status and the error is logged.
func (r *Runner) process(ctx context.Context, job Job) {
	metrics.AnalysesStarted.Inc()
	log := r.logger.With("video_id", job.VideoID)

	a, err := r.svc.CreateAnalysisForVideo(ctx, job.VideoID, job.PlayerID)
	if err != nil {
		// CreateAnalysisForVideo already moved the video to ERROR.
		log.Error("analysis chain failed", "stage", "create", "error", err)
		metrics.AnalysesCompleted.WithLabelValues("failed").Inc()
		return
	}

	video, err := r.svc.Video(ctx, job.VideoID)
	if err != nil {
		r.fail(ctx, log, job.VideoID, "load video", err)
		return
	}

	results, err := r.adapter.Analyze(ctx, video)
	if err != nil {
		r.fail(ctx, log, job.VideoID, "ml adapter", err)
		return
	}

	if err := r.svc.StoreAnalysisResults(ctx, *a.MatchID, results); err != nil {
		r.fail(ctx, log, job.VideoID, "store results", err)
		return
	}

	if err := r.svc.CompleteAnalysis(ctx, job.VideoID, true, ""); err != nil {
		r.fail(ctx, log, job.VideoID, "complete", err)
		return
	}

	log.Info("analysis complete", "match_id", *a.MatchID)
	metrics.AnalysesCompleted.WithLabelValues("succeeded").Inc()
}

func (r *Runner) fail(ctx context.Context, log *slog.Logger, videoID int64, stage string, err error) {
	log.Error("analysis chain failed", "stage", stage, "error", err)
	if cErr := r.svc.CompleteAnalysis(ctx, videoID, false, err.Error()); cErr != nil {
		log.Error("could not record analysis failure, video left in degraded status",
			"error", cErr)
	}
	metrics.AnalysesCompleted.WithLabelValues("failed").Inc()
}
