// Package metrics exposes Prometheus instrumentation for the upload and
// analysis pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// VideosUploaded counts accepted video uploads.
	VideosUploaded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "padel_videos_uploaded_total",
		Help: "Number of videos accepted by the upload endpoint.",
	})

	// AnalysesStarted counts analysis chains that began executing.
	AnalysesStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "padel_analyses_started_total",
		Help: "Number of analysis jobs started by the background runner.",
	})

	// AnalysesCompleted counts finished analysis chains by outcome.
	AnalysesCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "padel_analyses_completed_total",
		Help: "Number of analysis jobs finished, labeled by outcome.",
	}, []string{"outcome"})

	// StuckVideos reports videos sitting in PROCESSING beyond the threshold,
	// as observed by the last maintenance sweep.
	StuckVideos = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "padel_stuck_processing_videos",
		Help: "Videos stuck in PROCESSING status at the last sweep.",
	})
)
