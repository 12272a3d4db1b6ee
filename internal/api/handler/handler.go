// Package handler provides HTTP handlers for all API endpoints. Handlers
// translate between HTTP and the service layer; business rules live in the
// services, error mapping in respond.
package handler

import (
	"net/http"
	"time"

	"github.com/padelhq/padel-data/internal/analysis"
	"github.com/padelhq/padel-data/internal/api/respond"
	"github.com/padelhq/padel-data/internal/config"
	"github.com/padelhq/padel-data/internal/db"
	"github.com/padelhq/padel-data/internal/player"
	"github.com/padelhq/padel-data/internal/stats"
	"github.com/padelhq/padel-data/internal/video"
)

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	pool     *db.Pool
	videos   *video.Service
	players  *player.Service
	stats    *stats.Service
	analyses *analysis.Service
	cfg      *config.Config
}

// New creates a Handler with shared dependencies.
func New(pool *db.Pool, videos *video.Service, players *player.Service, statsSvc *stats.Service, analyses *analysis.Service, cfg *config.Config) *Handler {
	return &Handler{
		pool:     pool,
		videos:   videos,
		players:  players,
		stats:    statsSvc,
		analyses: analyses,
		cfg:      cfg,
	}
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version, and status.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":    "Padel Analyzer API",
		"version": "1.0.0",
		"status":  "running",
		"docs":    "/docs",
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Description Returns basic health status and timestamp.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies database connectivity.
// @Summary Database health check
// @Description Verifies Postgres connectivity.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if err := h.pool.HealthCheck(r.Context()); err != nil {
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"database":  "disconnected",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
