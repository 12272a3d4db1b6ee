package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	corslib "github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/padelhq/padel-data/internal/analysis"
	"github.com/padelhq/padel-data/internal/api/handler"
	"github.com/padelhq/padel-data/internal/api/respond"
	"github.com/padelhq/padel-data/internal/auth"
	"github.com/padelhq/padel-data/internal/config"
	"github.com/padelhq/padel-data/internal/db"
	"github.com/padelhq/padel-data/internal/domain"
	"github.com/padelhq/padel-data/internal/player"
	"github.com/padelhq/padel-data/internal/stats"
	"github.com/padelhq/padel-data/internal/video"
)

// Deps bundles everything the router needs.
type Deps struct {
	Pool     *db.Pool
	Gate     *auth.Gate
	Videos   *video.Service
	Players  *player.Service
	Stats    *stats.Service
	Analyses *analysis.Service
	Cfg      *config.Config
}

// NewRouter creates and configures the Chi router with all middleware and routes.
func NewRouter(d Deps) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TimingMiddleware)
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   d.Cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Process-Time"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if d.Cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(d.Cfg.RateLimitRequests, d.Cfg.RateLimitWindow))
	}

	// --- Handler dependencies ---
	h := handler.New(d.Pool, d.Videos, d.Players, d.Stats, d.Analyses, d.Cfg)

	authErr := func(w http.ResponseWriter, r *http.Request, err error) {
		if errors.Is(err, domain.ErrPlayerNotFound) {
			respond.WriteError(w, http.StatusForbidden, "NOT_REGISTERED",
				"Identity is valid but no player account exists. Register first.")
			return
		}
		respond.WriteDomainError(w, err)
	}

	// --- Routes ---

	// Root
	r.Get("/", h.Root)

	// Health checks
	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/db", h.HealthCheckDB)
	})

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	// Swagger UI backed by the embedded OpenAPI document.
	r.Get("/docs/doc.json", serveOpenAPISpec)
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/doc.json"),
	))

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Registration only needs a verified identity, not an account.
		r.Group(func(r chi.Router) {
			r.Use(d.Gate.VerifyMiddleware(authErr))
			r.Post("/auth/register", h.Register)
		})

		// Everything else requires a registered player.
		r.Group(func(r chi.Router) {
			r.Use(d.Gate.Middleware(authErr))

			r.Get("/auth/me", h.Me)

			r.Route("/videos", func(r chi.Router) {
				r.Post("/upload", h.UploadVideo)
				r.Get("/config/upload-info", h.GetUploadConfig)
				r.Get("/{videoID}", h.GetVideo)
				r.Get("/{videoID}/analysis", h.GetVideoAnalysis)
			})

			r.Route("/matches", func(r chi.Router) {
				r.Get("/{matchID}/overview", h.GetMatchOverview)
				r.Get("/{matchID}/sets/{setNumber}", h.GetMatchStatisticsBySet)
				r.Get("/{matchID}/chart/hits", h.GetHitComparisonChart)
				r.Get("/{matchID}/players/{playerIdentifier}/hits", h.GetPlayerHitCount)
			})
		})
	})

	return r
}
