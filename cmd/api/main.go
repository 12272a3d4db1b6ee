// Command api is the Padel Analyzer API server.
//
// Usage:
//
//	padel-api
//	API_PORT=8080 padel-api
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/padelhq/padel-data/internal/analysis"
	"github.com/padelhq/padel-data/internal/api"
	"github.com/padelhq/padel-data/internal/auth"
	"github.com/padelhq/padel-data/internal/config"
	"github.com/padelhq/padel-data/internal/db"
	"github.com/padelhq/padel-data/internal/maintenance"
	"github.com/padelhq/padel-data/internal/player"
	"github.com/padelhq/padel-data/internal/stats"
	"github.com/padelhq/padel-data/internal/storage"
	"github.com/padelhq/padel-data/internal/store/postgres"
	"github.com/padelhq/padel-data/internal/video"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Schema must exist before the main pool prepares its statements.
	barePool, err := db.NewBare(ctx, cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := db.Migrate(ctx, barePool); err != nil {
		barePool.Close()
		logger.Error("Failed to migrate schema", "error", err)
		os.Exit(1)
	}
	barePool.Close()

	// Connect to database
	logger.Info("Connecting to database...")
	pool, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("Database connected",
		"min_conns", cfg.DBPoolMinConns,
		"max_conns", cfg.DBPoolMaxConns)

	st := postgres.New(pool.Pool)

	// File storage
	files, err := storage.NewDisk(cfg.UploadDir)
	if err != nil {
		logger.Error("Failed to initialize file storage", "error", err)
		os.Exit(1)
	}

	// Services
	analysisSvc := analysis.NewService(st, logger)
	runner := analysis.NewRunner(analysisSvc, analysis.StubAdapter{}, cfg.AnalysisWorkers, cfg.AnalysisQueueSize, logger)
	videoSvc := video.NewService(st, files, runner, cfg.AllowedFormats, cfg.MaxFileSizeMB, logger)
	playerSvc := player.NewService(st)
	statsSvc := stats.NewService(st)
	gate := auth.NewGate(auth.NewJWTVerifier(cfg.JWTSecret), st.Players())

	// Start the background analysis runner
	go runner.Start(ctx)

	// Start maintenance tickers (stuck-video sweep)
	mcfg := maintenance.DefaultConfig()
	mcfg.StuckVideoAfter = cfg.StuckVideoAfter
	go maintenance.Start(ctx, pool.Pool, mcfg, logger)

	// Create router
	router := api.NewRouter(api.Deps{
		Pool:     pool,
		Gate:     gate,
		Videos:   videoSvc,
		Players:  playerSvc,
		Stats:    statsSvc,
		Analyses: analysisSvc,
		Cfg:      cfg,
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 5 * time.Minute, // large uploads
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting Padel Analyzer API",
			"addr", addr,
			"environment", cfg.Environment,
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
