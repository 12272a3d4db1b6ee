// Command padelctl is the Padel Analyzer operations CLI.
//
// Usage:
//
//	padelctl migrate
//	padelctl sweep --older-than 60
//	padelctl demo
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/padelhq/padel-data/internal/analysis"
	"github.com/padelhq/padel-data/internal/config"
	"github.com/padelhq/padel-data/internal/db"
	"github.com/padelhq/padel-data/internal/domain"
	"github.com/padelhq/padel-data/internal/maintenance"
	"github.com/padelhq/padel-data/internal/stats"
	"github.com/padelhq/padel-data/internal/store/memory"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "padelctl",
		Short: "Padel Analyzer operations CLI",
	}

	root.AddCommand(migrateCmd())
	root.AddCommand(sweepCmd())
	root.AddCommand(demoCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// migrate command
// --------------------------------------------------------------------------

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithBarePool(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				start := time.Now()
				if err := db.Migrate(ctx, pool); err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
				logger.Info("Migration complete", "duration", time.Since(start).Round(time.Millisecond))
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// sweep command
// --------------------------------------------------------------------------

func sweepCmd() *cobra.Command {
	var olderThanMinutes int
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Report videos stuck in PROCESSING (one-shot scan)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithPool(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				olderThan := time.Duration(olderThanMinutes) * time.Minute
				count := maintenance.SweepStuckVideos(ctx, pool.Pool, olderThan, logger)
				logger.Info("Sweep finished", "stuck_videos", count, "older_than", olderThan)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&olderThanMinutes, "older-than", 60, "Age threshold in minutes")
	return cmd
}

// --------------------------------------------------------------------------
// demo command
// --------------------------------------------------------------------------

// demoCmd runs the full analysis chain against the in-memory store and
// prints the resulting statistics. Useful for a quick end-to-end smoke
// check without a database or real video file.
func demoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run the analysis chain in memory and print match statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			st := memory.New()
			svc := analysis.NewService(st, logger)
			statsSvc := stats.NewService(st)

			if _, err := st.Players().Create(ctx, &domain.Player{
				ID:    "demo-player",
				Name:  "Demo Player",
				Email: "demo@example.com",
				Role:  "player",
			}); err != nil {
				return fmt.Errorf("create player: %w", err)
			}

			video, err := st.Videos().Create(ctx, &domain.Video{
				PlayerID:        "demo-player",
				FileName:        "demo_match.mp4",
				StoragePath:     "demo-player/demo_match.mp4",
				Status:          domain.StatusUploaded,
				UploadTimestamp: time.Now().UTC(),
			})
			if err != nil {
				return fmt.Errorf("create video: %w", err)
			}

			a, err := svc.CreateAnalysisForVideo(ctx, video.ID, "demo-player")
			if err != nil {
				return fmt.Errorf("create analysis: %w", err)
			}

			results, err := analysis.StubAdapter{}.Analyze(ctx, video)
			if err != nil {
				return fmt.Errorf("analyze: %w", err)
			}
			if err := svc.StoreAnalysisResults(ctx, *a.MatchID, results); err != nil {
				return fmt.Errorf("store results: %w", err)
			}
			if err := svc.CompleteAnalysis(ctx, video.ID, true, ""); err != nil {
				return fmt.Errorf("complete: %w", err)
			}

			overview, err := statsSvc.MatchOverview(ctx, *a.MatchID)
			if err != nil {
				return fmt.Errorf("overview: %w", err)
			}
			fmt.Printf("Match %d overview:\n", *a.MatchID)
			for _, p := range overview.PlayerStatistics {
				fmt.Printf("  %-10s  hits=%d\n", p.PlayerIdentifier, p.TotalHits)
			}

			chart, err := statsSvc.HitComparisonChartData(ctx, *a.MatchID)
			if err != nil {
				return fmt.Errorf("chart: %w", err)
			}
			fmt.Println("Hit comparison (descending):")
			for _, p := range chart.Players {
				fmt.Printf("  %-10s  %d\n", p.PlayerIdentifier, p.TotalHits)
			}
			return nil
		},
	}
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// runWithPool handles config loading, DB connection, and context cancellation.
func runWithPool(fn func(ctx context.Context, cfg *config.Config, pool *db.Pool) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	pool, err := db.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	return fn(ctx, cfg, pool)
}

// runWithBarePool connects without registering prepared statements; migrate
// must work against a database where the tables do not exist yet.
func runWithBarePool(fn func(ctx context.Context, cfg *config.Config, pool *db.Pool) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	pool, err := db.NewBare(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	return fn(ctx, cfg, pool)
}
