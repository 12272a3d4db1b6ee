// Package db provides a pgxpool-based connection pool with prepared statement
// registration, schema bootstrap, and health checking.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/padelhq/padel-data/internal/config"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// NewBare creates a pool without prepared statement registration. Used for
// schema migration, which must run before the statements can be prepared
// (PREPARE fails against tables that do not exist yet).
func NewBare(ctx context.Context, cfg *config.Config) (*Pool, error) {
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// registerPreparedStatements registers all statements the API, analysis, and
// maintenance layers use. Prepared statements eliminate parse overhead on
// every request.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		"health_check": "SELECT 1",

		// Players
		"insert_player": `INSERT INTO players (id, name, email, role)
			VALUES ($1, $2, $3, $4)
			RETURNING id, name, email, role, created_at, updated_at`,
		"player_by_id": `SELECT id, name, email, role, created_at, updated_at
			FROM players WHERE id = $1`,
		"player_by_email": `SELECT id, name, email, role, created_at, updated_at
			FROM players WHERE lower(email) = lower($1)`,

		// Videos
		"insert_video": `INSERT INTO videos (player_id, file_name, storage_path, status, upload_timestamp, video_length, is_deleted)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, player_id, file_name, storage_path, status, upload_timestamp, video_length, is_deleted, created_at, updated_at`,
		"video_by_id": `SELECT id, player_id, file_name, storage_path, status, upload_timestamp, video_length, is_deleted, created_at, updated_at
			FROM videos WHERE id = $1 AND is_deleted = false`,
		"update_video_status": "UPDATE videos SET status = $2, updated_at = NOW() WHERE id = $1",
		"soft_delete_video":   "UPDATE videos SET is_deleted = true, updated_at = NOW() WHERE id = $1",

		// Analyses
		"insert_analysis": `INSERT INTO analyses (player_id, video_id, match_id, analysis_timestamp)
			VALUES ($1, $2, $3, $4)
			RETURNING id, player_id, video_id, match_id, analysis_timestamp, created_at, updated_at`,
		"update_analysis": `UPDATE analyses SET match_id = $2, updated_at = NOW() WHERE id = $1
			RETURNING id, player_id, video_id, match_id, analysis_timestamp, created_at, updated_at`,
		"analysis_by_video": `SELECT id, player_id, video_id, match_id, analysis_timestamp, created_at, updated_at
			FROM analyses WHERE video_id = $1`,
		"analysis_by_match": `SELECT id, player_id, video_id, match_id, analysis_timestamp, created_at, updated_at
			FROM analyses WHERE match_id = $1`,

		// Matches
		"insert_match": "INSERT INTO matches DEFAULT VALUES RETURNING id, created_at, updated_at",
		"match_by_id":  "SELECT id, created_at, updated_at FROM matches WHERE id = $1",

		// Match players
		"insert_match_player": `INSERT INTO match_players (match_id, player_identifier)
			VALUES ($1, $2)
			RETURNING id, match_id, player_identifier, created_at, updated_at`,
		"match_player_by_id": `SELECT id, match_id, player_identifier, created_at, updated_at
			FROM match_players WHERE id = $1`,
		"match_players_by_match": `SELECT id, match_id, player_identifier, created_at, updated_at
			FROM match_players WHERE match_id = $1 ORDER BY id`,
		"match_player_by_identifier": `SELECT id, match_id, player_identifier, created_at, updated_at
			FROM match_players WHERE match_id = $1 AND player_identifier = $2`,

		// Summary metrics
		"insert_metrics": `INSERT INTO summary_metrics (match_player_id, total_hits, total_rallies)
			VALUES ($1, $2, $3)
			RETURNING id, match_player_id, total_hits, total_rallies, created_at, updated_at`,
		"metrics_by_match_player": `SELECT id, match_player_id, total_hits, total_rallies, created_at, updated_at
			FROM summary_metrics WHERE match_player_id = $1`,
		"metrics_by_match": `SELECT sm.id, sm.match_player_id, sm.total_hits, sm.total_rallies, sm.created_at, sm.updated_at
			FROM summary_metrics sm
			JOIN match_players mp ON mp.id = sm.match_player_id
			WHERE mp.match_id = $1
			ORDER BY sm.total_hits DESC`,

		// Maintenance: stuck-analysis sweep
		"stuck_processing_videos": `SELECT id, updated_at FROM videos
			WHERE status = 'PROCESSING' AND updated_at < NOW() - make_interval(secs => $1)
			ORDER BY updated_at`,
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
