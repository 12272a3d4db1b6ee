package db

import (
	"context"
	"fmt"
)

// Migrate creates all tables if they do not exist. Safe to run on every
// startup; statements are idempotent and ordered by dependency.
func Migrate(ctx context.Context, pool *Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS players (
			id         VARCHAR(128) PRIMARY KEY,
			name       VARCHAR(100) NOT NULL,
			email      VARCHAR(255) NOT NULL UNIQUE,
			role       VARCHAR(50)  NOT NULL DEFAULT 'player',
			created_at TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS videos (
			id               BIGSERIAL PRIMARY KEY,
			player_id        VARCHAR(128) NOT NULL REFERENCES players(id),
			file_name        VARCHAR(255) NOT NULL,
			storage_path     VARCHAR(500) NOT NULL,
			status           VARCHAR(50)  NOT NULL DEFAULT 'UPLOADED',
			upload_timestamp TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
			video_length     DOUBLE PRECISION,
			is_deleted       BOOLEAN      NOT NULL DEFAULT false,
			created_at       TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
			updated_at       TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS matches (
			id         BIGSERIAL   PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS analyses (
			id                 BIGSERIAL    PRIMARY KEY,
			player_id          VARCHAR(128) NOT NULL REFERENCES players(id),
			video_id           BIGINT       NOT NULL UNIQUE REFERENCES videos(id),
			match_id           BIGINT       UNIQUE REFERENCES matches(id),
			analysis_timestamp TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
			created_at         TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
			updated_at         TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS match_players (
			id                BIGSERIAL   PRIMARY KEY,
			match_id          BIGINT      NOT NULL REFERENCES matches(id),
			player_identifier VARCHAR(20) NOT NULL,
			created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (match_id, player_identifier)
		)`,
		`CREATE TABLE IF NOT EXISTS summary_metrics (
			id              BIGSERIAL   PRIMARY KEY,
			match_player_id BIGINT      NOT NULL UNIQUE REFERENCES match_players(id),
			total_hits      INTEGER     NOT NULL CHECK (total_hits >= 0),
			total_rallies   INTEGER     NOT NULL CHECK (total_rallies >= 0),
			created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS hits (
			id                 BIGSERIAL   PRIMARY KEY,
			summary_metrics_id BIGINT      NOT NULL UNIQUE REFERENCES summary_metrics(id),
			hit_errors         INTEGER     NOT NULL,
			overhead_hits      INTEGER     NOT NULL,
			created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS rallies (
			id                 BIGSERIAL        PRIMARY KEY,
			summary_metrics_id BIGINT           NOT NULL REFERENCES summary_metrics(id),
			hits               INTEGER          NOT NULL,
			length_in_time     DOUBLE PRECISION NOT NULL,
			created_at         TIMESTAMPTZ      NOT NULL DEFAULT NOW(),
			updated_at         TIMESTAMPTZ      NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS heatmaps (
			id                   BIGSERIAL        PRIMARY KEY,
			summary_metrics_id   BIGINT           NOT NULL UNIQUE REFERENCES summary_metrics(id),
			offensive_zone_time  DOUBLE PRECISION NOT NULL,
			defensive_zone_time  DOUBLE PRECISION NOT NULL,
			transition_zone_time DOUBLE PRECISION NOT NULL,
			created_at           TIMESTAMPTZ      NOT NULL DEFAULT NOW(),
			updated_at           TIMESTAMPTZ      NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS heatmap_coords (
			id         BIGSERIAL        PRIMARY KEY,
			heatmap_id BIGINT           NOT NULL REFERENCES heatmaps(id),
			x_coord    DOUBLE PRECISION NOT NULL,
			y_coord    DOUBLE PRECISION NOT NULL,
			intensity  DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMPTZ      NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ      NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_videos_player ON videos (player_id)`,
		`CREATE INDEX IF NOT EXISTS idx_videos_status ON videos (status)`,
		`CREATE INDEX IF NOT EXISTS idx_match_players_match ON match_players (match_id)`,
		`CREATE INDEX IF NOT EXISTS idx_rallies_metrics ON rallies (summary_metrics_id)`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
