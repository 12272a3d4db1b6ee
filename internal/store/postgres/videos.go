package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/padelhq/padel-data/internal/domain"
)

type videoStore struct {
	q querier
}

func (s videoStore) Create(ctx context.Context, v *domain.Video) (*domain.Video, error) {
	row := s.q.QueryRow(ctx, "insert_video",
		v.PlayerID, v.FileName, v.StoragePath, v.Status, v.UploadTimestamp, v.Duration, v.Deleted)
	created, err := scanVideo(row)
	if err != nil {
		return nil, fmt.Errorf("insert video: %w", err)
	}
	return created, nil
}

func (s videoStore) GetByID(ctx context.Context, id int64) (*domain.Video, error) {
	v, err := scanVideo(s.q.QueryRow(ctx, "video_by_id", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrVideoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get video: %w", err)
	}
	return v, nil
}

func (s videoStore) UpdateStatus(ctx context.Context, id int64, status domain.VideoStatus) error {
	tag, err := s.q.Exec(ctx, "update_video_status", id, status)
	if err != nil {
		return fmt.Errorf("update video status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrVideoNotFound
	}
	return nil
}

func (s videoStore) SoftDelete(ctx context.Context, id int64) error {
	tag, err := s.q.Exec(ctx, "soft_delete_video", id)
	if err != nil {
		return fmt.Errorf("soft delete video: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrVideoNotFound
	}
	return nil
}

func scanVideo(row pgx.Row) (*domain.Video, error) {
	var v domain.Video
	err := row.Scan(&v.ID, &v.PlayerID, &v.FileName, &v.StoragePath, &v.Status,
		&v.UploadTimestamp, &v.Duration, &v.Deleted, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
