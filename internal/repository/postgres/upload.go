package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lalith-99/weighin/internal/models"
)

const uploadColumns = `id, community_id, channel_id, angler_id, external_message_ref, media_ref, created_at, consumed_at`

type UploadStore struct {
	pool *pgxpool.Pool
}

func NewUploadStore(pool *pgxpool.Pool) *UploadStore {
	return &UploadStore{pool: pool}
}

func scanUpload(row pgx.Row) (*models.Upload, error) {
	var u models.Upload
	if err := row.Scan(
		&u.ID,
		&u.CommunityID,
		&u.ChannelID,
		&u.AnglerID,
		&u.MessageRef,
		&u.MediaRef,
		&u.CreatedAt,
		&u.ConsumedAt,
	); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UploadStore) Create(ctx context.Context, u models.Upload) (*models.Upload, error) {
	created, err := scanUpload(s.pool.QueryRow(ctx, `
		INSERT INTO uploads (community_id, channel_id, angler_id, external_message_ref, media_ref, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+uploadColumns,
		u.CommunityID, u.ChannelID, u.AnglerID, u.MessageRef, u.MediaRef, u.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("insert upload: %w", err)
	}
	return created, nil
}

func (s *UploadStore) LatestSince(ctx context.Context, communityID, channelID, anglerID string, since time.Time) (*models.Upload, error) {
	// Served by idx_uploads_lookup, which already excludes consumed rows.
	u, err := scanUpload(s.pool.QueryRow(ctx, `
		SELECT `+uploadColumns+`
		FROM uploads
		WHERE community_id = $1
		  AND channel_id = $2
		  AND angler_id = $3
		  AND consumed_at IS NULL
		  AND created_at >= $4
		ORDER BY created_at DESC, id DESC
		LIMIT 1`, communityID, channelID, anglerID, since))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get latest upload: %w", err)
	}
	return u, nil
}
