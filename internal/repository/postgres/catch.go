package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lalith-99/weighin/internal/models"
	"github.com/lalith-99/weighin/internal/repository"
)

const catchColumns = `id, community_id, channel_id, event_id, angler_id, weight, media_ref, COALESCE(notes, ''), status, created_at`

type CatchStore struct {
	pool *pgxpool.Pool
}

func NewCatchStore(pool *pgxpool.Pool) *CatchStore {
	return &CatchStore{pool: pool}
}

func scanCatch(row pgx.Row) (*models.Catch, error) {
	var c models.Catch
	if err := row.Scan(
		&c.ID,
		&c.CommunityID,
		&c.ChannelID,
		&c.EventID,
		&c.AnglerID,
		&c.Weight,
		&c.MediaRef,
		&c.Notes,
		&c.Status,
		&c.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CatchStore) CreateFromUpload(ctx context.Context, c models.NewCatch, uploadID int64, at time.Time) (*models.Catch, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin create catch: %w", err)
	}
	defer tx.Rollback(ctx)

	// Holding a share lock on the event row makes a concurrent close wait
	// until this catch commits, so the close-time snapshot always sees it.
	// If the close won the race, the row no longer matches and we bail.
	var one int
	err = tx.QueryRow(ctx, `
		SELECT 1 FROM events
		WHERE id = $1 AND community_id = $2 AND active
		FOR SHARE`, c.EventID, c.CommunityID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrEventNotActive
	}
	if err != nil {
		return nil, fmt.Errorf("lock event: %w", err)
	}

	// The conditional update is the exclusivity check: of two submissions
	// racing for the same photo, only one sees a row affected.
	tag, err := tx.Exec(ctx, `
		UPDATE uploads
		SET consumed_at = $3
		WHERE id = $1 AND community_id = $2 AND consumed_at IS NULL`,
		uploadID, c.CommunityID, at)
	if err != nil {
		return nil, fmt.Errorf("consume upload: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, repository.ErrUploadConsumed
	}

	var notes *string
	if c.Notes != "" {
		notes = &c.Notes
	}

	created, err := scanCatch(tx.QueryRow(ctx, `
		INSERT INTO catches (community_id, channel_id, event_id, angler_id, weight, media_ref, notes, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+catchColumns,
		c.CommunityID, c.ChannelID, c.EventID, c.AnglerID, c.Weight, c.MediaRef, notes, c.Status, at))
	if err != nil {
		return nil, fmt.Errorf("insert catch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit create catch: %w", err)
	}
	return created, nil
}

func (s *CatchStore) GetByID(ctx context.Context, communityID string, catchID int64) (*models.Catch, error) {
	c, err := scanCatch(s.pool.QueryRow(ctx, `
		SELECT `+catchColumns+`
		FROM catches
		WHERE id = $1 AND community_id = $2`, catchID, communityID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get catch: %w", err)
	}
	return c, nil
}

func (s *CatchStore) SetStatus(ctx context.Context, communityID string, catchID int64, from, to models.CatchStatus) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE catches
		SET status = $4
		WHERE id = $1 AND community_id = $2 AND status = $3`,
		catchID, communityID, from, to)
	if err != nil {
		return false, fmt.Errorf("set catch status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (s *CatchStore) ListApproved(ctx context.Context, communityID string, eventID uuid.UUID) ([]models.Catch, error) {
	return s.list(ctx, `
		SELECT `+catchColumns+`
		FROM catches
		WHERE community_id = $1 AND event_id = $2 AND status = 'approved'
		ORDER BY id ASC`, communityID, eventID)
}

func (s *CatchStore) ListPending(ctx context.Context, communityID string, limit int) ([]models.Catch, error) {
	return s.list(ctx, `
		SELECT `+catchColumns+`
		FROM catches
		WHERE community_id = $1 AND status = 'pending'
		ORDER BY id ASC
		LIMIT $2`, communityID, limit)
}

func (s *CatchStore) list(ctx context.Context, query string, args ...any) ([]models.Catch, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list catches: %w", err)
	}
	defer rows.Close()

	catches := make([]models.Catch, 0)
	for rows.Next() {
		c, err := scanCatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan catch: %w", err)
		}
		catches = append(catches, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catches: %w", err)
	}
	return catches, nil
}
