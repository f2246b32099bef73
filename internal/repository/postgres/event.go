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
)

const eventColumns = `id, community_id, name, active, opened_at, closed_at`

type EventStore struct {
	pool *pgxpool.Pool
}

func NewEventStore(pool *pgxpool.Pool) *EventStore {
	return &EventStore{pool: pool}
}

func scanEvent(row pgx.Row) (*models.Event, error) {
	var ev models.Event
	if err := row.Scan(
		&ev.ID,
		&ev.CommunityID,
		&ev.Name,
		&ev.Active,
		&ev.OpenedAt,
		&ev.ClosedAt,
	); err != nil {
		return nil, err
	}
	return &ev, nil
}

func (s *EventStore) Open(ctx context.Context, communityID, name string, at time.Time) (*models.Event, *models.Event, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("begin open event: %w", err)
	}
	defer tx.Rollback(ctx)

	// Close whatever is still open first. COALESCE keeps an existing
	// closed_at, so a half-closed row is never re-stamped.
	closed, err := scanEvent(tx.QueryRow(ctx, `
		UPDATE events
		SET active = false, closed_at = COALESCE(closed_at, $2)
		WHERE community_id = $1 AND active
		RETURNING `+eventColumns, communityID, at))
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, fmt.Errorf("close previous event: %w", err)
		}
		closed = nil
	}

	opened, err := scanEvent(tx.QueryRow(ctx, `
		INSERT INTO events (id, community_id, name, active, opened_at)
		VALUES ($1, $2, $3, true, $4)
		RETURNING `+eventColumns, uuid.New(), communityID, name, at))
	if err != nil {
		return nil, nil, fmt.Errorf("insert event: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit open event: %w", err)
	}
	return opened, closed, nil
}

func (s *EventStore) Close(ctx context.Context, communityID string, eventID uuid.UUID, at time.Time) (*models.Event, error) {
	ev, err := scanEvent(s.pool.QueryRow(ctx, `
		UPDATE events
		SET active = false, closed_at = $3
		WHERE id = $1 AND community_id = $2 AND active
		RETURNING `+eventColumns, eventID, communityID, at))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("close event: %w", err)
	}
	return ev, nil
}

func (s *EventStore) GetActive(ctx context.Context, communityID string) (*models.Event, error) {
	ev, err := scanEvent(s.pool.QueryRow(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE community_id = $1 AND active`, communityID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active event: %w", err)
	}
	return ev, nil
}

func (s *EventStore) GetByID(ctx context.Context, communityID string, eventID uuid.UUID) (*models.Event, error) {
	ev, err := scanEvent(s.pool.QueryRow(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE id = $1 AND community_id = $2`, eventID, communityID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return ev, nil
}

func (s *EventStore) List(ctx context.Context, communityID string, limit int) ([]models.Event, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE community_id = $1
		ORDER BY opened_at DESC
		LIMIT $2`, communityID, limit)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := make([]models.Event, 0)
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, *ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}
