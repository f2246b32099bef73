package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lalith-99/weighin/internal/apperr"
	"github.com/lalith-99/weighin/internal/models"
)

const uniqueViolation = "23505"

type ResultStore struct {
	pool *pgxpool.Pool
}

func NewResultStore(pool *pgxpool.Pool) *ResultStore {
	return &ResultStore{pool: pool}
}

func (s *ResultStore) ReplaceForEvent(ctx context.Context, communityID string, eventID uuid.UUID, rows []models.EventResult) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin replace results: %w", err)
	}
	defer tx.Rollback(ctx)

	anglers := make([]string, 0, len(rows))
	for _, r := range rows {
		_, err := tx.Exec(ctx, `
			INSERT INTO event_results (event_id, community_id, angler_id, best_single, total_top5, catch_count, single_rank, total_rank)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (event_id, angler_id) DO UPDATE SET
				best_single = EXCLUDED.best_single,
				total_top5  = EXCLUDED.total_top5,
				catch_count = EXCLUDED.catch_count,
				single_rank = EXCLUDED.single_rank,
				total_rank  = EXCLUDED.total_rank`,
			eventID, communityID, r.AnglerID, r.BestSingle, r.TotalTop5, r.CatchCount, r.SingleRank, r.TotalRank)
		if err != nil {
			// The upsert targets the unique key, so this should be
			// unreachable. Surface it as an integrity failure.
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return fmt.Errorf("upsert result %s/%s: %w: %w", eventID, r.AnglerID, apperr.ErrConflict, err)
			}
			return fmt.Errorf("upsert result: %w", err)
		}
		anglers = append(anglers, r.AnglerID)
	}

	// Drop anglers who no longer qualify, e.g. after a moderator rejected
	// their only catch and the event was re-snapshotted.
	if _, err := tx.Exec(ctx, `
		DELETE FROM event_results
		WHERE community_id = $1 AND event_id = $2 AND NOT (angler_id = ANY($3))`,
		communityID, eventID, anglers); err != nil {
		return fmt.Errorf("prune results: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace results: %w", err)
	}
	return nil
}

func (s *ResultStore) ListForEvent(ctx context.Context, communityID string, eventID uuid.UUID) ([]models.EventResult, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT event_id, community_id, angler_id, best_single, total_top5, catch_count, single_rank, total_rank
		FROM event_results
		WHERE community_id = $1 AND event_id = $2
		ORDER BY total_rank ASC NULLS LAST, single_rank ASC NULLS LAST, angler_id ASC`,
		communityID, eventID)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	results := make([]models.EventResult, 0)
	for rows.Next() {
		var r models.EventResult
		if err := rows.Scan(
			&r.EventID,
			&r.CommunityID,
			&r.AnglerID,
			&r.BestSingle,
			&r.TotalTop5,
			&r.CatchCount,
			&r.SingleRank,
			&r.TotalRank,
		); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return results, nil
}

// Standings reads only event_results joined to events; the catches table is
// never touched here.
func (s *ResultStore) Standings(ctx context.Context, communityID string, from, to time.Time) ([]models.Standing, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT r.angler_id, SUM(r.total_top5), MAX(r.best_single), COUNT(*)
		FROM event_results r
		JOIN events e ON e.id = r.event_id
		WHERE r.community_id = $1
		  AND e.community_id = $1
		  AND NOT e.active
		  AND e.closed_at IS NOT NULL
		  AND e.closed_at >= $2
		  AND e.closed_at < $3
		GROUP BY r.angler_id
		ORDER BY SUM(r.total_top5) DESC, MAX(r.best_single) DESC, r.angler_id ASC`,
		communityID, from, to)
	if err != nil {
		return nil, fmt.Errorf("query standings: %w", err)
	}
	defer rows.Close()

	standings := make([]models.Standing, 0)
	for rows.Next() {
		var st models.Standing
		if err := rows.Scan(&st.AnglerID, &st.Total, &st.BestSingle, &st.Events); err != nil {
			return nil, fmt.Errorf("scan standing: %w", err)
		}
		standings = append(standings, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate standings: %w", err)
	}
	return standings, nil
}
