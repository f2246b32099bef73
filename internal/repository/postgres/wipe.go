package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lalith-99/weighin/internal/repository"
)

type WipeStore struct {
	pool *pgxpool.Pool
}

func NewWipeStore(pool *pgxpool.Pool) *WipeStore {
	return &WipeStore{pool: pool}
}

// Wipe deletes the community's catches, frozen results and events, children
// first so the foreign keys hold at every step. Config and uploads stay.
func (s *WipeStore) Wipe(ctx context.Context, communityID string) (repository.WipeCounts, error) {
	var counts repository.WipeCounts

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return counts, fmt.Errorf("begin wipe: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `DELETE FROM catches WHERE community_id = $1`, communityID)
	if err != nil {
		return counts, fmt.Errorf("delete catches: %w", err)
	}
	counts.Catches = tag.RowsAffected()

	tag, err = tx.Exec(ctx, `DELETE FROM event_results WHERE community_id = $1`, communityID)
	if err != nil {
		return counts, fmt.Errorf("delete results: %w", err)
	}
	counts.Results = tag.RowsAffected()

	tag, err = tx.Exec(ctx, `DELETE FROM events WHERE community_id = $1`, communityID)
	if err != nil {
		return counts, fmt.Errorf("delete events: %w", err)
	}
	counts.Events = tag.RowsAffected()

	if err := tx.Commit(ctx); err != nil {
		return counts, fmt.Errorf("commit wipe: %w", err)
	}
	return counts, nil
}
