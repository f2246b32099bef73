package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lalith-99/weighin/internal/apperr"
	"github.com/lalith-99/weighin/internal/models"
)

const configColumns = `community_id, submission_channel_id, live_channel_id, archive_channel_id,
	best_single_handle, top_total_handle, monthly_handle, yearly_handle, updated_at`

type ConfigStore struct {
	pool *pgxpool.Pool
}

func NewConfigStore(pool *pgxpool.Pool) *ConfigStore {
	return &ConfigStore{pool: pool}
}

func scanConfig(row pgx.Row) (*models.CommunityConfig, error) {
	var c models.CommunityConfig
	if err := row.Scan(
		&c.CommunityID,
		&c.SubmissionChannelID,
		&c.LiveChannelID,
		&c.ArchiveChannelID,
		&c.BestSingleHandle,
		&c.TopTotalHandle,
		&c.MonthlyHandle,
		&c.YearlyHandle,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *ConfigStore) Get(ctx context.Context, communityID string) (*models.CommunityConfig, error) {
	c, err := scanConfig(s.pool.QueryRow(ctx, `
		SELECT `+configColumns+`
		FROM community_configs
		WHERE community_id = $1`, communityID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get config: %w", err)
	}
	return c, nil
}

func (s *ConfigStore) UpsertChannels(ctx context.Context, communityID, submissionChannelID, liveChannelID, archiveChannelID string) (*models.CommunityConfig, error) {
	// A handle is a message id inside one channel. When an admin moves the
	// live or archive channel, the old handles point at messages in the old
	// channel, and editing them would keep updating a board nobody reads.
	// Clearing them makes the next reconcile post fresh placeholders in the
	// new channel. Unchanged channels keep their handles, so re-running
	// configuration with the same values never duplicates a board.
	c, err := scanConfig(s.pool.QueryRow(ctx, `
		INSERT INTO community_configs (community_id, submission_channel_id, live_channel_id, archive_channel_id, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (community_id) DO UPDATE SET
			submission_channel_id = EXCLUDED.submission_channel_id,
			live_channel_id       = EXCLUDED.live_channel_id,
			archive_channel_id    = EXCLUDED.archive_channel_id,
			best_single_handle = CASE WHEN community_configs.live_channel_id = EXCLUDED.live_channel_id
				THEN community_configs.best_single_handle ELSE '' END,
			top_total_handle = CASE WHEN community_configs.live_channel_id = EXCLUDED.live_channel_id
				THEN community_configs.top_total_handle ELSE '' END,
			monthly_handle = CASE WHEN community_configs.archive_channel_id = EXCLUDED.archive_channel_id
				THEN community_configs.monthly_handle ELSE '' END,
			yearly_handle = CASE WHEN community_configs.archive_channel_id = EXCLUDED.archive_channel_id
				THEN community_configs.yearly_handle ELSE '' END,
			updated_at = now()
		RETURNING `+configColumns,
		communityID, submissionChannelID, liveChannelID, archiveChannelID))
	if err != nil {
		return nil, fmt.Errorf("upsert config: %w", err)
	}
	return c, nil
}

func (s *ConfigStore) SetHandle(ctx context.Context, communityID string, doc models.Document, handle string) error {
	column, err := handleColumn(doc)
	if err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE community_configs
		SET `+column+` = $2, updated_at = now()
		WHERE community_id = $1`, communityID, handle)
	if err != nil {
		return fmt.Errorf("set view handle: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNoConfig
	}
	return nil
}

// handleColumn maps a document to its column. The column name is spliced
// into SQL, so only the fixed set below is ever returned.
func handleColumn(doc models.Document) (string, error) {
	switch doc {
	case models.DocBestSingleCurrent:
		return "best_single_handle", nil
	case models.DocTopTotalCurrent:
		return "top_total_handle", nil
	case models.DocMonthlyWinners:
		return "monthly_handle", nil
	case models.DocYearlyWinners:
		return "yearly_handle", nil
	}
	return "", fmt.Errorf("unknown document %q", doc)
}
