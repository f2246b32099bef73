package tourney

import (
	"context"
	"fmt"

	"github.com/lalith-99/weighin/internal/apperr"
	"github.com/lalith-99/weighin/internal/models"
	"github.com/lalith-99/weighin/internal/repository"
	"github.com/lalith-99/weighin/internal/standings"
	"go.uber.org/zap"
)

func (e *Engine) GetConfig(ctx context.Context, communityID string) (*models.CommunityConfig, error) {
	cfg, err := e.repos.Configs.Get(ctx, communityID)
	if err != nil {
		return nil, fmt.Errorf("get config: %w", err)
	}
	if cfg == nil {
		return nil, apperr.ErrNoConfig
	}
	return cfg, nil
}

// ConfigureChannels upserts the routing channels and places every document.
func (e *Engine) ConfigureChannels(ctx context.Context, communityID, submissionChannelID, liveChannelID, archiveChannelID string) (*models.CommunityConfig, error) {
	if _, err := e.repos.Configs.UpsertChannels(ctx, communityID, submissionChannelID, liveChannelID, archiveChannelID); err != nil {
		return nil, fmt.Errorf("configure channels: %w", err)
	}
	e.bestEffort(communityID, e.ReconcileAll(ctx, communityID))
	// Reload so the response carries any handles created above.
	return e.GetConfig(ctx, communityID)
}

// WipeCommunity deletes the community's events, catches and results.
// Configuration and staged uploads are kept.
func (e *Engine) WipeCommunity(ctx context.Context, communityID string) (repository.WipeCounts, error) {
	counts, err := e.repos.Wiper.Wipe(ctx, communityID)
	if err != nil {
		return repository.WipeCounts{}, fmt.Errorf("wipe community: %w", err)
	}
	e.logger.Warn("community wiped",
		zap.String("community_id", communityID),
		zap.Int64("catches", counts.Catches),
		zap.Int64("results", counts.Results),
		zap.Int64("events", counts.Events),
	)
	e.bestEffort(communityID, e.refreshCurrent(ctx, communityID))
	e.bestEffort(communityID, e.refreshPeriods(ctx, communityID, e.now()))
	return counts, nil
}

func (e *Engine) MonthlyStandings(ctx context.Context, communityID, month string) ([]models.Standing, error) {
	return e.periods.MonthlyStandings(ctx, communityID, month)
}

func (e *Engine) YearlyStandings(ctx context.Context, communityID, year string) ([]models.Standing, error) {
	return e.periods.YearlyStandings(ctx, communityID, year)
}

// PeriodWinners parses label according to kind and reduces its standings.
func (e *Engine) PeriodWinners(ctx context.Context, communityID string, kind standings.Kind, label string) (standings.Winners, error) {
	p, err := standings.Parse(kind, label)
	if err != nil {
		return standings.Winners{}, err
	}
	return e.periods.PeriodWinners(ctx, communityID, p)
}
