package tourney

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lalith-99/weighin/internal/apperr"
	"github.com/lalith-99/weighin/internal/leaderboard"
	"github.com/lalith-99/weighin/internal/liveview"
	"github.com/lalith-99/weighin/internal/models"
	"github.com/lalith-99/weighin/internal/standings"
	"go.uber.org/zap"
)

// refreshCurrent renders both current-event documents from the active event,
// or the empty state when none is open.
func (e *Engine) refreshCurrent(ctx context.Context, communityID string) error {
	ev, err := e.repos.Events.GetActive(ctx, communityID)
	if err != nil {
		return fmt.Errorf("get active event: %w", err)
	}

	var best, total string
	if ev == nil {
		best = liveview.Empty(models.DocBestSingleCurrent, "")
		total = liveview.Empty(models.DocTopTotalCurrent, "")
	} else {
		catches, err := e.repos.Catches.ListApproved(ctx, communityID, ev.ID)
		if err != nil {
			return fmt.Errorf("list catches: %w", err)
		}
		board := leaderboard.Compute(ev.ID, catches, e.opts.LeaderboardLimit)
		best = liveview.RenderBestSingle(ev.Name, board.BestSingle)
		total = liveview.RenderTopTotal(ev.Name, board.TopTotal)
	}

	return errors.Join(
		e.push(ctx, communityID, models.DocBestSingleCurrent, best),
		e.push(ctx, communityID, models.DocTopTotalCurrent, total),
	)
}

// refreshPeriods renders the month and year winners for the periods
// containing at.
func (e *Engine) refreshPeriods(ctx context.Context, communityID string, at time.Time) error {
	monthly, err := e.periods.PeriodWinners(ctx, communityID, standings.MonthOf(at))
	if err != nil {
		return err
	}
	yearly, err := e.periods.PeriodWinners(ctx, communityID, standings.YearOf(at))
	if err != nil {
		return err
	}
	return errors.Join(
		e.push(ctx, communityID, models.DocMonthlyWinners, liveview.RenderWinners(models.DocMonthlyWinners, monthly)),
		e.push(ctx, communityID, models.DocYearlyWinners, liveview.RenderWinners(models.DocYearlyWinners, yearly)),
	)
}

func (e *Engine) push(ctx context.Context, communityID string, doc models.Document, content string) error {
	if e.views == nil {
		return nil
	}
	err := e.views.Push(ctx, communityID, doc, content)
	if errors.Is(err, liveview.ErrUnplaced) || errors.Is(err, apperr.ErrNoConfig) {
		return nil
	}
	return err
}

// bestEffort logs a failed view refresh. Engine state is already committed.
func (e *Engine) bestEffort(communityID string, err error) {
	if err == nil {
		return
	}
	e.logger.Warn("live view refresh failed",
		zap.String("community_id", communityID),
		zap.Error(err),
	)
}

// ReconcileAll repairs and re-renders every document of the community.
func (e *Engine) ReconcileAll(ctx context.Context, communityID string) error {
	if _, err := e.GetConfig(ctx, communityID); err != nil {
		return err
	}
	return errors.Join(
		e.refreshCurrent(ctx, communityID),
		e.refreshPeriods(ctx, communityID, e.now()),
	)
}
