package tourney

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lalith-99/weighin/internal/apperr"
	"github.com/lalith-99/weighin/internal/leaderboard"
	"github.com/lalith-99/weighin/internal/models"
	"github.com/lalith-99/weighin/internal/notify"
	"go.uber.org/zap"
)

// OpenEvent starts a new event, force-closing and snapshotting the active
// one if there is one. Current-event views are reset afterwards.
func (e *Engine) OpenEvent(ctx context.Context, communityID, name string) (*models.Event, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.ErrEmptyEventName
	}

	now := e.now()
	opened, closed, err := e.repos.Events.Open(ctx, communityID, name, now)
	if err != nil {
		return nil, fmt.Errorf("open event: %w", err)
	}

	if closed != nil {
		e.logger.Info("force-closed previous event",
			zap.String("community_id", communityID),
			zap.String("event_id", closed.ID.String()),
		)
		// Logged inside; the new event is open either way.
		_ = e.closeFollowUp(ctx, closed)
	}

	e.publish(ctx, notify.EventOpened, communityID, opened.ID, opened)
	e.bestEffort(communityID, e.refreshCurrent(ctx, communityID))
	return opened, nil
}

// CloseEvent closes the active event with the given id, freezes its results
// and refreshes every view.
func (e *Engine) CloseEvent(ctx context.Context, communityID string, eventID uuid.UUID) (*models.Event, error) {
	closed, err := e.repos.Events.Close(ctx, communityID, eventID, e.now())
	if err != nil {
		return nil, fmt.Errorf("close event: %w", err)
	}
	if closed == nil {
		return nil, apperr.ErrEventNotFound
	}
	return closed, e.closeFollowUp(ctx, closed)
}

// closeFollowUp freezes a just-closed event, then announces it and
// refreshes views. Nothing external runs before the results are written.
// On a failed freeze the close still stands and Snapshot can be retried.
func (e *Engine) closeFollowUp(ctx context.Context, closed *models.Event) error {
	communityID := closed.CommunityID
	rows, err := e.freeze(ctx, closed)
	e.publish(ctx, notify.EventClosed, communityID, closed.ID, closed)
	if err != nil {
		e.logger.Error("failed to snapshot closed event",
			zap.String("community_id", communityID),
			zap.String("event_id", closed.ID.String()),
			zap.Error(err),
		)
		e.bestEffort(communityID, e.refreshCurrent(ctx, communityID))
		return fmt.Errorf("snapshot closed event: %w", err)
	}
	e.publish(ctx, notify.ResultsFrozen, communityID, closed.ID, map[string]int{"anglers": len(rows)})

	e.bestEffort(communityID, e.refreshCurrent(ctx, communityID))
	e.bestEffort(communityID, e.refreshPeriods(ctx, communityID, *closed.ClosedAt))
	return nil
}

func (e *Engine) GetActiveEvent(ctx context.Context, communityID string) (*models.Event, error) {
	ev, err := e.repos.Events.GetActive(ctx, communityID)
	if err != nil {
		return nil, fmt.Errorf("get active event: %w", err)
	}
	if ev == nil {
		return nil, apperr.ErrNoActiveEvent
	}
	return ev, nil
}

func (e *Engine) GetEvent(ctx context.Context, communityID string, eventID uuid.UUID) (*models.Event, error) {
	ev, err := e.repos.Events.GetByID(ctx, communityID, eventID)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if ev == nil {
		return nil, apperr.ErrEventNotFound
	}
	return ev, nil
}

// ListEvents returns the community's events, newest first.
func (e *Engine) ListEvents(ctx context.Context, communityID string, limit int) ([]models.Event, error) {
	events, err := e.repos.Events.List(ctx, communityID, limit)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// GetLeaderboard ranks any event of the community. limit <= 0 uses the
// configured default.
func (e *Engine) GetLeaderboard(ctx context.Context, communityID string, eventID uuid.UUID, limit int) (leaderboard.Board, error) {
	if _, err := e.GetEvent(ctx, communityID, eventID); err != nil {
		return leaderboard.Board{}, err
	}
	if limit <= 0 {
		limit = e.opts.LeaderboardLimit
	}
	catches, err := e.repos.Catches.ListApproved(ctx, communityID, eventID)
	if err != nil {
		return leaderboard.Board{}, fmt.Errorf("list catches: %w", err)
	}
	return leaderboard.Compute(eventID, catches, limit), nil
}
