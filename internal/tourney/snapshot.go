package tourney

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lalith-99/weighin/internal/apperr"
	"github.com/lalith-99/weighin/internal/leaderboard"
	"github.com/lalith-99/weighin/internal/models"
	"github.com/lalith-99/weighin/internal/notify"
)

// Snapshot freezes the results of a closed event. Calling it again rewrites
// the same rows. It is also the recovery path after a close whose snapshot
// failed, so every view is refreshed once the rows are in.
func (e *Engine) Snapshot(ctx context.Context, communityID string, eventID uuid.UUID) ([]models.EventResult, error) {
	ev, err := e.GetEvent(ctx, communityID, eventID)
	if err != nil {
		return nil, err
	}
	rows, err := e.snapshot(ctx, ev)
	if err != nil {
		return nil, err
	}
	e.bestEffort(communityID, e.refreshCurrent(ctx, communityID))
	e.bestEffort(communityID, e.refreshPeriods(ctx, communityID, *ev.ClosedAt))
	return rows, nil
}

func (e *Engine) snapshot(ctx context.Context, ev *models.Event) ([]models.EventResult, error) {
	rows, err := e.freeze(ctx, ev)
	if err != nil {
		return nil, err
	}
	e.publish(ctx, notify.ResultsFrozen, ev.CommunityID, ev.ID, map[string]int{"anglers": len(rows)})
	return rows, nil
}

// freeze writes the EventResult rows and nothing else.
func (e *Engine) freeze(ctx context.Context, ev *models.Event) ([]models.EventResult, error) {
	if !ev.Closed() {
		return nil, apperr.ErrEventStillOpen
	}
	catches, err := e.repos.Catches.ListApproved(ctx, ev.CommunityID, ev.ID)
	if err != nil {
		return nil, fmt.Errorf("list catches: %w", err)
	}

	rows := BuildResults(ev.CommunityID, ev.ID, catches)
	if err := e.repos.Results.ReplaceForEvent(ctx, ev.CommunityID, ev.ID, rows); err != nil {
		return nil, fmt.Errorf("write results: %w", err)
	}
	return rows, nil
}

// BuildResults turns the uncapped rankings of an event into one EventResult
// per angler, ordered by total rank. Anglers missing from a ranking get zero
// for its fields.
func BuildResults(communityID string, eventID uuid.UUID, catches []models.Catch) []models.EventResult {
	board := leaderboard.Compute(eventID, catches, 0)

	byAngler := make(map[string]*models.EventResult, len(board.TopTotal))
	rows := make([]*models.EventResult, 0, len(board.TopTotal))
	row := func(anglerID string) *models.EventResult {
		if r, ok := byAngler[anglerID]; ok {
			return r
		}
		r := &models.EventResult{EventID: eventID, CommunityID: communityID, AnglerID: anglerID}
		byAngler[anglerID] = r
		rows = append(rows, r)
		return r
	}

	for _, t := range board.TopTotal {
		r := row(t.AnglerID)
		rank := t.Rank
		r.TotalTop5 = t.Total
		r.CatchCount = t.Count
		r.TotalRank = &rank
	}
	for _, s := range board.BestSingle {
		r := row(s.AnglerID)
		rank := s.Rank
		r.BestSingle = s.Weight
		r.SingleRank = &rank
	}

	out := make([]models.EventResult, len(rows))
	for i, r := range rows {
		out[i] = *r
	}
	return out
}

// GetEventResults returns the frozen rows of a closed event.
func (e *Engine) GetEventResults(ctx context.Context, communityID string, eventID uuid.UUID) ([]models.EventResult, error) {
	ev, err := e.GetEvent(ctx, communityID, eventID)
	if err != nil {
		return nil, err
	}
	if !ev.Closed() {
		return nil, apperr.ErrEventStillOpen
	}
	rows, err := e.repos.Results.ListForEvent(ctx, communityID, eventID)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	return rows, nil
}
