package tourney

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lalith-99/weighin/internal/apperr"
	"github.com/lalith-99/weighin/internal/models"
	"github.com/lalith-99/weighin/internal/notify"
	"github.com/lalith-99/weighin/internal/repository"
	"go.uber.org/zap"
)

// UploadInput is a message with visual media posted by an angler.
type UploadInput struct {
	CommunityID string
	ChannelID   string
	AnglerID    string
	MessageRef  string
	MediaRef    string
}

// Submission is a weigh-in as typed by the angler. Weight is kept as text
// so that a missing event is reported before a malformed number.
type Submission struct {
	CommunityID string
	ChannelID   string
	AnglerID    string
	Weight      string
	Notes       string
}

var errNoMedia = apperr.New(apperr.ErrInvalidInput, "upload has no media attached")

// RecordUpload stages photo evidence for the angler's next submission.
func (e *Engine) RecordUpload(ctx context.Context, in UploadInput) (*models.Upload, error) {
	if strings.TrimSpace(in.MediaRef) == "" {
		return nil, errNoMedia
	}
	if err := e.checkChannel(ctx, in.CommunityID, in.ChannelID); err != nil {
		return nil, err
	}
	u, err := e.repos.Uploads.Create(ctx, models.Upload{
		CommunityID: in.CommunityID,
		ChannelID:   in.ChannelID,
		AnglerID:    in.AnglerID,
		MessageRef:  in.MessageRef,
		MediaRef:    in.MediaRef,
		CreatedAt:   e.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("record upload: %w", err)
	}
	return u, nil
}

// ResolveRecentUpload returns the newest unconsumed upload for the exact
// (community, channel, angler) triple inside the recency window, or nil.
func (e *Engine) ResolveRecentUpload(ctx context.Context, communityID, channelID, anglerID string) (*models.Upload, error) {
	u, err := e.repos.Uploads.LatestSince(ctx, communityID, channelID, anglerID, e.now().Add(-e.opts.UploadWindow))
	if err != nil {
		return nil, fmt.Errorf("resolve upload: %w", err)
	}
	return u, nil
}

// SubmitCatch writes a catch for the active event, consuming the angler's
// most recent upload as evidence.
func (e *Engine) SubmitCatch(ctx context.Context, s Submission) (*models.Catch, error) {
	ev, err := e.GetActiveEvent(ctx, s.CommunityID)
	if err != nil {
		return nil, err
	}
	if err := e.checkChannel(ctx, s.CommunityID, s.ChannelID); err != nil {
		return nil, err
	}
	weight, err := ParseWeight(s.Weight)
	if err != nil {
		return nil, err
	}

	upload, err := e.ResolveRecentUpload(ctx, s.CommunityID, s.ChannelID, s.AnglerID)
	if err != nil {
		return nil, err
	}
	if upload == nil {
		return nil, apperr.ErrMissingUpload
	}

	status := models.CatchApproved
	if e.opts.Moderation {
		status = models.CatchPending
	}

	c, err := e.repos.Catches.CreateFromUpload(ctx, models.NewCatch{
		CommunityID: s.CommunityID,
		ChannelID:   s.ChannelID,
		EventID:     ev.ID,
		AnglerID:    s.AnglerID,
		Weight:      weight,
		MediaRef:    upload.MediaRef,
		Notes:       strings.TrimSpace(s.Notes),
		Status:      status,
	}, upload.ID, e.now())
	if errors.Is(err, repository.ErrEventNotActive) {
		// Closed between the lookup and the insert.
		return nil, apperr.ErrNoActiveEvent
	}
	if errors.Is(err, repository.ErrUploadConsumed) {
		// Another submission took the same photo first.
		return nil, apperr.ErrMissingUpload
	}
	if err != nil {
		return nil, fmt.Errorf("create catch: %w", err)
	}

	e.logger.Info("catch recorded",
		zap.String("community_id", c.CommunityID),
		zap.String("event_id", c.EventID.String()),
		zap.String("angler_id", c.AnglerID),
		zap.Float64("weight", c.Weight),
		zap.String("status", string(c.Status)),
	)
	e.publish(ctx, notify.CatchSubmitted, c.CommunityID, c.EventID, c)

	if c.Status == models.CatchApproved {
		e.bestEffort(c.CommunityID, e.refreshCurrent(ctx, c.CommunityID))
	}
	return c, nil
}

// SetCatchStatus moderates a pending catch. Re-applying the current status
// succeeds without changes.
func (e *Engine) SetCatchStatus(ctx context.Context, communityID string, catchID int64, status models.CatchStatus) (*models.Catch, error) {
	if !status.Valid() || status == models.CatchPending {
		return nil, apperr.ErrInvalidStatus
	}

	c, err := e.getCatch(ctx, communityID, catchID)
	if err != nil {
		return nil, err
	}
	if c.Status == status {
		return c, nil
	}
	if !c.Status.CanTransitionTo(status) {
		return nil, apperr.ErrInvalidTransition
	}

	ok, err := e.repos.Catches.SetStatus(ctx, communityID, catchID, c.Status, status)
	if err != nil {
		return nil, fmt.Errorf("set catch status: %w", err)
	}
	if !ok {
		// Someone else moderated it in between.
		if c, err = e.getCatch(ctx, communityID, catchID); err != nil {
			return nil, err
		}
		if c.Status == status {
			return c, nil
		}
		return nil, apperr.ErrInvalidTransition
	}
	c.Status = status

	e.publish(ctx, notify.CatchModerated, communityID, c.EventID, c)

	ev, err := e.GetEvent(ctx, communityID, c.EventID)
	if err != nil {
		return nil, err
	}
	if ev.Closed() {
		if _, err := e.snapshot(ctx, ev); err != nil {
			return nil, fmt.Errorf("re-snapshot event: %w", err)
		}
		e.bestEffort(communityID, e.refreshPeriods(ctx, communityID, *ev.ClosedAt))
	} else {
		e.bestEffort(communityID, e.refreshCurrent(ctx, communityID))
	}
	return c, nil
}

// ListPendingCatches returns catches awaiting moderation, oldest first.
func (e *Engine) ListPendingCatches(ctx context.Context, communityID string, limit int) ([]models.Catch, error) {
	catches, err := e.repos.Catches.ListPending(ctx, communityID, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending catches: %w", err)
	}
	return catches, nil
}

func (e *Engine) getCatch(ctx context.Context, communityID string, catchID int64) (*models.Catch, error) {
	c, err := e.repos.Catches.GetByID(ctx, communityID, catchID)
	if err != nil {
		return nil, fmt.Errorf("get catch: %w", err)
	}
	if c == nil {
		return nil, apperr.ErrCatchNotFound
	}
	return c, nil
}

// checkChannel rejects traffic outside the configured submission channel.
// Communities without one accept any channel.
func (e *Engine) checkChannel(ctx context.Context, communityID, channelID string) error {
	cfg, err := e.repos.Configs.Get(ctx, communityID)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg == nil || cfg.SubmissionChannelID == "" || cfg.SubmissionChannelID == channelID {
		return nil
	}
	return apperr.ErrWrongChannel
}

// ParseWeight reads a positive, finite weight. A decimal comma is accepted.
func ParseWeight(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	w, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(w) || math.IsInf(w, 0) || w <= 0 {
		return 0, apperr.ErrInvalidWeight
	}
	return w, nil
}
