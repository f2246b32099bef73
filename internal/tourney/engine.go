// Package tourney is the tournament results engine. It orchestrates the
// event lifecycle, the catch ledger, snapshots and period standings, and
// pushes live views after its own writes have completed.
package tourney

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lalith-99/weighin/internal/leaderboard"
	"github.com/lalith-99/weighin/internal/liveview"
	"github.com/lalith-99/weighin/internal/notify"
	"github.com/lalith-99/weighin/internal/repository"
	"github.com/lalith-99/weighin/internal/standings"
	"go.uber.org/zap"
)

const DefaultUploadWindow = 180 * time.Minute

// Repos bundles the storage contracts the engine needs.
type Repos struct {
	Configs   repository.ConfigRepository
	Events    repository.EventRepository
	Uploads   repository.UploadRepository
	Catches   repository.CatchRepository
	Results   repository.ResultRepository
	Standings repository.StandingsReader
	Wiper     repository.CommunityWiper
}

type Options struct {
	UploadWindow     time.Duration
	LeaderboardLimit int

	// Moderation inserts catches as pending instead of approved.
	Moderation bool
}

type Engine struct {
	repos     Repos
	opts      Options
	periods   *standings.Aggregator
	views     *liveview.Reconciler
	publisher notify.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

func New(repos Repos, views *liveview.Reconciler, publisher notify.Publisher, opts Options, logger *zap.Logger) *Engine {
	if opts.UploadWindow <= 0 {
		opts.UploadWindow = DefaultUploadWindow
	}
	if opts.LeaderboardLimit <= 0 {
		opts.LeaderboardLimit = leaderboard.DefaultLimit
	}
	if publisher == nil {
		publisher = notify.Nop{}
	}
	return &Engine{
		repos:     repos,
		opts:      opts,
		periods:   standings.NewAggregator(repos.Standings),
		views:     views,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the engine's time source. Used by tests.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

func (e *Engine) Moderated() bool {
	return e.opts.Moderation
}

// publish sends a lifecycle notification. Failures are logged only.
func (e *Engine) publish(ctx context.Context, t notify.Type, communityID string, eventID uuid.UUID, payload any) {
	env, err := notify.NewEnvelope(t, communityID, eventID, e.now(), payload)
	if err != nil {
		e.logger.Warn("failed to build notification", zap.String("type", string(t)), zap.Error(err))
		return
	}
	if err := e.publisher.Publish(ctx, communityID, env); err != nil {
		e.logger.Warn("failed to publish notification",
			zap.String("type", string(t)),
			zap.String("community_id", communityID),
			zap.Error(err),
		)
	}
}
