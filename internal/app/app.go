// Package app assembles the engine and its collaborators from Config. The
// server and the operator CLI share it so both see the same wiring.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/lalith-99/weighin/internal/config"
	"github.com/lalith-99/weighin/internal/db"
	"github.com/lalith-99/weighin/internal/liveview"
	"github.com/lalith-99/weighin/internal/notify"
	"github.com/lalith-99/weighin/internal/repository/memory"
	"github.com/lalith-99/weighin/internal/repository/postgres"
	"github.com/lalith-99/weighin/internal/surface"
	"github.com/lalith-99/weighin/internal/surface/redisboard"
	"github.com/lalith-99/weighin/internal/tourney"
	"go.uber.org/zap"
)

type App struct {
	Engine   *tourney.Engine
	Streamer surface.Streamer

	// Ready reports whether the backing stores answer.
	Ready func(ctx context.Context) error

	closers []func() error
	logger  *zap.Logger
}

// Build connects to the configured stores. With STORE=memory nothing
// external is touched; an empty REDIS_URL keeps live views in process and
// an empty KAFKA_BROKERS disables notifications.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{logger: logger, Ready: func(context.Context) error { return nil }}

	var repos tourney.Repos
	switch cfg.Store {
	case config.StoreMemory:
		logger.Warn("using in-memory store, nothing will be persisted")
		store := memory.New()
		repos = tourney.Repos{
			Configs:   store.Configs(),
			Events:    store.Events(),
			Uploads:   store.Uploads(),
			Catches:   store.Catches(),
			Results:   store.Results(),
			Standings: store.Results(),
			Wiper:     store.Wiper(),
		}
	default:
		if _, err := db.Migrate(cfg.DatabaseURL, logger); err != nil {
			return nil, fmt.Errorf("migrate database: %w", err)
		}
		database, err := db.New(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		a.onClose(func() error { database.Close(); return nil })
		a.Ready = database.Health

		pool := database.Pool()
		results := postgres.NewResultStore(pool)
		repos = tourney.Repos{
			Configs:   postgres.NewConfigStore(pool),
			Events:    postgres.NewEventStore(pool),
			Uploads:   postgres.NewUploadStore(pool),
			Catches:   postgres.NewCatchStore(pool),
			Results:   results,
			Standings: results,
			Wiper:     postgres.NewWipeStore(pool),
		}
	}

	var board interface {
		surface.Surface
		surface.Streamer
	}
	if cfg.RedisURL == "" {
		logger.Warn("REDIS_URL is empty, live views are kept in process")
		board = surface.NewMemoryBoard()
	} else {
		rb, err := redisboard.New(ctx, cfg.RedisURL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		a.onClose(rb.Close)
		board = rb
	}
	a.Streamer = board

	var publisher notify.Publisher = notify.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		kp, err := notify.NewKafkaPublisher(notify.KafkaConfig{
			Brokers:      cfg.KafkaBrokers,
			Topic:        cfg.KafkaTopic,
			WriteTimeout: cfg.KafkaWriteTimeout,
		})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("create kafka publisher: %w", err)
		}
		a.onClose(kp.Close)
		publisher = kp
		logger.Info("publishing tournament events", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	}

	views := liveview.NewReconciler(repos.Configs, board, logger)
	a.Engine = tourney.New(repos, views, publisher, tourney.Options{
		UploadWindow:     cfg.UploadWindow,
		LeaderboardLimit: cfg.LeaderboardLimit,
		Moderation:       cfg.Moderation,
	}, logger)
	return a, nil
}

func (a *App) onClose(fn func() error) {
	a.closers = append(a.closers, fn)
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
