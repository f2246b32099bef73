// Command tourneyctl runs operator tasks against the tournament store:
// schema migrations, re-snapshots, standings reports and community wipes.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/lalith-99/weighin/internal/app"
	"github.com/lalith-99/weighin/internal/config"
	"github.com/lalith-99/weighin/internal/observ"
	"github.com/lalith-99/weighin/internal/tourney"
	"go.uber.org/zap"
)

// env is what every command needs. It is filled lazily so that --help works
// without a database.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
}

func loadEnv() (*env, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return &env{cfg: cfg, logger: logger}, nil
}

// withEngine builds the engine, runs fn and releases everything.
func withEngine(fn func(ctx context.Context, e *tourney.Engine) error) error {
	ev, err := loadEnv()
	if err != nil {
		return err
	}
	defer ev.logger.Sync()

	ctx := context.Background()
	a, err := app.Build(ctx, ev.cfg, ev.logger)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a.Engine)
}

func main() {
	parser := newParser()
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
