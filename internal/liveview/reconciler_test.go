package liveview

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/lalith-99/weighin/internal/apperr"
	"github.com/lalith-99/weighin/internal/leaderboard"
	"github.com/lalith-99/weighin/internal/models"
	"github.com/lalith-99/weighin/internal/repository/memory"
	"github.com/lalith-99/weighin/internal/standings"
	"github.com/lalith-99/weighin/internal/surface"
	"go.uber.org/zap"
)

// flakySurface wraps a MemoryBoard and fails every call while down is set.
type flakySurface struct {
	*surface.MemoryBoard
	down  bool
	posts int
}

var errDown = errors.New("gateway timeout")

func (f *flakySurface) Post(ctx context.Context, channelID, content string) (string, error) {
	if f.down {
		return "", errDown
	}
	f.posts++
	return f.MemoryBoard.Post(ctx, channelID, content)
}

func (f *flakySurface) Edit(ctx context.Context, channelID, handle, content string) error {
	if f.down {
		return errDown
	}
	return f.MemoryBoard.Edit(ctx, channelID, handle, content)
}

func (f *flakySurface) Fetch(ctx context.Context, channelID, handle string) (string, error) {
	if f.down {
		return "", errDown
	}
	return f.MemoryBoard.Fetch(ctx, channelID, handle)
}

func setup(t *testing.T) (*Reconciler, *flakySurface, *memory.ConfigRepo) {
	t.Helper()
	store := memory.New()
	configs := store.Configs()
	if _, err := configs.UpsertChannels(context.Background(), "g1", "sub", "live", "archive"); err != nil {
		t.Fatal(err)
	}
	s := &flakySurface{MemoryBoard: surface.NewMemoryBoard()}
	return NewReconciler(configs, s, zap.NewNop()), s, configs
}

func TestEnsureIsIdempotent(t *testing.T) {
	ctx := context.Background()
	r, s, configs := setup(t)

	h1, err := r.Ensure(ctx, "g1", models.DocBestSingleCurrent)
	if err != nil {
		t.Fatal(err)
	}
	h2, err := r.Ensure(ctx, "g1", models.DocBestSingleCurrent)
	if err != nil {
		t.Fatal(err)
	}
	if h1 != h2 || s.posts != 1 {
		t.Fatalf("expected one placeholder reused, got %s/%s after %d posts", h1, h2, s.posts)
	}
	cfg, _ := configs.Get(ctx, "g1")
	if cfg.BestSingleHandle != h1 {
		t.Fatalf("handle not persisted: %+v", cfg)
	}
}

func TestEnsureRepairsStaleHandle(t *testing.T) {
	ctx := context.Background()
	r, s, configs := setup(t)

	h1, _ := r.Ensure(ctx, "g1", models.DocMonthlyWinners)
	s.Delete("archive", h1)

	h2, err := r.Ensure(ctx, "g1", models.DocMonthlyWinners)
	if err != nil {
		t.Fatal(err)
	}
	if h2 == h1 {
		t.Fatal("expected a fresh handle after deletion")
	}
	cfg, _ := configs.Get(ctx, "g1")
	if cfg.MonthlyHandle != h2 {
		t.Fatalf("repaired handle not persisted: %+v", cfg)
	}
}

func TestPushEditsInPlace(t *testing.T) {
	ctx := context.Background()
	r, s, _ := setup(t)

	content := RenderBestSingle("Spring", []leaderboard.SingleEntry{{Rank: 1, AnglerID: "u1", Weight: 6}})
	if err := r.Push(ctx, "g1", models.DocBestSingleCurrent, content); err != nil {
		t.Fatal(err)
	}
	if err := r.Push(ctx, "g1", models.DocBestSingleCurrent, content+"!"); err != nil {
		t.Fatal(err)
	}
	if s.Count("live") != 1 {
		t.Fatalf("expected a single live message, got %d", s.Count("live"))
	}
	h, _ := r.Ensure(ctx, "g1", models.DocBestSingleCurrent)
	got, _ := s.Fetch(ctx, "live", h)
	if got != content+"!" {
		t.Fatalf("unexpected content %q", got)
	}
}

func TestPushReportsExternalFailure(t *testing.T) {
	ctx := context.Background()
	r, s, _ := setup(t)
	s.down = true

	err := r.Push(ctx, "g1", models.DocTopTotalCurrent, "x")
	if !errors.Is(err, apperr.ErrExternalUnavailable) {
		t.Fatalf("expected external unavailable, got %v", err)
	}
}

func TestUnplacedAndUnconfigured(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	r := NewReconciler(store.Configs(), surface.NewMemoryBoard(), zap.NewNop())

	if _, err := r.Ensure(ctx, "nobody", models.DocYearlyWinners); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found for missing config, got %v", err)
	}

	store.Configs().UpsertChannels(ctx, "g2", "sub", "live", "")
	if _, err := r.Ensure(ctx, "g2", models.DocYearlyWinners); !errors.Is(err, ErrUnplaced) {
		t.Fatalf("expected unplaced, got %v", err)
	}
}

func TestRenderWinners(t *testing.T) {
	p, _ := standings.Parse(standings.Monthly, "2026-06")
	empty := RenderWinners(models.DocMonthlyWinners, standings.Winners{Period: p})
	if !strings.Contains(empty, "No closed events") {
		t.Fatalf("unexpected empty render %q", empty)
	}

	w := standings.Reduce([]models.Standing{{AnglerID: "u1", Total: 20, BestSingle: 6, Events: 1}})
	w.Period = p
	got := RenderWinners(models.DocMonthlyWinners, w)
	if !strings.Contains(got, "<@u1> 20.00") || !strings.Contains(got, "2026-06") {
		t.Fatalf("unexpected render %q", got)
	}
}
