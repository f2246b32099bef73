package surface

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryBoardLifecycle(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryBoard()

	h, err := m.Post(ctx, "live", "hello")
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Edit(ctx, "live", h, "updated"); err != nil {
		t.Fatal(err)
	}
	got, err := m.Fetch(ctx, "live", h)
	if err != nil || got != "updated" {
		t.Fatalf("Fetch = %q, %v", got, err)
	}

	if _, err := m.Fetch(ctx, "other", h); !errors.Is(err, ErrMessageNotFound) {
		t.Fatalf("expected not found in another channel, got %v", err)
	}

	m.Delete("live", h)
	if err := m.Edit(ctx, "live", h, "x"); !errors.Is(err, ErrMessageNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if m.Count("live") != 0 {
		t.Fatalf("expected empty channel")
	}
}

func TestMemoryBoardStream(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := NewMemoryBoard()

	updates, err := m.Stream(ctx, "live")
	if err != nil {
		t.Fatal(err)
	}
	h, _ := m.Post(context.Background(), "live", "first")
	m.Post(context.Background(), "archive", "elsewhere")
	m.Edit(context.Background(), "live", h, "second")

	for _, want := range []string{"first", "second"} {
		u := <-updates
		if u.Content != want || u.Handle != h || u.ChannelID != "live" {
			t.Fatalf("unexpected update %+v, want content %q", u, want)
		}
	}

	cancel()
	if _, ok := <-updates; ok {
		t.Fatal("expected stream closed after cancel")
	}
}
