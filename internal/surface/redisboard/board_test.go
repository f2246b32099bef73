package redisboard

import (
	"context"
	"strings"
	"testing"

	"github.com/lalith-99/weighin/internal/surface"
)

var _ surface.Surface = (*Board)(nil)

func TestKeysAreScopedByChannel(t *testing.T) {
	a := MessageKey("c1", "h1")
	b := MessageKey("c2", "h1")
	if a == b {
		t.Fatalf("expected different keys per channel, got %s", a)
	}
	if !strings.HasPrefix(a, MessageKeyPrefix+":") {
		t.Errorf("message key %s missing prefix", a)
	}
	if got := TopicKey("c1"); got != "board:topic:c1" {
		t.Errorf("TopicKey = %s", got)
	}
}

func TestNewRejectsBadURL(t *testing.T) {
	if _, err := New(context.Background(), "://nope"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestDecodeUpdate(t *testing.T) {
	u, err := DecodeUpdate(`{"channel_id":"live","handle":"h1","content":"**Biggest Fish**","at":"2026-06-01T10:00:00Z"}`)
	if err != nil {
		t.Fatal(err)
	}
	if u.ChannelID != "live" || u.Handle != "h1" || u.Content != "**Biggest Fish**" {
		t.Fatalf("unexpected update %+v", u)
	}
	if _, err := DecodeUpdate("not json"); err == nil {
		t.Fatal("expected decode error")
	}
}

var _ surface.Streamer = (*Board)(nil)
