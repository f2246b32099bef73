package surface

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryBoard is an in-process Surface for local runs without Redis.
type MemoryBoard struct {
	mu    sync.Mutex
	next  int
	byKey map[string]string
	subs  map[string]map[chan Update]struct{}
}

func NewMemoryBoard() *MemoryBoard {
	return &MemoryBoard{byKey: map[string]string{}, subs: map[string]map[chan Update]struct{}{}}
}

func memKey(channelID, handle string) string {
	return channelID + "/" + handle
}

func (m *MemoryBoard) Post(_ context.Context, channelID, content string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	handle := fmt.Sprintf("m%d", m.next)
	m.byKey[memKey(channelID, handle)] = content
	m.notify(channelID, handle, content)
	return handle, nil
}

func (m *MemoryBoard) Edit(_ context.Context, channelID, handle, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := memKey(channelID, handle)
	if _, ok := m.byKey[k]; !ok {
		return ErrMessageNotFound
	}
	m.byKey[k] = content
	m.notify(channelID, handle, content)
	return nil
}

func (m *MemoryBoard) Fetch(_ context.Context, channelID, handle string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	content, ok := m.byKey[memKey(channelID, handle)]
	if !ok {
		return "", ErrMessageNotFound
	}
	return content, nil
}

// Delete removes a message the way a channel moderator would.
func (m *MemoryBoard) Delete(channelID, handle string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byKey, memKey(channelID, handle))
}

// Count reports how many messages live in channelID.
func (m *MemoryBoard) Count(channelID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	prefix := channelID + "/"
	for k := range m.byKey {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

func (m *MemoryBoard) Stream(ctx context.Context, channelID string) (<-chan Update, error) {
	ch := make(chan Update, 16)
	m.mu.Lock()
	if m.subs[channelID] == nil {
		m.subs[channelID] = map[chan Update]struct{}{}
	}
	m.subs[channelID][ch] = struct{}{}
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		delete(m.subs[channelID], ch)
		close(ch)
		m.mu.Unlock()
	}()
	return ch, nil
}

// notify must be called with mu held. Slow subscribers miss updates.
func (m *MemoryBoard) notify(channelID, handle, content string) {
	u := Update{ChannelID: channelID, Handle: handle, Content: content, At: time.Now().UTC()}
	for ch := range m.subs[channelID] {
		select {
		case ch <- u:
		default:
		}
	}
}
