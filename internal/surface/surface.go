// Package surface is the outbound side of the chat platform: the place live
// view documents are posted and edited.
package surface

import (
	"context"
	"errors"
	"time"
)

// ErrMessageNotFound means the handle no longer resolves to a message. Any
// other error from a Surface is a transport or platform failure.
var ErrMessageNotFound = errors.New("message not found")

// Surface posts, edits and fetches messages addressed by an opaque handle.
type Surface interface {
	// Post creates a message in channelID and returns its handle.
	Post(ctx context.Context, channelID, content string) (string, error)

	// Edit replaces the content of an existing message.
	Edit(ctx context.Context, channelID, handle, content string) error

	// Fetch returns the current content of a message.
	Fetch(ctx context.Context, channelID, handle string) (string, error)
}

// Update describes one write to a channel.
type Update struct {
	ChannelID string    `json:"channel_id"`
	Handle    string    `json:"handle"`
	Content   string    `json:"content"`
	At        time.Time `json:"at"`
}

// Streamer follows the writes to a channel until ctx is done, at which
// point the returned channel is closed.
type Streamer interface {
	Stream(ctx context.Context, channelID string) (<-chan Update, error)
}
