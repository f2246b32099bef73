// Package notify publishes tournament lifecycle events for downstream
// consumers. Publication is fire-and-forget from the engine's point of view.
package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	EventOpened    Type = "event.opened"
	EventClosed    Type = "event.closed"
	CatchSubmitted Type = "catch.submitted"
	CatchModerated Type = "catch.moderated"
	ResultsFrozen  Type = "results.frozen"
)

// Envelope is the wire shape of every published message.
type Envelope struct {
	Type        Type            `json:"type"`
	CommunityID string          `json:"community_id"`
	EventID     uuid.UUID       `json:"event_id"`
	At          time.Time       `json:"at"`
	Payload     json.RawMessage `json:"payload,omitempty"`
}

// NewEnvelope marshals payload into an Envelope. A nil payload is omitted.
func NewEnvelope(t Type, communityID string, eventID uuid.UUID, at time.Time, payload any) (Envelope, error) {
	env := Envelope{Type: t, CommunityID: communityID, EventID: eventID, At: at.UTC()}
	if payload == nil {
		return env, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	env.Payload = raw
	return env, nil
}

// Publisher delivers envelopes. key selects the partition so one
// community's messages stay ordered.
type Publisher interface {
	Publish(ctx context.Context, key string, env Envelope) error
	Close() error
}

// Nop drops everything.
type Nop struct{}

func (Nop) Publish(context.Context, string, Envelope) error { return nil }
func (Nop) Close() error                                    { return nil }
