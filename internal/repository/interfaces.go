package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lalith-99/weighin/internal/models"
)

// Every method takes ctx first and a communityID second. A community never
// sees another community's rows: implementations filter on community_id in
// every statement, even when the primary key alone would be enough.
//
// Single-row lookups return (nil, nil) when nothing matches; the engine turns
// that into the right user-facing error.

// ErrUploadConsumed is returned when the upload a catch was matched to has
// already been used by another submission.
var ErrUploadConsumed = errors.New("upload already consumed")

// ErrEventNotActive is returned when a catch targets an event that closed
// after the caller looked it up.
var ErrEventNotActive = errors.New("event is no longer active")

// ConfigRepository stores per-community routing and live view handles.
type ConfigRepository interface {
	Get(ctx context.Context, communityID string) (*models.CommunityConfig, error)

	// UpsertChannels creates or updates the routing row. Stored handles are
	// kept unless the channel hosting that document changed.
	UpsertChannels(ctx context.Context, communityID, submissionChannelID, liveChannelID, archiveChannelID string) (*models.CommunityConfig, error)

	// SetHandle persists the external handle of one live view document.
	SetHandle(ctx context.Context, communityID string, doc models.Document, handle string) error
}

// EventRepository owns the event lifecycle rows.
type EventRepository interface {
	// Open force-closes the community's active event, if any, and inserts a
	// new active one in a single transaction. closed is nil when there was
	// nothing to close.
	Open(ctx context.Context, communityID, name string, at time.Time) (opened *models.Event, closed *models.Event, err error)

	// Close closes the matching active event. Returns nil, nil when no
	// active event with that id exists.
	Close(ctx context.Context, communityID string, eventID uuid.UUID, at time.Time) (*models.Event, error)

	GetActive(ctx context.Context, communityID string) (*models.Event, error)
	GetByID(ctx context.Context, communityID string, eventID uuid.UUID) (*models.Event, error)

	// List returns the community's events, newest first.
	List(ctx context.Context, communityID string, limit int) ([]models.Event, error)
}

// UploadRepository is the short-lived evidence staging store.
type UploadRepository interface {
	Create(ctx context.Context, u models.Upload) (*models.Upload, error)

	// LatestSince returns the newest unconsumed upload for the exact
	// (community, channel, angler) triple created at or after since. Ties on
	// created_at go to the higher id.
	LatestSince(ctx context.Context, communityID, channelID, anglerID string, since time.Time) (*models.Upload, error)
}

// CatchRepository is the append-only catch ledger.
type CatchRepository interface {
	// CreateFromUpload marks uploadID consumed and inserts the catch in one
	// transaction. Returns ErrEventNotActive if c.EventID is no longer the
	// open event and ErrUploadConsumed if the upload was already used.
	CreateFromUpload(ctx context.Context, c models.NewCatch, uploadID int64, at time.Time) (*models.Catch, error)

	GetByID(ctx context.Context, communityID string, catchID int64) (*models.Catch, error)

	// SetStatus moves a catch from one status to another. Reports false when
	// the row was not in the from state.
	SetStatus(ctx context.Context, communityID string, catchID int64, from, to models.CatchStatus) (bool, error)

	// ListApproved returns the approved catches of an event in insertion order.
	ListApproved(ctx context.Context, communityID string, eventID uuid.UUID) ([]models.Catch, error)

	// ListPending returns catches awaiting moderation, oldest first.
	ListPending(ctx context.Context, communityID string, limit int) ([]models.Catch, error)
}

// ResultRepository stores frozen EventResult rows.
type ResultRepository interface {
	// ReplaceForEvent upserts rows on (event_id, angler_id) and removes rows
	// for anglers no longer present, in one transaction.
	ReplaceForEvent(ctx context.Context, communityID string, eventID uuid.UUID, rows []models.EventResult) error

	// ListForEvent returns the rows of one event ordered by total rank.
	ListForEvent(ctx context.Context, communityID string, eventID uuid.UUID) ([]models.EventResult, error)
}

// StandingsReader aggregates frozen results over closed events. It has no
// access to the catch ledger.
type StandingsReader interface {
	// Standings groups EventResult rows of events closed in [from, to) by
	// angler: sum of totals, max single, count of events. Ordered by total
	// desc, then best single desc.
	Standings(ctx context.Context, communityID string, from, to time.Time) ([]models.Standing, error)
}

// WipeCounts reports how many rows a community wipe removed.
type WipeCounts struct {
	Catches int64 `json:"catches"`
	Results int64 `json:"results"`
	Events  int64 `json:"events"`
}

// CommunityWiper removes a community's tournament history.
type CommunityWiper interface {
	Wipe(ctx context.Context, communityID string) (WipeCounts, error)
}
