package models

import (
	"time"

	"github.com/google/uuid"
)

// Community ids, channel ids and angler ids are the chat platform's own
// snowflake strings. We never mint them, we only scope by them: every row
// below carries CommunityID and every query filters on it.

// CommunityConfig is the one-per-community routing row plus the last known
// external handle of each live view document.
//
// Handles are advisory. A stale handle is repaired by the live view
// reconciler, so nothing here is ever treated as authoritative.
type CommunityConfig struct {
	CommunityID         string    `json:"community_id"`
	SubmissionChannelID string    `json:"submission_channel_id"`
	LiveChannelID       string    `json:"live_channel_id"`
	ArchiveChannelID    string    `json:"archive_channel_id"`
	BestSingleHandle    string    `json:"best_single_handle"`
	TopTotalHandle      string    `json:"top_total_handle"`
	MonthlyHandle       string    `json:"monthly_handle"`
	YearlyHandle        string    `json:"yearly_handle"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Handle returns the stored external handle for doc ("" when unset).
func (c *CommunityConfig) Handle(doc Document) string {
	switch doc {
	case DocBestSingleCurrent:
		return c.BestSingleHandle
	case DocTopTotalCurrent:
		return c.TopTotalHandle
	case DocMonthlyWinners:
		return c.MonthlyHandle
	case DocYearlyWinners:
		return c.YearlyHandle
	}
	return ""
}

func (c *CommunityConfig) SetHandle(doc Document, handle string) {
	switch doc {
	case DocBestSingleCurrent:
		c.BestSingleHandle = handle
	case DocTopTotalCurrent:
		c.TopTotalHandle = handle
	case DocMonthlyWinners:
		c.MonthlyHandle = handle
	case DocYearlyWinners:
		c.YearlyHandle = handle
	}
}

// ChannelFor is the channel that hosts doc. Current-event boards live in the
// live display channel, period winners in the archive channel.
func (c *CommunityConfig) ChannelFor(doc Document) string {
	if doc.IsCurrentEvent() {
		return c.LiveChannelID
	}
	return c.ArchiveChannelID
}

// Document names one of the fixed live views a community displays.
type Document string

const (
	DocBestSingleCurrent Document = "best_single_current"
	DocTopTotalCurrent   Document = "top_total_current"
	DocMonthlyWinners    Document = "monthly_winners"
	DocYearlyWinners     Document = "yearly_winners"
)

// AllDocuments lists every live view in reconciliation order.
var AllDocuments = []Document{
	DocBestSingleCurrent,
	DocTopTotalCurrent,
	DocMonthlyWinners,
	DocYearlyWinners,
}

func (d Document) IsCurrentEvent() bool {
	return d == DocBestSingleCurrent || d == DocTopTotalCurrent
}

// Event is one tournament. At most one Event per community has Active set;
// the database enforces it with a partial unique index.
//
// Lifecycle: created open, closed exactly once, never reopened.
type Event struct {
	ID          uuid.UUID  `json:"id"`
	CommunityID string     `json:"community_id"`
	Name        string     `json:"name"`
	Active      bool       `json:"active"`
	OpenedAt    time.Time  `json:"opened_at"`
	ClosedAt    *time.Time `json:"closed_at,omitempty"`
}

// Closed reports whether the event reached its terminal state.
func (e *Event) Closed() bool {
	return !e.Active && e.ClosedAt != nil
}

// Upload is photo evidence waiting to be matched to the sender's next
// catch submission in the same channel.
//
// ID is a bigserial so that uploads sharing a timestamp still have a total
// order: the higher ID is the later insert.
type Upload struct {
	ID          int64      `json:"id"`
	CommunityID string     `json:"community_id"`
	ChannelID   string     `json:"channel_id"`
	AnglerID    string     `json:"angler_id"`
	MessageRef  string     `json:"external_message_ref"`
	MediaRef    string     `json:"media_ref"`
	CreatedAt   time.Time  `json:"created_at"`
	ConsumedAt  *time.Time `json:"consumed_at,omitempty"`
}

// CatchStatus is the moderation state of a ledger row.
//
// Unmoderated deployments insert straight into CatchApproved. Moderated ones
// insert CatchPending, and the only legal edges leave CatchPending.
type CatchStatus string

const (
	CatchPending  CatchStatus = "pending"
	CatchApproved CatchStatus = "approved"
	CatchRejected CatchStatus = "rejected"
)

func (s CatchStatus) Valid() bool {
	switch s {
	case CatchPending, CatchApproved, CatchRejected:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving from s to next is a legal edge.
// Staying in the same state is handled by callers as a no-op.
func (s CatchStatus) CanTransitionTo(next CatchStatus) bool {
	return s == CatchPending && (next == CatchApproved || next == CatchRejected)
}

// Catch is one weigh-in on the ledger. Rows are immutable apart from
// Status; EventID is fixed to whatever event was open at submission time.
type Catch struct {
	ID          int64       `json:"id"`
	CommunityID string      `json:"community_id"`
	ChannelID   string      `json:"channel_id"`
	EventID     uuid.UUID   `json:"event_id"`
	AnglerID    string      `json:"angler_id"`
	Weight      float64     `json:"weight"`
	MediaRef    string      `json:"media_ref"`
	Notes       string      `json:"notes,omitempty"`
	Status      CatchStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
}

// NewCatch is the insert shape for the ledger. ID and CreatedAt are
// assigned by the store.
type NewCatch struct {
	CommunityID string
	ChannelID   string
	EventID     uuid.UUID
	AnglerID    string
	Weight      float64
	MediaRef    string
	Notes       string
	Status      CatchStatus
}

// EventResult is the frozen per-angler outcome of a closed event, unique on
// (EventID, AnglerID). It is derived state: only the snapshot aggregator
// writes it, and rewriting it from the same ledger yields the same row.
type EventResult struct {
	EventID     uuid.UUID `json:"event_id"`
	CommunityID string    `json:"community_id"`
	AnglerID    string    `json:"angler_id"`
	BestSingle  float64   `json:"best_single"`
	TotalTop5   float64   `json:"total_of_top5"`
	CatchCount  int       `json:"catch_count"`
	SingleRank  *int      `json:"single_rank,omitempty"`
	TotalRank   *int      `json:"total_rank,omitempty"`
}

// Standing is one angler's aggregate over the closed events of a period.
type Standing struct {
	AnglerID   string  `json:"angler_id"`
	Total      float64 `json:"total"`
	BestSingle float64 `json:"best_single"`
	Events     int     `json:"events"`
}
