// Package memory is an in-process implementation of every repository
// contract. It backs STORE=memory local runs and the engine tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lalith-99/weighin/internal/apperr"
	"github.com/lalith-99/weighin/internal/models"
	"github.com/lalith-99/weighin/internal/repository"
)

type resultKey struct {
	eventID  uuid.UUID
	anglerID string
}

// Store holds all tables behind one mutex, which gives every method the
// per-statement atomicity the Postgres stores get from transactions.
type Store struct {
	mu         sync.Mutex
	configs    map[string]models.CommunityConfig
	events     []models.Event
	uploads    []models.Upload
	catches    []models.Catch
	results    map[resultKey]models.EventResult
	nextUpload int64
	nextCatch  int64
}

func New() *Store {
	return &Store{
		configs: map[string]models.CommunityConfig{},
		results: map[resultKey]models.EventResult{},
	}
}

func (s *Store) Configs() *ConfigRepo { return &ConfigRepo{s: s} }
func (s *Store) Events() *EventRepo   { return &EventRepo{s: s} }
func (s *Store) Uploads() *UploadRepo { return &UploadRepo{s: s} }
func (s *Store) Catches() *CatchRepo  { return &CatchRepo{s: s} }
func (s *Store) Results() *ResultRepo { return &ResultRepo{s: s} }
func (s *Store) Wiper() *WipeRepo     { return &WipeRepo{s: s} }

type ConfigRepo struct{ s *Store }

func (r *ConfigRepo) Get(_ context.Context, communityID string) (*models.CommunityConfig, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.configs[communityID]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *ConfigRepo) UpsertChannels(_ context.Context, communityID, submissionChannelID, liveChannelID, archiveChannelID string) (*models.CommunityConfig, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.configs[communityID]
	if !ok {
		c = models.CommunityConfig{CommunityID: communityID}
	}
	if c.LiveChannelID != liveChannelID {
		c.BestSingleHandle, c.TopTotalHandle = "", ""
	}
	if c.ArchiveChannelID != archiveChannelID {
		c.MonthlyHandle, c.YearlyHandle = "", ""
	}
	c.SubmissionChannelID = submissionChannelID
	c.LiveChannelID = liveChannelID
	c.ArchiveChannelID = archiveChannelID
	c.UpdatedAt = time.Now().UTC()
	r.s.configs[communityID] = c
	return &c, nil
}

func (r *ConfigRepo) SetHandle(_ context.Context, communityID string, doc models.Document, handle string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.configs[communityID]
	if !ok {
		return apperr.ErrNoConfig
	}
	c.SetHandle(doc, handle)
	c.UpdatedAt = time.Now().UTC()
	r.s.configs[communityID] = c
	return nil
}

type EventRepo struct{ s *Store }

func (r *EventRepo) Open(_ context.Context, communityID, name string, at time.Time) (*models.Event, *models.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var closed *models.Event
	for i := range r.s.events {
		ev := &r.s.events[i]
		if ev.CommunityID != communityID || !ev.Active {
			continue
		}
		ev.Active = false
		if ev.ClosedAt == nil {
			t := at
			ev.ClosedAt = &t
		}
		cp := *ev
		closed = &cp
	}

	opened := models.Event{
		ID:          uuid.New(),
		CommunityID: communityID,
		Name:        name,
		Active:      true,
		OpenedAt:    at,
	}
	r.s.events = append(r.s.events, opened)
	return &opened, closed, nil
}

func (r *EventRepo) Close(_ context.Context, communityID string, eventID uuid.UUID, at time.Time) (*models.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.events {
		ev := &r.s.events[i]
		if ev.ID == eventID && ev.CommunityID == communityID && ev.Active {
			ev.Active = false
			t := at
			ev.ClosedAt = &t
			cp := *ev
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *EventRepo) GetActive(_ context.Context, communityID string) (*models.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, ev := range r.s.events {
		if ev.CommunityID == communityID && ev.Active {
			return &ev, nil
		}
	}
	return nil, nil
}

func (r *EventRepo) GetByID(_ context.Context, communityID string, eventID uuid.UUID) (*models.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, ev := range r.s.events {
		if ev.ID == eventID && ev.CommunityID == communityID {
			return &ev, nil
		}
	}
	return nil, nil
}

func (r *EventRepo) List(_ context.Context, communityID string, limit int) ([]models.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]models.Event, 0)
	for i := len(r.s.events) - 1; i >= 0 && len(out) < limit; i-- {
		if r.s.events[i].CommunityID == communityID {
			out = append(out, r.s.events[i])
		}
	}
	return out, nil
}

type UploadRepo struct{ s *Store }

func (r *UploadRepo) Create(_ context.Context, u models.Upload) (*models.Upload, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextUpload++
	u.ID = r.s.nextUpload
	u.ConsumedAt = nil
	r.s.uploads = append(r.s.uploads, u)
	return &u, nil
}

func (r *UploadRepo) LatestSince(_ context.Context, communityID, channelID, anglerID string, since time.Time) (*models.Upload, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var best *models.Upload
	for i := range r.s.uploads {
		u := &r.s.uploads[i]
		if u.CommunityID != communityID || u.ChannelID != channelID || u.AnglerID != anglerID {
			continue
		}
		if u.ConsumedAt != nil || u.CreatedAt.Before(since) {
			continue
		}
		if best == nil || u.CreatedAt.After(best.CreatedAt) || (u.CreatedAt.Equal(best.CreatedAt) && u.ID > best.ID) {
			best = u
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

type CatchRepo struct{ s *Store }

func (r *CatchRepo) CreateFromUpload(_ context.Context, c models.NewCatch, uploadID int64, at time.Time) (*models.Catch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	active := false
	for _, ev := range r.s.events {
		if ev.ID == c.EventID && ev.CommunityID == c.CommunityID && ev.Active {
			active = true
			break
		}
	}
	if !active {
		return nil, repository.ErrEventNotActive
	}

	var upload *models.Upload
	for i := range r.s.uploads {
		if r.s.uploads[i].ID == uploadID && r.s.uploads[i].CommunityID == c.CommunityID {
			upload = &r.s.uploads[i]
		}
	}
	if upload == nil || upload.ConsumedAt != nil {
		return nil, repository.ErrUploadConsumed
	}
	t := at
	upload.ConsumedAt = &t

	r.s.nextCatch++
	created := models.Catch{
		ID:          r.s.nextCatch,
		CommunityID: c.CommunityID,
		ChannelID:   c.ChannelID,
		EventID:     c.EventID,
		AnglerID:    c.AnglerID,
		Weight:      c.Weight,
		MediaRef:    c.MediaRef,
		Notes:       c.Notes,
		Status:      c.Status,
		CreatedAt:   at,
	}
	r.s.catches = append(r.s.catches, created)
	return &created, nil
}

func (r *CatchRepo) GetByID(_ context.Context, communityID string, catchID int64) (*models.Catch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.catches {
		if c.ID == catchID && c.CommunityID == communityID {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *CatchRepo) SetStatus(_ context.Context, communityID string, catchID int64, from, to models.CatchStatus) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.catches {
		c := &r.s.catches[i]
		if c.ID == catchID && c.CommunityID == communityID && c.Status == from {
			c.Status = to
			return true, nil
		}
	}
	return false, nil
}

func (r *CatchRepo) ListApproved(_ context.Context, communityID string, eventID uuid.UUID) ([]models.Catch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]models.Catch, 0)
	for _, c := range r.s.catches {
		if c.CommunityID == communityID && c.EventID == eventID && c.Status == models.CatchApproved {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *CatchRepo) ListPending(_ context.Context, communityID string, limit int) ([]models.Catch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]models.Catch, 0)
	for _, c := range r.s.catches {
		if len(out) == limit {
			break
		}
		if c.CommunityID == communityID && c.Status == models.CatchPending {
			out = append(out, c)
		}
	}
	return out, nil
}

type ResultRepo struct{ s *Store }

func (r *ResultRepo) ReplaceForEvent(_ context.Context, communityID string, eventID uuid.UUID, rows []models.EventResult) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	keep := make(map[string]bool, len(rows))
	for _, row := range rows {
		row.EventID = eventID
		row.CommunityID = communityID
		r.s.results[resultKey{eventID, row.AnglerID}] = row
		keep[row.AnglerID] = true
	}
	for k, row := range r.s.results {
		if k.eventID == eventID && row.CommunityID == communityID && !keep[k.anglerID] {
			delete(r.s.results, k)
		}
	}
	return nil
}

func (r *ResultRepo) ListForEvent(_ context.Context, communityID string, eventID uuid.UUID) ([]models.EventResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]models.EventResult, 0)
	for k, row := range r.s.results {
		if k.eventID == eventID && row.CommunityID == communityID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ri, rj := rankOrMax(out[i].TotalRank), rankOrMax(out[j].TotalRank)
		if ri != rj {
			return ri < rj
		}
		return out[i].AnglerID < out[j].AnglerID
	})
	return out, nil
}

func (r *ResultRepo) Standings(_ context.Context, communityID string, from, to time.Time) ([]models.Standing, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	inPeriod := map[uuid.UUID]bool{}
	for _, ev := range r.s.events {
		if ev.CommunityID != communityID || ev.Active || ev.ClosedAt == nil {
			continue
		}
		if !ev.ClosedAt.Before(from) && ev.ClosedAt.Before(to) {
			inPeriod[ev.ID] = true
		}
	}

	byAngler := map[string]*models.Standing{}
	for k, row := range r.s.results {
		if row.CommunityID != communityID || !inPeriod[k.eventID] {
			continue
		}
		st, ok := byAngler[row.AnglerID]
		if !ok {
			st = &models.Standing{AnglerID: row.AnglerID}
			byAngler[row.AnglerID] = st
		}
		st.Total += row.TotalTop5
		if row.BestSingle > st.BestSingle {
			st.BestSingle = row.BestSingle
		}
		st.Events++
	}

	out := make([]models.Standing, 0, len(byAngler))
	for _, st := range byAngler {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		if out[i].BestSingle != out[j].BestSingle {
			return out[i].BestSingle > out[j].BestSingle
		}
		return out[i].AnglerID < out[j].AnglerID
	})
	return out, nil
}

type WipeRepo struct{ s *Store }

func (r *WipeRepo) Wipe(_ context.Context, communityID string) (repository.WipeCounts, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var counts repository.WipeCounts

	catches := r.s.catches[:0]
	for _, c := range r.s.catches {
		if c.CommunityID == communityID {
			counts.Catches++
			continue
		}
		catches = append(catches, c)
	}
	r.s.catches = catches

	for k, row := range r.s.results {
		if row.CommunityID == communityID {
			delete(r.s.results, k)
			counts.Results++
		}
	}

	events := r.s.events[:0]
	for _, ev := range r.s.events {
		if ev.CommunityID == communityID {
			counts.Events++
			continue
		}
		events = append(events, ev)
	}
	r.s.events = events
	return counts, nil
}

func rankOrMax(r *int) int {
	if r == nil {
		return int(^uint(0) >> 1)
	}
	return *r
}
