// Package leaderboard ranks an event's catches. Everything here is a pure
// function of the catches passed in; nothing reads or writes storage.
package leaderboard

import (
	"sort"

	"github.com/google/uuid"
	"github.com/lalith-99/weighin/internal/models"
)

const (
	// DefaultLimit caps rankings shown to people.
	DefaultLimit = 25

	// TopN is how many of an angler's catches count toward Top-Total.
	TopN = 5
)

// SingleEntry is one row of the Best-Single ranking.
type SingleEntry struct {
	Rank     int     `json:"rank"`
	AnglerID string  `json:"angler_id"`
	Weight   float64 `json:"weight"`
	CatchID  int64   `json:"catch_id"`
}

// TotalEntry is one row of the Top-Total ranking. Count is how many catches
// contributed to Total, never more than TopN.
type TotalEntry struct {
	Rank     int       `json:"rank"`
	AnglerID string    `json:"angler_id"`
	Total    float64   `json:"total"`
	Count    int       `json:"count"`
	Weights  []float64 `json:"weights"`
}

// Board carries both rankings for one event.
type Board struct {
	EventID    uuid.UUID     `json:"event_id"`
	BestSingle []SingleEntry `json:"best_single"`
	TopTotal   []TotalEntry  `json:"top_total"`
}

// Compute builds both rankings for eventID. limit <= 0 means uncapped.
func Compute(eventID uuid.UUID, catches []models.Catch, limit int) Board {
	eligible := Eligible(eventID, catches)
	return Board{
		EventID:    eventID,
		BestSingle: BestSingle(eligible, limit),
		TopTotal:   TopTotal(eligible, limit),
	}
}

// Eligible keeps the approved catches of eventID, preserving order.
func Eligible(eventID uuid.UUID, catches []models.Catch) []models.Catch {
	out := make([]models.Catch, 0, len(catches))
	for _, c := range catches {
		if c.EventID == eventID && c.Status == models.CatchApproved {
			out = append(out, c)
		}
	}
	return out
}

// BestSingle ranks anglers by their heaviest catch, heaviest first. Equal
// weights are ordered by angler id so repeated runs agree.
func BestSingle(catches []models.Catch, limit int) []SingleEntry {
	best := map[string]SingleEntry{}
	for _, c := range catches {
		cur, ok := best[c.AnglerID]
		if !ok || c.Weight > cur.Weight || (c.Weight == cur.Weight && c.ID < cur.CatchID) {
			best[c.AnglerID] = SingleEntry{AnglerID: c.AnglerID, Weight: c.Weight, CatchID: c.ID}
		}
	}

	entries := make([]SingleEntry, 0, len(best))
	for _, e := range best {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Weight != entries[j].Weight {
			return entries[i].Weight > entries[j].Weight
		}
		return entries[i].AnglerID < entries[j].AnglerID
	})

	entries = capped(entries, limit)
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// TopTotal ranks anglers by the sum of their TopN heaviest catches. Within
// an angler, equal weights keep insertion order. Anglers with fewer than
// TopN catches are scored on what they have.
func TopTotal(catches []models.Catch, limit int) []TotalEntry {
	byAngler := map[string][]models.Catch{}
	for _, c := range catches {
		byAngler[c.AnglerID] = append(byAngler[c.AnglerID], c)
	}

	entries := make([]TotalEntry, 0, len(byAngler))
	for angler, list := range byAngler {
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].Weight != list[j].Weight {
				return list[i].Weight > list[j].Weight
			}
			return list[i].ID < list[j].ID
		})
		if len(list) > TopN {
			list = list[:TopN]
		}

		e := TotalEntry{AnglerID: angler, Count: len(list), Weights: make([]float64, 0, len(list))}
		for _, c := range list {
			e.Total += c.Weight
			e.Weights = append(e.Weights, c.Weight)
		}
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Total != entries[j].Total {
			return entries[i].Total > entries[j].Total
		}
		return entries[i].AnglerID < entries[j].AnglerID
	})

	entries = capped(entries, limit)
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

func capped[T any](entries []T, limit int) []T {
	if limit > 0 && len(entries) > limit {
		return entries[:limit]
	}
	return entries
}
