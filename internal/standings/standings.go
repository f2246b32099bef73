// Package standings derives monthly and yearly standings from frozen event
// results. It depends on repository.StandingsReader only and cannot reach
// the catch ledger: an event counts once it is closed and snapshotted, never
// before.
package standings

import (
	"context"
	"fmt"
	"time"

	"github.com/lalith-99/weighin/internal/apperr"
	"github.com/lalith-99/weighin/internal/models"
	"github.com/lalith-99/weighin/internal/repository"
)

type Kind string

const (
	Monthly Kind = "monthly"
	Yearly  Kind = "yearly"
)

const (
	monthLayout = "2006-01"
	yearLayout  = "2006"
)

// Period is a half-open UTC interval [From, To).
type Period struct {
	Kind  Kind      `json:"kind"`
	Label string    `json:"label"`
	From  time.Time `json:"from"`
	To    time.Time `json:"to"`
}

func MonthOf(t time.Time) Period {
	t = t.UTC()
	from := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return Period{Kind: Monthly, Label: from.Format(monthLayout), From: from, To: from.AddDate(0, 1, 0)}
}

func YearOf(t time.Time) Period {
	t = t.UTC()
	from := time.Date(t.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	return Period{Kind: Yearly, Label: from.Format(yearLayout), From: from, To: from.AddDate(1, 0, 0)}
}

// Parse reads "YYYY-MM" for Monthly and "YYYY" for Yearly.
func Parse(kind Kind, s string) (Period, error) {
	switch kind {
	case Monthly:
		if len(s) != len(monthLayout) {
			return Period{}, apperr.ErrInvalidPeriod
		}
		t, err := time.Parse(monthLayout, s)
		if err != nil {
			return Period{}, apperr.ErrInvalidPeriod
		}
		return MonthOf(t), nil
	case Yearly:
		if len(s) != len(yearLayout) {
			return Period{}, apperr.ErrInvalidPeriod
		}
		t, err := time.Parse(yearLayout, s)
		if err != nil {
			return Period{}, apperr.ErrInvalidPeriod
		}
		return YearOf(t), nil
	}
	return Period{}, apperr.ErrInvalidPeriod
}

// Winners holds the top angler by summed total and, independently, the top
// angler by best single. Either is nil when the period has no results.
type Winners struct {
	Period   Period           `json:"period"`
	ByTotal  *models.Standing `json:"by_total,omitempty"`
	BySingle *models.Standing `json:"by_single,omitempty"`
}

type Aggregator struct {
	reader repository.StandingsReader
}

func NewAggregator(reader repository.StandingsReader) *Aggregator {
	return &Aggregator{reader: reader}
}

// For returns standings for p, ordered by total desc then best single desc.
func (a *Aggregator) For(ctx context.Context, communityID string, p Period) ([]models.Standing, error) {
	rows, err := a.reader.Standings(ctx, communityID, p.From, p.To)
	if err != nil {
		return nil, fmt.Errorf("%s standings %s: %w", p.Kind, p.Label, err)
	}
	return rows, nil
}

func (a *Aggregator) MonthlyStandings(ctx context.Context, communityID, month string) ([]models.Standing, error) {
	p, err := Parse(Monthly, month)
	if err != nil {
		return nil, err
	}
	return a.For(ctx, communityID, p)
}

func (a *Aggregator) YearlyStandings(ctx context.Context, communityID, year string) ([]models.Standing, error) {
	p, err := Parse(Yearly, year)
	if err != nil {
		return nil, err
	}
	return a.For(ctx, communityID, p)
}

func (a *Aggregator) PeriodWinners(ctx context.Context, communityID string, p Period) (Winners, error) {
	rows, err := a.For(ctx, communityID, p)
	if err != nil {
		return Winners{}, err
	}
	w := Reduce(rows)
	w.Period = p
	return w, nil
}

// Reduce picks the winners out of already ordered standings.
func Reduce(rows []models.Standing) Winners {
	var w Winners
	if len(rows) == 0 {
		return w
	}
	byTotal := rows[0]
	w.ByTotal = &byTotal

	bySingle := rows[0]
	for _, r := range rows[1:] {
		if r.BestSingle > bySingle.BestSingle ||
			(r.BestSingle == bySingle.BestSingle && r.Total > bySingle.Total) ||
			(r.BestSingle == bySingle.BestSingle && r.Total == bySingle.Total && r.AnglerID < bySingle.AnglerID) {
			bySingle = r
		}
	}
	w.BySingle = &bySingle
	return w
}
