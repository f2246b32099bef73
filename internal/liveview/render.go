package liveview

import (
	"fmt"
	"strings"

	"github.com/lalith-99/weighin/internal/leaderboard"
	"github.com/lalith-99/weighin/internal/models"
	"github.com/lalith-99/weighin/internal/standings"
)

const noData = "No catches yet."

var titles = map[models.Document]string{
	models.DocBestSingleCurrent: "Biggest Fish",
	models.DocTopTotalCurrent:   "Top 5 Total",
	models.DocMonthlyWinners:    "Monthly Champions",
	models.DocYearlyWinners:     "Yearly Champions",
}

func Title(doc models.Document) string {
	return titles[doc]
}

// Placeholder is what a freshly created document shows until its first push.
func Placeholder(doc models.Document) string {
	return fmt.Sprintf("**%s**\n%s", Title(doc), noData)
}

// Empty is the content for a current-event document when no event is open
// or the event has no approved catches.
func Empty(doc models.Document, eventName string) string {
	return header(doc, eventName) + noData
}

func RenderBestSingle(eventName string, entries []leaderboard.SingleEntry) string {
	if len(entries) == 0 {
		return Empty(models.DocBestSingleCurrent, eventName)
	}
	var b strings.Builder
	b.WriteString(header(models.DocBestSingleCurrent, eventName))
	for _, e := range entries {
		fmt.Fprintf(&b, "%d. <@%s> %s\n", e.Rank, e.AnglerID, weight(e.Weight))
	}
	return b.String()
}

func RenderTopTotal(eventName string, entries []leaderboard.TotalEntry) string {
	if len(entries) == 0 {
		return Empty(models.DocTopTotalCurrent, eventName)
	}
	var b strings.Builder
	b.WriteString(header(models.DocTopTotalCurrent, eventName))
	for _, e := range entries {
		fmt.Fprintf(&b, "%d. <@%s> %s (%d/%d)\n", e.Rank, e.AnglerID, weight(e.Total), e.Count, leaderboard.TopN)
	}
	return b.String()
}

// RenderWinners renders the monthly or yearly champions document.
func RenderWinners(doc models.Document, w standings.Winners) string {
	var b strings.Builder
	b.WriteString(header(doc, w.Period.Label))
	if w.ByTotal == nil {
		b.WriteString("No closed events in this period yet.")
		return b.String()
	}
	fmt.Fprintf(&b, "Top total: <@%s> %s over %d event(s)\n", w.ByTotal.AnglerID, weight(w.ByTotal.Total), w.ByTotal.Events)
	fmt.Fprintf(&b, "Biggest fish: <@%s> %s\n", w.BySingle.AnglerID, weight(w.BySingle.BestSingle))
	return b.String()
}

func header(doc models.Document, subtitle string) string {
	if subtitle == "" {
		return fmt.Sprintf("**%s**\n", Title(doc))
	}
	return fmt.Sprintf("**%s** (%s)\n", Title(doc), subtitle)
}

func weight(w float64) string {
	return fmt.Sprintf("%.2f", w)
}
