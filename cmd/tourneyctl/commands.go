package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/jessevdk/go-flags"
	"github.com/lalith-99/weighin/internal/db"
	"github.com/lalith-99/weighin/internal/models"
	"github.com/lalith-99/weighin/internal/tourney"
)

type options struct {
	Migrate   migrateCmd   `command:"migrate" description:"Apply pending database migrations"`
	Snapshot  snapshotCmd  `command:"snapshot" description:"Re-freeze the results of a closed event"`
	Wipe      wipeCmd      `command:"wipe" description:"Delete every event, catch and result of a community"`
	Standings standingsCmd `command:"standings" description:"Print monthly or yearly standings"`
}

func newParser() *flags.Parser {
	var opts options
	return newParserFor(&opts)
}

func newParserFor(opts *options) *flags.Parser {
	p := flags.NewParser(opts, flags.Default)
	p.SubcommandsOptional = false
	return p
}

type migrateCmd struct{}

func (c *migrateCmd) Execute([]string) error {
	ev, err := loadEnv()
	if err != nil {
		return err
	}
	defer ev.logger.Sync()

	version, err := db.Migrate(ev.cfg.DatabaseURL, ev.logger)
	if err != nil {
		return err
	}
	fmt.Printf("schema at version %d\n", version)
	return nil
}

type snapshotCmd struct {
	Community string `long:"community" required:"true" description:"Community ID"`
	Event     string `long:"event" required:"true" description:"Event ID"`
}

func (c *snapshotCmd) Execute([]string) error {
	eventID, err := uuid.Parse(c.Event)
	if err != nil {
		return fmt.Errorf("invalid --event: %w", err)
	}
	return withEngine(func(ctx context.Context, e *tourney.Engine) error {
		rows, err := e.Snapshot(ctx, c.Community, eventID)
		if err != nil {
			return err
		}
		return printResults(os.Stdout, rows)
	})
}

type wipeCmd struct {
	Community string `long:"community" required:"true" description:"Community ID"`
	Yes       bool   `long:"yes" description:"Confirm the wipe"`
}

func (c *wipeCmd) Execute([]string) error {
	if !c.Yes {
		return fmt.Errorf("refusing to wipe %s without --yes", c.Community)
	}
	return withEngine(func(ctx context.Context, e *tourney.Engine) error {
		counts, err := e.WipeCommunity(ctx, c.Community)
		if err != nil {
			return err
		}
		fmt.Printf("deleted %d catches, %d results, %d events\n", counts.Catches, counts.Results, counts.Events)
		return nil
	})
}

type standingsCmd struct {
	Community string `long:"community" required:"true" description:"Community ID"`
	Month     string `long:"month" description:"Month as YYYY-MM"`
	Year      string `long:"year" description:"Year as YYYY"`
}

func (c *standingsCmd) validate() error {
	if (c.Month == "") == (c.Year == "") {
		return fmt.Errorf("pass exactly one of --month or --year")
	}
	return nil
}

func (c *standingsCmd) Execute([]string) error {
	if err := c.validate(); err != nil {
		return err
	}
	return withEngine(func(ctx context.Context, e *tourney.Engine) error {
		var (
			rows []models.Standing
			err  error
		)
		if c.Month != "" {
			rows, err = e.MonthlyStandings(ctx, c.Community, c.Month)
		} else {
			rows, err = e.YearlyStandings(ctx, c.Community, c.Year)
		}
		if err != nil {
			return err
		}
		return printStandings(os.Stdout, rows)
	})
}

func printResults(w io.Writer, rows []models.EventResult) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tANGLER\tTOP5\tCATCHES\tBEST")
	for _, r := range rows {
		rank := "-"
		if r.TotalRank != nil {
			rank = fmt.Sprint(*r.TotalRank)
		}
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%d\t%.2f\n", rank, r.AnglerID, r.TotalTop5, r.CatchCount, r.BestSingle)
	}
	return tw.Flush()
}

func printStandings(w io.Writer, rows []models.Standing) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tANGLER\tTOTAL\tBEST\tEVENTS")
	for i, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%.2f\t%d\n", i+1, r.AnglerID, r.Total, r.BestSingle, r.Events)
	}
	return tw.Flush()
}
