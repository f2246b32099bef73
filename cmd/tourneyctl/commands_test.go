package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jessevdk/go-flags"
	"github.com/lalith-99/weighin/internal/models"
)

func TestParserRequiresFlags(t *testing.T) {
	var opts options
	p := newParserFor(&opts)
	p.Options = flags.None
	// Keep Execute from running: only flag validation is under test.
	p.CommandHandler = func(flags.Commander, []string) error { return nil }

	if _, err := p.ParseArgs([]string{"snapshot", "--community", "g1"}); err == nil {
		t.Fatal("expected missing --event to fail")
	}
	if _, err := p.ParseArgs([]string{"standings", "--community", "g1", "--month", "2026-06"}); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if opts.Standings.Month != "2026-06" || opts.Standings.Community != "g1" {
		t.Fatalf("unexpected parse %+v", opts.Standings)
	}
	if _, err := p.ParseArgs([]string{"unknown"}); err == nil {
		t.Fatal("expected unknown command to fail")
	}
}

func TestWipeNeedsConfirmation(t *testing.T) {
	c := &wipeCmd{Community: "g1"}
	if err := c.Execute(nil); err == nil || !strings.Contains(err.Error(), "--yes") {
		t.Fatalf("expected refusal, got %v", err)
	}
}

func TestStandingsValidate(t *testing.T) {
	tests := []struct {
		cmd standingsCmd
		ok  bool
	}{
		{standingsCmd{Month: "2026-06"}, true},
		{standingsCmd{Year: "2026"}, true},
		{standingsCmd{}, false},
		{standingsCmd{Month: "2026-06", Year: "2026"}, false},
	}
	for _, tt := range tests {
		if err := tt.cmd.validate(); (err == nil) != tt.ok {
			t.Errorf("validate(%+v) = %v", tt.cmd, err)
		}
	}
}

func TestPrintTables(t *testing.T) {
	var buf bytes.Buffer
	rank := 1
	if err := printResults(&buf, []models.EventResult{{AnglerID: "u1", TotalTop5: 20, CatchCount: 5, BestSingle: 6, TotalRank: &rank}}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "u1") || !strings.Contains(buf.String(), "20.00") {
		t.Fatalf("unexpected results table:\n%s", buf.String())
	}

	buf.Reset()
	if err := printStandings(&buf, []models.Standing{{AnglerID: "u2", Total: 12.5, BestSingle: 4, Events: 3}}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "12.50") {
		t.Fatalf("unexpected standings table:\n%s", buf.String())
	}
}
