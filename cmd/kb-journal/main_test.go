package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/cognicore/kbase/pkg/kbase"
	"github.com/cognicore/kbase/pkg/kbase/logic"
	"github.com/cognicore/kbase/pkg/kbase/store"
	"github.com/cognicore/kbase/pkg/kbase/store/sqlite"
)

func TestBuildReport(t *testing.T) {
	ctx := context.Background()

	journal, err := sqlite.OpenSQLite(ctx, filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	defer journal.Close()

	rec := store.NewRecorder(ctx, journal, nil)
	kb := kbase.New(kbase.Options{Observer: rec})

	kb.Assert(kbase.NewRule(logic.S("mortal", "?x"), logic.S("man", "?x")))
	kb.Assert(kbase.NewRule(logic.S("mortal", "?x"), logic.S("god", "?x")))
	kb.Assert(kbase.NewFact("man", "socrates"))
	kb.Assert(kbase.NewFact("god", "socrates"))
	kb.Retract(kbase.NewFact("man", "socrates"))
	if err := rec.Err(); err != nil {
		t.Fatalf("recorder: %v", err)
	}

	rep, err := buildReport(ctx, journal, store.Filter{Limit: 2}, 5)
	if err != nil {
		t.Fatalf("buildReport: %v", err)
	}

	// 4 asserts, 1 derive, 1 merge, 1 remove
	if rep.TotalEntries != 7 {
		t.Fatalf("expected 7 entries, got %d (%+v)", rep.TotalEntries, rep.Counts)
	}
	if len(rep.Counts) != 5 {
		t.Fatalf("expected 5 event/kind counts, got %+v", rep.Counts)
	}
	if first := rep.Counts[0]; first.Event != "assert" || first.Kind != "fact" || first.Count != 2 {
		t.Fatalf("unexpected first count %+v", first)
	}

	if len(rep.MostJustified) != 1 {
		t.Fatalf("expected one justified item, got %+v", rep.MostJustified)
	}
	if got := rep.MostJustified[0]; got.Item != "fact: (mortal socrates)" || got.Justifications != 2 {
		t.Fatalf("unexpected most justified item %+v", got)
	}
	if len(rep.Entries) != 2 {
		t.Fatalf("expected limit to bound listed entries, got %d", len(rep.Entries))
	}
}

func TestBuildReportHonoursFilter(t *testing.T) {
	ctx := context.Background()

	journal, err := sqlite.OpenSQLite(ctx, filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	defer journal.Close()

	first := store.NewRecorder(ctx, journal, nil)
	kb := kbase.New(kbase.Options{Observer: first})
	kb.Assert(kbase.NewRule(logic.S("mortal", "?x"), logic.S("man", "?x")))
	kb.Assert(kbase.NewFact("man", "socrates"))
	kb.Retract(kbase.NewFact("man", "socrates"))

	second := store.NewRecorder(ctx, journal, nil)
	other := kbase.New(kbase.Options{Observer: second})
	other.Assert(kbase.NewRule(logic.S("mortal", "?x"), logic.S("man", "?x")))
	other.Assert(kbase.NewFact("man", "plato"))
	for _, rec := range []*store.Recorder{first, second} {
		if err := rec.Err(); err != nil {
			t.Fatalf("recorder: %v", err)
		}
	}

	tests := []struct {
		name      string
		filter    store.Filter
		total     int64
		justified int
	}{
		// assert rule, assert fact, derive, remove fact, remove derived
		{name: "first session", filter: store.Filter{Session: first.Session()}, total: 5, justified: 1},
		// assert rule, assert fact, derive
		{name: "second session", filter: store.Filter{Session: second.Session()}, total: 3, justified: 1},
		{name: "unknown session", filter: store.Filter{Session: "nobody"}, total: 0, justified: 0},
		{name: "removals", filter: store.Filter{Event: "remove"}, total: 2, justified: 0},
		{name: "derivations", filter: store.Filter{Event: "derive"}, total: 2, justified: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep, err := buildReport(ctx, journal, tt.filter, 10)
			if err != nil {
				t.Fatalf("buildReport: %v", err)
			}
			if rep.TotalEntries != tt.total {
				t.Fatalf("expected %d entries, got %d (%+v)", tt.total, rep.TotalEntries, rep.Counts)
			}
			var sum int64
			for _, c := range rep.Counts {
				sum += c.Count
			}
			if sum != tt.total {
				t.Fatalf("counts %+v do not add up to %d", rep.Counts, tt.total)
			}
			if len(rep.MostJustified) != tt.justified {
				t.Fatalf("expected %d justified items, got %+v", tt.justified, rep.MostJustified)
			}
			if int64(len(rep.Entries)) != tt.total {
				t.Fatalf("expected %d listed entries, got %d", tt.total, len(rep.Entries))
			}
		})
	}
}

func TestTopJustifiedLimit(t *testing.T) {
	entries := []store.Entry{
		{Event: "derive", Item: "a"},
		{Event: "derive", Item: "b"},
		{Event: "merge", Item: "b"},
		{Event: "assert", Item: "c"},
	}

	got := topJustified(entries, 1)
	if len(got) != 1 || got[0].Item != "b" || got[0].Justifications != 2 {
		t.Fatalf("unexpected ranking %+v", got)
	}
}
