package main

import (
	"cmp"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	"github.com/cognicore/kbase/pkg/kbase"
	"github.com/cognicore/kbase/pkg/kbase/store"
	"github.com/cognicore/kbase/pkg/kbase/store/sqlite"
)

type report struct {
	TotalEntries  int64            `json:"total_entries"`
	Counts        []countEntry     `json:"counts"`
	MostJustified []justifiedEntry `json:"most_justified"`
	Entries       []entryJSON      `json:"entries"`
}

type countEntry struct {
	Event string `json:"event"`
	Kind  string `json:"kind"`
	Count int64  `json:"count"`
}

type justifiedEntry struct {
	Item           string `json:"item"`
	Justifications int    `json:"justifications"`
}

type entryJSON struct {
	ID      string    `json:"id"`
	Session string    `json:"session"`
	Time    time.Time `json:"time"`
	Event   string    `json:"event"`
	Kind    string    `json:"kind"`
	Item    string    `json:"item"`
	Support []string  `json:"support,omitempty"`
}

func main() {
	var (
		dbPath  = flag.String("db", "", "SQLite journal path (required)")
		session = flag.String("session", "", "Only entries written by this session")
		event   = flag.String("event", "", "Only entries of this event (assert, derive, merge, unassert, remove)")
		kind    = flag.String("kind", "", "Only entries of this kind (fact, rule)")
		item    = flag.String("item", "", "Only entries for this item, e.g. 'fact: (isa b1 block)'")
		limit   = flag.Int("limit", 50, "Maximum entries to list (0 = all); totals cover every matching entry")
		top     = flag.Int("top", 10, "Number of most justified items to list")
	)
	flag.Parse()

	if *dbPath == "" {
		log.Fatal("--db required")
	}

	ctx := context.Background()

	journal, err := sqlite.OpenSQLite(ctx, *dbPath)
	if err != nil {
		log.Fatalf("open journal: %v", err)
	}
	defer journal.Close()

	filter := store.Filter{Session: *session, Event: *event, Kind: *kind, Item: *item, Limit: *limit}
	rep, err := buildReport(ctx, journal, filter, *top)
	if err != nil {
		log.Fatalf("build report: %v", err)
	}

	out, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		log.Fatalf("marshal report: %v", err)
	}
	fmt.Println(string(out))
}

// buildReport summarises every entry that passes filter. filter.Limit only
// bounds the listed entries.
func buildReport(ctx context.Context, journal store.Journal, filter store.Filter, top int) (report, error) {
	var rep report

	scope := filter
	scope.Limit = 0
	scoped, err := journal.Entries(ctx, scope)
	if err != nil {
		return rep, fmt.Errorf("entries: %w", err)
	}

	counts := make(map[string]int64)
	for _, e := range scoped {
		counts[store.CountKey(e.Event, e.Kind)]++
	}
	for key, n := range counts {
		event, kind, _ := strings.Cut(key, "/")
		rep.Counts = append(rep.Counts, countEntry{Event: event, Kind: kind, Count: n})
	}
	rep.TotalEntries = int64(len(scoped))
	slices.SortFunc(rep.Counts, func(a, b countEntry) int {
		if c := cmp.Compare(a.Event, b.Event); c != 0 {
			return c
		}
		return cmp.Compare(a.Kind, b.Kind)
	})
	rep.MostJustified = topJustified(scoped, top)

	entries, err := journal.Entries(ctx, filter)
	if err != nil {
		return rep, fmt.Errorf("entries: %w", err)
	}
	for _, e := range entries {
		rep.Entries = append(rep.Entries, entryJSON{
			ID:      e.ID,
			Session: e.Session,
			Time:    e.Time,
			Event:   e.Event,
			Kind:    e.Kind,
			Item:    e.Item,
			Support: e.Support,
		})
	}
	return rep, nil
}

// topJustified ranks items by how many derivations and merges the journal
// recorded for them.
func topJustified(entries []store.Entry, limit int) []justifiedEntry {
	byItem := make(map[string]int)
	for _, e := range entries {
		if e.Event == string(kbase.EventDerive) || e.Event == string(kbase.EventMerge) {
			byItem[e.Item]++
		}
	}

	out := make([]justifiedEntry, 0, len(byItem))
	for item, n := range byItem {
		out = append(out, justifiedEntry{Item: item, Justifications: n})
	}
	slices.SortFunc(out, func(a, b justifiedEntry) int {
		if c := cmp.Compare(b.Justifications, a.Justifications); c != 0 {
			return c
		}
		return cmp.Compare(a.Item, b.Item)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
