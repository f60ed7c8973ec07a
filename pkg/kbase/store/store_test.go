package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/cognicore/kbase/pkg/kbase"
	"github.com/cognicore/kbase/pkg/kbase/logic"
	"github.com/cognicore/kbase/pkg/kbase/store"
	"github.com/cognicore/kbase/pkg/kbase/store/memstore"
)

func TestRecorderWritesEveryEvent(t *testing.T) {
	ctx := context.Background()
	j := memstore.New()
	rec := store.NewRecorder(ctx, j, nil)

	kb := kbase.New(kbase.Options{Observer: rec})
	kb.Assert(kbase.NewRule(logic.S("q", "?x"), logic.S("p", "?x")))
	kb.Assert(kbase.NewFact("p", "a"))

	entries, err := j.Entries(ctx, store.Filter{})
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	derived := entries[2]
	if derived.Event != "derive" || derived.Item != "fact: (q a)" {
		t.Errorf("unexpected entry %+v", derived)
	}
	if len(derived.Support) != 2 {
		t.Errorf("expected support pair, got %v", derived.Support)
	}
	if entries[0].ID >= entries[1].ID || entries[1].ID >= entries[2].ID {
		t.Error("entry IDs should increase monotonically")
	}
}

type failingJournal struct {
	*memstore.Store
	calls int
}

func (f *failingJournal) Append(ctx context.Context, e store.Entry) error {
	f.calls++
	return errors.New("disk full")
}

func TestRecorderStopsAfterFirstError(t *testing.T) {
	j := &failingJournal{Store: memstore.New()}
	rec := store.NewRecorder(context.Background(), j, nil)

	kb := kbase.New(kbase.Options{Observer: rec})
	kb.Assert(kbase.NewFact("p", "a"))
	kb.Assert(kbase.NewFact("p", "b"))

	if rec.Err() == nil {
		t.Fatal("expected recorder error")
	}
	if j.calls != 1 {
		t.Errorf("expected a single append attempt, got %d", j.calls)
	}
}

func TestFilterMatch(t *testing.T) {
	e := store.Entry{Event: "derive", Kind: "rule", Item: "rule: ((r a)) -> (q a)"}
	if !(store.Filter{}).Match(e) {
		t.Error("empty filter should match")
	}
	if !(store.Filter{Event: "derive", Kind: "rule"}).Match(e) {
		t.Error("expected match")
	}
	if (store.Filter{Kind: "fact"}).Match(e) {
		t.Error("kind mismatch should not match")
	}
}

func TestRecordersStampTheirSession(t *testing.T) {
	ctx := context.Background()
	j := memstore.New()

	first := store.NewRecorder(ctx, j, nil)
	second := store.NewRecorder(ctx, j, nil)
	if first.Session() == "" || first.Session() == second.Session() {
		t.Fatalf("sessions should be distinct and non-empty: %q %q", first.Session(), second.Session())
	}

	kbase.New(kbase.Options{Observer: first}).Assert(kbase.NewFact("p", "a"))
	kbase.New(kbase.Options{Observer: second}).Assert(kbase.NewFact("p", "b"))

	entries, err := j.Entries(ctx, store.Filter{Session: second.Session()})
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(entries) != 1 || entries[0].Item != "fact: (p b)" {
		t.Fatalf("expected only the second session's entry, got %+v", entries)
	}
}
