// Package store records knowledge base events in a journal. The journal is
// an audit trail for inspection; it is never replayed into a knowledge base.
package store

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/cognicore/kbase/pkg/kbase"
	"github.com/cognicore/kbase/pkg/kbase/internalerr"
)

// ErrClosed is returned by journals used after Close.
var ErrClosed = fmt.Errorf("journal closed: %w", internalerr.ErrStoreUnavailable)

// Journal is the interface for persisting and querying journal entries
type Journal interface {
	Close() error

	Append(ctx context.Context, e Entry) error
	Entries(ctx context.Context, f Filter) ([]Entry, error)
	// Counts returns the number of entries per "event/kind", e.g. "derive/fact".
	Counts(ctx context.Context) (map[string]int64, error)
}

// Entry is one recorded knowledge base event
type Entry struct {
	ID string // ULID, sortable by time
	// Session identifies the Recorder that wrote the entry, so several runs can share a journal.
	Session string
	Time    time.Time
	Event   string
	Kind    string
	Item    string
	Support []string
}

// Filter selects entries. Empty fields match everything; Limit <= 0 means no limit.
type Filter struct {
	Session string
	Event   string
	Kind    string
	Item    string
	Limit   int
}

// Match reports whether e passes the filter (ignoring Limit).
func (f Filter) Match(e Entry) bool {
	if f.Session != "" && f.Session != e.Session {
		return false
	}
	if f.Event != "" && f.Event != e.Event {
		return false
	}
	if f.Kind != "" && f.Kind != e.Kind {
		return false
	}
	if f.Item != "" && f.Item != e.Item {
		return false
	}
	return true
}

// CountKey builds the key used by Journal.Counts.
func CountKey(event, kind string) string {
	return event + "/" + kind
}

// Recorder turns knowledge base events into journal entries. It implements
// kbase.Observer. The first append error stops recording and is kept for Err.
type Recorder struct {
	ctx     context.Context
	session string
	journal Journal
	logger  *slog.Logger
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
	err     error
}

// NewRecorder creates a recorder writing to j. A nil logger discards logs.
func NewRecorder(ctx context.Context, j Journal, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Recorder{
		ctx:     ctx,
		session: uuid.NewString(),
		journal: j,
		logger:  logger,
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}
}

// Observe implements kbase.Observer.
func (r *Recorder) Observe(e kbase.Event) {
	if r.err != nil {
		return
	}

	now := r.now()
	entry := Entry{
		ID:      ulid.MustNew(ulid.Timestamp(now), r.entropy).String(),
		Session: r.session,
		Time:    now,
		Event:   string(e.Type),
		Kind:    e.Kind,
		Item:    e.Item,
		Support: e.Support,
	}
	if err := r.journal.Append(r.ctx, entry); err != nil {
		r.logger.Error("journal append failed, recording stopped", "error", err)
		r.err = err
	}
}

// Session returns the identifier stamped on every entry this recorder writes.
func (r *Recorder) Session() string {
	return r.session
}

// Err returns the error that stopped recording, if any.
func (r *Recorder) Err() error {
	return r.err
}
