package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/cognicore/kbase/pkg/kbase"
	"github.com/cognicore/kbase/pkg/kbase/config"
	"github.com/cognicore/kbase/pkg/kbase/explain"
	"github.com/cognicore/kbase/pkg/kbase/internalerr"
	"github.com/cognicore/kbase/pkg/kbase/maintenance"
	"github.com/cognicore/kbase/pkg/kbase/metrics"
	"github.com/cognicore/kbase/pkg/kbase/reader"
	"github.com/cognicore/kbase/pkg/kbase/store"
	"github.com/cognicore/kbase/pkg/kbase/store/memstore"
	"github.com/cognicore/kbase/pkg/kbase/store/sqlite"
)

var errQuit = errors.New("quit")

const explainMaxLines = 500

const helpText = `Commands:
  assert fact: (pred a b)            assert a fact
  assert rule: ((p ?x) (q ?x)) -> (r ?x)
  retract fact: (pred a b)           retract a fact
  retract rule: ...                  retract a rule (only if unasserted and unjustified)
  ask (pred ?x b)                    list bindings for a query
  explain fact: ... | rule: ...      show the justification tree
  dump                               list facts and rules
  load <file>                        assert every item in a rule file
  export <file>                      write asserted items to a rule file
  check                              compare with a replay of the asserted items
  journal [n]                        show the first n journal entries of this session (default 20)
  stats                              journal counts per event
  quit`

type session struct {
	kb        *kbase.KB
	journal   store.Journal
	recorder  *store.Recorder
	collector *metrics.MetricsCollector
	explainer *explain.Builder
	logger    *slog.Logger

	journalFailed atomic.Bool
}

func buildSession(ctx context.Context, cfg *config.Config, logOut io.Writer) (*session, func(), error) {
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: cfg.Level()}))

	var (
		journal store.Journal
		err     error
	)
	if cfg.Journal == "" {
		journal = memstore.New()
	} else {
		journal, err = sqlite.OpenSQLite(ctx, cfg.Journal)
		if err != nil {
			return nil, nil, fmt.Errorf("open journal: %w", err)
		}
	}

	sess := &session{
		journal:   journal,
		recorder:  store.NewRecorder(ctx, journal, logger),
		explainer: explain.New(),
		logger:    logger,
	}

	sess.explainer.MaxLines = explainMaxLines

	opts := kbase.Options{Logger: logger, Observer: sess.recorder}
	if cfg.Metrics {
		sess.collector = metrics.NewCollector()
		opts.Metrics = sess.collector
	}
	sess.kb = kbase.New(opts)

	loader := config.Loader{RulesPaths: cfg.Rules}
	components, err := loader.Load()
	if err != nil {
		journal.Close()
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	components.AssertAll(sess.kb)
	logger.Info("knowledge base ready", "items", len(components.Items), "session", sess.recorder.Session())

	cleanup := func() {
		journal.Close()
	}
	return sess, cleanup, nil
}

func (s *session) exec(ctx context.Context, line string, out io.Writer) error {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "help":
		fmt.Fprintln(out, helpText)

	case "assert":
		item, err := reader.ParseItem(arg)
		if err != nil {
			return fmt.Errorf("assert: %w", err)
		}
		s.kb.Assert(item)

	case "retract":
		item, err := reader.ParseItem(arg)
		if err != nil {
			return fmt.Errorf("retract: %w", err)
		}
		if item.Kind() == kbase.KindRule {
			s.kb.RetractRule(item)
		} else {
			s.kb.Retract(item)
		}

	case "ask":
		return s.ask(arg, out)

	case "explain":
		item, err := reader.ParseItem(arg)
		if err != nil {
			return fmt.Errorf("explain: %w", err)
		}
		card, ok := s.explainer.Item(s.kb, item)
		if !ok {
			return fmt.Errorf("explain %s: %w", item, internalerr.ErrNotFound)
		}
		fmt.Fprintln(out, card.String())

	case "dump":
		fmt.Fprint(out, s.kb.String())

	case "load":
		items, err := reader.LoadFile(arg)
		if err != nil {
			return fmt.Errorf("load: %w", err)
		}
		for _, item := range items {
			s.kb.Assert(item)
		}
		fmt.Fprintf(out, "Loaded %d items\n", len(items))

	case "export":
		if arg == "" {
			return fmt.Errorf("export: file required")
		}
		exporter := maintenance.RuleExporter{Writer: maintenance.FileWriter{Path: arg}}
		if err := exporter.Export(ctx, s.kb); err != nil {
			return fmt.Errorf("export: %w", err)
		}

	case "check":
		res, err := (&maintenance.Checker{}).Check(ctx, s.kb)
		if err != nil {
			return fmt.Errorf("check: %w", err)
		}
		if res.Consistent() {
			fmt.Fprintf(out, "Consistent (%d items)\n", res.Checked)
			break
		}
		for _, text := range res.Stale {
			fmt.Fprintln(out, "  stale  ", text)
		}
		for _, text := range res.Missing {
			fmt.Fprintln(out, "  missing", text)
		}

	case "journal":
		return s.showJournal(ctx, arg, out)

	case "stats":
		counts, err := s.journal.Counts(ctx)
		if err != nil {
			return fmt.Errorf("stats: %w", err)
		}
		for _, key := range sortedKeys(counts) {
			fmt.Fprintf(out, "  %s: %d\n", key, counts[key])
		}

	case "quit", "exit":
		return errQuit

	default:
		return fmt.Errorf("unknown command %q (try 'help')", cmd)
	}

	if err := s.recorder.Err(); err != nil && !s.journalFailed.Swap(true) {
		return fmt.Errorf("journal recording stopped: %w", err)
	}
	return nil
}

func (s *session) ask(arg string, out io.Writer) error {
	var (
		query kbase.Item
		err   error
	)
	if strings.HasPrefix(arg, "fact:") || strings.HasPrefix(arg, "rule:") {
		query, err = reader.ParseItem(arg)
	} else {
		query, err = reader.ParseFact(arg)
	}
	if err != nil {
		return fmt.Errorf("ask: %w", err)
	}

	answers := s.kb.Ask(query)
	if query.Kind() != kbase.KindFact {
		fmt.Fprintln(out, "Invalid ask:", query)
		return nil
	}
	if len(answers) == 0 {
		fmt.Fprintln(out, "No answers.")
		return nil
	}
	for _, a := range answers {
		if len(a.Bindings) == 0 {
			fmt.Fprintf(out, "  TRUE  %s\n", a.Statement)
			continue
		}
		fmt.Fprintf(out, "  %s  %s\n", a.Bindings, a.Statement)
	}
	return nil
}

func (s *session) showJournal(ctx context.Context, arg string, out io.Writer) error {
	limit := 20
	if arg != "" {
		n, err := strconv.Atoi(arg)
		if err != nil || n <= 0 {
			return fmt.Errorf("journal: invalid count %q", arg)
		}
		limit = n
	}

	entries, err := s.journal.Entries(ctx, store.Filter{Session: s.recorder.Session(), Limit: limit})
	if err != nil {
		return fmt.Errorf("journal: %w", err)
	}
	for _, e := range entries {
		fmt.Fprintf(out, "  %s %-8s %s\n", e.ID, e.Event, e.Item)
	}
	return nil
}

func sortedKeys(m map[string]int64) []string {
	var keys []string
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
