// Package kbase is a rule-based knowledge base with forward chaining and
// truth maintenance. Asserting a fact or rule derives everything that follows
// from it; retracting one removes whatever depended on it and nothing that is
// still justified some other way.
//
// A KB is not safe for concurrent use.
package kbase

import (
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/cognicore/kbase/pkg/kbase/logic"
	"github.com/cognicore/kbase/pkg/kbase/metrics"
)

// KB is the knowledge base. Fact and rule records live in arenas keyed by ID;
// support links between them are IDs, never pointers.
type KB struct {
	logger   *slog.Logger
	observer Observer
	metrics  metrics.Collector

	nextFact FactID
	nextRule RuleID

	facts     map[FactID]*factRecord
	rules     map[RuleID]*ruleRecord
	factKeys  map[string]FactID
	ruleKeys  map[string]RuleID
	factOrder []FactID
	ruleOrder []RuleID

	// facts by signature, rules by the signature of their first antecedent
	factsBySig map[string][]FactID
	rulesBySig map[string][]RuleID

	pending  []pendingItem
	draining bool
}

// Options configures a KB. All fields are optional.
type Options struct {
	Logger   *slog.Logger
	Observer Observer
	Metrics  metrics.Collector
}

// New creates an empty knowledge base.
func New(opts Options) *KB {
	kb := &KB{
		logger:     opts.Logger,
		observer:   opts.Observer,
		metrics:    opts.Metrics,
		facts:      make(map[FactID]*factRecord),
		rules:      make(map[RuleID]*ruleRecord),
		factKeys:   make(map[string]FactID),
		ruleKeys:   make(map[string]RuleID),
		factsBySig: make(map[string][]FactID),
		rulesBySig: make(map[string][]RuleID),
	}
	if kb.logger == nil {
		kb.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if kb.metrics == nil {
		kb.metrics = metrics.NewNoopCollector()
	}
	return kb
}

// Assert adds a fact or rule as an explicit assertion and runs forward
// chaining to completion. Asserting an item already present marks it asserted.
func (kb *KB) Assert(item Item) {
	kb.metrics.RecordOperation("assert")
	defer kb.updateCounts()

	switch it := item.(type) {
	case Fact:
		if !it.Valid() {
			kb.logger.Warn("ignoring invalid fact", "item", it.String())
			return
		}
		kb.logger.Debug("asserting", "item", it.String())
		kb.addFact(it.Statement, nil)
	case Rule:
		if !it.Valid() {
			kb.logger.Warn("ignoring invalid rule", "item", it.String())
			return
		}
		kb.logger.Debug("asserting", "item", it.String())
		kb.addRule(it, nil)
	}
}

// Answer is one way a query matched a stored fact.
type Answer struct {
	Bindings  logic.Bindings
	Fact      FactID
	Statement logic.Statement
}

// Ask matches a single fact against every stored fact and returns the
// bindings of each match. Anything other than a well formed Fact is an
// invalid query and yields no answers. Ask has no side effects.
func (kb *KB) Ask(query Item) []Answer {
	kb.metrics.RecordOperation("ask")

	q, ok := query.(Fact)
	if !ok || !q.Valid() {
		kb.logger.Info("invalid ask", "query", itemString(query))
		return nil
	}
	kb.logger.Debug("asking", "query", q.Statement.String())

	var answers []Answer
	for _, id := range kb.factsBySig[q.Statement.Signature()] {
		rec := kb.facts[id]
		if b, ok := logic.Match(q.Statement, rec.statement); ok {
			answers = append(answers, Answer{Bindings: b, Fact: id, Statement: rec.statement})
		}
	}
	return answers
}

// LookupFact returns the ID of the stored fact equal to s.
func (kb *KB) LookupFact(s logic.Statement) (FactID, bool) {
	if !s.Valid() {
		return 0, false
	}
	id, ok := kb.factKeys[s.Key()]
	return id, ok
}

// LookupRule returns the ID of the stored rule equal to r.
func (kb *KB) LookupRule(r Rule) (RuleID, bool) {
	if !r.Valid() {
		return 0, false
	}
	id, ok := kb.ruleKeys[r.Key()]
	return id, ok
}

// GetFact returns a snapshot of a stored fact.
func (kb *KB) GetFact(id FactID) (FactInfo, bool) {
	rec, ok := kb.facts[id]
	if !ok {
		return FactInfo{}, false
	}
	return rec.info(), true
}

// GetRule returns a snapshot of a stored rule.
func (kb *KB) GetRule(id RuleID) (RuleInfo, bool) {
	rec, ok := kb.rules[id]
	if !ok {
		return RuleInfo{}, false
	}
	return rec.info(), true
}

// Facts returns snapshots of all stored facts in insertion order.
func (kb *KB) Facts() []FactInfo {
	out := make([]FactInfo, 0, len(kb.factOrder))
	for _, id := range kb.factOrder {
		out = append(out, kb.facts[id].info())
	}
	return out
}

// Rules returns snapshots of all stored rules in insertion order.
func (kb *KB) Rules() []RuleInfo {
	out := make([]RuleInfo, 0, len(kb.ruleOrder))
	for _, id := range kb.ruleOrder {
		out = append(out, kb.rules[id].info())
	}
	return out
}

// Len returns the number of stored facts and rules.
func (kb *KB) Len() (facts, rules int) {
	return len(kb.facts), len(kb.rules)
}

func (kb *KB) String() string {
	var b strings.Builder
	b.WriteString("Knowledge Base:\n")
	for _, id := range kb.factOrder {
		b.WriteString(kb.factText(id))
		b.WriteByte('\n')
	}
	for _, id := range kb.ruleOrder {
		b.WriteString(kb.ruleText(id))
		b.WriteByte('\n')
	}
	return b.String()
}

func (kb *KB) updateCounts() {
	kb.metrics.SetStoreCount(KindFact, len(kb.facts))
	kb.metrics.SetStoreCount(KindRule, len(kb.rules))
}

func itemString(item Item) string {
	if item == nil {
		return "<nil>"
	}
	return item.String()
}

func removeID[T comparable](ids []T, id T) []T {
	if i := slices.Index(ids, id); i >= 0 {
		return slices.Delete(ids, i, i+1)
	}
	return ids
}

func appendUnique[T comparable](ids []T, id T) []T {
	if slices.Contains(ids, id) {
		return ids
	}
	return append(ids, id)
}
