package kbase

import (
	"slices"

	"github.com/cognicore/kbase/pkg/kbase/inference"
	"github.com/cognicore/kbase/pkg/kbase/logic"
)

// pendingItem is a newly stored item whose consequences have not been chained yet.
type pendingItem struct {
	kind string
	fact FactID
	rule RuleID
}

// addFact stores s, or merges into the equal stored fact. A nil support
// means the caller asserted it. Returns the canonical ID.
func (kb *KB) addFact(s logic.Statement, support *Justification) FactID {
	if id, ok := kb.factKeys[s.Key()]; ok {
		rec := kb.facts[id]
		if support != nil {
			rec.supportedBy = append(rec.supportedBy, *support)
			kb.logger.Debug("merged justification", "item", kb.factText(id))
			kb.emit(EventMerge, KindFact, kb.factText(id), support)
		} else if !rec.asserted {
			rec.asserted = true
			kb.emit(EventAssert, KindFact, kb.factText(id), nil)
		}
		return id
	}

	kb.nextFact++
	// records never share term slices with callers
	rec := &factRecord{
		id:        kb.nextFact,
		statement: logic.Instantiate(s, nil),
		asserted:  support == nil,
	}
	if support != nil {
		rec.supportedBy = []Justification{*support}
	}

	kb.facts[rec.id] = rec
	kb.factKeys[s.Key()] = rec.id
	kb.factOrder = append(kb.factOrder, rec.id)
	sig := s.Signature()
	kb.factsBySig[sig] = append(kb.factsBySig[sig], rec.id)

	if support == nil {
		kb.emit(EventAssert, KindFact, kb.factText(rec.id), nil)
	} else {
		kb.logger.Debug("derived", "item", kb.factText(rec.id))
		kb.emit(EventDerive, KindFact, kb.factText(rec.id), support)
	}

	kb.pending = append(kb.pending, pendingItem{kind: KindFact, fact: rec.id})
	kb.drain()
	return rec.id
}

// addRule is the rule counterpart of addFact.
func (kb *KB) addRule(r Rule, support *Justification) RuleID {
	key := r.Key()
	if id, ok := kb.ruleKeys[key]; ok {
		rec := kb.rules[id]
		if support != nil {
			rec.supportedBy = append(rec.supportedBy, *support)
			kb.logger.Debug("merged justification", "item", rec.rule.String())
			kb.emit(EventMerge, KindRule, rec.rule.String(), support)
		} else if !rec.asserted {
			rec.asserted = true
			kb.emit(EventAssert, KindRule, rec.rule.String(), nil)
		}
		return id
	}

	kb.nextRule++
	rec := &ruleRecord{
		id:       kb.nextRule,
		rule:     Rule{LHS: logic.InstantiateAll(r.LHS, nil), RHS: logic.Instantiate(r.RHS, nil)},
		asserted: support == nil,
	}
	if support != nil {
		rec.supportedBy = []Justification{*support}
	}

	kb.rules[rec.id] = rec
	kb.ruleKeys[key] = rec.id
	kb.ruleOrder = append(kb.ruleOrder, rec.id)
	sig := rec.rule.LHS[0].Signature()
	kb.rulesBySig[sig] = append(kb.rulesBySig[sig], rec.id)

	if support == nil {
		kb.emit(EventAssert, KindRule, rec.rule.String(), nil)
	} else {
		kb.logger.Debug("derived", "item", rec.rule.String())
		kb.emit(EventDerive, KindRule, rec.rule.String(), support)
	}

	kb.pending = append(kb.pending, pendingItem{kind: KindRule, rule: rec.id})
	kb.drain()
	return rec.id
}

// drain chains pending items until none are left. Nested adds made while
// draining only enqueue, so derivation chains never deepen the call stack.
//
// An item is paired with complementary items that were chained before it, so
// every (fact, rule) pair that coexists in the store is tried exactly once.
func (kb *KB) drain() {
	if kb.draining {
		return
	}
	kb.draining = true
	defer func() { kb.draining = false }()

	for len(kb.pending) > 0 {
		next := kb.pending[0]
		kb.pending = kb.pending[1:]

		switch next.kind {
		case KindFact:
			rec, ok := kb.facts[next.fact]
			if !ok {
				continue
			}
			rec.chained = true
			for _, rid := range slices.Clone(kb.rulesBySig[rec.statement.Signature()]) {
				if r, ok := kb.rules[rid]; ok && r.chained {
					kb.infer(rec.id, rid)
				}
			}
		case KindRule:
			rec, ok := kb.rules[next.rule]
			if !ok {
				continue
			}
			rec.chained = true
			for _, fid := range slices.Clone(kb.factsBySig[rec.rule.LHS[0].Signature()]) {
				if f, ok := kb.facts[fid]; ok && f.chained {
					kb.infer(fid, rec.id)
				}
			}
		}
	}
}

// infer runs one forward-chaining step for the stored fact and rule and
// stores whatever it derives, linking the result to both supporters.
func (kb *KB) infer(fid FactID, rid RuleID) {
	f, r := kb.facts[fid], kb.rules[rid]

	d, ok := inference.Step(f.statement, r.rule.LHS, r.rule.RHS)
	if !ok {
		return
	}
	support := Justification{Fact: fid, Rule: rid}

	if d.Residual {
		id := kb.addRule(Rule{LHS: d.LHS, RHS: d.RHS}, &support)
		f.supportsRules = appendUnique(f.supportsRules, id)
		r.supportsRules = appendUnique(r.supportsRules, id)
		return
	}

	id := kb.addFact(d.Statement, &support)
	f.supportsFacts = appendUnique(f.supportsFacts, id)
	r.supportsFacts = appendUnique(r.supportsFacts, id)
}
