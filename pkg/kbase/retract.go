package kbase

import (
	"slices"
)

// Retract withdraws an asserted fact. A fact that is still justified by a
// derivation only loses its asserted flag; an unjustified fact is removed
// together with everything that was derived solely through it. Anything
// other than a stored Fact is ignored.
func (kb *KB) Retract(item Item) {
	kb.metrics.RecordOperation("retract")
	defer kb.updateCounts()

	f, ok := item.(Fact)
	if !ok || !f.Valid() {
		return
	}
	id, ok := kb.factKeys[f.Statement.Key()]
	if !ok {
		return
	}
	rec := kb.facts[id]
	kb.logger.Debug("retracting", "item", kb.factText(id))

	if len(rec.supportedBy) > 0 {
		if rec.asserted {
			rec.asserted = false
			kb.emit(EventUnassert, KindFact, kb.factText(id), nil)
		}
		return
	}
	kb.removeFact(rec)
}

// RetractRule removes a rule that is neither asserted nor justified.
// Asserted rules are never removed. Anything other than a stored Rule is ignored.
func (kb *KB) RetractRule(item Item) {
	kb.metrics.RecordOperation("retract_rule")
	defer kb.updateCounts()

	r, ok := item.(Rule)
	if !ok || !r.Valid() {
		return
	}
	id, ok := kb.ruleKeys[r.Key()]
	if !ok {
		return
	}
	rec := kb.rules[id]
	kb.logger.Debug("retracting", "item", rec.rule.String())

	if len(rec.supportedBy) > 0 || rec.asserted {
		return
	}
	kb.removeRule(rec)
}

// removeFact prunes every justification that mentions rec from its
// dependents, cascades to dependents left unjustified and unasserted, then
// drops rec from the store.
func (kb *KB) removeFact(rec *factRecord) {
	mentions := func(j Justification) bool { return j.Fact == rec.id }

	for _, depID := range slices.Clone(rec.supportsFacts) {
		dep, ok := kb.facts[depID]
		if !ok {
			continue
		}
		kb.pruneFact(dep, mentions)
		if len(dep.supportedBy) == 0 && !dep.asserted {
			kb.removeFact(dep)
		}
	}
	for _, depID := range slices.Clone(rec.supportsRules) {
		dep, ok := kb.rules[depID]
		if !ok {
			continue
		}
		kb.pruneRule(dep, mentions)
		if len(dep.supportedBy) == 0 && !dep.asserted {
			kb.removeRule(dep)
		}
	}

	text := kb.factText(rec.id)
	delete(kb.facts, rec.id)
	delete(kb.factKeys, rec.statement.Key())
	kb.factOrder = removeID(kb.factOrder, rec.id)
	sig := rec.statement.Signature()
	kb.factsBySig[sig] = removeID(kb.factsBySig[sig], rec.id)
	if len(kb.factsBySig[sig]) == 0 {
		delete(kb.factsBySig, sig)
	}

	kb.logger.Debug("removed", "item", text)
	kb.emit(EventRemove, KindFact, text, nil)
}

// removeRule mirrors removeFact.
func (kb *KB) removeRule(rec *ruleRecord) {
	mentions := func(j Justification) bool { return j.Rule == rec.id }

	for _, depID := range slices.Clone(rec.supportsFacts) {
		dep, ok := kb.facts[depID]
		if !ok {
			continue
		}
		kb.pruneFact(dep, mentions)
		if len(dep.supportedBy) == 0 && !dep.asserted {
			kb.removeFact(dep)
		}
	}
	for _, depID := range slices.Clone(rec.supportsRules) {
		dep, ok := kb.rules[depID]
		if !ok {
			continue
		}
		kb.pruneRule(dep, mentions)
		if len(dep.supportedBy) == 0 && !dep.asserted {
			kb.removeRule(dep)
		}
	}

	text := rec.rule.String()
	delete(kb.rules, rec.id)
	delete(kb.ruleKeys, rec.rule.Key())
	kb.ruleOrder = removeID(kb.ruleOrder, rec.id)
	sig := rec.rule.LHS[0].Signature()
	kb.rulesBySig[sig] = removeID(kb.rulesBySig[sig], rec.id)
	if len(kb.rulesBySig[sig]) == 0 {
		delete(kb.rulesBySig, sig)
	}

	kb.logger.Debug("removed", "item", text)
	kb.emit(EventRemove, KindRule, text, nil)
}

// pruneFact drops the justifications of dep selected by drop and unlinks dep
// from supporters that no longer justify it.
func (kb *KB) pruneFact(dep *factRecord, drop func(Justification) bool) {
	kept, dropped := splitJustifications(dep.supportedBy, drop)
	dep.supportedBy = kept
	for _, j := range dropped {
		if !slices.ContainsFunc(kept, func(k Justification) bool { return k.Fact == j.Fact }) {
			if sup, ok := kb.facts[j.Fact]; ok {
				sup.supportsFacts = removeID(sup.supportsFacts, dep.id)
			}
		}
		if !slices.ContainsFunc(kept, func(k Justification) bool { return k.Rule == j.Rule }) {
			if sup, ok := kb.rules[j.Rule]; ok {
				sup.supportsFacts = removeID(sup.supportsFacts, dep.id)
			}
		}
	}
}

// pruneRule is the rule counterpart of pruneFact.
func (kb *KB) pruneRule(dep *ruleRecord, drop func(Justification) bool) {
	kept, dropped := splitJustifications(dep.supportedBy, drop)
	dep.supportedBy = kept
	for _, j := range dropped {
		if !slices.ContainsFunc(kept, func(k Justification) bool { return k.Fact == j.Fact }) {
			if sup, ok := kb.facts[j.Fact]; ok {
				sup.supportsRules = removeID(sup.supportsRules, dep.id)
			}
		}
		if !slices.ContainsFunc(kept, func(k Justification) bool { return k.Rule == j.Rule }) {
			if sup, ok := kb.rules[j.Rule]; ok {
				sup.supportsRules = removeID(sup.supportsRules, dep.id)
			}
		}
	}
}

func splitJustifications(js []Justification, drop func(Justification) bool) (kept, dropped []Justification) {
	for _, j := range js {
		if drop(j) {
			dropped = append(dropped, j)
		} else {
			kept = append(kept, j)
		}
	}
	return kept, dropped
}
