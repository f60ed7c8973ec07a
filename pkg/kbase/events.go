package kbase

// EventType names a change to the store.
type EventType string

const (
	// EventAssert: an item entered the store by assertion, or a stored item became asserted.
	EventAssert EventType = "assert"
	// EventDerive: forward chaining produced a new item.
	EventDerive EventType = "derive"
	// EventMerge: an existing item gained another justification.
	EventMerge EventType = "merge"
	// EventUnassert: a fact lost its asserted flag but stays justified.
	EventUnassert EventType = "unassert"
	// EventRemove: an item left the store.
	EventRemove EventType = "remove"
)

// Event describes one store mutation. Support holds the text of the
// justifying fact and rule for derive and merge events.
type Event struct {
	Type    EventType
	Kind    string
	Item    string
	Support []string
}

// Observer receives store events synchronously, in the order they happen.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

// Observe calls f(e).
func (f ObserverFunc) Observe(e Event) { f(e) }

func (kb *KB) emit(typ EventType, kind, item string, support *Justification) {
	kb.metrics.RecordEvent(string(typ), kind)
	if kb.observer == nil {
		return
	}
	e := Event{Type: typ, Kind: kind, Item: item}
	if support != nil {
		e.Support = []string{kb.factText(support.Fact), kb.ruleText(support.Rule)}
	}
	kb.observer.Observe(e)
}

func (kb *KB) factText(id FactID) string {
	if rec, ok := kb.facts[id]; ok {
		return Fact{Statement: rec.statement}.String()
	}
	return ""
}

func (kb *KB) ruleText(id RuleID) string {
	if rec, ok := kb.rules[id]; ok {
		return rec.rule.String()
	}
	return ""
}
