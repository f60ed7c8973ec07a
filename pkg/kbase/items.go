package kbase

import (
	"strings"

	"github.com/cognicore/kbase/pkg/kbase/logic"
)

// FactID addresses a fact record in the knowledge base. IDs are never reused.
type FactID uint64

// RuleID addresses a rule record in the knowledge base. IDs are never reused.
type RuleID uint64

// Justification records one derivation: Fact matched the first antecedent of Rule.
type Justification struct {
	Fact FactID
	Rule RuleID
}

// Item is a Fact or a Rule handed to the knowledge base by a caller.
type Item interface {
	Kind() string
	String() string
	isItem()
}

// Fact is a logical statement to assert, retract or ask about.
type Fact struct {
	Statement logic.Statement
}

// NewFact builds a fact from a predicate and textual terms.
func NewFact(predicate string, terms ...string) Fact {
	return Fact{Statement: logic.S(predicate, terms...)}
}

func (Fact) isItem() {}

// Kind returns "fact".
func (Fact) Kind() string { return KindFact }

// Valid reports whether the fact can be stored.
func (f Fact) Valid() bool { return f.Statement.Valid() }

func (f Fact) String() string { return "fact: " + f.Statement.String() }

// Rule is a conjunctive if-then rule: every LHS statement implies RHS.
type Rule struct {
	LHS []logic.Statement
	RHS logic.Statement
}

// NewRule builds a rule.
func NewRule(rhs logic.Statement, lhs ...logic.Statement) Rule {
	return Rule{LHS: lhs, RHS: rhs}
}

func (Rule) isItem() {}

// Kind returns "rule".
func (Rule) Kind() string { return KindRule }

// Valid reports whether the rule has at least one antecedent and well formed statements.
func (r Rule) Valid() bool {
	if len(r.LHS) == 0 || !r.RHS.Valid() {
		return false
	}
	for _, s := range r.LHS {
		if !s.Valid() {
			return false
		}
	}
	return true
}

// Key is the canonical text of the rule; equal rules have equal keys.
func (r Rule) Key() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, s := range r.LHS {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s.Key())
	}
	b.WriteString(") -> ")
	b.WriteString(r.RHS.Key())
	return b.String()
}

func (r Rule) String() string { return "rule: " + r.Key() }

const (
	KindFact = "fact"
	KindRule = "rule"
)

type factRecord struct {
	id            FactID
	statement     logic.Statement
	asserted      bool
	chained       bool
	supportedBy   []Justification
	supportsFacts []FactID
	supportsRules []RuleID
}

type ruleRecord struct {
	id            RuleID
	rule          Rule
	asserted      bool
	chained       bool
	supportedBy   []Justification
	supportsFacts []FactID
	supportsRules []RuleID
}

// FactInfo is a snapshot of a stored fact.
type FactInfo struct {
	ID            FactID
	Statement     logic.Statement
	Asserted      bool
	SupportedBy   []Justification
	SupportsFacts []FactID
	SupportsRules []RuleID
}

// Fact returns the caller-facing form of the stored fact.
func (fi FactInfo) Fact() Fact { return Fact{Statement: fi.Statement} }

// RuleInfo is a snapshot of a stored rule.
type RuleInfo struct {
	ID            RuleID
	Rule          Rule
	Asserted      bool
	SupportedBy   []Justification
	SupportsFacts []FactID
	SupportsRules []RuleID
}

func (r *factRecord) info() FactInfo {
	return FactInfo{
		ID:            r.id,
		Statement:     r.statement,
		Asserted:      r.asserted,
		SupportedBy:   append([]Justification(nil), r.supportedBy...),
		SupportsFacts: append([]FactID(nil), r.supportsFacts...),
		SupportsRules: append([]RuleID(nil), r.supportsRules...),
	}
}

func (r *ruleRecord) info() RuleInfo {
	return RuleInfo{
		ID:            r.id,
		Rule:          r.rule,
		Asserted:      r.asserted,
		SupportedBy:   append([]Justification(nil), r.supportedBy...),
		SupportsFacts: append([]FactID(nil), r.supportsFacts...),
		SupportsRules: append([]RuleID(nil), r.supportsRules...),
	}
}
