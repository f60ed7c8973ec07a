// Package inference implements the single forward-chaining step used by the
// knowledge base. It is stateless: given a fact and a rule it reports what,
// if anything, follows from them, and leaves bookkeeping to the caller.
package inference

import (
	"github.com/cognicore/kbase/pkg/kbase/logic"
)

// Derivation is the outcome of one successful step.
// When Residual is true the step peeled the first antecedent off a
// multi-antecedent rule and produced the rule LHS -> RHS; otherwise it
// fired a single-antecedent rule and produced the fact Statement.
type Derivation struct {
	Residual  bool
	Statement logic.Statement
	LHS       []logic.Statement
	RHS       logic.Statement
	Bindings  logic.Bindings
}

// Step matches fact against the first antecedent of the rule lhs -> rhs.
// It returns false when the rule has no antecedents or the match fails.
func Step(fact logic.Statement, lhs []logic.Statement, rhs logic.Statement) (Derivation, bool) {
	if len(lhs) == 0 {
		return Derivation{}, false
	}

	bindings, ok := logic.Match(fact, lhs[0])
	if !ok {
		return Derivation{}, false
	}

	if len(lhs) > 1 {
		return Derivation{
			Residual: true,
			LHS:      logic.InstantiateAll(lhs[1:], bindings),
			RHS:      logic.Instantiate(rhs, bindings),
			Bindings: bindings,
		}, true
	}

	return Derivation{
		Statement: logic.Instantiate(rhs, bindings),
		Bindings:  bindings,
	}, true
}
