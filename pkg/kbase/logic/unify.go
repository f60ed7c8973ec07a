package logic

import (
	"sort"
	"strings"
)

// Bindings maps variable names (without '?') to the terms they are bound to.
type Bindings map[string]Term

// Lookup returns the term bound to a variable.
func (b Bindings) Lookup(name string) (Term, bool) {
	t, ok := b[name]
	return t, ok
}

// bind records v -> t, or checks the existing binding agrees with t.
func (b Bindings) bind(v string, t Term) bool {
	if cur, ok := b[v]; ok {
		return cur == t
	}
	b[v] = t
	return true
}

// String renders bindings sorted by variable name: "?x: a, ?y: b".
func (b Bindings) String() string {
	names := make([]string, 0, len(b))
	for n := range b {
		names = append(names, n)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = "?" + n + ": " + b[n].String()
	}
	return strings.Join(parts, ", ")
}

// Match tries to make a and b identical by binding variables on either side.
// Terms are compared left to right; a variable already bound must agree with
// its binding. Match is deterministic and does not mutate its arguments.
func Match(a, b Statement) (Bindings, bool) {
	if a.Predicate != b.Predicate || len(a.Terms) != len(b.Terms) {
		return nil, false
	}

	bindings := make(Bindings)
	for i := range a.Terms {
		ta, tb := a.Terms[i], b.Terms[i]
		switch {
		case ta == tb:
			continue
		case ta.Var:
			if !bindings.bind(ta.Name, tb) {
				return nil, false
			}
		case tb.Var:
			if !bindings.bind(tb.Name, ta) {
				return nil, false
			}
		default:
			return nil, false
		}
	}
	return bindings, true
}

// Instantiate returns a copy of s with bound variables replaced.
// Unbound variables pass through unchanged.
func Instantiate(s Statement, b Bindings) Statement {
	out := Statement{Predicate: s.Predicate, Terms: make([]Term, len(s.Terms))}
	for i, t := range s.Terms {
		if t.Var {
			if bound, ok := b[t.Name]; ok {
				out.Terms[i] = bound
				continue
			}
		}
		out.Terms[i] = t
	}
	return out
}

// InstantiateAll applies Instantiate to every statement.
func InstantiateAll(ss []Statement, b Bindings) []Statement {
	out := make([]Statement, len(ss))
	for i, s := range ss {
		out[i] = Instantiate(s, b)
	}
	return out
}
