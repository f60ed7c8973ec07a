// Package logic holds the term language of the knowledge base: statements,
// variable bindings, matching and instantiation.
package logic

import (
	"strconv"
	"strings"
	"unicode"
)

// Term is a constant or a variable argument of a statement.
// Variables are written with a leading '?', e.g. ?x.
type Term struct {
	Name string
	Var  bool
}

// Const returns a constant term.
func Const(name string) Term { return Term{Name: name} }

// Variable returns a variable term. A leading '?' is stripped.
func Variable(name string) Term { return Term{Name: strings.TrimPrefix(name, "?"), Var: true} }

// ParseTerm reads a single token as a term.
func ParseTerm(tok string) Term {
	if strings.HasPrefix(tok, "?") && len(tok) > 1 {
		return Variable(tok)
	}
	return Const(tok)
}

// Valid reports whether the term renders to a token that parses back to it.
func (t Term) Valid() bool {
	return validName(t.Name) && (t.Var || !strings.HasPrefix(t.Name, "?"))
}

func validName(name string) bool {
	return name != "" && !strings.ContainsFunc(name, func(r rune) bool {
		return r == '(' || r == ')' || unicode.IsSpace(r)
	})
}

func (t Term) String() string {
	if t.Var {
		return "?" + t.Name
	}
	return t.Name
}

// Statement is a predicate applied to an ordered list of terms.
// Two statements are equal when their keys are equal; equality is
// syntactic, not unification.
type Statement struct {
	Predicate string
	Terms     []Term
}

// S builds a statement from a predicate and textual terms.
// Example: S("isa", "?x", "block")
func S(predicate string, terms ...string) Statement {
	st := Statement{Predicate: predicate, Terms: make([]Term, len(terms))}
	for i, t := range terms {
		st.Terms[i] = ParseTerm(t)
	}
	return st
}

// Valid reports whether the statement can be stored or asked. Names must be
// non-empty tokens without whitespace or parentheses, and only variables may
// start with '?', so that Key identifies the statement.
func (s Statement) Valid() bool {
	if !validName(s.Predicate) || strings.HasPrefix(s.Predicate, "?") {
		return false
	}
	for _, t := range s.Terms {
		if !t.Valid() {
			return false
		}
	}
	return true
}

// Arity is the number of terms.
func (s Statement) Arity() int { return len(s.Terms) }

// Key is the canonical text of the statement.
func (s Statement) Key() string { return s.String() }

// Signature identifies the predicate and arity, e.g. "isa/2".
func (s Statement) Signature() string {
	return s.Predicate + "/" + strconv.Itoa(len(s.Terms))
}

// Equal compares two statements structurally.
func (s Statement) Equal(o Statement) bool {
	if s.Predicate != o.Predicate || len(s.Terms) != len(o.Terms) {
		return false
	}
	for i := range s.Terms {
		if s.Terms[i] != o.Terms[i] {
			return false
		}
	}
	return true
}

// Ground reports whether no term is a variable.
func (s Statement) Ground() bool {
	for _, t := range s.Terms {
		if t.Var {
			return false
		}
	}
	return true
}

func (s Statement) String() string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(s.Predicate)
	for _, t := range s.Terms {
		b.WriteByte(' ')
		b.WriteString(t.String())
	}
	b.WriteByte(')')
	return b.String()
}
