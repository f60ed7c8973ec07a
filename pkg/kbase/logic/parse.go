package logic

import (
	"fmt"
	"strings"

	"github.com/cognicore/kbase/pkg/kbase/internalerr"
)

// ParseStatement parses "(pred a ?x)" into a Statement.
func ParseStatement(text string) (Statement, error) {
	text = strings.TrimSpace(text)

	if !strings.HasPrefix(text, "(") {
		return Statement{}, fmt.Errorf("%w: missing '(': %s", internalerr.ErrInvalidInput, text)
	}
	if !strings.HasSuffix(text, ")") {
		return Statement{}, fmt.Errorf("%w: missing ')': %s", internalerr.ErrInvalidInput, text)
	}

	body := text[1 : len(text)-1]
	if strings.ContainsAny(body, "()") {
		return Statement{}, fmt.Errorf("%w: nested parentheses: %s", internalerr.ErrInvalidInput, text)
	}

	fields := strings.Fields(body)
	if len(fields) == 0 {
		return Statement{}, fmt.Errorf("%w: empty statement", internalerr.ErrInvalidInput)
	}
	if strings.HasPrefix(fields[0], "?") {
		return Statement{}, fmt.Errorf("%w: predicate cannot be a variable: %s", internalerr.ErrInvalidInput, text)
	}

	st := S(fields[0], fields[1:]...)
	if !st.Valid() {
		return Statement{}, fmt.Errorf("%w: invalid term in %s", internalerr.ErrInvalidInput, text)
	}
	return st, nil
}

// ParseStatements parses a parenthesised list of statements:
// "((p ?x) (q ?x))".
func ParseStatements(text string) ([]Statement, error) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "(") || !strings.HasSuffix(text, ")") {
		return nil, fmt.Errorf("%w: expected statement list: %s", internalerr.ErrInvalidInput, text)
	}
	body := strings.TrimSpace(text[1 : len(text)-1])

	var out []Statement
	for body != "" {
		if body[0] != '(' {
			return nil, fmt.Errorf("%w: unexpected %q in statement list", internalerr.ErrInvalidInput, body)
		}
		end := strings.IndexByte(body, ')')
		if end == -1 {
			return nil, fmt.Errorf("%w: missing ')': %s", internalerr.ErrInvalidInput, body)
		}
		st, err := ParseStatement(body[:end+1])
		if err != nil {
			return nil, err
		}
		out = append(out, st)
		body = strings.TrimSpace(body[end+1:])
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%w: empty statement list", internalerr.ErrInvalidInput)
	}
	return out, nil
}
