// Package reader parses the textual knowledge base format:
//
//	# comments
//	fact: (isa cube block)
//	rule: ((isa ?x block) (on ?x table)) -> (clear ?x)
package reader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cognicore/kbase/pkg/kbase"
	"github.com/cognicore/kbase/pkg/kbase/internalerr"
	"github.com/cognicore/kbase/pkg/kbase/logic"
)

const (
	factPrefix = "fact:"
	rulePrefix = "rule:"
	arrow      = "->"
)

// ParseItem parses a single "fact: ..." or "rule: ..." line.
func ParseItem(line string) (kbase.Item, error) {
	line = strings.TrimSpace(line)

	switch {
	case strings.HasPrefix(line, factPrefix):
		st, err := logic.ParseStatement(line[len(factPrefix):])
		if err != nil {
			return nil, err
		}
		return kbase.Fact{Statement: st}, nil

	case strings.HasPrefix(line, rulePrefix):
		r, err := parseRule(line[len(rulePrefix):])
		if err != nil {
			return nil, err
		}
		return r, nil

	default:
		return nil, fmt.Errorf("%w: expected %q or %q: %s", internalerr.ErrInvalidInput, factPrefix, rulePrefix, line)
	}
}

// ParseFact parses a bare statement "(isa ?x block)" as a fact; handy for queries.
func ParseFact(text string) (kbase.Fact, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, factPrefix) {
		text = text[len(factPrefix):]
	}
	st, err := logic.ParseStatement(text)
	if err != nil {
		return kbase.Fact{}, err
	}
	return kbase.Fact{Statement: st}, nil
}

func parseRule(text string) (kbase.Rule, error) {
	lhsText, rhsText, ok := strings.Cut(text, arrow)
	if !ok {
		return kbase.Rule{}, fmt.Errorf("%w: missing %q: %s", internalerr.ErrInvalidInput, arrow, text)
	}

	lhs, err := logic.ParseStatements(lhsText)
	if err != nil {
		return kbase.Rule{}, fmt.Errorf("rule antecedents: %w", err)
	}
	rhs, err := logic.ParseStatement(rhsText)
	if err != nil {
		return kbase.Rule{}, fmt.Errorf("rule consequent: %w", err)
	}
	return kbase.Rule{LHS: lhs, RHS: rhs}, nil
}

// Load reads items from r, skipping blank lines and # comments.
func Load(r io.Reader) ([]kbase.Item, error) {
	scanner := bufio.NewScanner(r)
	lineNum := 0

	var items []kbase.Item
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		item, err := ParseItem(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		items = append(items, item)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// LoadFile reads items from a file.
func LoadFile(path string) ([]kbase.Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	items, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return items, nil
}
