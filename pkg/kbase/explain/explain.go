// Package explain renders why a fact or rule is in the knowledge base.
package explain

import (
	"crypto/rand"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/kbase/pkg/kbase"
)

const indent = "  "

// Builder constructs explanation cards
type Builder struct {
	entropy *ulid.MonotonicEntropy
	// MaxLines caps the lines of a card; 0 means no cap.
	MaxLines int
}

// New creates a new card builder
func New() *Builder {
	return &Builder{
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Card is a justification tree for one item, rendered as indented lines.
type Card struct {
	ID       string
	Title    string
	Asserted bool
	// Depth is the longest derivation chain below the item; 0 when it is only asserted.
	Depth     int
	Lines     []string
	Truncated bool
}

func (c Card) String() string {
	return strings.Join(c.Lines, "\n")
}

// Fact explains a stored fact. It returns false when the fact is not stored.
func (b *Builder) Fact(kb *kbase.KB, f kbase.Fact) (Card, bool) {
	id, ok := kb.LookupFact(f.Statement)
	if !ok {
		return Card{}, false
	}
	w := b.walker(kb)
	depth := w.fact(id, 0)
	info, _ := kb.GetFact(id)
	return b.card(f.String(), info.Asserted, depth, w), true
}

// Rule explains a stored rule. It returns false when the rule is not stored.
func (b *Builder) Rule(kb *kbase.KB, r kbase.Rule) (Card, bool) {
	id, ok := kb.LookupRule(r)
	if !ok {
		return Card{}, false
	}
	w := b.walker(kb)
	depth := w.rule(id, 0)
	info, _ := kb.GetRule(id)
	return b.card(r.String(), info.Asserted, depth, w), true
}

// Item dispatches to Fact or Rule.
func (b *Builder) Item(kb *kbase.KB, item kbase.Item) (Card, bool) {
	switch it := item.(type) {
	case kbase.Fact:
		return b.Fact(kb, it)
	case kbase.Rule:
		return b.Rule(kb, it)
	}
	return Card{}, false
}

func (b *Builder) walker(kb *kbase.KB) *walker {
	return &walker{
		kb:       kb,
		maxLines: b.MaxLines,
		onPath:   make(map[string]bool),
		depths:   make(map[string]int),
	}
}

func (b *Builder) card(title string, asserted bool, depth int, w *walker) Card {
	lines := w.lines
	if w.truncated {
		lines = append(lines, "... (truncated)")
	}
	return Card{
		ID:        ulid.MustNew(ulid.Now(), b.entropy).String(),
		Title:     title,
		Asserted:  asserted,
		Depth:     depth,
		Lines:     lines,
		Truncated: w.truncated,
	}
}

type walker struct {
	kb       *kbase.KB
	maxLines int
	onPath   map[string]bool
	// depths of items already expanded; later occurrences are printed as references
	depths    map[string]int
	lines     []string
	truncated bool
}

func (w *walker) add(line string) {
	if w.maxLines > 0 && len(w.lines) >= w.maxLines {
		w.truncated = true
		return
	}
	w.lines = append(w.lines, line)
}

func (w *walker) fact(id kbase.FactID, level int) int {
	info, ok := w.kb.GetFact(id)
	if !ok {
		return 0
	}
	text := info.Fact().String()
	return w.node(text, info.Asserted, info.SupportedBy, level)
}

func (w *walker) rule(id kbase.RuleID, level int) int {
	info, ok := w.kb.GetRule(id)
	if !ok {
		return 0
	}
	return w.node(info.Rule.String(), info.Asserted, info.SupportedBy, level)
}

// node writes one item and its justifications. An item already expanded
// elsewhere in the card is printed once more as a reference; a justification
// that loops back to an item on the current path is marked and not expanded.
func (w *walker) node(text string, asserted bool, support []kbase.Justification, level int) int {
	line := strings.Repeat(indent, level*2) + text
	if asserted {
		line += " ASSERTED"
	}
	if w.onPath[text] {
		w.add(line + " (cycle)")
		return 0
	}
	if depth, ok := w.depths[text]; ok && len(support) > 0 {
		w.add(line + " (see above)")
		return depth
	}
	w.add(line)

	w.onPath[text] = true
	defer delete(w.onPath, text)

	depth := 0
	for _, j := range support {
		if w.truncated {
			break
		}
		w.add(strings.Repeat(indent, level*2+1) + "SUPPORTED BY")
		d := max(w.fact(j.Fact, level+1), w.rule(j.Rule, level+1))
		depth = max(depth, d+1)
	}
	w.depths[text] = depth
	return depth
}
