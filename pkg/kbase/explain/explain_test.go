package explain

import (
	"fmt"
	"strings"
	"testing"

	"github.com/cognicore/kbase/pkg/kbase"
	"github.com/cognicore/kbase/pkg/kbase/logic"
)

func chainKB() *kbase.KB {
	kb := kbase.New(kbase.Options{})
	kb.Assert(kbase.NewRule(logic.S("q", "?x"), logic.S("p", "?x")))
	kb.Assert(kbase.NewRule(logic.S("s", "?x"), logic.S("q", "?x")))
	kb.Assert(kbase.NewFact("p", "a"))
	return kb
}

func TestExplainAssertedFact(t *testing.T) {
	kb := chainKB()
	card, ok := New().Fact(kb, kbase.NewFact("p", "a"))
	if !ok {
		t.Fatal("expected card")
	}
	if card.Depth != 0 {
		t.Errorf("asserted fact depth = %d, want 0", card.Depth)
	}
	if !card.Asserted {
		t.Error("expected Asserted")
	}
	if card.String() != "fact: (p a) ASSERTED" {
		t.Errorf("got %q", card.String())
	}
}

func TestExplainDerivedFact(t *testing.T) {
	kb := chainKB()
	card, ok := New().Fact(kb, kbase.NewFact("s", "a"))
	if !ok {
		t.Fatal("expected card")
	}
	if card.Depth != 2 {
		t.Errorf("depth = %d, want 2", card.Depth)
	}

	want := strings.Join([]string{
		"fact: (s a)",
		"  SUPPORTED BY",
		"    fact: (q a)",
		"      SUPPORTED BY",
		"        fact: (p a) ASSERTED",
		"        rule: ((p ?x)) -> (q ?x) ASSERTED",
		"    rule: ((q ?x)) -> (s ?x) ASSERTED",
	}, "\n")
	if card.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", card.String(), want)
	}
}

func TestExplainResidualRule(t *testing.T) {
	kb := kbase.New(kbase.Options{})
	kb.Assert(kbase.NewRule(logic.S("q", "?x"), logic.S("p", "?x"), logic.S("r", "?x")))
	kb.Assert(kbase.NewFact("p", "a"))

	card, ok := New().Item(kb, kbase.NewRule(logic.S("q", "a"), logic.S("r", "a")))
	if !ok {
		t.Fatal("expected card")
	}
	if card.Asserted {
		t.Error("residual rule is not asserted")
	}
	if card.Depth != 1 {
		t.Errorf("depth = %d, want 1", card.Depth)
	}
}

func TestExplainMissingItem(t *testing.T) {
	kb := chainKB()
	if _, ok := New().Fact(kb, kbase.NewFact("z")); ok {
		t.Error("expected no card for a missing fact")
	}
}

func TestExplainMarksCycles(t *testing.T) {
	kb := kbase.New(kbase.Options{})
	kb.Assert(kbase.NewRule(logic.S("p", "?x"), logic.S("p", "?x")))
	kb.Assert(kbase.NewFact("p", "a"))

	card, ok := New().Fact(kb, kbase.NewFact("p", "a"))
	if !ok {
		t.Fatal("expected card")
	}
	if !strings.Contains(card.String(), "(cycle)") {
		t.Errorf("self-justified fact should show a cycle:\n%s", card.String())
	}
}

func TestBuilderULIDUniqueness(t *testing.T) {
	kb := chainKB()
	b := New()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		card, _ := b.Fact(kb, kbase.NewFact("q", "a"))
		if seen[card.ID] {
			t.Fatalf("duplicate card ID %s", card.ID)
		}
		seen[card.ID] = true
	}
}

// ladderKB derives p1(a) .. pn(a) from p0(a), each level twice through a
// pair of rules that differ only in their variable name.
func ladderKB(n int) *kbase.KB {
	kb := kbase.New(kbase.Options{})
	for i := 0; i < n; i++ {
		from, to := fmt.Sprintf("p%d", i), fmt.Sprintf("p%d", i+1)
		kb.Assert(kbase.NewRule(logic.S(to, "?x"), logic.S(from, "?x")))
		kb.Assert(kbase.NewRule(logic.S(to, "?y"), logic.S(from, "?y")))
	}
	kb.Assert(kbase.NewFact("p0", "a"))
	return kb
}

func TestExplainSharedSupportIsExpandedOnce(t *testing.T) {
	const n = 30
	kb := ladderKB(n)

	card, ok := New().Fact(kb, kbase.NewFact(fmt.Sprintf("p%d", n), "a"))
	if !ok {
		t.Fatal("expected card")
	}
	if card.Depth != n {
		t.Errorf("depth = %d, want %d", card.Depth, n)
	}
	// per level: the fact, two SUPPORTED BY lines, two rules, one reference
	if len(card.Lines) > 6*n+1 {
		t.Fatalf("card has %d lines, want at most %d", len(card.Lines), 6*n+1)
	}
	// expanded under the first justification of p16, referenced under the second
	if got := strings.Count(card.String(), "fact: (p15 a)"); got != 2 {
		t.Errorf("p15 printed %d times, want 2", got)
	}
	if !strings.Contains(card.String(), "(see above)") {
		t.Errorf("repeated support should be printed as a reference:\n%s", card.String())
	}
}

func TestExplainMaxLines(t *testing.T) {
	b := New()
	b.MaxLines = 10

	card, ok := b.Fact(ladderKB(30), kbase.NewFact("p30", "a"))
	if !ok {
		t.Fatal("expected card")
	}
	if !card.Truncated {
		t.Fatal("expected truncated card")
	}
	if len(card.Lines) != 11 || card.Lines[10] != "... (truncated)" {
		t.Errorf("unexpected truncated lines:\n%s", card.String())
	}
}
