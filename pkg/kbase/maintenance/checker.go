package maintenance

import (
	"context"
	"errors"

	"github.com/cognicore/kbase/pkg/kbase"
)

// CheckResult summarizes a consistency check.
type CheckResult struct {
	Checked int
	// Stale items are stored but not derivable from the asserted items,
	// e.g. facts kept alive only by a justification cycle.
	Stale []string
	// Missing items follow from the asserted items but are not stored.
	Missing []string
}

// Consistent reports whether the check found nothing to fix.
func (r CheckResult) Consistent() bool {
	return len(r.Stale) == 0 && len(r.Missing) == 0
}

// Checker replays the asserted items of a knowledge base into a fresh one
// and compares the two closures.
type Checker struct{}

func (c *Checker) Check(ctx context.Context, kb *kbase.KB) (CheckResult, error) {
	var res CheckResult
	if kb == nil {
		return res, errors.New("checker: nil knowledge base")
	}

	fresh := kbase.New(kbase.Options{})
	for _, r := range kb.Rules() {
		if r.Asserted {
			fresh.Assert(r.Rule)
		}
	}
	for _, f := range kb.Facts() {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if f.Asserted {
			fresh.Assert(f.Fact())
		}
	}

	stored := itemSet(kb)
	replayed := itemSet(fresh)
	res.Checked = len(stored)

	for _, text := range itemList(kb) {
		if !replayed[text] {
			res.Stale = append(res.Stale, text)
		}
	}
	for _, text := range itemList(fresh) {
		if !stored[text] {
			res.Missing = append(res.Missing, text)
		}
	}
	return res, nil
}

func itemList(kb *kbase.KB) []string {
	var out []string
	for _, f := range kb.Facts() {
		out = append(out, f.Fact().String())
	}
	for _, r := range kb.Rules() {
		out = append(out, r.Rule.String())
	}
	return out
}

func itemSet(kb *kbase.KB) map[string]bool {
	set := make(map[string]bool)
	for _, text := range itemList(kb) {
		set[text] = true
	}
	return set
}
