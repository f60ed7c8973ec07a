package maintenance

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/cognicore/kbase/pkg/kbase"
)

// RuleWriter persists exported knowledge to a destination (file, DB, etc.).
type RuleWriter interface {
	WriteRules(ctx context.Context, content string) error
}

// RuleExporter renders asserted facts and rules in the text format the
// reader package loads. Derived items are written as comments when
// IncludeDerived is set, so a re-load asserts exactly what was asserted.
type RuleExporter struct {
	Writer         RuleWriter
	IncludeDerived bool
}

func (e *RuleExporter) Export(ctx context.Context, kb *kbase.KB) error {
	if e.Writer == nil {
		return fmt.Errorf("rule exporter: nil writer")
	}

	var b strings.Builder
	for _, f := range kb.Facts() {
		e.writeLine(&b, f.Fact().String(), f.Asserted)
	}
	for _, r := range kb.Rules() {
		e.writeLine(&b, r.Rule.String(), r.Asserted)
	}
	return e.Writer.WriteRules(ctx, b.String())
}

func (e *RuleExporter) writeLine(b *strings.Builder, text string, asserted bool) {
	switch {
	case asserted:
		b.WriteString(text)
	case e.IncludeDerived:
		b.WriteString("# derived ")
		b.WriteString(text)
	default:
		return
	}
	b.WriteByte('\n')
}

// FileWriter writes exported knowledge to a file, replacing its contents.
type FileWriter struct {
	Path string
}

func (w FileWriter) WriteRules(ctx context.Context, content string) error {
	return os.WriteFile(w.Path, []byte(content), 0644)
}
