package config

import (
	"fmt"

	"github.com/cognicore/kbase/pkg/kbase"
	"github.com/cognicore/kbase/pkg/kbase/reader"
)

// Loader reads the rule files named by a configuration.
type Loader struct {
	RulesPaths []string
}

// Components holds everything loaded from configuration.
type Components struct {
	Items []kbase.Item
}

// Load reads all rule files and returns their items in file order.
func (l *Loader) Load() (*Components, error) {
	comp := &Components{}

	for _, path := range l.RulesPaths {
		items, err := reader.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load rules: %w", err)
		}
		comp.Items = append(comp.Items, items...)
	}

	return comp, nil
}

// AssertAll asserts every loaded item into kb.
func (c *Components) AssertAll(kb *kbase.KB) {
	for _, item := range c.Items {
		kb.Assert(item)
	}
}
