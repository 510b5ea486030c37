// Package pattern holds the specification patterns: named document
// templates with declared variables and section lists. Patterns are YAML
// data, not code; three built-ins ship embedded and a directory of extra
// patterns can overlay them.
package pattern

import (
	"errors"
	"fmt"
)

// ErrNotFound reports a lookup for a pattern that is not registered.
var ErrNotFound = errors.New("pattern not found")

// Pattern is one renderable specification template.
type Pattern struct {
	Name        string   `yaml:"name"`
	Domain      string   `yaml:"domain"`
	Description string   `yaml:"description"`
	Variables   []string `yaml:"variables"`
	Sections    []string `yaml:"sections"`
	Template    string   `yaml:"template"`
}

func (p *Pattern) validate() error {
	if p.Name == "" {
		return fmt.Errorf("pattern has no name")
	}
	if p.Template == "" {
		return fmt.Errorf("pattern %q has no template body", p.Name)
	}
	return nil
}
