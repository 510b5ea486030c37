package pattern

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed patterns/*.yaml
var builtins embed.FS

// Registry resolves pattern names to patterns. Built-ins load first;
// LoadDir overlays, so a directory pattern with a built-in's name wins.
type Registry struct {
	patterns map[string]*Pattern
}

// NewRegistry returns a registry seeded with the embedded built-in
// patterns.
func NewRegistry() (*Registry, error) {
	r := &Registry{patterns: make(map[string]*Pattern)}

	entries, err := builtins.ReadDir("patterns")
	if err != nil {
		return nil, fmt.Errorf("reading embedded patterns: %w", err)
	}
	for _, entry := range entries {
		data, err := builtins.ReadFile("patterns/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("reading embedded pattern %s: %w", entry.Name(), err)
		}
		if err := r.add(data, entry.Name()); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// LoadDir registers every *.yaml / *.yml pattern in dir, replacing any
// already-registered pattern with the same name. A missing directory is
// not an error; the overlay is optional.
func (r *Registry) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading pattern directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return fmt.Errorf("reading pattern file %s: %w", entry.Name(), err)
		}
		if err := r.add(data, entry.Name()); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) add(data []byte, source string) error {
	var p Pattern
	if err := yaml.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("parsing pattern %s: %w", source, err)
	}
	if err := p.validate(); err != nil {
		return fmt.Errorf("pattern %s: %w", source, err)
	}
	r.patterns[p.Name] = &p
	return nil
}

// Get resolves a pattern by name. The error for an unknown name lists
// every registered pattern so callers can correct the request.
func (r *Registry) Get(name string) (*Pattern, error) {
	if p, ok := r.patterns[name]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w: %q; available patterns: %s", ErrNotFound, name, strings.Join(r.Names(), ", "))
}

// Names returns all registered pattern names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.patterns))
	for name := range r.patterns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns every registered pattern, sorted by name.
func (r *Registry) All() []*Pattern {
	all := make([]*Pattern, 0, len(r.patterns))
	for _, name := range r.Names() {
		all = append(all, r.patterns[name])
	}
	return all
}
