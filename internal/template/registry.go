package template

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds templates by name.
type Registry struct {
	mu        sync.RWMutex
	templates map[string]*Template
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{templates: make(map[string]*Template)}
}

// Register validates t and adds it. Names must be unique.
func (r *Registry) Register(t *Template) error {
	if t == nil {
		return fmt.Errorf("cannot register a nil template")
	}
	if err := t.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.templates[t.Name]; exists {
		return fmt.Errorf("template %q already registered", t.Name)
	}
	r.templates[t.Name] = t
	return nil
}

// Lookup returns the template with the given name.
func (r *Registry) Lookup(name string) (*Template, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.templates[name]
	return t, ok
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
