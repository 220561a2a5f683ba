package builder

import (
	"fmt"
	"sort"
	"sync"
)

// Registry exposes one builder per entity type, keyed by the identifier
// derived from the entity name. It replaces compile-time generation of
// per-entity builder functions with explicit registration at startup.
type Registry struct {
	mu       sync.RWMutex
	builders map[string]*Builder
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{builders: make(map[string]*Builder)}
}

// Register adds the builder under its derived identifier. Registering two
// entity types that derive the same identifier is a configuration mistake
// and fails.
func (r *Registry) Register(b *Builder) error {
	ident := b.Ident()
	if ident == "" {
		return fmt.Errorf("cannot register builder for %s: empty identifier", b.Entity().Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.builders[ident]; ok {
		return fmt.Errorf("identifier %q already registered for %s", ident, existing.Entity().Name)
	}
	r.builders[ident] = b
	return nil
}

// MustRegister is Register for startup wiring, panicking on conflicts.
func (r *Registry) MustRegister(b *Builder) {
	if err := r.Register(b); err != nil {
		panic(err)
	}
}

// Lookup returns the builder registered under ident.
func (r *Registry) Lookup(ident string) (*Builder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.builders[ident]
	return b, ok
}

// Idents returns the registered identifiers in sorted order.
func (r *Registry) Idents() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idents := make([]string, 0, len(r.builders))
	for ident := range r.builders {
		idents = append(idents, ident)
	}
	sort.Strings(idents)
	return idents
}
