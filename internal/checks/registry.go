package checks

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Factory constructs a check from its options.
type Factory func(opts Options) (Check, error)

// Definition describes a registered check.
type Definition struct {
	ID          string
	Description string
	Factory     Factory
	// Stylesheet is CSS the check's reports rely on when embedded in an
	// HTML page. Optional.
	Stylesheet string
}

// Registry maps check ids to their definitions.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]Definition
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]Definition)}
}

// Default holds the built-in checks. Populated from init functions.
var Default = NewRegistry()

// Register adds def to the default registry. Call it from init; it panics
// on an invalid or duplicate definition.
func Register(def Definition) {
	if err := Default.Register(def); err != nil {
		panic(err)
	}
}

// Register adds def to r.
func (r *Registry) Register(def Definition) error {
	if strings.TrimSpace(def.ID) == "" {
		return fmt.Errorf("check id is required")
	}
	if def.Factory == nil {
		return fmt.Errorf("check %q: factory is required", def.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.defs[def.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateCheck, def.ID)
	}
	r.defs[def.ID] = def
	return nil
}

// Lookup returns the definition registered under id.
func (r *Registry) Lookup(id string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[id]
	return def, ok
}

// New constructs the check registered under id.
func (r *Registry) New(id string, opts Options) (Check, error) {
	def, ok := r.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCheck, id)
	}
	return def.Factory(opts)
}

// Stylesheets returns the distinct stylesheets of the checks named by ids,
// in order of first use. Unknown ids are skipped.
func (r *Registry) Stylesheets(ids []string) []string {
	var out []string
	for _, id := range ids {
		def, ok := r.Lookup(id)
		if !ok || def.Stylesheet == "" || slices.Contains(out, def.Stylesheet) {
			continue
		}
		out = append(out, def.Stylesheet)
	}
	return out
}

// All returns every definition, sorted by id.
func (r *Registry) All() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]Definition, 0, len(r.defs))
	for _, d := range r.defs {
		defs = append(defs, d)
	}
	slices.SortFunc(defs, func(a, b Definition) int { return strings.Compare(a.ID, b.ID) })
	return defs
}
