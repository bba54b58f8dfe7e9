package profile

import (
	"maps"
	"slices"
)

// Catalog indexes profiles by name.
type Catalog struct {
	profiles map[string]*Profile
}

// NewCatalog indexes the given profile sets. When two profiles share a
// name, the one from the later set wins, so project profiles passed after
// [Builtin] override it.
func NewCatalog(sets ...[]*Profile) *Catalog {
	c := &Catalog{profiles: make(map[string]*Profile)}
	for _, set := range sets {
		for _, p := range set {
			c.profiles[p.Name] = p
		}
	}
	return c
}

// Get returns the profile called name.
func (c *Catalog) Get(name string) (*Profile, bool) {
	p, ok := c.profiles[name]
	return p, ok
}

// Names returns the profile names in sorted order.
func (c *Catalog) Names() []string {
	return slices.Sorted(maps.Keys(c.profiles))
}

// All returns the profiles sorted by name.
func (c *Catalog) All() []*Profile {
	names := c.Names()
	out := make([]*Profile, len(names))
	for i, n := range names {
		out[i] = c.profiles[n]
	}
	return out
}
