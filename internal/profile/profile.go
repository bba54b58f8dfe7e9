// Package profile describes named bundles of checks and the options they
// share, and loads them from YAML.
package profile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spboyer/dircheck/internal/checks"
	"gopkg.in/yaml.v3"
)

// CheckRef names a registered check and the options specific to it.
// In YAML it is either a bare check id or a mapping with id and options.
type CheckRef struct {
	ID      string         `yaml:"id" json:"id"`
	Options checks.Options `yaml:"options,omitempty" json:"options,omitempty"`
}

func (r *CheckRef) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		r.ID = node.Value
		return nil
	}
	type plain CheckRef
	return node.Decode((*plain)(r))
}

// Profile is a named, reusable bundle of checks and shared options.
// A profile must not be modified once handed to a manager.
type Profile struct {
	Name        string         `yaml:"name" json:"name"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	Checks      []CheckRef     `yaml:"checks" json:"checks"`
	Options     checks.Options `yaml:"options,omitempty" json:"options,omitempty"`

	// Source is the file the profile was loaded from. Empty for built-in
	// and programmatic profiles.
	Source string `yaml:"-" json:"-"`
}

// New builds a profile running the given check ids with shared options.
func New(name, description string, options checks.Options, ids ...string) *Profile {
	p := &Profile{Name: name, Description: description, Options: options}
	for _, id := range ids {
		p.Checks = append(p.Checks, CheckRef{ID: id})
	}
	return p
}

// OptionsFor returns a fresh copy of the options for the check at index i:
// the profile options with that check's own options applied on top.
func (p *Profile) OptionsFor(i int) checks.Options {
	return checks.Merge(p.Options, p.Checks[i].Options)
}

// IDs returns the check ids in profile order.
func (p *Profile) IDs() []string {
	ids := make([]string, len(p.Checks))
	for i, c := range p.Checks {
		ids[i] = c.ID
	}
	return ids
}

// Validate reports semantic problems a schema cannot catch: a missing name
// and check ids that reg does not know.
func (p *Profile) Validate(reg *checks.Registry) error {
	var errs []error
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, errors.New("profile name is required"))
	}
	for i, c := range p.Checks {
		if _, ok := reg.Lookup(c.ID); !ok {
			errs = append(errs, fmt.Errorf("checks[%d]: %w: %q", i, checks.ErrUnknownCheck, c.ID))
		}
	}
	return errors.Join(errs...)
}
