package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spboyer/dircheck/internal/checks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const webProfileYAML = `name: web
description: Web checks
options:
  strict: true
checks:
  - general
  - id: web
    options:
      strict: false
      depth: 2
`

func TestParse(t *testing.T) {
	p, err := Parse([]byte(webProfileYAML))
	require.NoError(t, err)

	assert.Equal(t, "web", p.Name)
	assert.Equal(t, "Web checks", p.Description)
	assert.Equal(t, []string{"general", "web"}, p.IDs())
	assert.Equal(t, checks.Options{"strict": true}, p.OptionsFor(0))
	assert.Equal(t, checks.Options{"strict": false, "depth": 2}, p.OptionsFor(1))

	// merging never leaks into the shared options
	assert.Equal(t, checks.Options{"strict": true}, p.Options)
}

func TestParseSchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "missing checks", doc: "name: x\n"},
		{name: "missing name", doc: "checks: [a]\n"},
		{name: "unknown key", doc: "name: x\nchecks: [a]\nextra: 1\n"},
		{name: "bad check entry", doc: "name: x\nchecks:\n  - 42\n"},
		{name: "check without id", doc: "name: x\nchecks:\n  - options: {}\n"},
		{name: "not yaml", doc: "name: [x\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			var se *SchemaError
			require.ErrorAs(t, err, &se)
			require.NotEmpty(t, se.Problems)
		})
	}
}

func TestValidate(t *testing.T) {
	reg := checks.NewRegistry()
	require.NoError(t, reg.Register(checks.Definition{ID: "general", Factory: func(checks.Options) (checks.Check, error) { return nil, nil }}))

	p, err := Parse([]byte(webProfileYAML))
	require.NoError(t, err)

	err = p.Validate(reg)
	require.ErrorIs(t, err, checks.ErrUnknownCheck)
	assert.Contains(t, err.Error(), `checks[1]`)
	assert.Contains(t, err.Error(), `"web"`)

	assert.NoError(t, New("ok", "", nil, "general").Validate(reg))
	assert.Error(t, New("", "", nil).Validate(reg))
}

func TestLoadFileAndDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b-web.yaml"), []byte(webProfileYAML), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a-min.yml"), []byte("name: min\nchecks: [inventory]\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	p, err := LoadFile(filepath.Join(dir, "b-web.yaml"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "b-web.yaml"), p.Source)

	profiles, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "min", profiles[0].Name)
	assert.Equal(t, "web", profiles[1].Name)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "c-bad.yaml"), []byte("name: bad\n"), 0644))
	profiles, err = LoadDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "c-bad.yaml")
	assert.Len(t, profiles, 2)

	profiles, err = LoadDir(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Empty(t, profiles)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

func TestBuiltinProfilesAreValid(t *testing.T) {
	builtins := Builtin()
	require.NotEmpty(t, builtins)
	for _, p := range builtins {
		assert.NoError(t, p.Validate(checks.Default), p.Name)
	}
}

func TestCatalog(t *testing.T) {
	override := New("default", "project default", nil, "readme")
	c := NewCatalog(Builtin(), []*Profile{override, New("zeta", "", nil)})

	assert.Equal(t, []string{"default", "docs", "zeta"}, c.Names())

	p, ok := c.Get("default")
	require.True(t, ok)
	assert.Same(t, override, p)

	_, ok = c.Get("nope")
	assert.False(t, ok)

	all := c.All()
	require.Len(t, all, 3)
	assert.Equal(t, "zeta", all[2].Name)
}
