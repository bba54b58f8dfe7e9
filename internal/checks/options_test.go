package checks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge(t *testing.T) {
	base := Options{"strict": true, "workers": 2}
	override := Options{"workers": 8}

	merged := Merge(base, override)
	assert.Equal(t, Options{"strict": true, "workers": 8}, merged)

	// inputs untouched
	assert.Equal(t, 2, base["workers"])
	assert.Equal(t, Options{"workers": 8}, override)

	assert.NotNil(t, Merge(nil, nil))
	assert.NotNil(t, Options(nil).Clone())
}

func TestCloneIsIndependent(t *testing.T) {
	orig := Options{"a": 1}
	c := orig.Clone()
	c["a"] = 2
	assert.Equal(t, 1, orig["a"])
}

func TestMergeCopiesNestedValues(t *testing.T) {
	base := Options{
		"must_exist":       []any{"README.md"},
		"content_patterns": []any{map[string]any{"path": "README.md", "must_match": []any{"^# "}}},
	}
	override := Options{"extra": map[string]any{"k": "v"}}

	merged := Merge(base, override)
	merged["must_exist"].([]any)[0] = "CHANGED.md"
	merged["content_patterns"].([]any)[0].(map[string]any)["path"] = "other.md"
	merged["extra"].(map[string]any)["k"] = "changed"

	assert.Equal(t, "README.md", base["must_exist"].([]any)[0])
	assert.Equal(t, "README.md", base["content_patterns"].([]any)[0].(map[string]any)["path"])
	assert.Equal(t, "v", override["extra"].(map[string]any)["k"])
}

func TestDecodeOptions(t *testing.T) {
	var args struct {
		Strict  bool          `mapstructure:"strict"`
		Workers int           `mapstructure:"workers"`
		Files   []string      `mapstructure:"files"`
		Wait    time.Duration `mapstructure:"wait"`
	}

	err := DecodeOptions(Options{
		"strict":  "true",
		"workers": "3",
		"files":   "a.yaml,b.yaml",
		"wait":    "2s",
		"unused":  42,
	}, &args)
	require.NoError(t, err)

	assert.True(t, args.Strict)
	assert.Equal(t, 3, args.Workers)
	assert.Equal(t, []string{"a.yaml", "b.yaml"}, args.Files)
	assert.Equal(t, 2*time.Second, args.Wait)
}

func TestDecodeOptionsTypeError(t *testing.T) {
	var args struct {
		Workers int `mapstructure:"workers"`
	}
	err := DecodeOptions(Options{"workers": map[string]any{"n": 1}}, &args)
	require.Error(t, err)
}
