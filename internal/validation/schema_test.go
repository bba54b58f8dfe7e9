package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const personSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["name"],
  "properties": {
    "name": {"type": "string"},
    "age": {"type": "integer", "minimum": 0}
  }
}`

func TestValidateYAMLBytes(t *testing.T) {
	sch := MustCompileJSON("person.schema.json", personSchema)

	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{name: "valid", doc: "name: ada\nage: 36\n"},
		{name: "missing name", doc: "age: 3\n", wantErr: "/: "},
		{name: "negative age", doc: "name: x\nage: -1\n", wantErr: "/age: "},
		{name: "not yaml", doc: "name: [unterminated\n", wantErr: "YAML parse error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateYAMLBytes(sch, []byte(tt.doc))
			if tt.wantErr == "" {
				require.Empty(t, errs)
				return
			}
			require.NotEmpty(t, errs)
			require.Contains(t, errs[0], tt.wantErr)
		})
	}
}

func TestCompileFile(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "person.schema.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(personSchema), 0644))
	sch, err := CompileFile(jsonPath)
	require.NoError(t, err)
	require.Empty(t, ValidateYAMLBytes(sch, []byte(`{"name": "ada"}`)))

	yamlPath := filepath.Join(dir, "person.schema.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("type: object\nrequired: [name]\n"), 0644))
	sch, err = CompileFile(yamlPath)
	require.NoError(t, err)
	require.NotEmpty(t, ValidateYAMLBytes(sch, []byte("other: 1\n")))

	_, err = CompileFile(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
}

func TestToJSONCompatible(t *testing.T) {
	in := map[any]any{1: "one", "list": []any{map[any]any{"k": true}}}
	out := ToJSONCompatible(in)

	m, ok := out.(map[string]any)
	require.True(t, ok)
	require.Equal(t, "one", m["1"])
	list, ok := m["list"].([]any)
	require.True(t, ok)
	require.Equal(t, map[string]any{"k": true}, list[0])
}
