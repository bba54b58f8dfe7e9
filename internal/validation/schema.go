// Package validation compiles JSON Schemas and validates YAML or JSON
// documents against them.
package validation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// defaultPrinter is used to format schema validation error messages.
var defaultPrinter = message.NewPrinter(language.English)

// MustCompileJSON compiles an embedded JSON schema, panicking if it is malformed.
func MustCompileJSON(name, raw string) *jsonschema.Schema {
	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		panic(fmt.Sprintf("failed to parse embedded %s: %v", name, err))
	}
	sch, err := Compile(name, doc)
	if err != nil {
		panic(err.Error())
	}
	return sch
}

// Compile compiles an already-decoded schema document registered under name.
func Compile(name string, doc any) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, ToJSONCompatible(doc)); err != nil {
		return nil, fmt.Errorf("adding schema %s: %w", name, err)
	}

	sch, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compiling schema %s: %w", name, err)
	}
	return sch, nil
}

// CompileFile compiles the schema stored at path. Both JSON and YAML
// encodings are accepted.
func CompileFile(path string) (*jsonschema.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema: %w", err)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing schema %s: %w", filepath.Base(path), err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return Compile(abs, doc)
}

// ValidateYAMLBytes validates raw YAML (or JSON) bytes against schema.
// The returned slice holds one "location: message" entry per violation.
func ValidateYAMLBytes(schema *jsonschema.Schema, data []byte) []string {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return []string{fmt.Sprintf("YAML parse error: %v", err)}
	}
	return Validate(schema, doc)
}

// Validate validates a decoded document against schema.
func Validate(schema *jsonschema.Schema, instance any) []string {
	err := schema.Validate(ToJSONCompatible(instance))
	if err == nil {
		return nil
	}
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []string{fmt.Sprintf("schema: %v", err)}
	}
	var errs []string
	collectSchemaErrors(ve, &errs)
	return errs
}

func collectSchemaErrors(ve *jsonschema.ValidationError, errs *[]string) {
	if len(ve.Causes) == 0 {
		loc := "/"
		if len(ve.InstanceLocation) > 0 {
			loc = "/" + strings.Join(ve.InstanceLocation, "/")
		}
		*errs = append(*errs, fmt.Sprintf("%s: %s", loc, ve.ErrorKind.LocalizedString(defaultPrinter)))
		return
	}
	for _, c := range ve.Causes {
		collectSchemaErrors(c, errs)
	}
}

// ToJSONCompatible converts YAML-decoded values to JSON-compatible types.
// Mappings with non-string keys are converted to string-keyed maps.
func ToJSONCompatible(v any) any {
	switch val := v.(type) {
	case map[string]any:
		result := make(map[string]any, len(val))
		for k, v2 := range val {
			result[k] = ToJSONCompatible(v2)
		}
		return result
	case map[any]any:
		result := make(map[string]any, len(val))
		for k, v2 := range val {
			result[fmt.Sprint(k)] = ToJSONCompatible(v2)
		}
		return result
	case []any:
		result := make([]any, len(val))
		for i, v2 := range val {
			result[i] = ToJSONCompatible(v2)
		}
		return result
	default:
		return val
	}
}
