package checks

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spboyer/dircheck/internal/report"
	"github.com/spboyer/dircheck/internal/validation"
)

func init() {
	Register(Definition{
		ID:          "json-schema",
		Description: "YAML and JSON documents validate against a JSON Schema",
		Factory:     newJSONSchema,
	})
}

// JSONSchemaArgs holds the options of the json-schema check.
type JSONSchemaArgs struct {
	// Schema is the path of the schema file, relative to the checked directory.
	Schema string `mapstructure:"schema"`
	// Files lists globs, relative to the checked directory, of the documents to validate.
	Files []string `mapstructure:"files"`
}

type jsonSchema struct {
	schema string
	files  []string
}

func newJSONSchema(opts Options) (Check, error) {
	var args JSONSchemaArgs
	if err := DecodeOptions(opts, &args); err != nil {
		return nil, fmt.Errorf("json-schema: %w", err)
	}
	if args.Schema == "" {
		return nil, errors.New("json-schema: 'schema' is required")
	}
	if len(args.Files) == 0 {
		return nil, errors.New("json-schema: 'files' is required")
	}

	var errs []error
	for _, p := range append([]string{args.Schema}, args.Files...) {
		if err := validateRelPath(p); err != nil {
			errs = append(errs, fmt.Errorf("json-schema: %w", err))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	js := &jsonSchema{schema: args.Schema, files: args.Files}
	return RunFunc(js.run), nil
}

func (js *jsonSchema) run(ctx context.Context, dir string) (report.Report, error) {
	if err := requireDir(dir); err != nil {
		return nil, err
	}

	sch, err := validation.CompileFile(filepath.Join(dir, filepath.FromSlash(js.schema)))
	if err != nil {
		return nil, err
	}

	var docs []string
	for _, pattern := range js.files {
		matches, err := filepath.Glob(filepath.Join(dir, filepath.FromSlash(pattern)))
		if err != nil {
			return nil, fmt.Errorf("invalid glob %q: %w", pattern, err)
		}
		for _, m := range matches {
			rel, _ := filepath.Rel(dir, m)
			docs = append(docs, filepath.ToSlash(rel))
		}
	}
	slices.Sort(docs)
	docs = slices.Compact(docs)

	var items []report.Finding
	for _, rel := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", rel, err)
		}
		for _, msg := range validation.ValidateYAMLBytes(sch, data) {
			items = append(items, report.Finding{Severity: report.SeverityError, Path: rel, Message: msg})
		}
	}

	if len(items) == 0 {
		return nil, nil
	}
	return &report.Findings{Title: "Schema validation", Items: items}, nil
}
