package profile

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spboyer/dircheck/internal/validation"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON string

// profileSchema is the compiled JSON Schema for profile files.
var profileSchema = validation.MustCompileJSON("profile.schema.json", schemaJSON)

// SchemaError lists the schema violations of one profile document.
type SchemaError struct {
	Source   string
	Problems []string
}

func (e *SchemaError) Error() string {
	src := e.Source
	if src == "" {
		src = "profile"
	}
	return fmt.Sprintf("%s: invalid profile: %s", src, strings.Join(e.Problems, "; "))
}

// Parse validates data against the profile schema and decodes it.
func Parse(data []byte) (*Profile, error) {
	if problems := validation.ValidateYAMLBytes(profileSchema, data); len(problems) > 0 {
		return nil, &SchemaError{Problems: problems}
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing profile: %w", err)
	}
	return &p, nil
}

// LoadFile reads and parses the profile at path.
func LoadFile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}

	p, err := Parse(data)
	if err != nil {
		var se *SchemaError
		if errors.As(err, &se) {
			se.Source = path
			return nil, se
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	p.Source = path
	return p, nil
}

// LoadDir loads every *.yaml and *.yml profile in dir, sorted by file name.
// A missing directory yields no profiles and no error. Files that fail to
// load are reported together; the profiles that did load are still returned.
func LoadDir(dir string) ([]*Profile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading profiles directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if !e.IsDir() && (ext == ".yaml" || ext == ".yml") {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)

	var (
		profiles []*Profile
		errs     []error
	)
	for _, name := range names {
		p, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		profiles = append(profiles, p)
	}
	return profiles, errors.Join(errs...)
}
