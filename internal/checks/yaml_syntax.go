package checks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spboyer/dircheck/internal/report"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

func init() {
	Register(Definition{
		ID:          "yaml-syntax",
		Description: "Every YAML file parses",
		Factory:     newYAMLSyntax,
	})
}

// YAMLSyntaxArgs holds the options of the yaml-syntax check.
type YAMLSyntaxArgs struct {
	// Patterns are globs matched against file names. Defaults to *.yaml and *.yml.
	Patterns []string `mapstructure:"patterns"`
	// Workers bounds how many files are parsed at once.
	Workers int `mapstructure:"workers"`
}

type yamlSyntax struct {
	patterns []string
	workers  int
}

func newYAMLSyntax(opts Options) (Check, error) {
	var args YAMLSyntaxArgs
	if err := DecodeOptions(opts, &args); err != nil {
		return nil, fmt.Errorf("yaml-syntax: %w", err)
	}
	if len(args.Patterns) == 0 {
		args.Patterns = []string{"*.yaml", "*.yml"}
	}
	for _, p := range args.Patterns {
		if _, err := filepath.Match(p, ""); err != nil {
			return nil, fmt.Errorf("yaml-syntax: invalid pattern %q: %w", p, err)
		}
	}
	if args.Workers <= 0 {
		args.Workers = defaultWorkers
	}
	ys := &yamlSyntax{patterns: args.Patterns, workers: args.Workers}
	return RunFunc(ys.run), nil
}

func (ys *yamlSyntax) run(ctx context.Context, dir string) (report.Report, error) {
	if err := requireDir(dir); err != nil {
		return nil, err
	}

	files, err := walkFiles(dir, func(rel string) bool { return matchAny(ys.patterns, rel) })
	if err != nil {
		return nil, err
	}

	problems := make([]error, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ys.workers)
	for i, rel := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
			if err != nil {
				return fmt.Errorf("reading %s: %w", rel, err)
			}
			problems[i] = parseAllDocuments(data)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var items []report.Finding
	for i, perr := range problems {
		if perr != nil {
			items = append(items, report.Finding{Severity: report.SeverityError, Path: files[i], Message: perr.Error()})
		}
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &report.Findings{Title: "YAML syntax", Items: items}, nil
}

// parseAllDocuments decodes every document of a multi-document stream.
func parseAllDocuments(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	for {
		var node yaml.Node
		err := dec.Decode(&node)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
