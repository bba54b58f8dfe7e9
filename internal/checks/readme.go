package checks

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spboyer/dircheck/internal/report"
)

func init() {
	Register(Definition{
		ID:          "readme",
		Description: "Renders the directory's README",
		Factory:     newReadme,
		Stylesheet:  readmeStylesheet,
	})
}

const readmeStylesheet = `img { max-width: 100%; }
pre { background: #f6f8fa; padding: .5em; overflow-x: auto; }
blockquote { border-left: 3px solid #ccc; margin-left: 0; padding-left: 1em; color: #555; }`

// ReadmeArgs holds the options of the readme check.
type ReadmeArgs struct {
	File string `mapstructure:"file"`
}

func newReadme(opts Options) (Check, error) {
	args := ReadmeArgs{File: "README.md"}
	if err := DecodeOptions(opts, &args); err != nil {
		return nil, fmt.Errorf("readme: %w", err)
	}
	if err := validateRelPath(args.File); err != nil {
		return nil, fmt.Errorf("readme: %w", err)
	}

	return RunFunc(func(_ context.Context, dir string) (report.Report, error) {
		if err := requireDir(dir); err != nil {
			return nil, err
		}
		source, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(args.File)))
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", args.File, err)
		}
		return &report.Markdown{Title: args.File, Source: source}, nil
	}), nil
}
