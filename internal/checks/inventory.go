package checks

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spboyer/dircheck/internal/report"
)

func init() {
	Register(Definition{
		ID:          "inventory",
		Description: "Counts files and directories",
		Factory: func(Options) (Check, error) {
			return RunFunc(inventory), nil
		},
	})
}

// inventory summarizes the directory tree. Hidden directories are not counted.
func inventory(ctx context.Context, dir string) (report.Report, error) {
	if err := requireDir(dir); err != nil {
		return nil, err
	}

	var files, dirs int
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == dir {
			return nil
		}
		if d.IsDir() {
			if skipDir(d.Name()) {
				return filepath.SkipDir
			}
			dirs++
			return nil
		}
		files++
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}

	return report.NewSummary("Inventory",
		fmt.Sprintf("%d files", files),
		fmt.Sprintf("%d directories", dirs),
		"Checked "+dir,
	), nil
}
