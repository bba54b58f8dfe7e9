package checks

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// requireDir returns an error unless dir exists and is a directory.
func requireDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("checking directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}

// skipDir reports whether a directory should be left out of a walk.
func skipDir(name string) bool {
	return name == "node_modules" || (len(name) > 1 && strings.HasPrefix(name, "."))
}

// walkFiles returns the slash-separated paths, relative to dir, of every
// regular file for which match returns true. Hidden directories and
// node_modules are skipped.
func walkFiles(dir string, match func(rel string) bool) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if match(rel) {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}
	return files, nil
}

// matchAny reports whether the base name of rel matches any of patterns.
// Patterns containing a slash are matched against the full relative path.
func matchAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		target := filepath.Base(rel)
		if strings.Contains(p, "/") {
			target = rel
		}
		if ok, _ := filepath.Match(p, target); ok {
			return true
		}
	}
	return false
}

// isWithinDir returns true if path is inside dir (or is dir itself).
func isWithinDir(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(os.PathSeparator))
}

// validateRelPath rejects absolute paths and paths that climb out of the
// checked directory. Profiles are meant to be portable across checkouts.
func validateRelPath(rel string) error {
	if filepath.IsAbs(rel) {
		return fmt.Errorf("path %q must be relative to the checked directory", rel)
	}
	clean := filepath.Clean(filepath.FromSlash(rel))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(os.PathSeparator)) {
		return fmt.Errorf("path %q escapes the checked directory", rel)
	}
	return nil
}
