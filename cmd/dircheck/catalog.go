package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spboyer/dircheck/internal/profile"
	"github.com/spboyer/dircheck/internal/projectconfig"
	"github.com/spf13/pflag"
)

// resolveDir returns the absolute directory named by args, or the working
// directory when args is empty.
func resolveDir(args []string) (string, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving %q: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", dir)
	}
	return abs, nil
}

// loadCatalog loads configuration for dir and the profiles available to it:
// the built-in ones overridden by those in the project's profiles directory.
func loadCatalog(dir, cfgFile string, flags *pflag.FlagSet) (*projectconfig.Config, *profile.Catalog, error) {
	cfg, err := projectconfig.Load(dir, cfgFile, flags)
	if err != nil {
		return nil, nil, err
	}
	project, err := profile.LoadDir(cfg.ProfilesDir)
	if err != nil {
		return nil, nil, fmt.Errorf("loading profiles from %s: %w", cfg.ProfilesDir, err)
	}
	return cfg, profile.NewCatalog(profile.Builtin(), project), nil
}

func lookupProfile(catalog *profile.Catalog, name string) (*profile.Profile, error) {
	p, ok := catalog.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown profile %q (available: %s)", name, strings.Join(catalog.Names(), ", "))
	}
	return p, nil
}
