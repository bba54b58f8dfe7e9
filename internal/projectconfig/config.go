// Package projectconfig provides the Config struct and loader for
// .dircheck.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/spboyer/dircheck/internal/hooks"
)

// FileName is the project configuration file looked up by Load.
const FileName = ".dircheck.yaml"

// EnvPrefix prefixes environment variables that override configuration,
// e.g. DIRCHECK_PROFILE or DIRCHECK_WATCH_DEBOUNCE.
const EnvPrefix = "DIRCHECK_"

// Default values for project configuration. New() references them and no
// other code should duplicate them.
const (
	DefaultProfile       = "default"
	DefaultProfilesDir   = ".dircheck/profiles"
	DefaultFormat        = "text"
	DefaultTimeout       = time.Duration(0)
	DefaultWatchDebounce = 300 * time.Millisecond
	DefaultColor         = true
)

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

// Config is the resolved configuration for one invocation.
type Config struct {
	Profile     string `koanf:"profile"`
	ProfilesDir string `koanf:"profiles_dir"`
	Format      string `koanf:"format"`
	Output      string `koanf:"output"`
	// Timeout bounds each check; zero means checks are not timed out.
	Timeout       time.Duration `koanf:"timeout"`
	WatchDebounce time.Duration `koanf:"watch_debounce"`
	Color         bool          `koanf:"color"`
	// Hooks run before and after every run of a profile.
	Hooks hooks.Config `koanf:"hooks"`

	// Root is the directory holding the config file, or the start directory
	// when none was found. Relative paths are resolved against it.
	Root string `koanf:"-"`
	// FileUsed is the config file that was loaded, empty if none.
	FileUsed string `koanf:"-"`
}

// New returns a Config with all hard-coded defaults populated.
func New() *Config {
	return &Config{
		Profile:       DefaultProfile,
		ProfilesDir:   DefaultProfilesDir,
		Format:        DefaultFormat,
		Timeout:       DefaultTimeout,
		WatchDebounce: DefaultWatchDebounce,
		Color:         DefaultColor,
	}
}

func defaults() map[string]any {
	d := New()
	return map[string]any{
		"profile":        d.Profile,
		"profiles_dir":   d.ProfilesDir,
		"format":         d.Format,
		"output":         d.Output,
		"timeout":        d.Timeout.String(),
		"watch_debounce": d.WatchDebounce.String(),
		"color":          d.Color,
	}
}

// Load resolves configuration for startDir.
// Precedence (highest to lowest): flags > env vars > config file > defaults
//
// When explicit is empty, .dircheck.yaml is looked up by walking up from
// startDir (max 10 levels); not finding one is not an error. Only flags the
// user actually set override lower layers. flags may be nil.
func Load(startDir, explicit string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	cfgFile := explicit
	if cfgFile == "" {
		found, err := findConfigFile(startDir)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		cfgFile = found
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	// DIRCHECK_PROFILES_DIR -> profiles_dir
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	cfg := New()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("timeout must not be negative, got %s", cfg.Timeout)
	}

	cfg.Root = startDir
	if cfgFile != "" {
		cfg.FileUsed = cfgFile
		cfg.Root = filepath.Dir(cfgFile)
	}
	if abs, err := filepath.Abs(cfg.Root); err == nil {
		cfg.Root = abs
	}
	cfg.ProfilesDir = resolvePathRelativeTo(cfg.ProfilesDir, cfg.Root)
	return cfg, nil
}

// findConfigFile walks up from dir looking for .dircheck.yaml (max 10
// levels). Returns os.ErrNotExist if no config file is found and real I/O
// errors (e.g. permission denied) as they are.
func findConfigFile(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < maxUpwardSearchLevels; i++ {
		p := filepath.Join(dir, FileName)
		info, err := os.Stat(p)
		if err == nil && !info.IsDir() {
			return p, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
