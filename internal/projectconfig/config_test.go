package projectconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("profile", "", "")
	fs.String("format", "", "")
	fs.Duration("timeout", 0, "")
	fs.Bool("color", true, "")
	return fs
}

func TestNew_ReturnsAllDefaults(t *testing.T) {
	cfg := New()

	assert.Equal(t, "default", cfg.Profile)
	assert.Equal(t, ".dircheck/profiles", cfg.ProfilesDir)
	assert.Equal(t, "text", cfg.Format)
	assert.Empty(t, cfg.Output)
	assert.Zero(t, cfg.Timeout)
	assert.Equal(t, 300*time.Millisecond, cfg.WatchDebounce)
	assert.True(t, cfg.Color)
}

func TestLoad_NoConfigFile(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir, "", nil)
	require.NoError(t, err)

	assert.Empty(t, cfg.FileUsed)
	assert.Equal(t, "default", cfg.Profile)
	assert.Equal(t, filepath.Join(dir, ".dircheck/profiles"), cfg.ProfilesDir)
}

func TestLoad_FullConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, `
profile: docs
profiles_dir: custom/profiles
format: json
output: out/report.json.gz
timeout: 45s
watch_debounce: 1s
color: false
`)

	cfg, err := Load(dir, "", nil)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, FileName), cfg.FileUsed)
	assert.Equal(t, "docs", cfg.Profile)
	assert.Equal(t, filepath.Join(dir, "custom/profiles"), cfg.ProfilesDir)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "out/report.json.gz", cfg.Output)
	assert.Equal(t, 45*time.Second, cfg.Timeout)
	assert.Equal(t, time.Second, cfg.WatchDebounce)
	assert.False(t, cfg.Color)
}

func TestLoad_PartialConfigKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, "format: html\n")

	cfg, err := Load(dir, "", nil)
	require.NoError(t, err)

	assert.Equal(t, "html", cfg.Format)
	assert.Equal(t, "default", cfg.Profile)
	assert.Equal(t, DefaultWatchDebounce, cfg.WatchDebounce)
}

func TestLoad_WalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, FileName, "profile: docs\n")
	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	cfg, err := Load(nested, "", nil)
	require.NoError(t, err)

	assert.Equal(t, "docs", cfg.Profile)
	assert.Equal(t, root, cfg.Root)
	assert.Equal(t, filepath.Join(root, ".dircheck/profiles"), cfg.ProfilesDir)
}

func TestLoad_ExplicitFile(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "conf/custom.yaml", "profile: explicit\n")

	cfg, err := Load(t.TempDir(), p, nil)
	require.NoError(t, err)
	assert.Equal(t, "explicit", cfg.Profile)
	assert.Equal(t, p, cfg.FileUsed)

	_, err = Load(dir, filepath.Join(dir, "missing.yaml"), nil)
	require.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, "profile: [unclosed\n")

	_, err := Load(dir, "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), FileName)
}

func TestLoad_NegativeTimeout(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, "timeout: -1s\n")

	_, err := Load(dir, "", nil)
	require.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, "profile: docs\nformat: html\n")
	t.Setenv("DIRCHECK_PROFILE", "from-env")
	t.Setenv("DIRCHECK_WATCH_DEBOUNCE", "2s")

	cfg, err := Load(dir, "", nil)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Profile)
	assert.Equal(t, "html", cfg.Format)
	assert.Equal(t, 2*time.Second, cfg.WatchDebounce)
}

func TestLoad_ChangedFlagsWin(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, "profile: docs\nformat: html\ntimeout: 10s\n")
	t.Setenv("DIRCHECK_FORMAT", "json")

	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--format", "junit", "--timeout", "3s"}))

	cfg, err := Load(dir, "", fs)
	require.NoError(t, err)

	assert.Equal(t, "junit", cfg.Format)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	// --profile was not set, so the file value stands.
	assert.Equal(t, "docs", cfg.Profile)
	assert.True(t, cfg.Color, "unset --color must not override the default")
}

func TestLoad_Hooks(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, `
hooks:
  before_run:
    - command: make generate
      error_on_fail: true
  after_run:
    - command: ./notify.sh
      working_directory: scripts
      exit_codes: [0, 3]
`)

	cfg, err := Load(dir, "", nil)
	require.NoError(t, err)

	require.Len(t, cfg.Hooks.BeforeRun, 1)
	assert.Equal(t, "make generate", cfg.Hooks.BeforeRun[0].Command)
	assert.True(t, cfg.Hooks.BeforeRun[0].ErrorOnFail)

	require.Len(t, cfg.Hooks.AfterRun, 1)
	assert.Equal(t, "scripts", cfg.Hooks.AfterRun[0].WorkingDirectory)
	assert.Equal(t, []int{0, 3}, cfg.Hooks.AfterRun[0].ExitCodes)
}
