package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func runCommand(cmd *cobra.Command, args ...string) (string, error) {
	var output bytes.Buffer
	cmd.SetOut(&output)
	cmd.SetErr(&output)
	cmd.SetIn(bytes.NewReader(nil))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return output.String(), err
}

func TestRunCommand_DefaultProfile(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"README.md":     "# Project\n\nSee [guide](docs/guide.md) and [missing](docs/nope.md).\n",
		"docs/guide.md": "# Guide\n",
		"config.yaml":   "name: demo\n",
	})

	out, err := runCommand(newRunCommand(), dir)
	require.NoError(t, err)

	assert.Contains(t, out, "profile default")
	assert.Contains(t, out, "Inventory, 3 files, 1 directories, Checked "+dir)
	assert.Contains(t, out, "link docs/nope.md: target does not exist")
	assert.NotContains(t, out, "docs/guide.md: target does not exist")
	assert.Contains(t, out, "All 4 checks passed")
}

func TestRunCommand_FailingCheckExitsWithFailure(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		".dircheck/profiles/broken.yaml": "name: broken\nchecks:\n  - inventory\n  - json-schema\n",
	})

	out, err := runCommand(newRunCommand(), dir, "--profile", "broken")
	require.Error(t, err)

	var failure *CheckFailureError
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, "1 of 2 checks failed", failure.Message)
	assert.Contains(t, out, "'schema' is required")
	assert.Contains(t, out, "Inventory")
}

func TestRunCommand_UnknownProfile(t *testing.T) {
	_, err := runCommand(newRunCommand(), t.TempDir(), "--profile", "nope")
	require.Error(t, err)

	var failure *CheckFailureError
	assert.False(t, errors.As(err, &failure))
	assert.Contains(t, err.Error(), `unknown profile "nope"`)
	assert.Contains(t, err.Error(), "default")
}

func TestRunCommand_NotADirectory(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"file.txt": "x"})

	_, err := runCommand(newRunCommand(), filepath.Join(dir, "file.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not a directory")
}

func TestRunCommand_JSONOutputFromExtension(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"README.md": "# Hi\n"})
	outPath := filepath.Join(t.TempDir(), "out", "report.json")

	out, err := runCommand(newRunCommand(), dir, "--profile", "docs", "--output", outPath)
	require.NoError(t, err)
	assert.Contains(t, out, "report written to "+outPath)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	var decoded struct {
		Profile string `json:"profile"`
		Checks  []struct {
			Check  string `json:"check"`
			Status string `json:"status"`
			Body   string `json:"body"`
		} `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "docs", decoded.Profile)
	require.Len(t, decoded.Checks, 2)
	assert.Equal(t, "readme", decoded.Checks[0].Check)
	assert.Contains(t, decoded.Checks[0].Body, "<h1>Hi</h1>")
	assert.Equal(t, "ignored", decoded.Checks[1].Status)
}

func TestRunCommand_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		".dircheck.yaml": "profile: docs\nformat: junit\n",
		"README.md":      "# Hi\n",
	})

	out, err := runCommand(newRunCommand(), dir)
	require.NoError(t, err)
	assert.Contains(t, out, "<?xml")
	assert.Contains(t, out, `<testsuite name="docs"`)
}

func TestRunCommand_BadFormat(t *testing.T) {
	_, err := runCommand(newRunCommand(), t.TempDir(), "--format", "pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestChecksCommand(t *testing.T) {
	out, err := runCommand(newChecksCommand())
	require.NoError(t, err)

	for _, id := range []string{"required-files", "markdown-links", "yaml-syntax", "json-schema", "readme", "inventory", "command"} {
		assert.Contains(t, out, id)
	}
}

func TestProfilesCommand(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		".dircheck/profiles/team.yaml": "name: team\ndescription: Team rules\nchecks: [inventory]\n",
	})

	out, err := runCommand(newProfilesCommand(), dir)
	require.NoError(t, err)

	assert.Contains(t, out, "default")
	assert.Contains(t, out, "docs")
	assert.Contains(t, out, "team")
	assert.Contains(t, out, "Team rules")
	assert.Contains(t, out, "built-in")
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"good.yaml":    "name: good\nchecks: [inventory, readme]\n",
		"unknown.yaml": "name: unknown\nchecks: [inventory, nope]\n",
		"schema.yaml":  "checks: [inventory]\n",
	})

	out, err := runCommand(newValidateCommand(), filepath.Join(dir, "good.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "✓")
	assert.Contains(t, out, "good, 2 checks")

	out, err = runCommand(newValidateCommand(),
		filepath.Join(dir, "good.yaml"), filepath.Join(dir, "unknown.yaml"), filepath.Join(dir, "schema.yaml"))
	require.Error(t, err)

	var failure *CheckFailureError
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, "2 of 3 profiles invalid", failure.Message)
	assert.Contains(t, out, "unknown check")
	assert.Contains(t, out, `"nope"`)
	assert.Contains(t, out, "name")
}

func TestRunCommand_Hooks(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		".dircheck.yaml": "profile: docs\nhooks:\n  before_run:\n    - command: touch before.marker\n  after_run:\n    - command: touch after.marker\n",
		"README.md":      "# Hi\n",
	})

	_, err := runCommand(newRunCommand(), dir)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "before.marker"))
	assert.FileExists(t, filepath.Join(dir, "after.marker"))
}

func TestRunCommand_FatalBeforeHook(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		".dircheck.yaml": "hooks:\n  before_run:\n    - command: \"false\"\n      error_on_fail: true\n",
	})

	_, err := runCommand(newRunCommand(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "before_run[0]")

	var failure *CheckFailureError
	assert.False(t, errors.As(err, &failure))
}
