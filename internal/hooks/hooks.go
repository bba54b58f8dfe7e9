// Package hooks runs user-configured commands, either around a run
// (before_run / after_run in .dircheck.yaml) or as the command check.
package hooks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
)

// Hook defines a single command.
type Hook struct {
	Command          string `yaml:"command" json:"command" koanf:"command" mapstructure:"command"`
	WorkingDirectory string `yaml:"working_directory,omitempty" json:"working_directory,omitempty" koanf:"working_directory" mapstructure:"working_directory"`
	ExitCodes        []int  `yaml:"exit_codes,omitempty" json:"exit_codes,omitempty" koanf:"exit_codes" mapstructure:"exit_codes"`
	ErrorOnFail      bool   `yaml:"error_on_fail,omitempty" json:"error_on_fail,omitempty" koanf:"error_on_fail" mapstructure:"error_on_fail"`
}

// Config holds the run lifecycle hooks.
type Config struct {
	BeforeRun []Hook `yaml:"before_run,omitempty" json:"before_run,omitempty" koanf:"before_run"`
	AfterRun  []Hook `yaml:"after_run,omitempty" json:"after_run,omitempty" koanf:"after_run"`
}

// Outcome is what running one hook produced.
type Outcome struct {
	ExitCode int
	Output   string
	// Accepted reports whether ExitCode is one the hook allows.
	Accepted bool
}

// Runner executes hook commands. Relative working directories are resolved
// against Dir.
type Runner struct {
	Dir    string
	Logger *slog.Logger
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// Execute runs all hooks for a given lifecycle point, in order.
// name identifies the lifecycle point (e.g. "before_run") for logging and error context.
// A hook exiting with an unexpected code stops the sequence only when it sets ErrorOnFail.
func (r *Runner) Execute(ctx context.Context, name string, hooks []Hook) error {
	for i, h := range hooks {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("hook %s: context canceled: %w", name, err)
		}

		out, err := r.Run(ctx, h)
		if err != nil {
			if h.ErrorOnFail {
				return fmt.Errorf("hook %s[%d]: %w", name, i, err)
			}
			r.logger().Warn("hook failed, continuing", "hook", name, "index", i, "error", err)
			continue
		}

		r.logger().Debug("hook finished", "hook", name, "index", i, "exit_code", out.ExitCode, "output", out.Output)
		if !out.Accepted {
			if h.ErrorOnFail {
				return fmt.Errorf("hook %s[%d]: command exited with code %d", name, i, out.ExitCode)
			}
			r.logger().Warn("hook exited with unexpected code, continuing", "hook", name, "index", i, "exit_code", out.ExitCode)
		}
	}
	return nil
}

// Run executes a single hook and returns its combined output. An error is
// returned only when the command could not be run at all.
func (r *Runner) Run(ctx context.Context, h Hook) (*Outcome, error) {
	if strings.TrimSpace(h.Command) == "" {
		return nil, errors.New("empty command")
	}

	parts := strings.Fields(h.Command)
	//nolint:gosec // hook commands come from the user's own configuration
	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...)
	cmd.Dir = r.workingDir(h)

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	code := 0
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			// Non-exit error (e.g. command not found)
			return nil, err
		}
		code = exitErr.ExitCode()
	}

	return &Outcome{
		ExitCode: code,
		Output:   strings.TrimRight(buf.String(), "\n"),
		Accepted: isAcceptableExit(code, h.ExitCodes),
	}, nil
}

func (r *Runner) workingDir(h Hook) string {
	switch {
	case h.WorkingDirectory == "":
		return r.Dir
	case filepath.IsAbs(h.WorkingDirectory) || r.Dir == "":
		return h.WorkingDirectory
	default:
		return filepath.Join(r.Dir, h.WorkingDirectory)
	}
}

// isAcceptableExit checks whether exitCode is in the allowed list.
// An empty allowedCodes list defaults to allowing only exit code 0.
func isAcceptableExit(exitCode int, allowedCodes []int) bool {
	if len(allowedCodes) == 0 {
		return exitCode == 0
	}
	return slices.Contains(allowedCodes, exitCode)
}
