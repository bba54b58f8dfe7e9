package checks

import (
	"context"
	"errors"
	"fmt"

	"github.com/spboyer/dircheck/internal/hooks"
	"github.com/spboyer/dircheck/internal/report"
)

func init() {
	Register(Definition{
		ID:          "command",
		Description: "Runs a command in the directory and checks its exit code",
		Factory:     newCommand,
	})
}

// CommandArgs holds the options of the command check.
type CommandArgs struct {
	Command          string `mapstructure:"command"`
	WorkingDirectory string `mapstructure:"working_directory"`
	ExitCodes        []int  `mapstructure:"exit_codes"`
	// ErrorOnFail turns an unexpected exit code into a failure instead of a
	// warning finding. Defaults to true.
	ErrorOnFail bool `mapstructure:"error_on_fail"`
	// ShowOutput reports the command's output even when it succeeds.
	ShowOutput bool `mapstructure:"show_output"`
}

type commandCheck struct {
	args CommandArgs
}

func newCommand(opts Options) (Check, error) {
	args := CommandArgs{ErrorOnFail: true}
	if err := DecodeOptions(opts, &args); err != nil {
		return nil, fmt.Errorf("command: %w", err)
	}
	if args.Command == "" {
		return nil, errors.New("command: 'command' is required")
	}
	if args.WorkingDirectory != "" {
		if err := validateRelPath(args.WorkingDirectory); err != nil {
			return nil, fmt.Errorf("command: %w", err)
		}
	}
	return &commandCheck{args: args}, nil
}

// Execute runs the command on its own goroutine and calls back when it exits.
func (c *commandCheck) Execute(ctx context.Context, dir string, done Callback) {
	go func() {
		if err := requireDir(dir); err != nil {
			done(nil, []error{err})
			return
		}

		runner := &hooks.Runner{Dir: dir}
		out, err := runner.Run(ctx, hooks.Hook{
			Command:          c.args.Command,
			WorkingDirectory: c.args.WorkingDirectory,
			ExitCodes:        c.args.ExitCodes,
		})
		if err != nil {
			done(nil, []error{fmt.Errorf("running %q: %w", c.args.Command, err)})
			return
		}

		if !out.Accepted {
			msg := fmt.Sprintf("%q exited with code %d", c.args.Command, out.ExitCode)
			if out.Output != "" {
				msg += ": " + out.Output
			}
			if c.args.ErrorOnFail {
				done(nil, []error{errors.New(msg)})
				return
			}
			done(&report.Findings{Title: "Command", Items: []report.Finding{
				{Severity: report.SeverityWarning, Message: msg},
			}}, nil)
			return
		}

		if c.args.ShowOutput && out.Output != "" {
			done(report.NewSummary(c.args.Command, out.Output), nil)
			return
		}
		done(nil, nil)
	}()
}
