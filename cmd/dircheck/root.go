package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dircheck",
		Short: "dircheck - run a profile of checks against a directory",
		Long: `dircheck runs a profile of checks against a directory and reports
what each check found.

Profiles are YAML files naming the checks to run and their options. The
built-in profiles can be overridden or extended from the project's
profiles directory (see .dircheck.yaml).`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	cmd.AddCommand(newRunCommand())
	cmd.AddCommand(newChecksCommand())
	cmd.AddCommand(newProfilesCommand())
	cmd.AddCommand(newValidateCommand())

	return cmd
}

func execute(ctx context.Context) error {
	rootCmd := newRootCommand()
	return rootCmd.ExecuteContext(ctx)
}
