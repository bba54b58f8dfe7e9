package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spboyer/dircheck/internal/checks"
	"github.com/spboyer/dircheck/internal/profile"
)

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <profile.yaml>...",
		Short: "Validate profile files",
		Long: `Validate profile files against the profile schema and check that every
check they name exists.`,
		Args:          cobra.MinimumNArgs(1),
		RunE:          runValidate,
		SilenceErrors: true,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	invalid := 0

	for _, path := range args {
		p, err := profile.LoadFile(path)
		if err == nil {
			err = p.Validate(checks.Default)
		}
		if err == nil {
			fmt.Fprintf(out, "✓ %s (%s, %d checks)\n", path, p.Name, len(p.Checks)) //nolint:errcheck
			continue
		}

		invalid++
		fmt.Fprintf(out, "✗ %s\n", path) //nolint:errcheck
		var schemaErr *profile.SchemaError
		if errors.As(err, &schemaErr) {
			for _, problem := range schemaErr.Problems {
				fmt.Fprintf(out, "    %s\n", problem) //nolint:errcheck
			}
			continue
		}
		fmt.Fprintf(out, "    %v\n", err) //nolint:errcheck
	}

	if invalid > 0 {
		return &CheckFailureError{Message: fmt.Sprintf("%d of %d profiles invalid", invalid, len(args))}
	}
	return nil
}
