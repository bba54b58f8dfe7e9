package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
)

// Exit codes for different failure modes
const (
	ExitSuccess     = 0 // All checks passed
	ExitCheckFailed = 1 // One or more checks failed
	ExitError       = 2 // Configuration or runtime error
)

// CheckFailureError indicates that the run completed, but one or more
// checks failed.
type CheckFailureError struct {
	Message string
}

func (e *CheckFailureError) Error() string {
	return e.Message
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := execute(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)

		var checkFailureErr *CheckFailureError
		if errors.As(err, &checkFailureErr) {
			os.Exit(ExitCheckFailed)
		}

		// All other errors are configuration/runtime errors
		os.Exit(ExitError)
	}
	os.Exit(ExitSuccess)
}
