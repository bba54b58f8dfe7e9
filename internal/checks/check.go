// Package checks defines the Check contract, the registry checks are
// constructed from, and the built-in checks that inspect a directory.
package checks

//go:generate go tool mockgen -source=check.go -destination=mocks/mock_check.go -package=mocks

import (
	"context"

	"github.com/spboyer/dircheck/internal/report"
)

// Callback receives the outcome of a check. A non-empty errs means the check
// failed and rep is ignored. A nil rep with no errors means the check had
// nothing to report.
type Callback func(rep report.Report, errs []error)

// Check inspects a directory and reports through done. Execute may return
// before done is called, and done may be invoked from any goroutine, but it
// must be invoked once.
type Check interface {
	Execute(ctx context.Context, dir string, done Callback)
}

// RunFunc adapts a synchronous inspection to the [Check] interface. A joined
// error (see [errors.Join]) is delivered as its individual errors.
type RunFunc func(ctx context.Context, dir string) (report.Report, error)

func (f RunFunc) Execute(ctx context.Context, dir string, done Callback) {
	rep, err := f(ctx, dir)
	if err != nil {
		done(nil, splitErrors(err))
		return
	}
	done(rep, nil)
}

func splitErrors(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}
