package checks

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownCheck is returned when a check id has no registry entry.
	ErrUnknownCheck = errors.New("unknown check")

	// ErrDuplicateCheck is returned when registering an id twice.
	ErrDuplicateCheck = errors.New("check already registered")
)

// PanicError wraps a value recovered from a panicking check.
type PanicError struct {
	CheckID string
	Value   any
	Stack   []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("check %q panicked: %v", e.CheckID, e.Value)
}

// Unwrap exposes the recovered value when it was itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
