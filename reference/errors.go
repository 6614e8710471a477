package reference

import (
	"errors"
	"fmt"
)

// ErrNoMatch is returned by queries that require at least one
// attribute to carry a given extra-field value.
var ErrNoMatch = errors.New("no attribute matches")

// ErrUnknownAttribute indicates a flag name that is not present in the
// reference.
type ErrUnknownAttribute struct {
	Name string
}

func (e *ErrUnknownAttribute) Error() string {
	return fmt.Sprintf("unknown attribute %q", e.Name)
}

// ErrInvalidReference indicates a malformed reference definition.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrInvalidReference struct {
	Reason string
	cause  error
}

func (e *ErrInvalidReference) Error() string {
	return fmt.Sprintf("invalid reference: %s", e.Reason)
}

func (e *ErrInvalidReference) Unwrap() error { return e.cause }
