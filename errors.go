package flagcol

import (
	"errors"
	"fmt"
)

// ErrEmptyMerge is returned when a merge is attempted with no input
// vectors. A zero-row matrix cannot be bound to a reference when no
// vector is present to supply one.
var ErrEmptyMerge = errors.New("merge requires at least one vector")

// ErrIDMismatch is returned when a merge combines matrices whose
// entity identifiers disagree: identical shape is not enough, the rows
// must describe the same entities in the same order.
var ErrIDMismatch = errors.New("merge operands disagree on entity identifiers")

// ErrShapeMismatch indicates a row width or row count inconsistent
// with the bound reference or the other operand.
type ErrShapeMismatch struct {
	Dim      string // "width" or "rows"
	Expected int
	Actual   int
}

func (e *ErrShapeMismatch) Error() string {
	return fmt.Sprintf("shape mismatch: %s expected %d, got %d", e.Dim, e.Expected, e.Actual)
}

// ErrReferenceMismatch indicates an operation that mixes vectors or
// matrices bound to different reference instances.
type ErrReferenceMismatch struct {
	Expected string // reference version of the receiver
	Actual   string // reference version of the operand
}

func (e *ErrReferenceMismatch) Error() string {
	return fmt.Sprintf("reference mismatch: expected version %q, got %q", e.Expected, e.Actual)
}
