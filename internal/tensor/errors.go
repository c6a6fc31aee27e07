package tensor

import "fmt"

// ShapeError reports that operand shapes are not broadcast or contraction
// compatible. Kernel operations panic with a *ShapeError on misuse; callers
// that need a recoverable error (the layer API) convert it at the boundary.
type ShapeError struct {
	Op     string // Operation that detected the mismatch (e.g., "matmul").
	Detail string // Human-readable description of the mismatch.
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Detail)
}

// BoundsError reports a violated lower ≤ value ≤ upper post-condition.
//
// This is a programming-error guard, not a user-facing failure: it can only
// fire when debug bounds checking is enabled (see SetDebugBoundsCheck) and
// indicates a bug in a kernel operation, never malformed caller input.
type BoundsError struct {
	Op    string  // Operation whose result violated the invariant.
	Index int     // Flat element index of the first violation.
	Lower float64 // Lower bound at that element.
	Value float64 // Value at that element.
	Upper float64 // Upper bound at that element.
}

// Error implements the error interface.
func (e *BoundsError) Error() string {
	return fmt.Sprintf("%s: bounds invariant violated at element %d: lower=%g value=%g upper=%g",
		e.Op, e.Index, e.Lower, e.Value, e.Upper)
}

// shapeErrorf builds a *ShapeError with a formatted detail message.
func shapeErrorf(op, format string, args ...any) *ShapeError {
	return &ShapeError{Op: op, Detail: fmt.Sprintf(format, args...)}
}
