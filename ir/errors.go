package ir

import "fmt"

// InvariantViolation reports a caller bug: an out-of-scope variable use, or
// blocks opened/closed in the wrong order. Code only constructs and panics
// with this in debug mode; callers that want to recover from it may do so
// with recover(), but release builds are not required to check for it at
// all — fatal in debug, undefined in release.
type InvariantViolation struct {
	Reason string
	Op     Kind
	Index  int
	Want   int
	Got    int
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("ir: invariant violation at instruction %d (%s): %s (want %d, got %d)",
		e.Index, e.Op, e.Reason, e.Want, e.Got)
}
