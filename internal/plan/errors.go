package plan

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for every failure class the engine can produce.
// Callers match them with errors.Is; the structured Error type below
// carries the offending line, id, or detail alongside the class.
var (
	ErrMalformedDocument  = errors.New("malformed document")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrEmptyTitle         = errors.New("empty title")
	ErrNonContiguousIDs   = errors.New("non-contiguous ids")
	ErrIDOutOfRange       = errors.New("id out of range")
	ErrUnknownID          = errors.New("unknown id")
	ErrMissingField       = errors.New("missing field")
	ErrNoMatch            = errors.New("search matched nothing")
	ErrAmbiguousMatch     = errors.New("search matched more than once")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrConfirmationFailed = errors.New("status confirmation failed")
	ErrIOFailure          = errors.New("i/o failure")
)

// Error is a structured engine error: one of the sentinel classes above
// plus the context needed to report the failure precisely.
type Error struct {
	Kind   error  // one of the Err* sentinels
	Line   int    // 1-based line number, 0 if not line-scoped
	ID     int    // item id, 0 if not id-scoped
	Detail string // human-readable specifics
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Line > 0 {
		fmt.Fprintf(&b, "line %d: ", e.Line)
	}
	if e.ID > 0 {
		fmt.Fprintf(&b, "id %d: ", e.ID)
	}
	b.WriteString(e.Kind.Error())
	if e.Detail != "" {
		fmt.Fprintf(&b, ": %s", e.Detail)
	}
	return b.String()
}

// Unwrap returns the sentinel class so errors.Is works.
func (e *Error) Unwrap() error {
	return e.Kind
}
