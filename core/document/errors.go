package document

import (
	"errors"
	"fmt"
)

// ErrNotFound marks a lookup that matched no document. Boundaries map it to a
// 404-equivalent; nothing in the engine recovers from it.
var ErrNotFound = errors.New("document not found")

// ErrSingleTypeExists is the tagged rejection of a second create on a single
// content type. It is a policy decision, not a lookup failure, and boundaries
// map it to a 400-equivalent.
var ErrSingleTypeExists = errors.New("single type already has a document")

// UniqueConstraintError reports a unique-attribute collision, naming the
// offending attribute.
type UniqueConstraintError struct {
	Field string
}

func (e *UniqueConstraintError) Error() string {
	return fmt.Sprintf("another document already has this value for %q", e.Field)
}

// ValidationError reports a payload value that does not fit its attribute's
// declared type.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid value for %q: %s", e.Field, e.Reason)
}
