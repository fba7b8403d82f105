package args

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig is wrapped by every error New returns.
	ErrConfig = errors.New("args: invalid transformer configuration")
	// ErrInvalidContainer reports a node or argument mapping of the wrong shape.
	ErrInvalidContainer = errors.New("args: invalid argument container")
)

// FieldError is returned when the function registered for Field fails.
// Fields processed before it keep their new values.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("args: transform %q: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }
