package directory

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates no document exists with the requested id
var ErrNotFound = errors.New("not found")

// ValidationError indicates a bad or duplicate write: a missing required
// field, a uniqueness conflict, or a reference to a nonexistent document.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

// NewValidationError builds a ValidationError with a formatted message
func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
