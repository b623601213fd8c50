package catalog

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrNotFound means the referenced app or record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden means the caller is authenticated but not allowed to act
	// on the record (wrong owner, or private visibility without access).
	ErrForbidden = errors.New("not authorized")
)

// ValidationError marks missing or malformed caller input.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func invalidf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
