package results

import (
	"errors"
	"fmt"
)

// ErrMissingArgument reports a call made without a required argument. It is
// always a programmer error and is never recovered from.
var ErrMissingArgument = errors.New("required argument is missing")

// InvalidDataError reports semantically invalid domain input: empty time
// sequences, mismatched lengths, out-of-range indexes, inconsistent control
// counts. Operations that return it either fully succeed or fail with no
// mutation.
type InvalidDataError struct {
	Message string
}

func (e *InvalidDataError) Error() string {
	return "invalid data: " + e.Message
}

func invalidDataf(format string, args ...interface{}) error {
	return &InvalidDataError{Message: fmt.Sprintf(format, args...)}
}

// IsInvalidData reports whether err is an InvalidDataError.
func IsInvalidData(err error) bool {
	var invalid *InvalidDataError
	return errors.As(err, &invalid)
}
