package fetch

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a remote record cannot be obtained: the
// server answered with a 4xx or 5xx status or the body was empty.
var ErrNotFound = errors.New("not found")

// StatusError carries the HTTP status of a failed fetch. It matches
// ErrNotFound under errors.Is.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetching %s: HTTP %d", e.URL, e.StatusCode)
}

// Is reports whether target is ErrNotFound.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound
}

// IsNotFound reports whether err means the record is unavailable.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
