package format

import (
	"errors"
	"fmt"
	"strings"
)

// MalformedInputError reports source data that is present but cannot be
// interpreted.
type MalformedInputError struct {
	Format string
	Source string
	Line   int
	Err    error
}

func (e *MalformedInputError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "malformed %s input", e.Format)
	if e.Source != "" {
		fmt.Fprintf(&sb, " in %s", e.Source)
	}
	if e.Line > 0 {
		fmt.Fprintf(&sb, " at line %d", e.Line)
	}
	if e.Err != nil {
		sb.WriteString(": " + e.Err.Error())
	}
	return sb.String()
}

func (e *MalformedInputError) Unwrap() error { return e.Err }

// Malformed wraps err as a MalformedInputError.
func Malformed(formatName string, opts *ParseOptions, err error) error {
	e := &MalformedInputError{Format: formatName, Err: err}
	if opts != nil {
		e.Source = opts.SourceName
	}
	return e
}

// IsMalformed reports whether err is a MalformedInputError.
func IsMalformed(err error) bool {
	var e *MalformedInputError
	return errors.As(err, &e)
}

// WriteError lists validation failures of written output. The output is
// still produced so callers can inspect it.
type WriteError struct {
	Format string
	Errors []string
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("invalid %s output: %s", e.Format, strings.Join(e.Errors, "; "))
}

// IsWriteError reports whether err is a WriteError.
func IsWriteError(err error) bool {
	var e *WriteError
	return errors.As(err, &e)
}
