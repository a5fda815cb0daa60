package metadata

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/lehigh-university-libraries/commonmeta/format"
	"github.com/lehigh-university-libraries/commonmeta/hub"
)

// Result is the output of a writer. A result that fails the target's
// validation rules still carries the output, with Valid false and the
// problems in Errors.
type Result struct {
	Format string
	Output []byte
	Valid  bool
	Errors []string

	// Skipped counts not_found records left out of the output
	Skipped int
}

func (r *Result) String() string {
	return string(r.Output)
}

// Write renders the record in the named format. It does not modify m and
// may be called concurrently.
func (m *Metadata) Write(to string, opts *format.SerializeOptions) (*Result, error) {
	return write(format.DefaultRegistry, to, []*hub.Metadata{m.Metadata}, opts)
}

// Write renders every found record of the list as one batch document in
// the named format.
func (l *List) Write(to string, opts *format.SerializeOptions) (*Result, error) {
	return write(format.DefaultRegistry, to, l.Items, opts)
}

// Live returns the records that were found.
func (l *List) Live() []*hub.Metadata {
	return format.Live(l.Items)
}

func write(registry *format.Registry, to string, records []*hub.Metadata, opts *format.SerializeOptions) (*Result, error) {
	s, err := registry.GetSerializer(to)
	if err != nil {
		return nil, err
	}
	live := format.Live(records)
	res := &Result{Format: to, Valid: true, Skipped: len(records) - len(live)}
	if len(live) == 0 {
		return res, nil
	}

	var buf bytes.Buffer
	err = s.Serialize(&buf, live, format.SerializeOptionsOrDefault(opts))
	res.Output = buf.Bytes()
	if err != nil {
		var we *format.WriteError
		if !errors.As(err, &we) {
			return nil, fmt.Errorf("writing %s: %w", to, err)
		}
		res.Valid = false
		res.Errors = we.Errors
	}
	return res, nil
}
