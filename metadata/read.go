package metadata

import (
	"bytes"
	"context"
	"fmt"

	"github.com/lehigh-university-libraries/commonmeta/fetch"
	"github.com/lehigh-university-libraries/commonmeta/format"
	"github.com/lehigh-university-libraries/commonmeta/hub"
)

// Metadata is a normalized record together with the reader that produced
// it.
type Metadata struct {
	*hub.Metadata

	// Via is the name of the format the record was read from
	Via string
}

// List is a batch of records read from one input.
type List struct {
	Items []*hub.Metadata
	Via   string
}

// Read dispatches input and returns its first record. A record that is not
// available upstream is returned in the not_found state with a nil error.
func (c *Client) Read(ctx context.Context, input, via string) (*Metadata, error) {
	list, err := c.ReadList(ctx, input, via)
	if err != nil {
		return nil, err
	}
	return &Metadata{Metadata: list.Items[0], Via: list.Via}, nil
}

// ReadList dispatches input and returns every record it holds. The list
// is never empty.
func (c *Client) ReadList(ctx context.Context, input, via string) (*List, error) {
	src, err := c.Dispatch(ctx, input, via)
	if fetch.IsNotFound(err) {
		return &List{Items: []*hub.Metadata{hub.NotFound(notFoundID(input))}, Via: via}, nil
	}
	if err != nil {
		return nil, err
	}
	return c.Parse(src)
}

// Parse runs the reader chosen for src.
func (c *Client) Parse(src *Source) (*List, error) {
	p, err := c.registry.GetParser(src.Via)
	if err != nil {
		return nil, &DispatchError{Input: src.Name, Reason: err.Error()}
	}
	opts := &format.ParseOptions{
		DOI:        src.DOI,
		SourceURL:  src.URL,
		SourceName: src.Name,
		StripHTML:  c.stripHTML,
	}
	records, err := p.Parse(bytes.NewReader(src.Data), opts)
	if err != nil {
		return nil, fmt.Errorf("reading %s as %s: %w", src.Name, src.Via, err)
	}
	if len(records) == 0 {
		records = []*hub.Metadata{hub.NotFound(format.RecordID(opts))}
	}
	return &List{Items: records, Via: src.Via}, nil
}

// ReadAll reads several inputs one after another. Records that are not
// found stay in the list; dispatch and malformed-input errors stop the
// batch.
func (c *Client) ReadAll(ctx context.Context, inputs []string, via string) (*List, error) {
	all := &List{Via: via}
	for _, input := range inputs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		list, err := c.ReadList(ctx, input, via)
		if err != nil {
			return nil, err
		}
		all.Items = append(all.Items, list.Items...)
	}
	return all, nil
}

// notFoundID is the identifier reported for an input that could not be
// fetched.
func notFoundID(input string) string {
	if id := hub.DOIAsURL(input); id != "" {
		return id
	}
	if u := hub.NormalizeURL(input); u != "" {
		return u
	}
	return ""
}
