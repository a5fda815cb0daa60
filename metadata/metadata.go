// Package metadata is the entry point of the library: it dispatches an
// arbitrary input (a DOI, a URL, a local file or a raw record) to the right
// reader and writes the normalized record in any supported format.
//
//	c := metadata.New()
//	m, err := c.Read(ctx, "10.7554/elife.01567", "")
//	if err != nil {
//		return err
//	}
//	res, err := m.Write("bibtex", nil)
package metadata

import (
	"github.com/lehigh-university-libraries/commonmeta/fetch"
	"github.com/lehigh-university-libraries/commonmeta/format"

	// Register all format plugins
	_ "github.com/lehigh-university-libraries/commonmeta/format/arxiv"
	_ "github.com/lehigh-university-libraries/commonmeta/format/bibtex"
	_ "github.com/lehigh-university-libraries/commonmeta/format/cff"
	_ "github.com/lehigh-university-libraries/commonmeta/format/codemeta"
	_ "github.com/lehigh-university-libraries/commonmeta/format/commonmeta"
	_ "github.com/lehigh-university-libraries/commonmeta/format/crossref"
	_ "github.com/lehigh-university-libraries/commonmeta/format/crossrefxml"
	_ "github.com/lehigh-university-libraries/commonmeta/format/csl"
	_ "github.com/lehigh-university-libraries/commonmeta/format/csv"
	_ "github.com/lehigh-university-libraries/commonmeta/format/datacite"
	_ "github.com/lehigh-university-libraries/commonmeta/format/datacitexml"
	_ "github.com/lehigh-university-libraries/commonmeta/format/dublincore"
	_ "github.com/lehigh-university-libraries/commonmeta/format/inveniordm"
	_ "github.com/lehigh-university-libraries/commonmeta/format/jsonfeed"
	_ "github.com/lehigh-university-libraries/commonmeta/format/kbase"
	_ "github.com/lehigh-university-libraries/commonmeta/format/mods"
	_ "github.com/lehigh-university-libraries/commonmeta/format/openalex"
	_ "github.com/lehigh-university-libraries/commonmeta/format/proquest"
	_ "github.com/lehigh-university-libraries/commonmeta/format/ris"
	_ "github.com/lehigh-university-libraries/commonmeta/format/schemaorg"
)

// Client reads metadata from any supported source. A Client is safe for
// concurrent use when its Fetcher is.
type Client struct {
	fetcher   fetch.Fetcher
	agency    fetch.AgencyResolver
	endpoints fetch.Endpoints
	registry  *format.Registry
	stripHTML bool
}

// Option configures a Client.
type Option func(*Client)

// WithFetcher sets the Fetcher used for remote records.
func WithFetcher(f fetch.Fetcher) Option {
	return func(c *Client) {
		c.fetcher = f
	}
}

// WithAgencyResolver sets how DOI registration agencies are resolved.
func WithAgencyResolver(r fetch.AgencyResolver) Option {
	return func(c *Client) {
		c.agency = r
	}
}

// WithEndpoints overrides the API base URLs remote records are fetched from.
func WithEndpoints(e fetch.Endpoints) Option {
	return func(c *Client) {
		c.endpoints = e
	}
}

// WithRegistry sets the format registry (default: format.DefaultRegistry).
func WithRegistry(r *format.Registry) Option {
	return func(c *Client) {
		c.registry = r
	}
}

// WithStripHTML makes readers drop all markup from descriptions.
func WithStripHTML(strip bool) Option {
	return func(c *Client) {
		c.stripHTML = strip
	}
}

// New creates a Client backed by a fetch.Client with default settings.
func New(opts ...Option) *Client {
	client := fetch.NewClient()
	c := &Client{
		fetcher:   client,
		agency:    fetch.NewAgencyCache(client),
		endpoints: client.Endpoints(),
		registry:  format.DefaultRegistry,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewWithClient creates a Client that fetches and resolves agencies through
// client, sharing its endpoints.
func NewWithClient(client *fetch.Client, opts ...Option) *Client {
	base := []Option{
		WithFetcher(client),
		WithAgencyResolver(fetch.NewAgencyCache(client)),
		WithEndpoints(client.Endpoints()),
	}
	return New(append(base, opts...)...)
}
