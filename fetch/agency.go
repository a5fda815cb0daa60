package fetch

import (
	"context"
	"fmt"
	"sync"

	"github.com/segmentio/encoding/json"

	"github.com/lehigh-university-libraries/commonmeta/hub"
)

// Registration agencies as reported by doi.org.
const (
	AgencyCrossref = "Crossref"
	AgencyDataCite = "DataCite"
	AgencyMEDRA    = "mEDRA"
	AgencyKISTI    = "KISTI"
	AgencyJaLC     = "JaLC"
	AgencyOP       = "OP"
	AgencyCNKI     = "CNKI"
)

type agencyResponse struct {
	DOI    string `json:"DOI"`
	RA     string `json:"RA"`
	Status string `json:"status"`
}

// RegistrationAgency resolves the registration agency of a DOI through the
// doi.org /ra endpoint. An unknown prefix yields an error matching
// ErrNotFound.
func (c *Client) RegistrationAgency(ctx context.Context, doi string) (string, error) {
	prefix := hub.DOIPrefix(doi)
	if prefix == "" {
		return "", fmt.Errorf("%w: %q is not a DOI", ErrNotFound, doi)
	}
	body, err := c.Fetch(ctx, c.endpoints.AgencyURL(prefix))
	if err != nil {
		return "", err
	}
	var resp []agencyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decoding agency response: %w", err)
	}
	if len(resp) == 0 || resp[0].RA == "" {
		return "", fmt.Errorf("%w: no registration agency for %s", ErrNotFound, prefix)
	}
	return resp[0].RA, nil
}

// AgencyResolver resolves DOI registration agencies.
type AgencyResolver interface {
	RegistrationAgency(ctx context.Context, doi string) (string, error)
}

// AgencyCache memoizes agency lookups by DOI prefix. Failed lookups are
// not cached.
type AgencyCache struct {
	resolver AgencyResolver
	mu       sync.RWMutex
	byPrefix map[string]string
}

// NewAgencyCache wraps r.
func NewAgencyCache(r AgencyResolver) *AgencyCache {
	return &AgencyCache{resolver: r, byPrefix: map[string]string{}}
}

// RegistrationAgency implements AgencyResolver.
func (a *AgencyCache) RegistrationAgency(ctx context.Context, doi string) (string, error) {
	prefix := hub.DOIPrefix(doi)
	a.mu.RLock()
	ra, ok := a.byPrefix[prefix]
	a.mu.RUnlock()
	if ok {
		return ra, nil
	}
	ra, err := a.resolver.RegistrationAgency(ctx, doi)
	if err != nil {
		return "", err
	}
	a.mu.Lock()
	a.byPrefix[prefix] = ra
	a.mu.Unlock()
	return ra, nil
}
