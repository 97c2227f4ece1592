package dns

import (
	"context"
	"slices"
)

// MockResolver is a Resolver for tests. TXT maps FQDNs (with trailing dot) to
// record values.
type MockResolver struct {
	TXT map[string][]string

	// Fail lists FQDNs whose lookup returns ErrServFail.
	Fail []string

	// Timeout lists FQDNs whose lookup returns ErrTimeout.
	Timeout []string

	// AllAuthentic sets the default Authentic value in responses.
	// Overridden per name by Authentic and Inauthentic.
	AllAuthentic bool

	// Authentic lists FQDNs whose responses have Authentic=true.
	Authentic []string

	// Inauthentic lists FQDNs whose responses have Authentic=false.
	Inauthentic []string
}

var _ Resolver = MockResolver{}

// LookupTXT returns the configured TXT records for name.
func (r MockResolver) LookupTXT(ctx context.Context, name string) (Result[string], error) {
	if err := ctx.Err(); err != nil {
		return Result[string]{}, err
	}

	name = fqdn(name)
	result := Result[string]{Authentic: r.AllAuthentic}
	if slices.Contains(r.Authentic, name) {
		result.Authentic = true
	}
	if slices.Contains(r.Inauthentic, name) {
		result.Authentic = false
	}

	if slices.Contains(r.Fail, name) {
		return result, ErrServFail
	}
	if slices.Contains(r.Timeout, name) {
		return result, ErrTimeout
	}

	records, ok := r.TXT[name]
	if !ok || len(records) == 0 {
		return result, ErrNotFound
	}
	result.Records = records
	return result, nil
}
