// Package dns provides the DNS lookups the spoofability audit performs.
//
// The audit engine only ever asks one question of DNS: "what TXT records are
// published at this name?". The Resolver interface captures exactly that, so
// the SPF and DMARC evaluators can run against the real resolver, the
// standard library resolver, or a mock in tests.
package dns

import (
	"context"
	"errors"
)

// Lookup errors.
var (
	// ErrNotFound indicates the name does not exist (NXDOMAIN) or has no
	// records of the requested type. For the audit this is a first-class
	// outcome, not a failure.
	ErrNotFound = errors.New("dns: name or record not found")

	// ErrTimeout indicates the query did not complete in time.
	ErrTimeout = errors.New("dns: query timeout")

	// ErrServFail indicates the upstream resolver returned SERVFAIL.
	ErrServFail = errors.New("dns: server failure")

	// ErrRefused indicates the upstream resolver refused the query.
	ErrRefused = errors.New("dns: query refused")

	// ErrBogus indicates a DNSSEC validation failure. Only returned when the
	// resolver was configured with DNSSEC enabled.
	ErrBogus = errors.New("dns: dnssec validation failed")
)

// IsNotFound reports whether err means the record does not exist, as opposed
// to a lookup that could not be completed. Callers use this to tell "nothing
// published" apart from "could not check".
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsTimeout reports whether err is a query timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsServFail reports whether err is an upstream server failure.
func IsServFail(err error) bool {
	return errors.Is(err, ErrServFail)
}

// IsTemporary reports whether a later retry of the lookup may succeed.
func IsTemporary(err error) bool {
	return IsTimeout(err) || IsServFail(err) || errors.Is(err, ErrRefused)
}

// Result is the outcome of a successful lookup.
type Result[T any] struct {
	// Records are the answers, in response order.
	Records []T

	// Authentic indicates the response was DNSSEC-validated (AD bit set by a
	// validating resolver). Always false for resolvers without DNSSEC support.
	Authentic bool
}

// Resolver issues DNS queries for the audit engine.
// Implementations must be safe for concurrent use.
type Resolver interface {
	// LookupTXT retrieves TXT records for name. Records split into multiple
	// character-strings are joined, per RFC 7208 Section 3.3.
	LookupTXT(ctx context.Context, name string) (Result[string], error)
}
