package spf

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/maildrift/spoofcheck/audit"
	"github.com/maildrift/spoofcheck/dns"
)

// SPF lookup errors.
var (
	// ErrNoRecord indicates the domain publishes no SPF record.
	ErrNoRecord = errors.New("spf: no SPF record found")

	// ErrMultipleRecords indicates the domain publishes more than one SPF
	// record. Per RFC 7208 Section 4.5 receivers must treat this as a
	// permanent error, so no policy is in effect.
	ErrMultipleRecords = errors.New("spf: multiple SPF records found")
)

// lookupsMax bounds the total number of TXT lookups a single evaluation may
// perform across redirect= and include: delegations. The chain is published
// by the domain under audit (or whoever controls its DNS), so it cannot be
// trusted to terminate on its own. Matches the RFC 7208 processing limit.
const lookupsMax = 10

// Lookup retrieves and parses the SPF record for domain.
//
// Returns the raw record text, the parsed record, and whether the DNS answer
// was DNSSEC-validated. Absence of a record is ErrNoRecord; more than one is
// ErrMultipleRecords.
func Lookup(ctx context.Context, resolver dns.Resolver, domain string) (txt string, record *Record, authentic bool, err error) {
	result, err := resolver.LookupTXT(ctx, domain)
	if err != nil {
		if dns.IsNotFound(err) {
			return "", nil, result.Authentic, ErrNoRecord
		}
		return "", nil, result.Authentic, fmt.Errorf("spf: lookup %s: %w", domain, err)
	}

	for _, raw := range result.Records {
		r, isSPF := ParseRecord(raw)
		if !isSPF {
			continue
		}
		if record != nil {
			return "", nil, result.Authentic, ErrMultipleRecords
		}
		txt = strings.Trim(strings.TrimSpace(raw), `"`)
		record = r
	}

	if record == nil {
		return "", nil, result.Authentic, ErrNoRecord
	}
	return txt, record, result.Authentic, nil
}

// IsStrong reports whether the domain's effective SPF policy is strong: the
// record, or one reached through its delegations, ends in "-all" or "~all".
//
// Evaluation order per record: a restrictive "all" wins outright; otherwise a
// "redirect=" target decides; otherwise any strong "include:" target decides;
// otherwise the record is weak. A missing record, a malformed record, a DNS
// failure, a delegation loop and an exhausted lookup budget are all weak.
//
// Findings are appended to trail as a side channel.
func IsStrong(ctx context.Context, resolver dns.Resolver, domain string, trail *audit.Trail) bool {
	budget := lookupsMax
	seen := make(map[string]bool)
	return isStrong(ctx, resolver, normalize(domain), trail, seen, &budget)
}

func isStrong(ctx context.Context, resolver dns.Resolver, domain string, trail *audit.Trail, seen map[string]bool, budget *int) bool {
	if seen[domain] {
		trail.Errorf(audit.AxisSPF, "SPF delegation loop: %s was already evaluated, treating as weak", domain)
		return false
	}
	seen[domain] = true

	if *budget <= 0 {
		trail.Errorf(audit.AxisSPF, "SPF evaluation exceeded the limit of %d lookups at %s, treating as weak", lookupsMax, domain)
		return false
	}
	*budget--

	txt, record, authentic, err := Lookup(ctx, resolver, domain)
	switch {
	case errors.Is(err, ErrNoRecord):
		trail.Warnf(audit.AxisSPF, "%s has no SPF record", domain)
		return false
	case errors.Is(err, ErrMultipleRecords):
		trail.Errorf(audit.AxisSPF, "%s publishes multiple SPF records; receivers discard all of them", domain)
		return false
	case err != nil:
		trail.Errorf(audit.AxisSPF, "could not check SPF for %s: %v", domain, err)
		return false
	}

	trail.Infof(audit.AxisSPF, "%s SPF record: %q", domain, txt)
	if authentic {
		trail.Infof(audit.AxisSPF, "%s SPF answer was DNSSEC-validated", domain)
	}

	if qualifier, ok := record.AllQualifier(); ok {
		switch qualifier {
		case "-":
			trail.Infof(audit.AxisSPF, "%s SPF enforces a hard fail (-all)", domain)
			return true
		case "~":
			trail.Infof(audit.AxisSPF, "%s SPF enforces a soft fail (~all)", domain)
			return true
		case "?":
			trail.Warnf(audit.AxisSPF, "%s SPF default is neutral (?all); spoofed mail is not rejected", domain)
		default:
			trail.Warnf(audit.AxisSPF, "%s SPF allows any host (%sall)", domain, qualifier)
		}
		// A permissive "all" is weak on its own, but a delegation below may
		// still carry the restrictive default.
	}

	if record.Redirect != "" {
		trail.Infof(audit.AxisSPF, "%s SPF redirects to %s", domain, record.Redirect)
		if isStrong(ctx, resolver, record.Redirect, trail, seen, budget) {
			return true
		}
		trail.Warnf(audit.AxisSPF, "%s SPF redirect target %s is weak", domain, record.Redirect)
		return false
	}

	for _, include := range record.Includes() {
		trail.Infof(audit.AxisSPF, "%s SPF includes %s", domain, include)
		if isStrong(ctx, resolver, include, trail, seen, budget) {
			return true
		}
	}

	trail.Warnf(audit.AxisSPF, "%s SPF record has no restrictive default; spoofed mail is not rejected", domain)
	return false
}

// normalize lower-cases a domain and strips the trailing dot.
func normalize(domain string) string {
	return strings.ToLower(strings.TrimSuffix(domain, "."))
}
