package dmarc

import (
	"context"
	"fmt"
	"strings"

	"github.com/maildrift/spoofcheck/dns"
)

// Lookup retrieves and parses the DMARC record at "_dmarc.<domain>".
//
// This queries the exact domain only; the organizational-domain fallback is
// the evaluator's job, since strength rules differ between an own record and
// an inherited one. Absence is ErrNoRecord; more than one DMARC record at
// the name is ErrMultipleRecords.
func Lookup(ctx context.Context, resolver dns.Resolver, domain string) (txt string, record *Record, authentic bool, err error) {
	name := "_dmarc." + strings.TrimSuffix(domain, ".")

	result, err := resolver.LookupTXT(ctx, name)
	if err != nil {
		if dns.IsNotFound(err) {
			return "", nil, result.Authentic, ErrNoRecord
		}
		return "", nil, result.Authentic, fmt.Errorf("dmarc: lookup %s: %w", name, err)
	}

	for _, raw := range result.Records {
		r, isDMARC := ParseRecord(raw)
		if !isDMARC {
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
