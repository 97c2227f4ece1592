package dmarc

import (
	"context"
	"errors"
	"strings"

	"github.com/maildrift/spoofcheck/audit"
	"github.com/maildrift/spoofcheck/dns"
)

// IsStrong reports whether an effective, applicable DMARC policy of
// "quarantine" or "reject" covers the domain.
//
// The domain's own record is consulted first. Without one, the record at the
// organizational domain applies: its "sp" tag if present, its "p" tag
// otherwise. The fallback is a single hop; the organizational domain of an
// organizational domain is itself. Absent records, unparseable policy and
// DNS failures are all weak.
//
// Findings are appended to trail as a side channel.
func IsStrong(ctx context.Context, resolver dns.Resolver, domain string, trail *audit.Trail) bool {
	domain = strings.ToLower(strings.TrimSuffix(domain, "."))

	txt, record, authentic, err := Lookup(ctx, resolver, domain)
	switch {
	case err == nil:
		trail.Infof(audit.AxisDMARC, "%s DMARC record: %q", domain, txt)
		if authentic {
			trail.Infof(audit.AxisDMARC, "%s DMARC answer was DNSSEC-validated", domain)
		}
		return evalPolicy(record, domain, trail)
	case errors.Is(err, ErrMultipleRecords):
		trail.Errorf(audit.AxisDMARC, "%s publishes multiple DMARC records; receivers treat this as no DMARC at all", domain)
		return false
	case !errors.Is(err, ErrNoRecord):
		trail.Errorf(audit.AxisDMARC, "could not check DMARC for %s: %v", domain, err)
		return false
	}

	// No record at the exact name: fall back to the organizational domain.
	org := OrganizationalDomain(domain)
	if org == "" || org == domain {
		trail.Warnf(audit.AxisDMARC, "%s has no DMARC record", domain)
		return false
	}
	trail.Infof(audit.AxisDMARC, "%s has no DMARC record; checking organizational domain %s", domain, org)

	txt, record, authentic, err = Lookup(ctx, resolver, org)
	switch {
	case errors.Is(err, ErrNoRecord):
		trail.Warnf(audit.AxisDMARC, "neither %s nor %s publishes a DMARC record", domain, org)
		return false
	case errors.Is(err, ErrMultipleRecords):
		trail.Errorf(audit.AxisDMARC, "%s publishes multiple DMARC records; receivers treat this as no DMARC at all", org)
		return false
	case err != nil:
		trail.Errorf(audit.AxisDMARC, "could not check DMARC for %s: %v", org, err)
		return false
	}

	trail.Infof(audit.AxisDMARC, "%s DMARC record: %q", org, txt)
	if authentic {
		trail.Infof(audit.AxisDMARC, "%s DMARC answer was DNSSEC-validated", org)
	}

	// An explicit subdomain policy on the organizational record covers the
	// queried subdomain directly.
	if sp := record.SubdomainPolicy; sp != PolicyAbsent {
		if sp.Enforcing() {
			trail.Infof(audit.AxisDMARC, "%s subdomain policy sp=%s covers %s", org, sp, domain)
			return true
		}
		trail.Warnf(audit.AxisDMARC, "%s subdomain policy sp=%s leaves %s unenforced", org, sp, domain)
		return false
	}

	return evalPolicy(record, org, trail)
}

// evalPolicy judges a record by its own policy tag and emits the reporting
// observations for weak records.
func evalPolicy(record *Record, domain string, trail *audit.Trail) bool {
	if policy := record.Policy; policy.Enforcing() {
		trail.Infof(audit.AxisDMARC, "%s DMARC policy p=%s acts on failing mail", domain, policy)
		if record.Percentage != 100 {
			trail.Warnf(audit.AxisDMARC, "%s DMARC pct=%d; the policy is applied to only part of failing mail", domain, record.Percentage)
		}
		return true
	}

	if record.Policy == PolicyAbsent {
		trail.Warnf(audit.AxisDMARC, "%s DMARC record has no policy tag; failing mail is delivered", domain)
	} else {
		trail.Warnf(audit.AxisDMARC, "%s DMARC policy p=none; failing mail is delivered", domain)
	}

	if record.Percentage != 100 {
		trail.Warnf(audit.AxisDMARC, "%s DMARC pct=%d implies partial enforcement of an already idle policy", domain, record.Percentage)
	}
	if len(record.AggregateReportAddresses) > 0 {
		trail.Infof(audit.AxisDMARC, "%s sends aggregate reports to %s; spoofing attempts may be noticed", domain, strings.Join(record.AggregateReportAddresses, ", "))
	}
	if len(record.FailureReportAddresses) > 0 {
		trail.Infof(audit.AxisDMARC, "%s sends failure reports to %s; spoofing attempts may be noticed", domain, strings.Join(record.FailureReportAddresses, ", "))
	}
	return false
}
