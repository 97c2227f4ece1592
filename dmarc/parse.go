package dmarc

import (
	"strconv"
	"strings"
)

// Record is a parsed DMARC TXT record, reduced to the tags the strength
// audit inspects.
//
// Example record:
//
//	v=DMARC1; p=reject; rua=mailto:dmarc@example.com; pct=100
type Record struct {
	// Policy is the "p" tag. PolicyAbsent when missing; an unrecognized
	// value degrades to PolicyNone, the 'treat as unenforced' default.
	Policy Policy

	// SubdomainPolicy is the "sp" tag, with the same degradation rule.
	// PolicyAbsent means subdomains inherit Policy.
	SubdomainPolicy Policy

	// Percentage is the "pct" tag: the share of failing mail the policy is
	// applied to. Defaults to 100; out-of-range or garbage values are
	// ignored.
	Percentage int

	// AggregateReportAddresses are the "rua" URIs.
	AggregateReportAddresses []string

	// FailureReportAddresses are the "ruf" URIs.
	FailureReportAddresses []string

	// Tags holds every syntactically valid tag=value pair as published,
	// keyed by lower-cased tag name. First occurrence wins.
	Tags map[string]string
}

// ParseRecord parses a DMARC TXT record. The second return value reports
// whether the text is a DMARC record at all (leads with "v=DMARC1").
//
// Parsing is permissive: segments that are not tag=value pairs and values
// outside a tag's grammar are skipped, degrading to the tag's default. The
// audit treats unparseable policy the same as unpublished policy.
func ParseRecord(txt string) (*Record, bool) {
	txt = strings.Trim(strings.TrimSpace(txt), `"`)

	segments := strings.Split(txt, ";")
	// The version tag is case-sensitive and must lead the record.
	name, value, ok := splitTag(segments[0])
	if !ok || name != "v" || value != "DMARC1" {
		return nil, false
	}

	r := &Record{
		Percentage: 100,
		Tags:       make(map[string]string),
	}

	for _, segment := range segments[1:] {
		name, value, ok := splitTag(segment)
		if !ok {
			continue
		}
		if _, dup := r.Tags[name]; dup {
			continue
		}
		r.Tags[name] = value

		switch name {
		case "p":
			r.Policy = parsePolicy(value)
		case "sp":
			r.SubdomainPolicy = parsePolicy(value)
		case "pct":
			if pct, err := strconv.Atoi(value); err == nil && pct >= 0 && pct <= 100 {
				r.Percentage = pct
			}
		case "rua":
			r.AggregateReportAddresses = splitURIs(value)
		case "ruf":
			r.FailureReportAddresses = splitURIs(value)
		}
	}

	return r, true
}

// splitTag splits one "name=value" segment, trimming surrounding whitespace.
func splitTag(segment string) (name, value string, ok bool) {
	name, value, found := strings.Cut(segment, "=")
	if !found {
		return "", "", false
	}
	name = strings.ToLower(strings.TrimSpace(name))
	value = strings.TrimSpace(value)
	if name == "" || value == "" {
		return "", "", false
	}
	return name, value, true
}

// parsePolicy maps a tag value onto the closed policy set. Anything outside
// the set degrades to PolicyNone.
func parsePolicy(value string) Policy {
	switch Policy(strings.ToLower(value)) {
	case PolicyNone:
		return PolicyNone
	case PolicyQuarantine:
		return PolicyQuarantine
	case PolicyReject:
		return PolicyReject
	}
	return PolicyNone
}

// splitURIs splits a comma-separated rua/ruf value, dropping per-URI size
// limits ("!10m") and empty entries.
func splitURIs(value string) []string {
	var uris []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if bang := strings.IndexByte(part, '!'); bang >= 0 {
			part = part[:bang]
		}
		if part != "" {
			uris = append(uris, part)
		}
	}
	return uris
}
