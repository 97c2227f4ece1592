package dmarc

import (
	"strings"

	"golang.org/x/net/publicsuffix"
)

// OrganizationalDomain returns the registrable domain for the given hostname:
// the label directly under the public suffix, per the ICANN section of the
// Public Suffix List. For example:
//
//   - example.com -> example.com
//   - mail.example.com -> example.com
//   - mail.example.co.uk -> example.co.uk
//
// A name the list cannot classify (a bare TLD, "localhost", an IP literal)
// is returned as-is, which makes the fallback lookup a no-op for it.
func OrganizationalDomain(domain string) string {
	domain = strings.TrimSuffix(strings.ToLower(domain), ".")
	if domain == "" {
		return ""
	}

	etld1, err := publicsuffix.EffectiveTLDPlusOne(domain)
	if err != nil {
		return domain
	}
	return etld1
}
