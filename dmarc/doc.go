// Package dmarc evaluates the strength of a domain's published DMARC policy.
//
// DMARC is published as a TXT record at "_dmarc.<domain>". When a hostname
// has no record of its own, receivers fall back to the record at its
// organizational domain (the registrable domain per the Public Suffix List),
// where the "sp" tag governs subdomains.
//
// The audit asks one question: does an effective, applicable policy of
// "quarantine" or "reject" cover this domain? A policy of "none" means
// failing mail is delivered anyway — monitored, perhaps, but not stopped.
//
// Basic usage:
//
//	trail := audit.NewTrail()
//	strong := dmarc.IsStrong(ctx, resolver, "mail.example.com", trail)
package dmarc
