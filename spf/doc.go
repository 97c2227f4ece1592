// Package spf evaluates the strength of a domain's published SPF policy.
//
// This is a static audit, not an RFC 7208 check_host implementation: no
// sending IP is tested. The only question answered is whether the effective
// record ends in a restrictive default ("-all" or "~all"), following
// "redirect=" and "include:" delegations recursively. Mechanisms that match
// specific hosts (a, mx, ip4, ip6, exists, ptr) are parsed but deliberately
// ignored; they authorize senders, they do not reject spoofed ones.
//
// Basic usage:
//
//	trail := audit.NewTrail()
//	strong := spf.IsStrong(ctx, resolver, "example.com", trail)
//
// A domain with no SPF record at all is weak: nothing published means
// nothing rejected.
package spf
