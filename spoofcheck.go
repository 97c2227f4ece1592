// Package spoofcheck decides whether email from a domain can be spoofed.
//
// A domain is spoofable unless both of its published mail-authentication
// policies hold up: an SPF record whose effective default rejects
// unauthenticated senders, and a DMARC policy that acts on failing mail.
// Either axis alone is not enough; a forged message that fails SPF is still
// delivered when the DMARC policy is "none", and vice versa.
//
// Basic usage:
//
//	resolver := dns.NewResolver(dns.ResolverConfig{})
//	verdict, err := spoofcheck.Evaluate(ctx, resolver, "example.com")
//	if err != nil {
//	    // Handle error
//	}
//	if verdict.Spoofable {
//	    for _, o := range verdict.Observations {
//	        fmt.Println(o)
//	    }
//	}
package spoofcheck

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/maildrift/spoofcheck/audit"
	"github.com/maildrift/spoofcheck/dmarc"
	"github.com/maildrift/spoofcheck/dns"
	"github.com/maildrift/spoofcheck/spf"
)

// ErrNoDomain indicates Evaluate was called without a domain.
var ErrNoDomain = errors.New("spoofcheck: no domain to evaluate")

// Verdict is the outcome of a spoofability evaluation.
type Verdict struct {
	// ID uniquely identifies this evaluation, for correlating reports.
	ID string `json:"id"`

	// Domain is the normalized domain that was evaluated.
	Domain string `json:"domain"`

	// SPFStrong reports whether the effective SPF policy rejects
	// unauthenticated senders.
	SPFStrong bool `json:"spf_strong"`

	// DMARCStrong reports whether an applicable DMARC policy acts on mail
	// that fails authentication.
	DMARCStrong bool `json:"dmarc_strong"`

	// Spoofable is the overall result: true unless both axes are strong.
	Spoofable bool `json:"spoofable"`

	// Observations is the audit trail collected along the way.
	Observations []audit.Observation `json:"observations"`

	// EvaluatedAt is when the evaluation ran.
	EvaluatedAt time.Time `json:"evaluated_at"`
}

// Options tweak an evaluation. The zero value is ready to use.
type Options struct {
	// Logger receives debug logging. Nil disables it; findings always
	// travel in the verdict's observations, not the log.
	Logger *slog.Logger
}

// Evaluate audits the domain's SPF and DMARC posture and renders a verdict.
//
// Both axes are always evaluated; a weak SPF does not skip the DMARC check,
// since the findings of each axis matter to an auditor regardless of the
// other. Lookup failures never abort the evaluation: an axis that cannot be
// checked counts as weak, with the reason in the observations.
func Evaluate(ctx context.Context, resolver dns.Resolver, domain string) (*Verdict, error) {
	return EvaluateWithOptions(ctx, resolver, domain, Options{})
}

// EvaluateWithOptions is Evaluate with explicit Options.
func EvaluateWithOptions(ctx context.Context, resolver dns.Resolver, domain string, opts Options) (*Verdict, error) {
	domain = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(domain), "."))
	if domain == "" {
		return nil, ErrNoDomain
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	verdict := &Verdict{
		ID:          ulid.Make().String(),
		Domain:      domain,
		EvaluatedAt: time.Now().UTC(),
	}

	trail := audit.NewTrail()

	logger.Debug("evaluating spf", "domain", domain)
	verdict.SPFStrong = spf.IsStrong(ctx, resolver, domain, trail)

	logger.Debug("evaluating dmarc", "domain", domain)
	verdict.DMARCStrong = dmarc.IsStrong(ctx, resolver, domain, trail)

	verdict.Spoofable = !(verdict.SPFStrong && verdict.DMARCStrong)
	verdict.Observations = trail.Observations()

	logger.Debug("verdict",
		"id", verdict.ID,
		"domain", domain,
		"spf_strong", verdict.SPFStrong,
		"dmarc_strong", verdict.DMARCStrong,
		"spoofable", verdict.Spoofable)

	return verdict, nil
}
