package dns

import (
	"context"
	"fmt"
	"strings"
	"time"

	mdns "github.com/miekg/dns"
)

// ResolverConfig configures TXTResolver.
type ResolverConfig struct {
	// Nameservers to query, as "host:port" (e.g. "8.8.8.8:53"). If empty,
	// the servers from /etc/resolv.conf are used, falling back to public
	// resolvers.
	Nameservers []string

	// DNSSEC requests validation from the upstream resolver. The Authentic
	// field of Result reports whether an answer was validated. Requires a
	// DNSSEC-validating upstream.
	DNSSEC bool

	// Timeout for a single query attempt. Default 5 seconds.
	Timeout time.Duration

	// Retries is how many extra passes over the nameserver list are made for
	// failed queries. Default 2.
	Retries int
}

// TXTResolver implements Resolver using github.com/miekg/dns. Every lookup
// carries its own timeout so a dead resolver cannot hang an audit.
type TXTResolver struct {
	config ResolverConfig
	client *mdns.Client
}

var _ Resolver = (*TXTResolver)(nil)

// NewResolver creates a TXTResolver, filling config defaults.
func NewResolver(config ResolverConfig) *TXTResolver {
	if config.Timeout == 0 {
		config.Timeout = 5 * time.Second
	}
	if config.Retries == 0 {
		config.Retries = 2
	}
	if len(config.Nameservers) == 0 {
		config.Nameservers = systemNameservers()
	}

	return &TXTResolver{
		config: config,
		client: &mdns.Client{Timeout: config.Timeout},
	}
}

// Config returns the resolver's effective configuration.
func (r *TXTResolver) Config() ResolverConfig {
	return r.config
}

// LookupTXT retrieves TXT records for name. Multi-string TXT answers are
// joined into a single record.
func (r *TXTResolver) LookupTXT(ctx context.Context, name string) (Result[string], error) {
	resp, authentic, err := r.exchange(ctx, name)
	if err != nil {
		return Result[string]{Authentic: authentic}, err
	}

	var records []string
	for _, rr := range resp.Answer {
		if txt, ok := rr.(*mdns.TXT); ok {
			records = append(records, strings.Join(txt.Txt, ""))
		}
	}
	if len(records) == 0 {
		return Result[string]{Authentic: authentic}, ErrNotFound
	}
	return Result[string]{Records: records, Authentic: authentic}, nil
}

// exchange runs the query against each configured nameserver, retrying the
// whole list on temporary failures.
func (r *TXTResolver) exchange(ctx context.Context, name string) (*mdns.Msg, bool, error) {
	m := new(mdns.Msg)
	m.SetQuestion(fqdn(name), mdns.TypeTXT)
	m.RecursionDesired = true
	if r.config.DNSSEC {
		m.SetEdns0(4096, true)
	}

	var lastErr error
	authentic := false

	for attempt := 0; attempt <= r.config.Retries; attempt++ {
		for _, server := range r.config.Nameservers {
			if err := ctx.Err(); err != nil {
				return nil, false, err
			}

			resp, _, err := r.client.ExchangeContext(ctx, m, server)
			if err != nil {
				lastErr = fmt.Errorf("dns: exchange with %s: %w", server, err)
				continue
			}
			if r.config.DNSSEC && resp.AuthenticatedData {
				authentic = true
			}

			switch resp.Rcode {
			case mdns.RcodeSuccess:
				return resp, authentic, nil
			case mdns.RcodeNameError:
				return nil, authentic, ErrNotFound
			case mdns.RcodeServerFailure:
				// With DNSSEC enabled, SERVFAIL commonly means the upstream
				// failed validation.
				if r.config.DNSSEC {
					lastErr = ErrBogus
				} else {
					lastErr = ErrServFail
				}
			case mdns.RcodeRefused:
				lastErr = ErrRefused
			default:
				lastErr = fmt.Errorf("dns: unexpected rcode %d from %s", resp.Rcode, server)
			}
		}
	}

	if lastErr == nil {
		lastErr = ErrServFail
	}
	return nil, authentic, lastErr
}

// systemNameservers reads resolvers from /etc/resolv.conf, with public DNS
// as a fallback.
func systemNameservers() []string {
	config, err := mdns.ClientConfigFromFile("/etc/resolv.conf")
	if err != nil || len(config.Servers) == 0 {
		return []string{"8.8.8.8:53", "1.1.1.1:53"}
	}

	servers := make([]string, 0, len(config.Servers))
	for _, s := range config.Servers {
		if !strings.Contains(s, ":") {
			s += ":53"
		}
		servers = append(servers, s)
	}
	return servers
}

// fqdn ensures the name ends with a dot.
func fqdn(name string) string {
	if !strings.HasSuffix(name, ".") {
		return name + "."
	}
	return name
}
