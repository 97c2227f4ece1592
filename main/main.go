// Command spoofcheck audits a domain's SPF and DMARC posture and reports
// whether email from it can be spoofed.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/colorstring"
	"github.com/spf13/cobra"

	"github.com/maildrift/spoofcheck"
	"github.com/maildrift/spoofcheck/audit"
	"github.com/maildrift/spoofcheck/dns"
)

// errEvaluation marks failures that happen after argument parsing, so main
// can exit 1 for them and 2 for usage errors.
var errEvaluation = errors.New("evaluation failed")

type options struct {
	nameservers []string
	timeout     time.Duration
	retries     int
	dnssec      bool
	jsonOut     bool
	quiet       bool
	verbose     bool
}

func main() {
	if err := newCommand().Execute(); err != nil {
		if errors.Is(err, errEvaluation) {
			os.Exit(1)
		}
		os.Exit(2)
	}
}

func newCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "spoofcheck <domain>",
		Short: "Check whether a domain's email can be spoofed",
		Long: `spoofcheck audits the SPF and DMARC records a domain publishes in DNS and
decides whether email claiming to come from it would be stopped by receivers.

A domain is considered spoofable unless its SPF record (or one reached via
redirect=/include:) enforces a restrictive default AND an applicable DMARC
policy of quarantine or reject covers it.

Example:
  spoofcheck example.com
  spoofcheck --nameserver 8.8.8.8:53 --dnssec example.com
  spoofcheck --json example.com`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  false,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return run(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.nameservers, "nameserver", nil, "DNS server to query as host:port (repeatable; default: system resolvers)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 5*time.Second, "timeout per DNS query")
	cmd.Flags().IntVar(&opts.retries, "retries", 2, "retries for failed DNS queries")
	cmd.Flags().BoolVar(&opts.dnssec, "dnssec", false, "request DNSSEC validation from the resolver")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "emit the verdict as JSON")
	cmd.Flags().BoolVar(&opts.quiet, "quiet", false, "print only the final verdict line")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false, "enable debug logging to stderr")

	return cmd
}

func run(ctx context.Context, domain string, opts *options) error {
	if ctx == nil {
		ctx = context.Background()
	}

	resolver := dns.NewResolver(dns.ResolverConfig{
		Nameservers: normalizeNameservers(opts.nameservers),
		DNSSEC:      opts.dnssec,
		Timeout:     opts.timeout,
		Retries:     opts.retries,
	})

	evalOpts := spoofcheck.Options{}
	if opts.verbose {
		evalOpts.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	verdict, err := spoofcheck.EvaluateWithOptions(ctx, resolver, domain, evalOpts)
	if err != nil {
		return fmt.Errorf("%w: %v", errEvaluation, err)
	}

	if opts.jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(verdict); err != nil {
			return fmt.Errorf("%w: %v", errEvaluation, err)
		}
		return nil
	}

	if !opts.quiet {
		for _, o := range verdict.Observations {
			printObservation(o)
		}
		fmt.Println()
	}

	if verdict.Spoofable {
		colorstring.Printf("[red][bold][+] Spoofing possible for %s![reset]\n", verdict.Domain)
	} else {
		colorstring.Printf("[green][bold][-] Spoofing not possible for %s[reset]\n", verdict.Domain)
	}
	return nil
}

// printObservation renders one finding with a severity color and mark.
func printObservation(o audit.Observation) {
	var color, mark string
	switch o.Severity {
	case audit.Warning:
		color = "[yellow]"
		mark = "!"
	case audit.Error:
		color = "[red]"
		mark = "x"
	default:
		color = "[cyan]"
		mark = "*"
	}
	colorstring.Println(fmt.Sprintf("[%s%s[reset]] %s%-5s[reset] %s", color, mark, color, o.Axis, o.Message))
}

// normalizeNameservers appends the default DNS port to bare addresses.
func normalizeNameservers(servers []string) []string {
	var out []string
	for _, s := range servers {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if !strings.Contains(s, ":") {
			s += ":53"
		}
		out = append(out, s)
	}
	return out
}
