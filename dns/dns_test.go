package dns

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		isNotFound bool
		isTimeout  bool
		isServFail bool
		isTemp     bool
	}{
		{name: "not found", err: ErrNotFound, isNotFound: true},
		{name: "timeout", err: ErrTimeout, isTimeout: true, isTemp: true},
		{name: "servfail", err: ErrServFail, isServFail: true, isTemp: true},
		{name: "refused", err: ErrRefused, isTemp: true},
		{name: "wrapped not found", err: fmt.Errorf("outer: %w", ErrNotFound), isNotFound: true},
		{name: "unrelated", err: errors.New("boom")},
		{name: "nil", err: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFound(tt.err); got != tt.isNotFound {
				t.Errorf("IsNotFound() = %v, want %v", got, tt.isNotFound)
			}
			if got := IsTimeout(tt.err); got != tt.isTimeout {
				t.Errorf("IsTimeout() = %v, want %v", got, tt.isTimeout)
			}
			if got := IsServFail(tt.err); got != tt.isServFail {
				t.Errorf("IsServFail() = %v, want %v", got, tt.isServFail)
			}
			if got := IsTemporary(tt.err); got != tt.isTemp {
				t.Errorf("IsTemporary() = %v, want %v", got, tt.isTemp)
			}
		})
	}
}

func TestMockResolver(t *testing.T) {
	resolver := MockResolver{
		TXT: map[string][]string{
			"example.com.":        {"v=spf1 -all", "unrelated"},
			"_dmarc.example.com.": {}, // empty record set is treated as absent
		},
		Fail:      []string{"servfail.example."},
		Timeout:   []string{"timeout.example."},
		Authentic: []string{"example.com."},
	}
	ctx := context.Background()

	// Trailing-dot handling: queries without the dot still match.
	result, err := resolver.LookupTXT(ctx, "example.com")
	if err != nil {
		t.Fatalf("LookupTXT: %v", err)
	}
	if len(result.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(result.Records))
	}
	if !result.Authentic {
		t.Error("expected authentic response")
	}

	if _, err := resolver.LookupTXT(ctx, "absent.example."); !IsNotFound(err) {
		t.Errorf("absent name: got %v, want ErrNotFound", err)
	}
	if _, err := resolver.LookupTXT(ctx, "_dmarc.example.com."); !IsNotFound(err) {
		t.Errorf("empty record set: got %v, want ErrNotFound", err)
	}
	if _, err := resolver.LookupTXT(ctx, "servfail.example."); !IsServFail(err) {
		t.Errorf("fail name: got %v, want ErrServFail", err)
	}
	if _, err := resolver.LookupTXT(ctx, "timeout.example."); !IsTimeout(err) {
		t.Errorf("timeout name: got %v, want ErrTimeout", err)
	}

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := resolver.LookupTXT(canceled, "example.com."); !errors.Is(err, context.Canceled) {
		t.Errorf("canceled context: got %v, want context.Canceled", err)
	}
}

func TestResolverDefaults(t *testing.T) {
	r := NewResolver(ResolverConfig{})
	config := r.Config()
	if config.Timeout == 0 {
		t.Error("expected default timeout to be set")
	}
	if config.Retries == 0 {
		t.Error("expected default retries to be set")
	}
	if len(config.Nameservers) == 0 {
		t.Error("expected nameservers to be populated")
	}
	for _, s := range config.Nameservers {
		if s == "" {
			t.Error("empty nameserver entry")
		}
	}
}
