package spf

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseRecord(t *testing.T) {
	tests := []struct {
		name  string
		txt   string
		isSPF bool
		want  Record
	}{
		{
			name:  "not spf",
			txt:   "some verification token",
			isSPF: false,
		},
		{
			name:  "dmarc is not spf",
			txt:   "v=DMARC1; p=reject",
			isSPF: false,
		},
		{
			name:  "version only",
			txt:   "v=spf1",
			isSPF: true,
			want:  Record{},
		},
		{
			name:  "hard fail",
			txt:   "v=spf1 -all",
			isSPF: true,
			want: Record{
				Terms: []Term{{Qualifier: "-", Mechanism: "all"}},
			},
		},
		{
			name:  "quoted record",
			txt:   `"v=spf1 ~all"`,
			isSPF: true,
			want: Record{
				Terms: []Term{{Qualifier: "~", Mechanism: "all"}},
			},
		},
		{
			name:  "uppercase version and mechanisms",
			txt:   "V=SPF1 INCLUDE:_Spf.Example.COM +ALL",
			isSPF: true,
			want: Record{
				Terms: []Term{
					{Mechanism: "include", Value: "_spf.example.com"},
					{Qualifier: "+", Mechanism: "all"},
				},
			},
		},
		{
			name:  "redirect",
			txt:   "v=spf1 redirect=_spf.example.net",
			isSPF: true,
			want:  Record{Redirect: "_spf.example.net"},
		},
		{
			name:  "duplicate redirect keeps first",
			txt:   "v=spf1 redirect=a.example redirect=b.example",
			isSPF: true,
			want:  Record{Redirect: "a.example"},
		},
		{
			name:  "mechanisms with cidr and arguments",
			txt:   "v=spf1 mx a:mail.example.com/28 ip4:192.0.2.0/24 exists:%{i}.sbl.example.org -all",
			isSPF: true,
			want: Record{
				Terms: []Term{
					{Mechanism: "mx"},
					{Mechanism: "a", Value: "mail.example.com"},
					{Mechanism: "ip4", Value: "192.0.2.0"},
					{Mechanism: "exists", Value: "%{i}.sbl.example.org"},
					{Qualifier: "-", Mechanism: "all"},
				},
			},
		},
		{
			name:  "bare cidr on a",
			txt:   "v=spf1 a/24 ~all",
			isSPF: true,
			want: Record{
				Terms: []Term{
					{Mechanism: "a"},
					{Qualifier: "~", Mechanism: "all"},
				},
			},
		},
		{
			name:  "unknown modifier ignored",
			txt:   "v=spf1 exp=explain.example.com t=20240101 -all",
			isSPF: true,
			want: Record{
				Terms: []Term{{Qualifier: "-", Mechanism: "all"}},
			},
		},
		{
			name:  "malformed terms skipped",
			txt:   "v=spf1 !!bogus :half include: include:good.example ~all",
			isSPF: true,
			want: Record{
				Terms: []Term{
					{Mechanism: "include"},
					{Mechanism: "include", Value: "good.example"},
					{Qualifier: "~", Mechanism: "all"},
				},
			},
		},
		{
			name:  "extra whitespace",
			txt:   "v=spf1   include:a.example    -all  ",
			isSPF: true,
			want: Record{
				Terms: []Term{
					{Mechanism: "include", Value: "a.example"},
					{Qualifier: "-", Mechanism: "all"},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, isSPF := ParseRecord(tt.txt)
			if isSPF != tt.isSPF {
				t.Fatalf("isSPF = %v, want %v", isSPF, tt.isSPF)
			}
			if !tt.isSPF {
				return
			}
			if diff := cmp.Diff(tt.want, *r); diff != "" {
				t.Errorf("record mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRecordAccessors(t *testing.T) {
	r, isSPF := ParseRecord("v=spf1 include:a.example include:b.example ?all")
	if !isSPF {
		t.Fatal("expected SPF record")
	}

	if diff := cmp.Diff([]string{"a.example", "b.example"}, r.Includes()); diff != "" {
		t.Errorf("Includes mismatch (-want +got):\n%s", diff)
	}

	q, ok := r.AllQualifier()
	if !ok || q != "?" {
		t.Errorf("AllQualifier() = %q, %v; want %q, true", q, ok, "?")
	}

	r, _ = ParseRecord("v=spf1 include:a.example")
	if _, ok := r.AllQualifier(); ok {
		t.Error("AllQualifier() reported an absent all mechanism")
	}
	if got := r.Redirect; got != "" {
		t.Errorf("Redirect = %q, want empty", got)
	}
}
