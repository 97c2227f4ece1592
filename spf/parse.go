package spf

import (
	"strings"
)

// Record is a parsed SPF TXT record, reduced to what the strength audit
// inspects.
//
// An example record for example.com:
//
//	v=spf1 mx include:_spf.example.net -all
type Record struct {
	// Terms are the record's mechanism terms, in published order.
	Terms []Term

	// Redirect is the target of the "redirect=" modifier, empty if absent.
	// When a record carries several (which RFC 7208 forbids), the first wins
	// and the rest are dropped.
	Redirect string
}

// Term is a single mechanism term.
type Term struct {
	// Qualifier is "", "+", "-", "~" or "?". Empty means the implicit "+".
	Qualifier string

	// Mechanism is the lower-cased mechanism name, e.g. "all" or "include".
	Mechanism string

	// Value is the argument after ":", lower-cased, without any CIDR suffix.
	// Empty for mechanisms without an argument.
	Value string
}

// AllQualifier returns the qualifier of the first "all" mechanism and whether
// one is present.
func (r *Record) AllQualifier() (string, bool) {
	for _, t := range r.Terms {
		if t.Mechanism == "all" {
			return t.Qualifier, true
		}
	}
	return "", false
}

// Includes returns the targets of every "include:" mechanism, in order.
func (r *Record) Includes() []string {
	var targets []string
	for _, t := range r.Terms {
		if t.Mechanism == "include" && t.Value != "" {
			targets = append(targets, t.Value)
		}
	}
	return targets
}

// ParseRecord parses an SPF TXT record. The second return value reports
// whether the text is an SPF record at all (starts with "v=spf1").
//
// Parsing is permissive: terms that do not match the expected shape are
// skipped rather than failing the record. The audit must degrade to "not
// found" on garbage, since a broken record protects nothing either way.
func ParseRecord(txt string) (*Record, bool) {
	txt = strings.Trim(strings.TrimSpace(txt), `"`)

	terms := strings.Fields(txt)
	if len(terms) == 0 || strings.ToLower(terms[0]) != "v=spf1" {
		return nil, false
	}

	r := &Record{}
	for _, raw := range terms[1:] {
		qualifier := ""
		rest := raw
		if len(rest) > 0 && strings.ContainsRune("+-~?", rune(rest[0])) {
			qualifier = rest[:1]
			rest = rest[1:]
		}
		if rest == "" {
			continue
		}

		// Modifiers are name=value. Only redirect is meaningful here; exp=
		// and unknown modifiers carry no policy.
		if name, value, ok := splitModifier(rest); ok {
			if qualifier == "" && name == "redirect" && value != "" && r.Redirect == "" {
				r.Redirect = strings.ToLower(value)
			}
			continue
		}

		name, value, ok := splitMechanism(rest)
		if !ok {
			continue
		}
		r.Terms = append(r.Terms, Term{
			Qualifier: qualifier,
			Mechanism: name,
			Value:     value,
		})
	}

	return r, true
}

// splitModifier splits "name=value" terms. A ":" before the "=" means the
// term is a mechanism, not a modifier.
func splitModifier(s string) (name, value string, ok bool) {
	eq := strings.IndexByte(s, '=')
	if eq < 1 {
		return "", "", false
	}
	if colon := strings.IndexByte(s, ':'); colon >= 0 && colon < eq {
		return "", "", false
	}
	if !isName(s[:eq]) {
		return "", "", false
	}
	return strings.ToLower(s[:eq]), s[eq+1:], true
}

// splitMechanism splits "name", "name:value" and "name:value/cidr" terms.
func splitMechanism(s string) (name, value string, ok bool) {
	name = s
	if colon := strings.IndexByte(s, ':'); colon >= 0 {
		name, value = s[:colon], s[colon+1:]
	} else if slash := strings.IndexByte(s, '/'); slash >= 0 {
		// Bare CIDR form, e.g. "a/24".
		name = s[:slash]
	}
	if !isName(name) {
		return "", "", false
	}
	// Strip a trailing CIDR length from the value, e.g. "a:mail.example.com/28".
	if slash := strings.IndexByte(value, '/'); slash >= 0 {
		value = value[:slash]
	}
	return strings.ToLower(name), strings.ToLower(value), true
}

// isName reports whether s is a plausible mechanism or modifier name:
// alphabetic with optional digits after the first character.
func isName(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		alpha := c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
		digit := c >= '0' && c <= '9'
		if !alpha && !(i > 0 && (digit || c == '_' || c == '-' || c == '.')) {
			return false
		}
	}
	return true
}
