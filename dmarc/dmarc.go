package dmarc

import (
	"errors"
)

// DMARC lookup errors.
var (
	// ErrNoRecord indicates no DMARC record is published at the name.
	ErrNoRecord = errors.New("dmarc: no DMARC record found")

	// ErrMultipleRecords indicates more than one DMARC record at one name.
	// Per RFC 7489 Section 6.6.3 receivers treat this as no DMARC at all.
	ErrMultipleRecords = errors.New("dmarc: multiple DMARC records found")
)

// Policy is the disposition a DMARC record requests for failing mail.
type Policy string

const (
	// PolicyAbsent means the tag was not present in the record.
	PolicyAbsent Policy = ""

	// PolicyNone requests no action; failing mail is still delivered.
	PolicyNone Policy = "none"

	// PolicyQuarantine requests failing mail be treated as suspicious.
	PolicyQuarantine Policy = "quarantine"

	// PolicyReject requests failing mail be rejected outright.
	PolicyReject Policy = "reject"
)

// Enforcing reports whether the policy actually acts on failing mail.
func (p Policy) Enforcing() bool {
	return p == PolicyQuarantine || p == PolicyReject
}
