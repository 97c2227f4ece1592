// Package audit collects the human-readable findings produced while a
// domain's mail-authentication posture is evaluated. Observations are an
// audit trail only; they never influence the evaluation itself.
package audit

import (
	"fmt"
	"sync"
)

// Severity classifies an observation.
type Severity int

const (
	// Info records context: records found, fallbacks taken.
	Info Severity = iota

	// Warning records a weakness: a permissive or absent policy.
	Warning

	// Error records that something could not be checked or is misconfigured.
	Error
)

var severityNames = map[Severity]string{
	Info:    "info",
	Warning: "warning",
	Error:   "error",
}

func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return fmt.Sprintf("severity(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler so observations serialize
// with readable severities.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Axis identifies which part of the evaluation an observation belongs to.
type Axis string

const (
	AxisSPF   Axis = "spf"
	AxisDMARC Axis = "dmarc"
)

// Observation is a single finding.
type Observation struct {
	Severity Severity `json:"severity"`
	Axis     Axis     `json:"axis"`
	Message  string   `json:"message"`
}

func (o Observation) String() string {
	return fmt.Sprintf("[%s] %s: %s", o.Severity, o.Axis, o.Message)
}

// Trail accumulates observations during an evaluation.
// Safe for concurrent use.
type Trail struct {
	mu  sync.Mutex
	obs []Observation
}

// NewTrail returns an empty trail.
func NewTrail() *Trail {
	return &Trail{}
}

// Infof appends an informational observation.
func (t *Trail) Infof(axis Axis, format string, args ...any) {
	t.add(Info, axis, format, args...)
}

// Warnf appends a warning observation.
func (t *Trail) Warnf(axis Axis, format string, args ...any) {
	t.add(Warning, axis, format, args...)
}

// Errorf appends an error observation.
func (t *Trail) Errorf(axis Axis, format string, args ...any) {
	t.add(Error, axis, format, args...)
}

func (t *Trail) add(sev Severity, axis Axis, format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.obs = append(t.obs, Observation{
		Severity: sev,
		Axis:     axis,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Observations returns a copy of the trail in append order.
func (t *Trail) Observations() []Observation {
	t.mu.Lock()
	defer t.mu.Unlock()
	obs := make([]Observation, len(t.obs))
	copy(obs, t.obs)
	return obs
}
