package model

import "fmt"

// Termination tells why a collection run stopped.
// Callers use it to distinguish a finished listing from a run that gave up.
type Termination int

const (
	// TerminationUnknown is the zero value; a finished run never reports it.
	TerminationUnknown Termination = iota

	// TerminationExhausted means the next page control was absent or hidden,
	// i.e. the last listing page was reached.
	TerminationExhausted

	// TerminationStalled means several consecutive visits found no new URL.
	TerminationStalled

	// TerminationNavigationFailed means the collector could not move to the
	// next page (click retries exhausted) or could not open the start URL.
	TerminationNavigationFailed

	// TerminationInterrupted means the context was cancelled mid-run.
	TerminationInterrupted
)

// String returns the lower-case name used in logs, reports and the database.
func (t Termination) String() string {
	switch t {
	case TerminationExhausted:
		return "exhausted"
	case TerminationStalled:
		return "stalled"
	case TerminationNavigationFailed:
		return "navigation_failed"
	case TerminationInterrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}

// Normal reports whether the run ended without an escalated failure.
func (t Termination) Normal() bool {
	return t == TerminationExhausted || t == TerminationStalled
}

// MarshalText implements encoding.TextMarshaler.
func (t Termination) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Termination) UnmarshalText(text []byte) error {
	parsed, err := ParseTermination(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTermination converts the output of Termination.String back into a value.
func ParseTermination(s string) (Termination, error) {
	switch s {
	case "exhausted":
		return TerminationExhausted, nil
	case "stalled":
		return TerminationStalled, nil
	case "navigation_failed":
		return TerminationNavigationFailed, nil
	case "interrupted":
		return TerminationInterrupted, nil
	case "unknown", "":
		return TerminationUnknown, nil
	default:
		return TerminationUnknown, fmt.Errorf("unknown termination %q", s)
	}
}
