package rhttp

import "fmt"

// suppressedError keeps a primary failure together with the secondary failures that occurred
// while it was already in flight. The primary stays authoritative for unwrapping and status
// mapping; secondaries are held in the order they were recorded.
type suppressedError struct {
	primary   error
	secondary []error
}

// Suppress attaches secondary to primary without replacing it. When primary already carries
// suppressed failures the secondary is appended to the existing list. A nil primary returns
// secondary unchanged so callers can aggregate unconditionally.
func Suppress(primary, secondary error) error {
	if primary == nil {
		return secondary
	}
	if secondary == nil {
		return primary
	}

	if agg, ok := primary.(*suppressedError); ok {
		sec := make([]error, 0, len(agg.secondary)+1)
		sec = append(sec, agg.secondary...)
		sec = append(sec, secondary)

		return &suppressedError{primary: agg.primary, secondary: sec}
	}

	return &suppressedError{primary: primary, secondary: []error{secondary}}
}

// Suppressed returns the ordered secondary failures attached to err, or nil when err carries
// none. It looks at err itself, not the unwrap chain: aggregation always happens at the top.
func Suppressed(err error) []error {
	agg, ok := err.(*suppressedError)
	if !ok {
		return nil
	}

	return agg.secondary
}

func (e *suppressedError) Error() string {
	return fmt.Sprintf("%s (+%d suppressed)", e.primary.Error(), len(e.secondary))
}

// Unwrap returns the primary failure so errors.Is/As and [CodeOf] keep resolving against it.
func (e *suppressedError) Unwrap() error { return e.primary }
