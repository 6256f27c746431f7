// internal/supervisor/types.go
package supervisor

import "time"

// Policy decides what the loop does after a fault.
type Policy int

const (
	// PolicyRetry runs the next iteration as usual.
	PolicyRetry Policy = iota
	// PolicyHalt stops the loop at the first fault.
	PolicyHalt
)

func (p Policy) String() string {
	switch p {
	case PolicyRetry:
		return "retry"
	case PolicyHalt:
		return "halt"
	default:
		return "unknown"
	}
}

// GroupResult is the outcome of one group reset.
type GroupResult struct {
	Name string

	// Clean means the group already held its factory value: no flash cycle.
	Clean bool

	// Rewritten is the number of cells erased and programmed.
	Rewritten int

	// Value is the decoded register after the reset; Valid is false when a
	// cell does not decode.
	Value uint32
	Valid bool

	Err error
}

// Result is a snapshot produced by one loop iteration.
type Result struct {
	Iteration uint64
	At        time.Time

	// Groups holds one entry per group attempted, in reset order.
	// Groups after a fault are not attempted and not listed.
	Groups []GroupResult

	Err error // first fault of the iteration
}

// ParsePolicy maps a config word to a Policy.
func ParsePolicy(s string) (Policy, bool) {
	switch s {
	case "", "retry":
		return PolicyRetry, true
	case "halt":
		return PolicyHalt, true
	default:
		return PolicyRetry, false
	}
}
