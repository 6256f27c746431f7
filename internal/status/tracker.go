// internal/status/tracker.go
package status

import (
	"errors"

	"github.com/tamzrod/ob-reset/internal/supervisor"
)

// Tracker folds supervisor results into per-group snapshots.
// It owns the only memory of the past (fault streaks, rewrite totals).
type Tracker struct {
	names []string
	snaps map[string]Snapshot
}

// NewTracker starts every group in HealthUnknown.
func NewTracker(groups []string) *Tracker {
	t := &Tracker{
		names: append([]string(nil), groups...),
		snaps: make(map[string]Snapshot, len(groups)),
	}
	for _, g := range groups {
		t.snaps[g] = Snapshot{Health: HealthUnknown}
	}
	return t
}

// Groups returns the tracked group names in order.
func (t *Tracker) Groups() []string {
	return t.names
}

// Snapshot returns the current snapshot of a group.
func (t *Tracker) Snapshot(group string) Snapshot {
	return t.snaps[group]
}

// Apply updates every tracked group from one iteration result.
// Groups missing from the result are marked skipped.
func (t *Tracker) Apply(res supervisor.Result) {
	seen := make(map[string]bool, len(res.Groups))

	for _, g := range res.Groups {
		seen[g.Name] = true
		s := t.snaps[g.Name]

		if g.Valid {
			s.ValueLow = uint16(g.Value)
			s.ValueHigh = uint16(g.Value >> 16)
			s.Valid = 1
		} else {
			s.ValueLow, s.ValueHigh, s.Valid = 0, 0, 0
		}
		s.Rewrites = satAdd(s.Rewrites, g.Rewritten)

		if g.Err != nil {
			s.Health = HealthFault
			s.LastFaultCode = FaultCode(g.Err)
			s.ConsecutiveFaults = satAdd(s.ConsecutiveFaults, 1)
		} else {
			if g.Clean {
				s.Health = HealthOK
			} else {
				s.Health = HealthRestored
			}
			// Reset fault streak on recovery; keep last code for diagnosis.
			s.ConsecutiveFaults = 0
		}

		t.snaps[g.Name] = s
	}

	for _, name := range t.names {
		if seen[name] {
			continue
		}
		s := t.snaps[name]
		s.Health = HealthSkipped
		t.snaps[name] = s
	}
}

// FaultCode extracts a best-effort uint16 code from an error without assuming concrete types.
// If the error does not expose a code, returns 1 (generic error).
func FaultCode(err error) uint16 {
	if err == nil {
		return 0
	}

	type coder interface{ Code() uint16 }

	var c coder
	if errors.As(err, &c) {
		return c.Code()
	}
	return 1
}

func satAdd(a uint16, n int) uint16 {
	if n <= 0 {
		return a
	}
	if int(a)+n > 0xFFFF {
		return 0xFFFF
	}
	return a + uint16(n)
}
