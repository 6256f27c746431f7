// internal/writer/status_writer.go
package writer

import (
	"fmt"

	"github.com/tamzrod/ob-reset/internal/status"
)

// StatusWriter delivers a group snapshot into status memory.
// It does not interpret the snapshot.
type StatusWriter interface {
	WriteStatus(s status.Snapshot) error
}

type groupStatusWriter struct {
	plan StatusPlan
	cli  Client

	needFull bool
	last     []uint16 // live slots as last delivered
}

// NewStatusWriters builds one status writer per planned group, keyed by group name.
func NewStatusWriters(plan Plan, cli Client) map[string]StatusWriter {
	out := make(map[string]StatusWriter, len(plan.Status))
	for _, sp := range plan.Status {
		out[sp.Group] = newGroupStatusWriter(sp, cli)
	}
	return out
}

func newGroupStatusWriter(sp StatusPlan, cli Client) *groupStatusWriter {
	return &groupStatusWriter{
		plan:     sp,
		cli:      cli,
		needFull: true,
	}
}

// WriteStatus writes the whole block (name included) on first use and after
// any failure. Otherwise only runs of changed live slots are written, one
// request per run.
func (sw *groupStatusWriter) WriteStatus(s status.Snapshot) error {
	if sw.cli == nil {
		return fmt.Errorf("status writer: missing client for group %s", sw.plan.Group)
	}

	next := status.Encode(s)

	// ------------------------------------------------------------
	// Full block (identity re-assert)
	// ------------------------------------------------------------
	if sw.needFull {
		if err := sw.cli.WriteRegisters(
			sw.plan.UnitID,
			sw.plan.BaseSlot,
			status.EncodeBlock(s, sw.plan.Group),
		); err != nil {
			return fmt.Errorf("status writer: group %s full block: %w", sw.plan.Group, err)
		}
		sw.needFull = false
		sw.last = next
		return nil
	}

	// ------------------------------------------------------------
	// Incremental
	// ------------------------------------------------------------
	for _, r := range changedRuns(sw.last, next) {
		if err := sw.cli.WriteRegisters(
			sw.plan.UnitID,
			sw.plan.BaseSlot+uint16(r.start),
			next[r.start:r.end],
		); err != nil {
			// Memory content is now unknown.
			sw.needFull = true
			return fmt.Errorf("status writer: group %s slots %d-%d: %w", sw.plan.Group, r.start, r.end-1, err)
		}
	}

	sw.last = next
	return nil
}

type slotRun struct {
	start, end int // [start, end)
}

// changedRuns returns the maximal runs of slots where prev and next differ.
func changedRuns(prev, next []uint16) []slotRun {
	var runs []slotRun
	for i := 0; i < len(next); i++ {
		if prev[i] == next[i] {
			continue
		}
		j := i + 1
		for j < len(next) && prev[j] != next[j] {
			j++
		}
		runs = append(runs, slotRun{start: i, end: j})
		i = j
	}
	return runs
}
