// internal/writer/writer.go
package writer

import (
	"errors"
	"fmt"

	"github.com/tamzrod/ob-reset/internal/flash"
)

// MirrorWriter copies the raw option byte words into register memory,
// two registers per word (upper half first).
type MirrorWriter struct {
	plan MirrorPlan
	cli  Client

	valid bool
	last  [flash.OptionWords]uint32
}

// NewMirrorWriter returns nil, false when the plan has no mirror.
func NewMirrorWriter(plan Plan, cli Client) (*MirrorWriter, bool) {
	if plan.Mirror == nil {
		return nil, false
	}
	return &MirrorWriter{plan: *plan.Mirror, cli: cli}, true
}

// Write delivers words if they changed since the last successful write.
func (w *MirrorWriter) Write(words [flash.OptionWords]uint32) error {
	if w == nil {
		return errors.New("mirror writer: disabled")
	}
	if w.valid && w.last == words {
		return nil
	}

	if err := w.cli.WriteRegisters(
		w.plan.UnitID,
		w.plan.Address,
		mirrorRegs(words),
	); err != nil {
		w.valid = false
		return fmt.Errorf("mirror writer: addr=%d err=%w", w.plan.Address, err)
	}

	w.valid = true
	w.last = words
	return nil
}

func mirrorRegs(words [flash.OptionWords]uint32) []uint16 {
	regs := make([]uint16, 0, 2*len(words))
	for _, v := range words {
		regs = append(regs, uint16(v>>16), uint16(v))
	}
	return regs
}
