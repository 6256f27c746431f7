// internal/config/validate.go
package config

import (
	"fmt"

	"github.com/tamzrod/ob-reset/internal/flash"
	"github.com/tamzrod/ob-reset/internal/optionbyte"
	"github.com/tamzrod/ob-reset/internal/status"
	"github.com/tamzrod/ob-reset/internal/supervisor"
)

const (
	TransportModbus = "modbus"
	TransportIngest = "ingest"

	DefaultTimeoutMs = 1000
)

// StatusGroups is the number of group status blocks written.
const StatusGroups = 3

// MirrorRegisters is the size of the raw word mirror (two registers per word).
const MirrorRegisters = 2 * flash.OptionWords

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: empty")
	}
	b := cfg.Bench

	// ------------------------------------------------------------
	// DEVICE
	// ------------------------------------------------------------

	for name := range b.Device.Cells {
		if _, ok := optionbyte.CellIndex(name); !ok {
			return fmt.Errorf("device.cells: unknown register %q", name)
		}
	}
	if b.Device.BusyPolls < 0 {
		return fmt.Errorf("device.busy_polls must be >= 0, got %d", b.Device.BusyPolls)
	}

	// ------------------------------------------------------------
	// LOOP
	// ------------------------------------------------------------

	if b.Loop.IntervalMs < 0 {
		return fmt.Errorf("loop.interval_ms must be >= 0, got %d", b.Loop.IntervalMs)
	}
	if _, ok := supervisor.ParsePolicy(b.Loop.OnFault); !ok {
		return fmt.Errorf("loop.on_fault: unknown policy %q (want retry or halt)", b.Loop.OnFault)
	}

	// ------------------------------------------------------------
	// STATUS MEMORY (OPT-IN)
	// ------------------------------------------------------------

	s := b.Status
	if s == nil {
		return nil
	}

	if s.Endpoint == "" {
		return fmt.Errorf("status: endpoint required")
	}
	switch s.Transport {
	case "", TransportModbus, TransportIngest:
	default:
		return fmt.Errorf("status: unknown transport %q", s.Transport)
	}
	if s.TimeoutMs < 0 {
		return fmt.Errorf("status: timeout_ms must be >= 0, got %d", s.TimeoutMs)
	}

	// ------------------------------------------------------------
	// STATUS MEMORY GEOMETRY
	// ------------------------------------------------------------

	statusStart := int(s.BaseSlot)
	statusEnd := statusStart + StatusGroups*status.SlotsPerGroup - 1
	if statusEnd > 0xFFFF {
		return fmt.Errorf("status: base_slot %d leaves no room for %d registers", s.BaseSlot, StatusGroups*status.SlotsPerGroup)
	}

	if s.MirrorAddress == nil {
		return nil
	}

	mirrorStart := int(*s.MirrorAddress)
	mirrorEnd := mirrorStart + MirrorRegisters - 1
	if mirrorEnd > 0xFFFF {
		return fmt.Errorf("status: mirror_address %d leaves no room for %d registers", mirrorStart, MirrorRegisters)
	}

	// overlap check (inclusive)
	if !(mirrorEnd < statusStart || mirrorStart > statusEnd) {
		return fmt.Errorf(
			"status: mirror range=%d-%d overlaps status range=%d-%d",
			mirrorStart,
			mirrorEnd,
			statusStart,
			statusEnd,
		)
	}

	return nil
}
