// internal/writer/types.go
package writer

// Client writes holding registers into status memory.
// Both transports (modbus, ingest) implement it.
type Client interface {
	WriteRegisters(unitID uint8, addr uint16, regs []uint16) error
}

// StatusPlan places one group status block.
type StatusPlan struct {
	Group    string
	UnitID   uint8
	BaseSlot uint16 // first register of the block
}

// MirrorPlan places the raw option byte mirror.
type MirrorPlan struct {
	UnitID  uint8
	Address uint16
}

// Plan is the write plan of one bench run.
type Plan struct {
	Endpoint string
	Status   []StatusPlan
	Mirror   *MirrorPlan // optional
}
