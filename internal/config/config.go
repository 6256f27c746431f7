// internal/config/config.go
package config

type Config struct {
	Bench BenchConfig `yaml:"bench"`
}

type BenchConfig struct {
	Device DeviceConfig  `yaml:"device"`
	Loop   LoopConfig    `yaml:"loop"`
	Status *StatusConfig `yaml:"status"` // optional
	Dump   string        `yaml:"dump"`   // Intel HEX written on exit (optional)
}

// ---- SIMULATED DEVICE ----

type DeviceConfig struct {
	// Intel HEX image of the option byte region (optional)
	Image string `yaml:"image"`

	// Raw word overrides by register name, applied after Image
	Cells map[string]uint32 `yaml:"cells"`

	Erased      *uint32 `yaml:"erased"`
	BusyPolls   int     `yaml:"busy_polls"`
	SuppressEOP bool    `yaml:"suppress_eop"`
}

// ---- LOOP ----

type LoopConfig struct {
	IntervalMs int    `yaml:"interval_ms"`
	Iterations uint64 `yaml:"iterations"` // 0 = forever
	OnFault    string `yaml:"on_fault"`   // retry | halt
}

// ---- STATUS MEMORY ----

type StatusConfig struct {
	Transport string `yaml:"transport"` // modbus | ingest
	Endpoint  string `yaml:"endpoint"`
	UnitID    uint8  `yaml:"unit_id"`
	TimeoutMs int    `yaml:"timeout_ms"`

	// First register of the group status blocks
	BaseSlot uint16 `yaml:"base_slot"`

	// First register of the raw word mirror (optional)
	MirrorAddress *uint16 `yaml:"mirror_address"`
}
