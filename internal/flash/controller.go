// internal/flash/controller.go
package flash

// Controller is the exclusive handle to the flash controller's control and
// status registers (PECR, SR, PEKEYR, OPTKEYR).
// Exactly one Controller exists per device; it is passed down, never global.
type Controller interface {
	// SR
	Busy() bool
	EndOfOperation() bool
	ClearEndOfOperation()

	// PECR lock bits
	ProgramLocked() bool
	OptionLocked() bool
	LockProgram()
	LockOption()

	// PECR ERASE bit
	SetErase(on bool)

	// Key registers
	WriteProgramKey(key uint32)
	WriteOptionKey(key uint32)
}

// Word is one memory-mapped 32-bit non-volatile location.
type Word interface {
	Load() uint32
	Store(v uint32)
}

// CriticalSection runs fn with interrupts disabled and returns its error.
type CriticalSection func(fn func() error) error

// NoCritical runs fn inline. Used where no interrupt can reach the controller.
func NoCritical(fn func() error) error {
	return fn()
}

// ---- wire constants (RM0376) ----

// PECR unlock keys, written in order to PEKEYR.
const (
	ProgramKey1 uint32 = 0x89AB_CDEF
	ProgramKey2 uint32 = 0x0203_0405
)

// Option byte unlock keys, written in order to OPTKEYR.
const (
	OptionKey1 uint32 = 0xFBEA_D9C8
	OptionKey2 uint32 = 0x2425_2627
)

// OptionBytesBase is the address of the option byte region.
const OptionBytesBase uintptr = 0x1FF8_0000

// OptionWords is the number of 32-bit words in the option byte register block.
const OptionWords = 5
