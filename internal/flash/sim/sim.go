// internal/flash/sim/sim.go
package sim

import (
	"sync"

	"github.com/tamzrod/ob-reset/internal/flash"
)

// ErasedPattern is the content of a cell right after an erase cycle.
const ErasedPattern uint32 = 0xFFFF_FFFF

// Controller is a software model of the flash controller and the option
// byte words behind it. It implements flash.Controller and hands out
// flash.Word views of its cells.
//
// Model:
//   - PELOCK opens on PEKEY1, PEKEY2 (in order).
//   - OPTLOCK opens on OPTKEY1, OPTKEY2, only while PELOCK is open.
//   - A wrong key locks both levels until Reset.
//   - Setting PELOCK also sets OPTLOCK.
//   - A store with ERASE set restores the erased pattern; otherwise a store
//     can only clear bits.
//   - Stores while locked are dropped, never raise EOP and latch WRPERR.
//   - Clearing EOP leaves WRPERR pending.
type Controller struct {
	mu sync.Mutex

	erased      uint32
	suppressEOP bool
	busyPolls   int

	cells [flash.OptionWords]uint32

	peLocked   bool
	optLocked  bool
	hardLocked bool
	peStage    int
	optStage   int

	erase  bool
	eop    bool
	wrpErr bool
	busy   int

	programKeys []uint32
	optionKeys  []uint32
	erases      [flash.OptionWords]int
	writes      [flash.OptionWords]int
	rejected    int
	unguarded   int

	depth   int
	entries int
}

// Option configures a simulated controller.
type Option func(*Controller)

// WithErased overrides the erased cell pattern.
func WithErased(v uint32) Option {
	return func(c *Controller) {
		c.erased = v
	}
}

// WithSuppressedEOP makes the controller never assert end-of-operation.
func WithSuppressedEOP(on bool) Option {
	return func(c *Controller) {
		c.suppressEOP = on
	}
}

// WithBusyPolls keeps BSY set for n polls after every accepted or rejected store.
func WithBusyPolls(n int) Option {
	return func(c *Controller) {
		if n >= 0 {
			c.busyPolls = n
		}
	}
}

// New returns a locked controller whose cells hold the erased pattern.
func New(opts ...Option) *Controller {
	c := &Controller{
		erased:    ErasedPattern,
		peLocked:  true,
		optLocked: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	for i := range c.cells {
		c.cells[i] = c.erased
	}
	return c
}

// ---- flash.Controller ----

func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy > 0 {
		c.busy--
		return true
	}
	return false
}

func (c *Controller) EndOfOperation() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eop
}

func (c *Controller) ClearEndOfOperation() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.eop = false
}

func (c *Controller) ProgramLocked() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.peLocked
}

func (c *Controller) OptionLocked() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.optLocked
}

func (c *Controller) LockProgram() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.peLocked = true
	c.optLocked = true
	c.peStage = 0
	c.optStage = 0
}

func (c *Controller) LockOption() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.optLocked = true
	c.optStage = 0
}

func (c *Controller) SetErase(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.erase = on
}

func (c *Controller) WriteProgramKey(key uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.programKeys = append(c.programKeys, key)
	if c.depth == 0 {
		c.unguarded++
	}
	if c.hardLocked || !c.peLocked {
		c.fault()
		return
	}

	switch {
	case c.peStage == 0 && key == flash.ProgramKey1:
		c.peStage = 1
	case c.peStage == 1 && key == flash.ProgramKey2:
		c.peStage = 0
		c.peLocked = false
	default:
		c.fault()
	}
}

func (c *Controller) WriteOptionKey(key uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.optionKeys = append(c.optionKeys, key)
	if c.depth == 0 {
		c.unguarded++
	}
	if c.hardLocked || c.peLocked || !c.optLocked {
		c.fault()
		return
	}

	switch {
	case c.optStage == 0 && key == flash.OptionKey1:
		c.optStage = 1
	case c.optStage == 1 && key == flash.OptionKey2:
		c.optStage = 0
		c.optLocked = false
	default:
		c.fault()
	}
}

// fault models a key sequence error: everything stays locked until Reset.
func (c *Controller) fault() {
	c.hardLocked = true
	c.peLocked = true
	c.optLocked = true
	c.peStage = 0
	c.optStage = 0
}

// store is the bus write into cell i.
func (c *Controller) store(i int, v uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.busy = c.busyPolls
	if c.hardLocked || c.peLocked || c.optLocked {
		c.rejected++
		c.wrpErr = true
		return
	}

	if c.erase {
		c.cells[i] = c.erased
		c.erases[i]++
	} else {
		c.cells[i] &= v
		c.writes[i]++
	}

	if !c.suppressEOP {
		c.eop = true
	}
}

// ---- critical section ----

// Critical is a flash.CriticalSection that records its use.
func (c *Controller) Critical(fn func() error) error {
	c.mu.Lock()
	c.depth++
	c.entries++
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.depth--
		c.mu.Unlock()
	}()

	return fn()
}

// ---- cells ----

type word struct {
	c *Controller
	i int
}

func (w word) Load() uint32 {
	w.c.mu.Lock()
	defer w.c.mu.Unlock()
	return w.c.cells[w.i]
}

func (w word) Store(v uint32) {
	w.c.store(w.i, v)
}

// Words returns the option byte words in register order.
func (c *Controller) Words() [flash.OptionWords]flash.Word {
	var out [flash.OptionWords]flash.Word
	for i := range out {
		out[i] = word{c: c, i: i}
	}
	return out
}

// SetRaw overwrites cell i without going through the controller.
// Used to seed the model or to simulate external corruption.
func (c *Controller) SetRaw(i int, v uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cells[i] = v
}

// Raw returns a copy of all cell contents.
func (c *Controller) Raw() [flash.OptionWords]uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cells
}

// ---- inspection ----

// Reset models a power cycle of the controller: locks close, the key
// sequencer recovers, counters and cell contents are kept.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hardLocked = false
	c.peLocked = true
	c.optLocked = true
	c.peStage = 0
	c.optStage = 0
	c.erase = false
	c.eop = false
	c.wrpErr = false
	c.busy = 0
}

// SetSuppressEOP toggles completion suppression at runtime.
func (c *Controller) SetSuppressEOP(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.suppressEOP = on
}

// WriteProtectError reports the latched WRPERR flag.
func (c *Controller) WriteProtectError() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.wrpErr
}

// Locked reports the PELOCK and OPTLOCK bits.
func (c *Controller) Locked() (program, option bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.peLocked, c.optLocked
}

// HardLocked reports whether a key sequence error occurred since the last Reset.
func (c *Controller) HardLocked() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hardLocked
}

// EraseMode reports the ERASE bit.
func (c *Controller) EraseMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.erase
}

// Erases returns the number of accepted erase cycles on cell i.
func (c *Controller) Erases(i int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.erases[i]
}

// Writes returns the number of accepted program cycles on cell i.
func (c *Controller) Writes(i int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writes[i]
}

// Cycles returns the total number of accepted erase and program cycles.
func (c *Controller) Cycles() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for i := range c.cells {
		n += c.erases[i] + c.writes[i]
	}
	return n
}

// Rejected returns the number of stores dropped because a lock was closed.
func (c *Controller) Rejected() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rejected
}

// ProgramKeys returns every word written to PEKEYR, in order.
func (c *Controller) ProgramKeys() []uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]uint32(nil), c.programKeys...)
}

// OptionKeys returns every word written to OPTKEYR, in order.
func (c *Controller) OptionKeys() []uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]uint32(nil), c.optionKeys...)
}

// UnguardedKeys counts key writes issued outside Critical.
func (c *Controller) UnguardedKeys() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.unguarded
}

// CriticalEntries counts calls to Critical.
func (c *Controller) CriticalEntries() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries
}
