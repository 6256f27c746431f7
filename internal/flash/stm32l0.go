// internal/flash/stm32l0.go

//go:build stm32l0

package flash

import (
	"device/stm32"
	"runtime/interrupt"
	"runtime/volatile"
	"unsafe"
)

// hardware drives the STM32L0 FLASH peripheral directly.
type hardware struct{}

// Hardware returns the controller handle for the on-chip flash interface.
// The caller owns it; nothing else in the program may touch FLASH.
func Hardware() Controller {
	return hardware{}
}

func (hardware) Busy() bool           { return stm32.FLASH.GetSR_BSY() != 0 }
func (hardware) EndOfOperation() bool { return stm32.FLASH.GetSR_EOP() != 0 }

// SR flags are rc_w1. Write the EOP mask alone: a read-modify-write would
// also clear pending error flags (WRPERR, NOTZEROERR, ...).
func (hardware) ClearEndOfOperation() { stm32.FLASH.SR.Set(stm32.FLASH_SR_EOP) }

func (hardware) ProgramLocked() bool { return stm32.FLASH.GetPECR_PELOCK() != 0 }
func (hardware) OptionLocked() bool  { return stm32.FLASH.GetPECR_OPTLOCK() != 0 }
func (hardware) LockProgram()        { stm32.FLASH.SetPECR_PELOCK(1) }
func (hardware) LockOption()         { stm32.FLASH.SetPECR_OPTLOCK(1) }

func (hardware) SetErase(on bool) {
	if on {
		stm32.FLASH.SetPECR_ERASE(1)
	} else {
		stm32.FLASH.SetPECR_ERASE(0)
	}
}

func (hardware) WriteProgramKey(key uint32) { stm32.FLASH.PEKEYR.Set(key) }
func (hardware) WriteOptionKey(key uint32)  { stm32.FLASH.OPTKEYR.Set(key) }

type optionWord struct {
	reg *volatile.Register32
}

func (w optionWord) Load() uint32   { return w.reg.Get() }
func (w optionWord) Store(v uint32) { w.reg.Set(v) }

// OptionBlock returns the memory-mapped option byte words in register order:
// OPTRL, OPTRH, WRPROT1L, WRPROT1H, WRPROT2L.
func OptionBlock() [OptionWords]Word {
	regs := (*[OptionWords]volatile.Register32)(unsafe.Pointer(OptionBytesBase))
	var out [OptionWords]Word
	for i := range regs {
		out[i] = optionWord{reg: &regs[i]}
	}
	return out
}

// InterruptFree runs fn with interrupts masked.
func InterruptFree(fn func() error) error {
	mask := interrupt.Disable()
	defer interrupt.Restore(mask)
	return fn()
}
