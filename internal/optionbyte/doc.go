// internal/optionbyte/doc.go

// Package optionbyte restores the STM32L0 option byte words (OPTR, WRPROT1,
// WRPROT2) to their factory values.
//
// # Storage format
//
// Every option byte word holds a 16-bit value next to its complement:
//
//	(^value << 16) | value
//
// A word whose upper half is not the complement of its lower half decodes to
// nothing and is always rewritten.
//
// # Reset sequence
//
// A reset first decodes every cell of a group. When all of them already hold
// the factory value no flash cycle is issued. Otherwise, with interrupts
// disabled, the engine waits for the controller to go idle, opens PELOCK and
// OPTLOCK (only the levels found closed), erases and programs each differing
// cell, and closes again exactly the locks it opened.
//
// Busy waits spin on the status register without timeout.
//
// # Usage
//
//	ctrl := flash.Hardware()
//	eng := optionbyte.New(optionbyte.NewBlock(flash.OptionBlock()),
//	    optionbyte.WithCriticalSection(flash.InterruptFree),
//	)
//	for {
//	    if err := eng.ResetOPTR(ctrl); err != nil {
//	        // fault policy
//	    }
//	}
package optionbyte
