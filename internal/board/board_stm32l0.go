// internal/board/board_stm32l0.go

//go:build stm32l0

package board

import "github.com/tamzrod/ob-reset/internal/flash"

// Open returns the on-chip flash controller, the memory-mapped option bytes
// and an interrupt-masking critical section.
func Open() Handles {
	return Handles{
		Controller: flash.Hardware(),
		Words:      flash.OptionBlock(),
		Critical:   flash.InterruptFree,
	}
}
