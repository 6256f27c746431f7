// internal/board/board_host.go

//go:build !stm32l0

package board

import "github.com/tamzrod/ob-reset/internal/flash/sim"

// Open returns a simulated controller holding erased option bytes.
func Open() Handles {
	c := sim.New()
	return Handles{
		Controller: c,
		Words:      c.Words(),
		Critical:   c.Critical,
	}
}
