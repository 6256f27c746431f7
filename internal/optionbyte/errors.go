// internal/optionbyte/errors.go
package optionbyte

import (
	"errors"
	"fmt"
)

// ErrFault is matched by every Fault.
var ErrFault = errors.New("optionbyte: flash operation did not complete")

// Op names the flash cycle that faulted.
type Op string

const (
	OpErase Op = "erase"
	OpWrite Op = "write"
)

// Fault reports an erase or program cycle that ended without end-of-operation.
type Fault struct {
	Op    Op
	Cell  string
	Index int
}

func (e *Fault) Error() string {
	return fmt.Sprintf("optionbyte: %s of %s did not complete (no EOP)", e.Op, e.Cell)
}

func (e *Fault) Unwrap() error {
	return ErrFault
}

// Code packs the fault into a status register value:
// high byte = cell index + 1, low byte = 1 for erase, 2 for write.
func (e *Fault) Code() uint16 {
	var op uint16
	switch e.Op {
	case OpErase:
		op = 1
	case OpWrite:
		op = 2
	}
	return uint16(e.Index+1)<<8 | op
}
