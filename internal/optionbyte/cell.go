// internal/optionbyte/cell.go
package optionbyte

import "github.com/tamzrod/ob-reset/internal/flash"

// Encode returns the stored form of v: complement in the upper half.
func Encode(v uint16) uint32 {
	w := uint32(v)
	return (^w << 16) | (w & 0xffff)
}

// DecodeWord returns the value held by a stored word, or false when the upper
// half is not the complement of the lower half.
func DecodeWord(w uint32) (uint16, bool) {
	if w>>16 != ^w&0xffff {
		return 0, false
	}
	return uint16(w), true
}

// Cell is one option byte word.
type Cell struct {
	name  string
	index int
	word  flash.Word
}

// NewCell binds a named cell to its memory-mapped word.
func NewCell(name string, index int, w flash.Word) *Cell {
	return &Cell{name: name, index: index, word: w}
}

func (c *Cell) Name() string { return c.name }
func (c *Cell) Index() int   { return c.index }

// Raw returns the stored 32-bit word.
func (c *Cell) Raw() uint32 {
	return c.word.Load()
}

// Decode returns the cell value, or false when the cell is erased or corrupt.
func (c *Cell) Decode() (uint16, bool) {
	return DecodeWord(c.word.Load())
}

// Erase runs one erase cycle on the cell.
// The ERASE bit is cleared again whatever the outcome.
func (c *Cell) Erase(ctrl flash.Controller) error {
	ctrl.SetErase(true)
	err := c.writeRaw(0, ctrl, OpErase)
	ctrl.SetErase(false)
	return err
}

// WriteU16 programs the encoded form of v.
// The cell must have been erased first: programming only clears bits.
func (c *Cell) WriteU16(v uint16, ctrl flash.Controller) error {
	return c.writeRaw(Encode(v), ctrl, OpWrite)
}

func (c *Cell) writeRaw(v uint32, ctrl flash.Controller, op Op) error {
	c.word.Store(v)
	if !waitEOP(ctrl) {
		return &Fault{Op: op, Cell: c.name, Index: c.index}
	}
	return nil
}

// waitEOP spins until BSY drops, then consumes EOP.
func waitEOP(ctrl flash.Controller) bool {
	for ctrl.Busy() {
	}
	if !ctrl.EndOfOperation() {
		return false
	}
	ctrl.ClearEndOfOperation()
	return true
}
