// internal/optionbyte/block.go
package optionbyte

import "github.com/tamzrod/ob-reset/internal/flash"

// Register order inside the option byte block.
const (
	IndexOPTRL = iota
	IndexOPTRH
	IndexWRPROT1L
	IndexWRPROT1H
	IndexWRPROT2L
)

var cellNames = [flash.OptionWords]string{
	IndexOPTRL:    "OPTRL",
	IndexOPTRH:    "OPTRH",
	IndexWRPROT1L: "WRPROT1L",
	IndexWRPROT1H: "WRPROT1H",
	IndexWRPROT2L: "WRPROT2L",
}

// Block is the option byte register block.
type Block struct {
	cells [flash.OptionWords]*Cell
}

// NewBlock names the words of a memory-mapped block, in register order.
func NewBlock(words [flash.OptionWords]flash.Word) *Block {
	b := &Block{}
	for i, w := range words {
		b.cells[i] = NewCell(cellNames[i], i, w)
	}
	return b
}

// Cell returns the cell at register index i.
func (b *Block) Cell(i int) *Cell {
	return b.cells[i]
}

// Cells returns all cells in register order.
func (b *Block) Cells() []*Cell {
	return b.cells[:]
}

// CellName returns the register name of index i.
func CellName(i int) string {
	if i < 0 || i >= len(cellNames) {
		return ""
	}
	return cellNames[i]
}

// CellIndex returns the register index of a cell name.
func CellIndex(name string) (int, bool) {
	for i, n := range cellNames {
		if n == name {
			return i, true
		}
	}
	return 0, false
}
