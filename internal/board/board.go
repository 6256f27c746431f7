// internal/board/board.go
package board

import (
	"github.com/tamzrod/ob-reset/internal/flash"
	"github.com/tamzrod/ob-reset/internal/optionbyte"
)

// Handles are the exclusive resources the reset loop owns.
// Open hands them out once; nothing else may touch the flash controller.
type Handles struct {
	Controller flash.Controller
	Words      [flash.OptionWords]flash.Word
	Critical   flash.CriticalSection
}

// Block wraps the option byte words.
func (h Handles) Block() *optionbyte.Block {
	return optionbyte.NewBlock(h.Words)
}
