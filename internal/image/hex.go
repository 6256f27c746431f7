// internal/image/hex.go
package image

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/marcinbor85/gohex"

	"github.com/tamzrod/ob-reset/internal/flash"
)

// Size is the byte length of the option byte region covered by an image.
const Size = 4 * flash.OptionWords

// Base is the load address of the option byte region in an image.
const Base = uint32(flash.OptionBytesBase)

// fill is used for addresses the image does not cover.
const fill byte = 0xFF

// Read parses an Intel HEX image and returns the option byte words found at
// Base. Words not covered by the image read as erased (0xFFFFFFFF).
// Segments outside the region are ignored.
func Read(r io.Reader) ([flash.OptionWords]uint32, error) {
	var words [flash.OptionWords]uint32

	mem := gohex.NewMemory()
	if err := mem.ParseIntelHex(r); err != nil {
		return words, fmt.Errorf("image: parse: %w", err)
	}

	covered := false
	for _, seg := range mem.GetDataSegments() {
		end := seg.Address + uint32(len(seg.Data))
		if seg.Address < Base+Size && end > Base {
			covered = true
			break
		}
	}
	if !covered {
		return words, fmt.Errorf("image: no data at 0x%08X", Base)
	}

	raw := mem.ToBinary(Base, Size, fill)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(raw[4*i:])
	}
	return words, nil
}

// Write dumps words as an Intel HEX image placed at Base.
func Write(w io.Writer, words [flash.OptionWords]uint32) error {
	raw := make([]byte, Size)
	for i, v := range words {
		binary.LittleEndian.PutUint32(raw[4*i:], v)
	}

	mem := gohex.NewMemory()
	if err := mem.AddBinary(Base, raw); err != nil {
		return fmt.Errorf("image: add: %w", err)
	}
	if err := mem.DumpIntelHex(w, 16); err != nil {
		return fmt.Errorf("image: dump: %w", err)
	}
	return nil
}

// Load reads the image file at path.
func Load(path string) ([flash.OptionWords]uint32, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		var words [flash.OptionWords]uint32
		return words, err
	}
	return Read(bytes.NewReader(b))
}

// Dump writes words to the image file at path.
func Dump(path string, words [flash.OptionWords]uint32) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := Write(f, words); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
