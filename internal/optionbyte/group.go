// internal/optionbyte/group.go
package optionbyte

// Factory values.
const (
	OPTRResetValue    uint32 = 0x8070_00AA
	WRPROT1ResetValue uint32 = 0x0000_0000
	WRPROT2ResetValue uint16 = 0x0000
)

// Group names.
const (
	GroupOPTR    = "OPTR"
	GroupWRPROT1 = "WRPROT1"
	GroupWRPROT2 = "WRPROT2"
)

// Slot is one cell of a group with the value it must hold.
type Slot struct {
	Cell    *Cell
	Default uint16
}

// Group is one logical register made of one or two cells,
// least significant half first.
type Group struct {
	Name  string
	Slots []Slot
}

// Value returns the logical register value, or false if any cell is invalid.
func (g Group) Value() (uint32, bool) {
	var v uint32
	for i, s := range g.Slots {
		h, ok := s.Cell.Decode()
		if !ok {
			return 0, false
		}
		v |= uint32(h) << (16 * i)
	}
	return v, true
}

// Default returns the factory value of the whole register.
func (g Group) Default() uint32 {
	var v uint32
	for i, s := range g.Slots {
		v |= uint32(s.Default) << (16 * i)
	}
	return v
}

func split(v uint32) (lo, hi uint16) {
	return uint16(v), uint16(v >> 16)
}

func defaultGroups(b *Block) []Group {
	optrl, optrh := split(OPTRResetValue)
	wrp1l, wrp1h := split(WRPROT1ResetValue)

	return []Group{
		{
			Name: GroupOPTR,
			Slots: []Slot{
				{Cell: b.Cell(IndexOPTRL), Default: optrl},
				{Cell: b.Cell(IndexOPTRH), Default: optrh},
			},
		},
		{
			Name: GroupWRPROT1,
			Slots: []Slot{
				{Cell: b.Cell(IndexWRPROT1L), Default: wrp1l},
				{Cell: b.Cell(IndexWRPROT1H), Default: wrp1h},
			},
		},
		{
			Name: GroupWRPROT2,
			Slots: []Slot{
				{Cell: b.Cell(IndexWRPROT2L), Default: WRPROT2ResetValue},
			},
		},
	}
}
