// internal/status/encode.go
package status

// Encode converts a Snapshot into the live slots of a group status block.
// Layout is protocol-locked.
// No IO. No side effects.
func Encode(s Snapshot) []uint16 {
	regs := make([]uint16, SlotLive)

	regs[SlotHealthCode] = s.Health
	regs[SlotLastFaultCode] = s.LastFaultCode
	regs[SlotConsecutiveFaults] = s.ConsecutiveFaults
	regs[SlotRewrites] = s.Rewrites
	regs[SlotValueLow] = s.ValueLow
	regs[SlotValueHigh] = s.ValueHigh
	regs[SlotValid] = s.Valid

	return regs
}

// EncodeBlock converts a Snapshot and group name into a full status block.
func EncodeBlock(s Snapshot, name string) []uint16 {
	regs := make([]uint16, SlotsPerGroup)
	copy(regs, Encode(s))

	// Slots SlotReservedStart..SlotReservedEnd are RESERVED → left as zero

	nameRegs := EncodeName(name)
	for i := 0; i < SlotGroupNameSlots; i++ {
		regs[SlotGroupNameStart+i] = nameRegs[i]
	}

	return regs
}

// EncodeName packs up to 8 ASCII characters into 4 uint16 registers.
// Each register stores two ASCII bytes in big-endian order.
func EncodeName(name string) []uint16 {
	out := make([]uint16, SlotGroupNameSlots)

	b := []byte(name)
	if len(b) > GroupNameMaxChars {
		b = b[:GroupNameMaxChars]
	}

	// sanitize to printable ASCII
	for i := 0; i < len(b); i++ {
		if b[i] < 0x20 || b[i] > 0x7E {
			b[i] = '?'
		}
	}

	for i := 0; i < GroupNameMaxChars; i += 2 {
		var hi, lo byte
		if i < len(b) {
			hi = b[i]
		}
		if i+1 < len(b) {
			lo = b[i+1]
		}
		out[i/2] = uint16(hi)<<8 | uint16(lo)
	}

	return out
}
