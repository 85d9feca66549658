// internal/status/encode.go
package status

import "math"

// Encode converts a Snapshot into a full machine status block.
// The name slots are left zero. Counters saturate instead of wrapping.
// No IO. No side effects.
func Encode(s Snapshot) []uint16 {
	regs := make([]uint16, SlotsPerMachine)

	regs[SlotHealthCode] = s.Health
	regs[SlotBalance] = sat16(uint64(max(s.Balance, 0)))
	regs[SlotValidity] = s.Validity
	if s.MotorRunning {
		regs[SlotMotorRunning] = 1
	}
	regs[SlotScreen] = s.Screen

	d := s.Dispensed
	if d > math.MaxUint32 {
		d = math.MaxUint32
	}
	regs[SlotDispensedHi] = uint16(d >> 16)
	regs[SlotDispensedLo] = uint16(d)

	regs[SlotCoins] = sat16(s.Coins)
	regs[SlotRefused] = sat16(s.Refused)
	regs[SlotRejected] = sat16(s.Rejected)

	return regs
}

// EncodeName packs up to 16 ASCII characters into 8 registers.
// Each register stores two ASCII bytes in big-endian order.
func EncodeName(name string) []uint16 {
	out := make([]uint16, SlotMachineNameSlots)

	b := []byte(name)
	if len(b) > MachineNameMaxChars {
		b = b[:MachineNameMaxChars]
	}

	// sanitize to printable ASCII
	for i := 0; i < len(b); i++ {
		if b[i] < 0x20 || b[i] > 0x7E {
			b[i] = '?'
		}
	}

	for i := 0; i < MachineNameMaxChars; i += 2 {
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

func sat16(v uint64) uint16 {
	if v > math.MaxUint16 {
		return math.MaxUint16
	}
	return uint16(v)
}
