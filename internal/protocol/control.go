// internal/protocol/control.go
package protocol

import "fmt"

// ControlByte is the one-byte message node A sends to node B.
//
// Layout:
//
//	bit 0   coin detected
//	bit 1   product 1 selected
//	bit 2   product 2 selected
//	bit 3-7 unused, MUST be zero
type ControlByte byte

const (
	BitCoin     ControlByte = 0x01
	BitProduct1 ControlByte = 0x02
	BitProduct2 ControlByte = 0x04

	selectionMask ControlByte = BitProduct1 | BitProduct2
	validMask     ControlByte = BitCoin | selectionMask
)

// Encode builds a control byte from the coin flag and the latched selection.
// At most one selection bit is ever set.
func Encode(coin bool, sel Product) ControlByte {
	var b ControlByte
	if coin {
		b |= BitCoin
	}
	switch sel {
	case Product1:
		b |= BitProduct1
	case Product2:
		b |= BitProduct2
	}
	return b
}

// Coin reports whether the coin flag is set.
func (b ControlByte) Coin() bool { return b&BitCoin != 0 }

// Selection returns the selected product.
// Both selection bits set is malformed; product 1 wins.
func (b ControlByte) Selection() Product {
	switch {
	case b&BitProduct1 != 0:
		return Product1
	case b&BitProduct2 != 0:
		return Product2
	default:
		return NoProduct
	}
}

// Malformed reports bytes that violate the layout: reserved bits set or
// both selection bits set.
func (b ControlByte) Malformed() bool {
	if b&^validMask != 0 {
		return true
	}
	return b&selectionMask == selectionMask
}

func (b ControlByte) String() string {
	return fmt.Sprintf("0x%02X", byte(b))
}
