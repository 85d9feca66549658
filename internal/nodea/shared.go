// internal/nodea/shared.go
package nodea

import "github.com/tamzrod/minivendi/internal/protocol"

// Shared is the node A context every machine ticks against.
// Each field has exactly one writer; every other machine only reads it.
type Shared struct {
	// Coin is true while the beam sensor sees an object.
	// Writer: CoinSensor.
	Coin bool

	// CoinEdges counts rising edges of Coin, one per inserted coin.
	// Writer: CoinSensor.
	CoinEdges uint32

	// Latch is the pending product selection.
	// Writer: SelectionInput.
	Latch Latch

	// Encoded is the control byte node A wants node B to see.
	// Writer: DecisionEncoder.
	Encoded Encoded

	// Handshake reports the last transmission.
	// Writer: LinkTransmitter.
	Handshake Handshake
}

// Latch holds at most one selection. Seq grows by one for every latch so
// two consecutive selections of the same product stay distinguishable.
type Latch struct {
	Selection protocol.Product
	Seq       uint32
}

// Encoded is a control byte together with the latch and the coin edge it
// encodes. CoinSeq is only meaningful while the coin bit is set.
type Encoded struct {
	Byte     protocol.ControlByte
	LatchSeq uint32
	CoinSeq  uint32
}

// differs reports whether e must be transmitted when last went out before.
// A selection with a new latch sequence, or a coin with a new edge
// sequence, differs even if the byte repeats.
func (e Encoded) differs(last Encoded) bool {
	if e.Byte != last.Byte {
		return true
	}
	if e.Byte.Coin() && e.CoinSeq != last.CoinSeq {
		return true
	}
	return e.Byte.Selection() != protocol.NoProduct && e.LatchSeq != last.LatchSeq
}

// Handshake is published by the transmitter after every send.
type Handshake struct {
	// Reset is asserted from a send until the hold-off window elapses.
	Reset bool

	// Acked is the latch sequence of the last transmitted selection.
	Acked uint32

	// CoinAcked is the coin edge carried by the last byte sent with the
	// coin bit set. Edges after it are still owed to node B.
	CoinAcked uint32

	// Sent is the last transmitted byte; Sends counts transmissions.
	Sent  protocol.ControlByte
	Sends uint64
}

// Released reports whether the handshake for latch l has completed.
func (h Handshake) Released(l Latch) bool {
	return h.Reset && l.Selection != protocol.NoProduct && h.Acked == l.Seq
}
