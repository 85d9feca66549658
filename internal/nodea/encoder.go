// internal/nodea/encoder.go
package nodea

import (
	"go.uber.org/zap"

	"github.com/tamzrod/minivendi/internal/protocol"
)

type encoderState uint8

const (
	encInit encoderState = iota
	encUpdate
)

func (s encoderState) String() string {
	switch s {
	case encInit:
		return "Init"
	case encUpdate:
		return "Update"
	default:
		return "Unknown"
	}
}

func nextEncoder(s encoderState) encoderState {
	switch s {
	case encInit, encUpdate:
		return encUpdate
	default:
		return encInit
	}
}

// DecisionEncoder folds the coin edges and the selection latch into the
// control byte. The coin bit stays set while a counted coin has not been
// transmitted yet, so a coin that comes and goes during the hold-off
// window still reaches node B. It may lag its inputs by one period.
type DecisionEncoder struct {
	state  encoderState
	shared *Shared
	log    *zap.Logger
}

func NewDecisionEncoder(shared *Shared, log *zap.Logger) *DecisionEncoder {
	return &DecisionEncoder{shared: shared, log: log}
}

func (m *DecisionEncoder) Tick() {
	switch m.state {
	case encInit:
		m.shared.Encoded = Encoded{}
	case encUpdate:
		l := m.shared.Latch
		acked := m.shared.Handshake.CoinAcked
		owed := m.shared.CoinEdges != acked

		e := Encoded{
			Byte:     protocol.Encode(owed, l.Selection),
			LatchSeq: l.Seq,
		}
		if owed {
			e.CoinSeq = acked + 1
		}
		m.shared.Encoded = e
	}

	next := nextEncoder(m.state)
	if next != m.state {
		m.log.Debug("transition", zap.Stringer("from", m.state), zap.Stringer("to", next))
	}
	m.state = next
}
