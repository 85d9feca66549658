// internal/nodeb/receiver.go
package nodeb

import (
	"go.uber.org/zap"

	"github.com/tamzrod/minivendi/internal/link"
	"github.com/tamzrod/minivendi/internal/metrics"
	"github.com/tamzrod/minivendi/internal/protocol"
)

type receiverState uint8

const (
	rxInit receiverState = iota
	rxReceive
)

func (s receiverState) String() string {
	switch s {
	case rxInit:
		return "Init"
	case rxReceive:
		return "Receive"
	default:
		return "Unknown"
	}
}

func nextReceiver(s receiverState) receiverState {
	switch s {
	case rxInit, rxReceive:
		return rxReceive
	default:
		return rxInit
	}
}

// LinkReceiver consumes at most one control byte per tick and keeps the
// account: a coin bit credits one coin, a selection bit is checked
// against the price table and produces a validity code.
type LinkReceiver struct {
	state  receiverState
	shared *Shared
	in     link.Receiver
	prices protocol.PriceTable
	log    *zap.Logger
}

func NewLinkReceiver(shared *Shared, in link.Receiver, prices protocol.PriceTable, log *zap.Logger) *LinkReceiver {
	return &LinkReceiver{shared: shared, in: in, prices: prices, log: log}
}

func (m *LinkReceiver) Tick() {
	if m.state == rxReceive {
		if b, ok := m.in.Receive(); ok {
			m.consume(protocol.ControlByte(b))
		}
	}

	next := nextReceiver(m.state)
	if next != m.state {
		m.log.Debug("transition", zap.Stringer("from", m.state), zap.Stringer("to", next))
	}
	m.state = next
}

func (m *LinkReceiver) consume(b protocol.ControlByte) {
	s := m.shared
	s.Ledger.Received++
	metrics.ControlBytesReceived.Inc()

	if b.Malformed() {
		// reserved bits ignored; both selections resolve to product 1
		s.Ledger.Malformed++
		metrics.MalformedControlBytes.Inc()
		m.log.Warn("malformed control byte", zap.Stringer("byte", b))
	}

	if b.Coin() {
		s.Balance++
		s.Ledger.Coins++
		metrics.CoinsAccepted.Inc()
	}

	if p := b.Selection(); p != protocol.NoProduct {
		m.purchase(p)
	}

	metrics.Balance.Set(float64(s.Balance))
	m.log.Debug("control byte consumed", zap.Stringer("byte", b), zap.Int("balance", s.Balance))
}

func (m *LinkReceiver) purchase(p protocol.Product) {
	s := m.shared

	if s.Validity.Pending() {
		// the previous verdict has not been consumed yet
		s.Ledger.Rejected++
		metrics.SelectionsRejected.Inc()
		m.log.Warn("selection rejected while verdict pending",
			zap.Stringer("product", p),
			zap.Stringer("pending", s.Validity),
		)
		return
	}

	price, err := m.prices.Price(p)
	if err != nil {
		m.log.Error("no price", zap.Stringer("product", p), zap.Error(err))
		return
	}

	ok := s.Balance >= price
	s.Validity = protocol.Verdict(p, ok)
	if ok {
		s.Balance -= price
		s.Ledger.Approved++
		metrics.Purchases.WithLabelValues(p.String(), "approved").Inc()
	} else {
		s.Ledger.Refused++
		metrics.Purchases.WithLabelValues(p.String(), "insufficient").Inc()
	}

	m.log.Info("purchase attempt",
		zap.Stringer("product", p),
		zap.Int("price", price),
		zap.Stringer("validity", s.Validity),
		zap.Int("balance", s.Balance),
	)
}
