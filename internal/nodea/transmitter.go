// internal/nodea/transmitter.go
package nodea

import (
	"go.uber.org/zap"

	"github.com/tamzrod/minivendi/internal/link"
	"github.com/tamzrod/minivendi/internal/metrics"
	"github.com/tamzrod/minivendi/internal/protocol"
)

type transmitState uint8

const (
	txInit transmitState = iota
	txCheckUpdate
	txTransmit
	txResetWindow
)

func (s transmitState) String() string {
	switch s {
	case txInit:
		return "Init"
	case txCheckUpdate:
		return "CheckUpdate"
	case txTransmit:
		return "Transmit"
	case txResetWindow:
		return "ResetWindow"
	default:
		return "Unknown"
	}
}

type transmitInputs struct {
	changed    bool
	sent       bool
	windowDone bool
}

func nextTransmit(s transmitState, in transmitInputs) transmitState {
	switch s {
	case txInit:
		return txCheckUpdate
	case txCheckUpdate:
		if in.changed {
			return txTransmit
		}
		return txCheckUpdate
	case txTransmit:
		if in.sent {
			return txResetWindow
		}
		return txTransmit
	case txResetWindow:
		if in.windowDone {
			return txCheckUpdate
		}
		return txResetWindow
	default:
		return txInit
	}
}

// LinkTransmitter sends the control byte once per change and then holds
// off for a fixed window, asserting the reset flag that releases the
// selection latch.
//
// A link that never becomes ready stalls the machine in Transmit; there
// is no timeout.
type LinkTransmitter struct {
	state  transmitState
	shared *Shared
	out    link.Sender
	window int

	lastSent Encoded
	delay    int
	sent     bool

	log *zap.Logger
}

func NewLinkTransmitter(shared *Shared, out link.Sender, resetWindowTicks int, log *zap.Logger) *LinkTransmitter {
	return &LinkTransmitter{
		shared: shared,
		out:    out,
		window: resetWindowTicks,
		log:    log,
	}
}

func (m *LinkTransmitter) Tick() {
	m.act()

	in := transmitInputs{sent: m.sent, windowDone: m.delay >= m.window}
	if m.state == txCheckUpdate {
		cand := m.candidate()
		if cand.differs(m.lastSent) {
			in.changed = true
			m.lastSent = cand
		}
	}
	next := nextTransmit(m.state, in)

	if m.state == txResetWindow && next == txCheckUpdate {
		m.shared.Handshake.Reset = false
		m.delay = 0
	}
	if next != m.state {
		m.log.Debug("transition", zap.Stringer("from", m.state), zap.Stringer("to", next))
	}
	m.state = next
}

func (m *LinkTransmitter) act() {
	m.sent = false

	switch m.state {
	case txInit:
		m.lastSent = Encoded{}
		m.delay = 0

	case txTransmit:
		if !m.out.Ready() {
			metrics.TransmitStalledTicks.Inc()
			return
		}
		if err := m.out.Send(byte(m.lastSent.Byte)); err != nil {
			// not a send; try again next tick
			metrics.TransmitStalledTicks.Inc()
			m.log.Warn("control byte send failed", zap.Stringer("byte", m.lastSent.Byte), zap.Error(err))
			return
		}
		m.sent = true
		m.publish()

	case txResetWindow:
		m.delay++
	}
}

// candidate is the byte to compare against the last transmission. A
// selection or coin that was already acknowledged is never sent twice.
func (m *LinkTransmitter) candidate() Encoded {
	cand := m.shared.Encoded
	h := m.shared.Handshake

	coin := cand.Byte.Coin() && cand.CoinSeq != h.CoinAcked
	sel := cand.Byte.Selection()
	if sel != protocol.NoProduct && cand.LatchSeq == h.Acked {
		sel = protocol.NoProduct
	}
	cand.Byte = protocol.Encode(coin, sel)
	return cand
}

func (m *LinkTransmitter) publish() {
	h := &m.shared.Handshake
	h.Reset = true
	h.Sent = m.lastSent.Byte
	h.Sends++
	if m.lastSent.Byte.Selection() != protocol.NoProduct {
		h.Acked = m.lastSent.LatchSeq
	}
	if m.lastSent.Byte.Coin() {
		h.CoinAcked = m.lastSent.CoinSeq
	}

	metrics.ControlBytesSent.Inc()
	m.log.Info("control byte sent",
		zap.Stringer("byte", m.lastSent.Byte),
		zap.Uint64("sends", h.Sends),
	)
}
