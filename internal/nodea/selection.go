// internal/nodea/selection.go
package nodea

import (
	"go.uber.org/zap"

	"github.com/tamzrod/minivendi/internal/link"
	"github.com/tamzrod/minivendi/internal/metrics"
	"github.com/tamzrod/minivendi/internal/peripheral"
	"github.com/tamzrod/minivendi/internal/protocol"
)

type selectionState uint8

const (
	selInit selectionState = iota
	selReceive
	selSelect1
	selSelect2
	selBlocked
)

func (s selectionState) String() string {
	switch s {
	case selInit:
		return "Init"
	case selReceive:
		return "Receive"
	case selSelect1:
		return "Select1"
	case selSelect2:
		return "Select2"
	case selBlocked:
		return "Blocked"
	default:
		return "Unknown"
	}
}

type selectionInputs struct {
	remote   byte
	key      byte
	released bool
}

// nextSelection is the transition function. The product 1 token wins
// when both sources disagree in one tick.
func nextSelection(s selectionState, in selectionInputs) selectionState {
	switch s {
	case selInit:
		return selReceive
	case selReceive:
		switch {
		case in.key == protocol.Product1.Token() || in.remote == protocol.Product1.Token():
			return selSelect1
		case in.key == protocol.Product2.Token() || in.remote == protocol.Product2.Token():
			return selSelect2
		default:
			return selReceive
		}
	case selSelect1, selSelect2:
		return selBlocked
	case selBlocked:
		if in.released {
			return selReceive
		}
		return selBlocked
	default:
		return selInit
	}
}

// SelectionInput latches one product choice from the keypad or the remote
// channel and refuses another until the transmitter acknowledges it.
type SelectionInput struct {
	state  selectionState
	shared *Shared
	keypad peripheral.Keypad
	remote link.Receiver

	// buffered input; the remote byte persists until released
	remoteTok byte
	keyTok    byte

	health inputHealth
	log    *zap.Logger
}

func NewSelectionInput(shared *Shared, keypad peripheral.Keypad, remote link.Receiver, log *zap.Logger) *SelectionInput {
	if remote == nil {
		remote = noRemote{}
	}
	return &SelectionInput{
		shared: shared,
		keypad: keypad,
		remote: remote,
		health: inputHealth{what: "keypad"},
		log:    log,
	}
}

func (m *SelectionInput) Tick() {
	m.act()

	in := selectionInputs{
		remote:   m.remoteTok,
		key:      m.keyTok,
		released: m.shared.Handshake.Released(m.shared.Latch),
	}
	next := nextSelection(m.state, in)

	if m.state == selBlocked && next == selReceive {
		m.log.Info("selection released", zap.Stringer("product", m.shared.Latch.Selection), zap.Uint32("latch", m.shared.Latch.Seq))
		m.shared.Latch.Selection = protocol.NoProduct
		m.remoteTok = 0
	}
	if next != m.state {
		m.log.Debug("transition", zap.Stringer("from", m.state), zap.Stringer("to", next))
	}
	m.state = next
}

func (m *SelectionInput) act() {
	switch m.state {
	case selInit:
		m.shared.Latch.Selection = protocol.NoProduct
		m.remoteTok = 0
		m.keyTok = 0

	case selReceive:
		if b, ok := m.remote.Receive(); ok {
			m.remoteTok = b
		}
		k, err := m.keypad.Key()
		if err != nil {
			m.health.fail(m.log, err)
			k = peripheral.NoKey
		} else {
			m.health.ok(m.log)
		}
		m.keyTok = k

	case selSelect1:
		m.latch(protocol.Product1)

	case selSelect2:
		m.latch(protocol.Product2)
	}
}

func (m *SelectionInput) latch(p protocol.Product) {
	m.shared.Latch = Latch{Selection: p, Seq: m.shared.Latch.Seq + 1}
	m.keyTok = 0
	metrics.SelectionsLatched.WithLabelValues(p.String()).Inc()
	m.log.Info("selection latched", zap.Stringer("product", p), zap.Uint32("latch", m.shared.Latch.Seq))
}

type noRemote struct{}

func (noRemote) Receive() (byte, bool) { return 0, false }
