// internal/nodeb/dispense.go
package nodeb

import (
	"go.uber.org/zap"

	"github.com/tamzrod/minivendi/internal/metrics"
	"github.com/tamzrod/minivendi/internal/protocol"
)

// Actuator receives the coil pattern once per dispense tick.
type Actuator interface {
	Drive(pattern byte)
}

type dispenseState uint8

const (
	sdInit dispenseState = iota
	sdProcess
	sdDrive1
	sdDrive2
	sdFinish
)

func (s dispenseState) String() string {
	switch s {
	case sdInit:
		return "Init"
	case sdProcess:
		return "Process"
	case sdDrive1:
		return "Drive1"
	case sdDrive2:
		return "Drive2"
	case sdFinish:
		return "Finish"
	default:
		return "Unknown"
	}
}

type dispenseInputs struct {
	validity  protocol.ValidityCode
	phaseDone bool
}

// nextDispense only ever starts on an OK code.
func nextDispense(s dispenseState, in dispenseInputs) dispenseState {
	switch s {
	case sdInit:
		return sdProcess
	case sdProcess:
		switch in.validity {
		case protocol.ValidityProduct1OK:
			return sdDrive1
		case protocol.ValidityProduct2OK:
			return sdDrive2
		default:
			return sdProcess
		}
	case sdDrive1, sdDrive2:
		if in.phaseDone {
			return sdFinish
		}
		return s
	case sdFinish:
		return sdProcess
	default:
		return sdInit
	}
}

// DispenseDriver steps the selected product's motor through its full-step
// sequence for a fixed number of phases, then closes the purchase.
type DispenseDriver struct {
	state  dispenseState
	shared *Shared
	out    Actuator

	sequences [len(protocol.Products)]protocol.StepSequence
	positions [len(protocol.Products)]int
	total     int
	phase     int
	pattern   byte

	// the OK code being dispensed
	serving protocol.ValidityCode

	log *zap.Logger
}

func NewDispenseDriver(shared *Shared, out Actuator, seq1, seq2 protocol.StepSequence, phasesToDispense int, log *zap.Logger) *DispenseDriver {
	if out == nil {
		out = nopActuator{}
	}
	return &DispenseDriver{
		shared:    shared,
		out:       out,
		sequences: [len(protocol.Products)]protocol.StepSequence{seq1, seq2},
		total:     phasesToDispense,
		log:       log,
	}
}

func (m *DispenseDriver) Tick() {
	m.act()
	m.out.Drive(m.pattern)

	in := dispenseInputs{
		validity:  m.shared.Validity,
		phaseDone: m.phase >= m.total,
	}
	next := nextDispense(m.state, in)

	if m.state == sdProcess && next != sdProcess {
		m.serving = in.validity
		m.log.Info("dispense started", zap.Stringer("product", in.validity.Product()))
	}
	if next != m.state {
		m.log.Debug("transition", zap.Stringer("from", m.state), zap.Stringer("to", next))
	}
	m.state = next
}

func (m *DispenseDriver) act() {
	switch m.state {
	case sdInit:
		m.shared.MotorRunning = false
		m.pattern = 0
		m.phase = 0
		m.positions = [len(protocol.Products)]int{}

	case sdDrive1:
		m.step(protocol.Product1)

	case sdDrive2:
		m.step(protocol.Product2)

	case sdFinish:
		m.shared.MotorRunning = false
		metrics.MotorRunning.Set(0)
		m.pattern = 0
		m.phase = 0
		// closes the transaction
		m.shared.resolve(m.serving)
		m.shared.Dispensed++
		m.log.Info("dispense finished", zap.Stringer("product", m.serving.Product()), zap.Uint64("dispensed", m.shared.Dispensed))
		m.serving = protocol.ValidityNone
	}
}

func (m *DispenseDriver) step(p protocol.Product) {
	i := int(p) - 1
	if !m.shared.MotorRunning {
		metrics.MotorRunning.Set(1)
	}
	m.shared.MotorRunning = true
	m.pattern = m.sequences[i][m.positions[i]]
	m.positions[i] = (m.positions[i] + 1) % protocol.SequenceLen
	m.phase++
	metrics.DispenseSteps.WithLabelValues(p.String()).Inc()
}

type nopActuator struct{}

func (nopActuator) Drive(byte) {}
