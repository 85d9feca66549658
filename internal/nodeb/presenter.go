// internal/nodeb/presenter.go
package nodeb

import (
	"go.uber.org/zap"

	"github.com/tamzrod/minivendi/internal/display"
	"github.com/tamzrod/minivendi/internal/protocol"
)

type presenterState uint8

const (
	lcdInit presenterState = iota
	lcdWelcome
	lcdBalance
	lcdDispense1
	lcdDispense2
	lcdInsufficient
	lcdThankYou
)

func (s presenterState) String() string {
	switch s {
	case lcdInit:
		return "Init"
	case lcdWelcome:
		return "Welcome"
	case lcdBalance:
		return "BalanceDisplay"
	case lcdDispense1:
		return "Dispense1"
	case lcdDispense2:
		return "Dispense2"
	case lcdInsufficient:
		return "Insufficient"
	case lcdThankYou:
		return "ThankYou"
	default:
		return "Unknown"
	}
}

// Dwell is how many display ticks the timed screens stay up.
type Dwell struct {
	Welcome      int
	Insufficient int
	ThankYou     int
}

type presenterInputs struct {
	validity     protocol.ValidityCode
	motorRunning bool
	timer        int
}

func nextPresenter(s presenterState, in presenterInputs, d Dwell) presenterState {
	switch s {
	case lcdInit:
		return lcdWelcome
	case lcdWelcome:
		if in.timer >= d.Welcome {
			return lcdBalance
		}
		return lcdWelcome
	case lcdBalance:
		switch {
		case in.validity == protocol.ValidityProduct1OK:
			return lcdDispense1
		case in.validity == protocol.ValidityProduct2OK:
			return lcdDispense2
		case in.validity.Insufficient():
			return lcdInsufficient
		default:
			return lcdBalance
		}
	case lcdDispense1, lcdDispense2:
		// the dispense is open until the driver stops and clears the code
		if in.motorRunning || in.validity.OK() {
			return s
		}
		return lcdThankYou
	case lcdInsufficient:
		if in.timer >= d.Insufficient {
			return lcdBalance
		}
		return lcdInsufficient
	case lcdThankYou:
		if in.timer >= d.ThankYou {
			return lcdBalance
		}
		return lcdThankYou
	default:
		return lcdInit
	}
}

// DisplayPresenter renders machine status. It observes MotorRunning and
// only ever clears an INSUFFICIENT validity code after its dwell.
type DisplayPresenter struct {
	state  presenterState
	shared *Shared
	out    display.Display
	dwell  Dwell
	name   string

	timer   int
	showing protocol.ValidityCode

	// rejected is the receiver's rejection count at the last tick
	rejected uint64

	log *zap.Logger
}

func NewDisplayPresenter(shared *Shared, out display.Display, dwell Dwell, name string, log *zap.Logger) *DisplayPresenter {
	return &DisplayPresenter{
		shared: shared,
		out:    out,
		dwell:  dwell,
		name:   name,
		log:    log,
	}
}

func (m *DisplayPresenter) Tick() {
	m.act()

	in := presenterInputs{
		validity:     m.shared.Validity,
		motorRunning: m.shared.MotorRunning,
		timer:        m.timer,
	}
	next := nextPresenter(m.state, in, m.dwell)
	if next == m.state {
		return
	}

	// exit
	if m.state == lcdInsufficient {
		if m.shared.resolve(m.showing) {
			m.log.Info("insufficient funds cleared", zap.Stringer("validity", m.showing))
		}
		m.showing = protocol.ValidityNone
	}
	m.timer = 0

	// entry
	m.enter(next, in.validity)

	m.log.Debug("transition", zap.Stringer("from", m.state), zap.Stringer("to", next))
	m.state = next
}

func (m *DisplayPresenter) act() {
	rejected := m.shared.Ledger.Rejected != m.rejected
	m.rejected = m.shared.Ledger.Rejected

	switch m.state {
	case lcdInit:
		m.timer = 0
	case lcdWelcome, lcdInsufficient, lcdThankYou:
		m.timer++
	case lcdBalance:
		display.ShowCoins(m.out, m.shared.Balance)
	case lcdDispense1, lcdDispense2:
		// a press while dispensing was dropped by the receiver
		if rejected {
			m.out.WriteAt(display.Line2, busyNotice)
		}
	}
}

// busyNotice overwrites the whole second line.
const busyNotice = "BUSY, TRY LATER "

func (m *DisplayPresenter) enter(s presenterState, v protocol.ValidityCode) {
	switch s {
	case lcdWelcome:
		display.Show(m.out, "Welcome to ", m.name+"!")
		m.shared.Screen = ScreenWelcome
	case lcdBalance:
		display.Show(m.out, "Balance: $", "")
		display.ShowCoins(m.out, m.shared.Balance)
		m.shared.Screen = ScreenBalance
	case lcdDispense1:
		display.Show(m.out, "Dispensing", "<PRODUCT1>")
		m.shared.Screen = ScreenDispensing1
	case lcdDispense2:
		display.Show(m.out, "Dispensing", "<PRODUCT2>")
		m.shared.Screen = ScreenDispensing2
	case lcdInsufficient:
		display.Show(m.out, "INSUFFICIENT", "FUNDS")
		m.shared.Screen = ScreenInsufficient
		m.showing = v
	case lcdThankYou:
		display.Show(m.out, "THANK YOU FOR", "YOUR PURCHASE!")
		m.shared.Screen = ScreenThankYou
	}
}
