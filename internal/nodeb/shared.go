// internal/nodeb/shared.go
package nodeb

import "github.com/tamzrod/minivendi/internal/protocol"

// Shared is the node B context every machine ticks against.
type Shared struct {
	// Balance is the credited coin count, never negative.
	// Writer: LinkReceiver.
	Balance int

	// Validity is the verdict on the last purchase attempt.
	// LinkReceiver sets it from NONE; DispenseDriver clears the OK code it
	// dispensed; DisplayPresenter clears the INSUFFICIENT code it showed.
	// No other transition exists.
	Validity protocol.ValidityCode

	// MotorRunning is true while a dispense is being driven.
	// Writer: DispenseDriver.
	MotorRunning bool

	// Screen is what the display currently shows.
	// Writer: DisplayPresenter.
	Screen Screen

	// Ledger counts outcomes. Writer: LinkReceiver.
	Ledger Ledger

	// Dispensed counts completed dispenses. Writer: DispenseDriver.
	Dispensed uint64
}

// Ledger counts what the receiver did with the bytes it consumed.
type Ledger struct {
	Received  uint64
	Malformed uint64
	Coins     uint64
	Approved  uint64
	Refused   uint64
	Rejected  uint64
}

// resolve clears the validity code if it still holds code.
func (s *Shared) resolve(code protocol.ValidityCode) bool {
	if !code.Pending() || s.Validity != code {
		return false
	}
	s.Validity = protocol.ValidityNone
	return true
}

// Screen identifies the screen shown on the display.
type Screen uint16

const (
	ScreenBlank Screen = iota
	ScreenWelcome
	ScreenBalance
	ScreenDispensing1
	ScreenDispensing2
	ScreenInsufficient
	ScreenThankYou
)

func (s Screen) String() string {
	switch s {
	case ScreenBlank:
		return "blank"
	case ScreenWelcome:
		return "welcome"
	case ScreenBalance:
		return "balance"
	case ScreenDispensing1:
		return "dispensing1"
	case ScreenDispensing2:
		return "dispensing2"
	case ScreenInsufficient:
		return "insufficient"
	case ScreenThankYou:
		return "thank_you"
	default:
		return "unknown"
	}
}
