// internal/nodeb/node.go
package nodeb

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tamzrod/minivendi/internal/display"
	"github.com/tamzrod/minivendi/internal/link"
	"github.com/tamzrod/minivendi/internal/protocol"
	"github.com/tamzrod/minivendi/internal/sched"
	"github.com/tamzrod/minivendi/internal/status"
)

// Periods are the tick periods of the node B machines.
type Periods struct {
	Dispense time.Duration
	Display  time.Duration
	Receiver time.Duration
}

// Config is the runtime config node B needs.
type Config struct {
	Name             string
	Prices           protocol.PriceTable
	Sequences        [2]protocol.StepSequence
	PhasesToDispense int
	Dwell            Dwell
	Periods          Periods
}

// IO are node B's external collaborators. Actuator and Display are optional.
type IO struct {
	Link     link.Receiver
	Actuator Actuator
	Display  display.Display
}

// Node is the node B ensemble: three machines over one shared context.
type Node struct {
	cfg    Config
	shared *Shared

	Receiver *LinkReceiver
	Dispense *DispenseDriver
	Display  *DisplayPresenter
}

// New wires the node B machines. It does not start anything.
func New(cfg Config, io IO, log *zap.Logger) (*Node, error) {
	if io.Link == nil {
		return nil, errors.New("nodeb: link required")
	}
	if cfg.PhasesToDispense <= 0 {
		return nil, fmt.Errorf("nodeb: phases to dispense must be > 0, got %d", cfg.PhasesToDispense)
	}
	for _, p := range protocol.Products {
		price, err := cfg.Prices.Price(p)
		if err != nil {
			return nil, fmt.Errorf("nodeb: %w", err)
		}
		if price <= 0 {
			return nil, fmt.Errorf("nodeb: %s has no price", p)
		}
	}
	if cfg.Dwell.Welcome <= 0 || cfg.Dwell.Insufficient <= 0 || cfg.Dwell.ThankYou <= 0 {
		return nil, errors.New("nodeb: dwell ticks must be > 0")
	}
	if log == nil {
		log = zap.NewNop()
	}
	out := io.Display
	if out == nil {
		out = display.NewLCD()
	}

	shared := &Shared{}
	return &Node{
		cfg:      cfg,
		shared:   shared,
		Receiver: NewLinkReceiver(shared, io.Link, cfg.Prices, log.Named("receiver")),
		Dispense: NewDispenseDriver(shared, io.Actuator, cfg.Sequences[0], cfg.Sequences[1], cfg.PhasesToDispense, log.Named("dispense")),
		Display:  NewDisplayPresenter(shared, out, cfg.Dwell, cfg.Name, log.Named("display")),
	}, nil
}

// Shared returns a copy of the shared context.
func (n *Node) Shared() Shared { return *n.shared }

// Tasks returns one periodic task per machine.
func (n *Node) Tasks() []sched.Task {
	p := n.cfg.Periods
	return []sched.Task{
		{Name: "b.dispense", Period: p.Dispense, Tick: n.Dispense.Tick},
		{Name: "b.display", Period: p.Display, Tick: n.Display.Tick},
		{Name: "b.receiver", Period: p.Receiver, Tick: n.Receiver.Tick},
	}
}

// Status snapshots the shared context for export.
func (n *Node) Status() status.Snapshot {
	s := n.shared

	health := status.HealthOK
	if s.Screen == ScreenBlank {
		health = status.HealthUnknown
	}

	return status.Snapshot{
		Health:       health,
		Balance:      s.Balance,
		Validity:     uint16(s.Validity),
		MotorRunning: s.MotorRunning,
		Screen:       uint16(s.Screen),
		Dispensed:    s.Dispensed,
		Coins:        s.Ledger.Coins,
		Refused:      s.Ledger.Refused,
		Rejected:     s.Ledger.Rejected,
	}
}
