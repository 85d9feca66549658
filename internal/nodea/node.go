// internal/nodea/node.go
package nodea

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/tamzrod/minivendi/internal/display"
	"github.com/tamzrod/minivendi/internal/link"
	"github.com/tamzrod/minivendi/internal/peripheral"
	"github.com/tamzrod/minivendi/internal/sched"
)

// Periods are the tick periods of the node A machines.
type Periods struct {
	Coin        time.Duration
	Selection   time.Duration
	Encoder     time.Duration
	Transmitter time.Duration
}

// Config is the runtime config node A needs.
type Config struct {
	Threshold        uint16
	ResetWindowTicks int
	Periods          Periods
}

// IO are node A's external collaborators. Remote and Display are optional.
type IO struct {
	Sensor  peripheral.Sampler
	Keypad  peripheral.Keypad
	Remote  link.Receiver
	Link    link.Sender
	Display display.Display
}

// Node is the node A ensemble: four machines over one shared context.
type Node struct {
	cfg    Config
	shared *Shared

	Coin        *CoinSensor
	Selection   *SelectionInput
	Encoder     *DecisionEncoder
	Transmitter *LinkTransmitter
}

// New wires the node A machines. It does not start anything.
func New(cfg Config, io IO, log *zap.Logger) (*Node, error) {
	if io.Sensor == nil {
		return nil, errors.New("nodea: sensor required")
	}
	if io.Keypad == nil {
		return nil, errors.New("nodea: keypad required")
	}
	if io.Link == nil {
		return nil, errors.New("nodea: link required")
	}
	if cfg.ResetWindowTicks <= 0 {
		return nil, errors.New("nodea: reset window must be > 0 ticks")
	}
	if log == nil {
		log = zap.NewNop()
	}

	shared := &Shared{}
	return &Node{
		cfg:         cfg,
		shared:      shared,
		Coin:        NewCoinSensor(shared, io.Sensor, cfg.Threshold, io.Display, log.Named("coin")),
		Selection:   NewSelectionInput(shared, io.Keypad, io.Remote, log.Named("selection")),
		Encoder:     NewDecisionEncoder(shared, log.Named("encoder")),
		Transmitter: NewLinkTransmitter(shared, io.Link, cfg.ResetWindowTicks, log.Named("transmitter")),
	}, nil
}

// Shared returns a copy of the shared context.
func (n *Node) Shared() Shared { return *n.shared }

// Tasks returns one periodic task per machine.
func (n *Node) Tasks() []sched.Task {
	p := n.cfg.Periods
	return []sched.Task{
		{Name: "a.coin", Period: p.Coin, Tick: n.Coin.Tick},
		{Name: "a.selection", Period: p.Selection, Tick: n.Selection.Tick},
		{Name: "a.encoder", Period: p.Encoder, Tick: n.Encoder.Tick},
		{Name: "a.transmitter", Period: p.Transmitter, Tick: n.Transmitter.Tick},
	}
}
