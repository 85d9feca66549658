// internal/sim/machine.go
package sim

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tamzrod/minivendi/internal/config"
	"github.com/tamzrod/minivendi/internal/display"
	"github.com/tamzrod/minivendi/internal/link"
	"github.com/tamzrod/minivendi/internal/nodea"
	"github.com/tamzrod/minivendi/internal/nodeb"
	"github.com/tamzrod/minivendi/internal/peripheral"
	"github.com/tamzrod/minivendi/internal/sched"
)

// linkCapacity bounds bytes in flight between the nodes.
const linkCapacity = 16

// Options are the optional collaborators of a simulated machine.
type Options struct {
	DisplayA display.Display // coin sensor diagnostics
	DisplayB display.Display // customer display, an LCD when nil
	Motor    nodeb.Actuator
	Log      *zap.Logger
}

// Machine is both nodes in one process on one scheduler, joined by an
// in-memory link, with scripted coin, keypad and remote inputs.
type Machine struct {
	A      *nodea.Node
	B      *nodeb.Node
	Inputs *peripheral.Sim
	Link   *link.Pipe
	LCD    display.Display
	Sched  *sched.Scheduler
}

// New wires a machine from a validated, normalized config.
func New(c *config.Config, opts Options) (*Machine, error) {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	inputs := peripheral.NewSim(simConfig(c.Sim))
	pipe := link.NewPipe(linkCapacity)

	a, err := nodea.New(nodea.BuildConfig(c.NodeA), nodea.IO{
		Sensor:  inputs,
		Keypad:  inputs,
		Remote:  inputs,
		Link:    pipe,
		Display: opts.DisplayA,
	}, log.Named("a"))
	if err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}

	bcfg, err := nodeb.BuildConfig(c.Machine, c.NodeB)
	if err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	lcd := opts.DisplayB
	if lcd == nil {
		lcd = display.NewLCD()
	}
	b, err := nodeb.New(bcfg, nodeb.IO{Link: pipe, Actuator: opts.Motor, Display: lcd}, log.Named("b"))
	if err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}

	s, err := sched.New(append(a.Tasks(), b.Tasks()...)...)
	if err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}

	return &Machine{A: a, B: b, Inputs: inputs, Link: pipe, LCD: lcd, Sched: s}, nil
}

// Run drives the machine against the wall clock until ctx is cancelled.
func (m *Machine) Run(ctx context.Context) error {
	return m.Sched.Run(ctx)
}

// Command applies one operator command: c inserts a coin, 1 or 2 presses
// the keypad, r1 or r2 sends a remote selection.
func (m *Machine) Command(cmd string) error {
	switch cmd {
	case "c", "coin":
		m.Inputs.InsertCoin()
	case "1", "2":
		m.Inputs.Press(cmd[0])
	case "r1", "r2":
		m.Inputs.SendRemote(cmd[1])
	default:
		return fmt.Errorf("sim: unknown command %q", cmd)
	}
	return nil
}

func simConfig(c config.SimConfig) peripheral.SimConfig {
	out := peripheral.DefaultSimConfig()
	if c.IdleReading != 0 {
		out.IdleReading = c.IdleReading
	}
	if c.BlockedReading != 0 {
		out.BlockedReading = c.BlockedReading
	}
	if c.CoinSamples != 0 {
		out.CoinSamples = c.CoinSamples
	}
	if c.KeyReads != 0 {
		out.KeyReads = c.KeyReads
	}
	return out
}
