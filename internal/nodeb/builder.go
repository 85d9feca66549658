// internal/nodeb/builder.go
package nodeb

import (
	"fmt"
	"time"

	cfg "github.com/tamzrod/minivendi/internal/config"
	"github.com/tamzrod/minivendi/internal/protocol"
)

// BuildConfig converts the machine and node B sections into a runtime Config.
// Assumes config has already passed Validate and Normalize.
func BuildConfig(m cfg.MachineConfig, b cfg.NodeBConfig) (Config, error) {
	var (
		prices [2]int
		seqs   [2]protocol.StepSequence
	)
	for _, p := range m.Products {
		if p.ID < 1 || p.ID > 2 || len(p.Sequence) != protocol.SequenceLen {
			return Config{}, fmt.Errorf("nodeb: product %d is not normalized", p.ID)
		}
		prices[p.ID-1] = p.Price
		copy(seqs[p.ID-1][:], p.Sequence)
	}

	pt, err := protocol.NewPriceTable(prices[0], prices[1])
	if err != nil {
		return Config{}, fmt.Errorf("nodeb: %w", err)
	}

	ms := func(v int) time.Duration { return time.Duration(v) * time.Millisecond }

	return Config{
		Name:             m.Name,
		Prices:           pt,
		Sequences:        seqs,
		PhasesToDispense: m.PhasesToDispense,
		Dwell: Dwell{
			Welcome:      b.DwellTicks.Welcome,
			Insufficient: b.DwellTicks.Insufficient,
			ThankYou:     b.DwellTicks.ThankYou,
		},
		Periods: Periods{
			Dispense: ms(b.PeriodsMs.Dispense),
			Display:  ms(b.PeriodsMs.Display),
			Receiver: ms(b.PeriodsMs.Receiver),
		},
	}, nil
}
