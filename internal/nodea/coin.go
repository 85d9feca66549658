// internal/nodea/coin.go
package nodea

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/tamzrod/minivendi/internal/display"
	"github.com/tamzrod/minivendi/internal/metrics"
	"github.com/tamzrod/minivendi/internal/peripheral"
)

type coinState uint8

const (
	coinInit coinState = iota
	coinRead
)

func (s coinState) String() string {
	switch s {
	case coinInit:
		return "Init"
	case coinRead:
		return "Read"
	default:
		return "Unknown"
	}
}

// nextCoin never leaves Read: sensing is continuous.
func nextCoin(s coinState) coinState {
	switch s {
	case coinInit, coinRead:
		return coinRead
	default:
		return coinInit
	}
}

// CoinSensor turns the raw beam reading into the coin flag.
// A reading at or below the threshold means a coin blocks the beam; each
// rising edge of the flag counts one coin.
type CoinSensor struct {
	state     coinState
	shared    *Shared
	sensor    peripheral.Sampler
	threshold uint16

	// diag receives the raw reading; not part of the coin decision.
	diag display.Display

	health inputHealth
	log    *zap.Logger
}

func NewCoinSensor(shared *Shared, sensor peripheral.Sampler, threshold uint16, diag display.Display, log *zap.Logger) *CoinSensor {
	return &CoinSensor{
		shared:    shared,
		sensor:    sensor,
		threshold: threshold,
		diag:      diag,
		health:    inputHealth{what: "coin sensor"},
		log:       log,
	}
}

func (m *CoinSensor) Tick() {
	m.act()
	next := nextCoin(m.state)
	if next != m.state {
		m.log.Debug("transition", zap.Stringer("from", m.state), zap.Stringer("to", next))
	}
	m.state = next
}

func (m *CoinSensor) act() {
	switch m.state {
	case coinInit:
		m.shared.Coin = false

	case coinRead:
		v, err := m.sensor.Sample()
		if err != nil {
			// keep the previous flag
			metrics.SensorReadErrors.Inc()
			m.health.fail(m.log, err)
			return
		}
		m.health.ok(m.log)

		if m.diag != nil {
			m.diag.WriteAt(1, fmt.Sprintf("%-5d", v))
		}
		coin := v <= m.threshold
		if coin && !m.shared.Coin {
			m.shared.CoinEdges++
		}
		m.shared.Coin = coin
	}
}
