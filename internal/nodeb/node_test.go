// internal/nodeb/node_test.go
package nodeb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tamzrod/minivendi/internal/display"
	"github.com/tamzrod/minivendi/internal/link"
	"github.com/tamzrod/minivendi/internal/protocol"
	"github.com/tamzrod/minivendi/internal/sched"
	"github.com/tamzrod/minivendi/internal/status"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		Name:             "MiniVendi",
		Prices:           testPrices(t),
		Sequences:        [2]protocol.StepSequence{seq1, seq2},
		PhasesToDispense: 2048,
		Dwell:            Dwell{Welcome: 40, Insufficient: 60, ThankYou: 60},
		Periods: Periods{
			Dispense: 3 * time.Millisecond,
			Display:  50 * time.Millisecond,
			Receiver: 25 * time.Millisecond,
		},
	}
}

type harness struct {
	node *Node
	pipe *link.Pipe
	act  *fakeActuator
	lcd  *display.LCD
	s    *sched.Scheduler
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		pipe: link.NewPipe(16),
		act:  &fakeActuator{},
		lcd:  display.NewLCD(),
	}

	n, err := New(testConfig(t), IO{Link: h.pipe, Actuator: h.act, Display: h.lcd}, zap.NewNop())
	require.NoError(t, err)
	h.node = n

	h.s, err = sched.New(n.Tasks()...)
	require.NoError(t, err)
	return h
}

func (h *harness) send(t *testing.T, bytes ...byte) {
	t.Helper()
	for _, b := range bytes {
		require.NoError(t, h.pipe.Send(b))
	}
}

// past the welcome screen
func (h *harness) settle(t *testing.T) {
	t.Helper()
	h.s.Advance(2500 * time.Millisecond)
	require.Equal(t, ScreenBalance, h.node.Shared().Screen)
}

func TestNew_Validates(t *testing.T) {
	pipe := link.NewPipe(1)

	_, err := New(testConfig(t), IO{}, nil)
	assert.Error(t, err, "link required")

	cfg := testConfig(t)
	cfg.PhasesToDispense = 0
	_, err = New(cfg, IO{Link: pipe}, nil)
	assert.Error(t, err)

	cfg = testConfig(t)
	cfg.Prices = protocol.PriceTable{}
	_, err = New(cfg, IO{Link: pipe}, nil)
	assert.Error(t, err)

	cfg = testConfig(t)
	cfg.Dwell.ThankYou = 0
	_, err = New(cfg, IO{Link: pipe}, nil)
	assert.Error(t, err)

	_, err = New(testConfig(t), IO{Link: pipe}, nil)
	assert.NoError(t, err, "actuator and display are optional")
}

func TestNode_SuccessfulPurchase(t *testing.T) {
	h := newHarness(t)
	h.settle(t)

	h.send(t, 0x01)
	h.s.Advance(100 * time.Millisecond)
	require.Equal(t, 1, h.node.Shared().Balance)
	assert.Equal(t, "Balance: $0.25", h.lcd.Line(1))

	h.send(t, 0x02)
	h.s.Advance(50 * time.Millisecond)

	sh := h.node.Shared()
	assert.Equal(t, 0, sh.Balance)
	assert.True(t, sh.Validity == protocol.ValidityProduct1OK || sh.MotorRunning)

	h.s.Advance(100 * time.Millisecond)
	assert.Equal(t, ScreenDispensing1, h.node.Shared().Screen)
	assert.True(t, h.node.Shared().MotorRunning)

	h.s.Advance(7 * time.Second)

	sh = h.node.Shared()
	assert.Equal(t, protocol.ValidityNone, sh.Validity)
	assert.False(t, sh.MotorRunning)
	assert.Equal(t, uint64(1), sh.Dispensed)
	assert.Len(t, h.act.energized(), 2048)
	for _, p := range h.act.energized() {
		assert.Contains(t, seq1[:], p)
	}
	assert.Equal(t, ScreenThankYou, sh.Screen)

	h.s.Advance(4 * time.Second)
	assert.Equal(t, ScreenBalance, h.node.Shared().Screen)
	assert.Equal(t, "Balance: $0.00", h.lcd.Line(1))
}

func TestNode_InsufficientFunds(t *testing.T) {
	h := newHarness(t)
	h.settle(t)

	h.send(t, 0x04)
	h.s.Advance(100 * time.Millisecond)

	sh := h.node.Shared()
	assert.Equal(t, protocol.ValidityProduct2Insufficient, sh.Validity)
	assert.Equal(t, ScreenInsufficient, sh.Screen)
	assert.Equal(t, "INSUFFICIENT", h.lcd.Line(1))

	// 60 display ticks
	h.s.Advance(3500 * time.Millisecond)

	sh = h.node.Shared()
	assert.Equal(t, protocol.ValidityNone, sh.Validity)
	assert.Equal(t, ScreenBalance, sh.Screen)
	assert.Equal(t, 0, sh.Balance)
	assert.Empty(t, h.act.energized(), "motor never driven")
	assert.Equal(t, uint64(0), sh.Dispensed)
}

func TestNode_CoinsAccumulate(t *testing.T) {
	h := newHarness(t)

	h.send(t, 0x01, 0x01)
	h.s.Advance(100 * time.Millisecond)

	sh := h.node.Shared()
	assert.Equal(t, 2, sh.Balance)
	assert.Equal(t, protocol.ValidityNone, sh.Validity)

	h.settle(t)
	assert.Equal(t, "Balance: $0.50", h.lcd.Line(1))
}

func TestNode_SelectionDuringDispenseIsRejected(t *testing.T) {
	h := newHarness(t)
	h.settle(t)

	h.send(t, 0x01, 0x01, 0x01)
	h.s.Advance(200 * time.Millisecond)

	h.send(t, 0x02)
	h.s.Advance(50 * time.Millisecond)
	require.True(t, h.node.Shared().Validity.OK() || h.node.Shared().MotorRunning)

	h.send(t, 0x04)
	h.s.Advance(50 * time.Millisecond)
	require.Equal(t, uint64(1), h.node.Shared().Ledger.Rejected)
	assert.Equal(t, ScreenDispensing1, h.node.Shared().Screen)
	assert.Equal(t, "Dispensing", h.lcd.Line(1))
	assert.Equal(t, "BUSY, TRY LATER", h.lcd.Line(2), "the dropped press is visible")

	h.s.Advance(12 * time.Second)
	sh := h.node.Shared()
	assert.Equal(t, 2, sh.Balance, "only the first purchase was charged")
	assert.Equal(t, uint64(1), sh.Dispensed)
	assert.Equal(t, protocol.ValidityNone, sh.Validity)
}

func TestNode_Status(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, status.HealthUnknown, h.node.Status().Health)

	h.send(t, 0x01)
	h.s.Advance(100 * time.Millisecond)

	st := h.node.Status()
	assert.Equal(t, status.HealthOK, st.Health)
	assert.Equal(t, 1, st.Balance)
	assert.Equal(t, uint64(1), st.Coins)
	assert.Equal(t, uint16(ScreenWelcome), st.Screen)
}

// Balance, Screen and MotorRunning each have one writer. Validity is only
// set from NONE by the receiver and only cleared by the other two.
func TestNode_FieldOwnership(t *testing.T) {
	h := newHarness(t)
	n := h.node

	type owned struct {
		name string
		tick func()
		keep func(before, after Shared) Shared
	}
	machines := []owned{
		{"receiver", n.Receiver.Tick, func(b, a Shared) Shared {
			b.Balance, b.Ledger = a.Balance, a.Ledger
			return b
		}},
		{"dispense", n.Dispense.Tick, func(b, a Shared) Shared {
			b.MotorRunning, b.Dispensed = a.MotorRunning, a.Dispensed
			return b
		}},
		{"display", n.Display.Tick, func(b, a Shared) Shared {
			b.Screen = a.Screen
			return b
		}},
	}

	script := []byte{0x01, 0x02, 0x04, 0x01, 0x01, 0x05, 0x06, 0x00, 0x01}
	for round := 0; round < 600; round++ {
		if round%50 == 0 && h.pipe.Ready() {
			h.send(t, script[(round/50)%len(script)])
		}
		for _, m := range machines {
			before := n.Shared()
			m.tick()
			after := n.Shared()

			if before.Validity != after.Validity {
				switch m.name {
				case "receiver":
					require.Equal(t, protocol.ValidityNone, before.Validity, "round %d: receiver overwrote a verdict", round)
				default:
					require.Equal(t, protocol.ValidityNone, after.Validity, "round %d: %s set a verdict", round, m.name)
				}
			}
			after.Validity = before.Validity

			require.Equal(t, after, m.keep(before, after), "round %d: %s wrote a field it does not own", round, m.name)
			require.GreaterOrEqual(t, after.Balance, 0)
		}
	}
}
