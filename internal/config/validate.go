// internal/config/validate.go
package config

import (
	"fmt"
	"strings"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
// Zero values mean "use the default" and are accepted.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil")
	}

	// ------------------------------------------------------------
	// MACHINE
	// ------------------------------------------------------------

	m := cfg.Machine
	for i := 0; i < len(m.Name); i++ {
		if m.Name[i] < 0x20 || m.Name[i] > 0x7E {
			return fmt.Errorf("machine: name must contain printable ASCII characters only")
		}
	}
	if m.PhasesToDispense < 0 {
		return fmt.Errorf("machine: phases_to_dispense must be > 0, got %d", m.PhasesToDispense)
	}

	if len(m.Products) > 0 {
		if len(m.Products) != 2 {
			return fmt.Errorf("machine: exactly 2 products required, got %d", len(m.Products))
		}
		seen := map[int]bool{}
		for _, p := range m.Products {
			if p.ID != 1 && p.ID != 2 {
				return fmt.Errorf("product %d: id must be 1 or 2", p.ID)
			}
			if seen[p.ID] {
				return fmt.Errorf("product %d: defined twice", p.ID)
			}
			seen[p.ID] = true

			if p.Price <= 0 {
				return fmt.Errorf("product %d: price must be > 0, got %d", p.ID, p.Price)
			}
			if len(p.Sequence) != 4 {
				return fmt.Errorf("product %d: sequence must have 4 patterns, got %d", p.ID, len(p.Sequence))
			}
			for _, b := range p.Sequence {
				if b == 0 {
					return fmt.Errorf("product %d: sequence pattern 0 energizes no coil", p.ID)
				}
			}
		}
	}

	// ------------------------------------------------------------
	// NODE A
	// ------------------------------------------------------------

	a := cfg.NodeA
	if err := validateSerial("node_a.link", a.Link); err != nil {
		return err
	}
	if a.Remote != nil {
		if a.Remote.Address == "" {
			return fmt.Errorf("node_a.remote: address required when remote is set")
		}
		if err := validateSerial("node_a.remote", *a.Remote); err != nil {
			return err
		}
	}
	if err := validateRegister("node_a.sensor.modbus", a.Sensor.Modbus); err != nil {
		return err
	}
	if err := validateRegister("node_a.keypad.modbus", a.Keypad.Modbus); err != nil {
		return err
	}
	if err := nonNegative("node_a.periods_ms", map[string]int{
		"coin":        a.PeriodsMs.Coin,
		"selection":   a.PeriodsMs.Selection,
		"encoder":     a.PeriodsMs.Encoder,
		"transmitter": a.PeriodsMs.Transmitter,
	}); err != nil {
		return err
	}
	if a.ResetWindowTicks < 0 {
		return fmt.Errorf("node_a: reset_window_ticks must be > 0, got %d", a.ResetWindowTicks)
	}

	// ------------------------------------------------------------
	// NODE B
	// ------------------------------------------------------------

	b := cfg.NodeB
	if err := validateSerial("node_b.link", b.Link); err != nil {
		return err
	}
	if err := validateRegister("node_b.motor.modbus", b.Motor.Modbus); err != nil {
		return err
	}
	if err := nonNegative("node_b.periods_ms", map[string]int{
		"dispense": b.PeriodsMs.Dispense,
		"display":  b.PeriodsMs.Display,
		"receiver": b.PeriodsMs.Receiver,
	}); err != nil {
		return err
	}
	if err := nonNegative("node_b.dwell_ticks", map[string]int{
		"welcome":      b.DwellTicks.Welcome,
		"insufficient": b.DwellTicks.Insufficient,
		"thank_you":    b.DwellTicks.ThankYou,
	}); err != nil {
		return err
	}

	if s := b.Status; s != nil {
		switch s.Transport {
		case "", TransportModbus, TransportIngest:
		default:
			return fmt.Errorf("node_b.status: unknown transport %q", s.Transport)
		}
		if s.Endpoint == "" {
			return fmt.Errorf("node_b.status: endpoint required")
		}
		if s.UnitID < 1 || s.UnitID > 247 {
			return fmt.Errorf("node_b.status: unit_id must be 1..247, got %d", s.UnitID)
		}
		if s.TimeoutMs < 0 || s.IntervalMs < 0 {
			return fmt.Errorf("node_b.status: timeout_ms and interval_ms must be > 0")
		}
	}

	// ------------------------------------------------------------
	// HANDSHAKE HOLD-OFF
	// ------------------------------------------------------------

	// The reset window is the only gap between two control bytes carrying
	// the same selection. Node B must get a receive tick inside it.
	holdOff := orDefault(a.ResetWindowTicks, DefaultResetWindowTicks) *
		orDefault(a.PeriodsMs.Transmitter, DefaultTransmitterPeriodMs)
	receiver := orDefault(b.PeriodsMs.Receiver, DefaultReceiverPeriodMs)
	if holdOff <= receiver {
		return fmt.Errorf(
			"node_a: hold-off window %dms (reset_window_ticks x transmitter period) must exceed node_b receiver period %dms",
			holdOff,
			receiver,
		)
	}

	// ------------------------------------------------------------
	// AMBIENT
	// ------------------------------------------------------------

	switch strings.ToLower(cfg.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log: unknown level %q", cfg.Log.Level)
	}
	if p := cfg.Metrics.Path; p != "" && !strings.HasPrefix(p, "/") {
		return fmt.Errorf("metrics: path must start with /, got %q", p)
	}

	return nil
}

func validateSerial(where string, s SerialConfig) error {
	if s.BaudRate < 0 {
		return fmt.Errorf("%s: baud_rate must be > 0, got %d", where, s.BaudRate)
	}
	switch s.DataBits {
	case 0, 5, 6, 7, 8:
	default:
		return fmt.Errorf("%s: data_bits must be 5..8, got %d", where, s.DataBits)
	}
	switch s.StopBits {
	case 0, 1, 2:
	default:
		return fmt.Errorf("%s: stop_bits must be 1 or 2, got %d", where, s.StopBits)
	}
	switch s.Parity {
	case "", "N", "E", "O":
	default:
		return fmt.Errorf("%s: parity must be N, E or O, got %q", where, s.Parity)
	}
	if s.TimeoutMs < 0 {
		return fmt.Errorf("%s: timeout_ms must be > 0", where)
	}
	return nil
}

func validateRegister(where string, r *ModbusRegisterConfig) error {
	if r == nil {
		return nil
	}
	if r.Endpoint == "" {
		return fmt.Errorf("%s: endpoint required", where)
	}
	if r.UnitID > 247 {
		return fmt.Errorf("%s: unit_id must be 0..247, got %d", where, r.UnitID)
	}
	if r.TimeoutMs < 0 || r.BaudRate < 0 {
		return fmt.Errorf("%s: timeout_ms and baud_rate must be > 0", where)
	}
	return nil
}

func nonNegative(where string, fields map[string]int) error {
	for name, v := range fields {
		if v < 0 {
			return fmt.Errorf("%s: %s must be > 0, got %d", where, name, v)
		}
	}
	return nil
}
