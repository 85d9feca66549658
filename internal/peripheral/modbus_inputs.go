// internal/peripheral/modbus_inputs.go
package peripheral

import "fmt"

// registers is the subset of the Modbus client the I/O adapters use.
type registers interface {
	ReadInputRegister(addr uint16) (uint16, error)
	ReadHoldingRegister(addr uint16) (uint16, error)
	WriteSingleRegister(addr, value uint16) error
}

// ModbusSensor reads the beam sensor's ADC value from an input register.
type ModbusSensor struct {
	r        registers
	register uint16
}

func NewModbusSensor(r registers, register uint16) *ModbusSensor {
	return &ModbusSensor{r: r, register: register}
}

func (s *ModbusSensor) Sample() (uint16, error) {
	return s.r.ReadInputRegister(s.register)
}

// ModbusKeypad reads the last key from a holding register the I/O module
// latches on key-down. The low byte carries the ASCII token, 0 when no key
// is pending. A pending key is acknowledged by writing 0 back, so each
// press is seen once.
type ModbusKeypad struct {
	r        registers
	register uint16
}

func NewModbusKeypad(r registers, register uint16) *ModbusKeypad {
	return &ModbusKeypad{r: r, register: register}
}

func (k *ModbusKeypad) Key() (byte, error) {
	v, err := k.r.ReadHoldingRegister(k.register)
	if err != nil {
		return NoKey, err
	}
	key := byte(v & 0xFF)
	if key == NoKey {
		return NoKey, nil
	}
	if err := k.r.WriteSingleRegister(k.register, 0); err != nil {
		// unacknowledged: the same press is read again next tick
		return NoKey, fmt.Errorf("keypad ack: %w", err)
	}
	return key, nil
}

// ModbusMotor writes the stepper coil pattern to a holding register.
// Writes only happen when the pattern changes.
type ModbusMotor struct {
	r        registers
	register uint16

	last    uint16
	written bool
	onError func(error)
}

// NewModbusMotor builds a motor output. onError, if set, sees failed writes.
func NewModbusMotor(r registers, register uint16, onError func(error)) *ModbusMotor {
	return &ModbusMotor{r: r, register: register, onError: onError}
}

func (m *ModbusMotor) Drive(pattern byte) {
	v := uint16(pattern)
	if m.written && v == m.last {
		return
	}
	if err := m.r.WriteSingleRegister(m.register, v); err != nil {
		// retried on the next tick
		m.written = false
		if m.onError != nil {
			m.onError(err)
		}
		return
	}
	m.last, m.written = v, true
}
