// internal/config/config.go
package config

type Config struct {
	Machine MachineConfig `yaml:"machine"`
	NodeA   NodeAConfig   `yaml:"node_a"`
	NodeB   NodeBConfig   `yaml:"node_b"`
	Sim     SimConfig     `yaml:"sim"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ---- MACHINE ----

type MachineConfig struct {
	Name             string          `yaml:"name"`
	PhasesToDispense int             `yaml:"phases_to_dispense"`
	Products         []ProductConfig `yaml:"products"`
}

type ProductConfig struct {
	ID       int     `yaml:"id"`
	Price    int     `yaml:"price"`    // in coins
	Sequence []uint8 `yaml:"sequence"` // full-step coil patterns
}

// ---- SHARED TRANSPORT ----

type SerialConfig struct {
	Address   string `yaml:"address"`
	BaudRate  int    `yaml:"baud_rate"`
	DataBits  int    `yaml:"data_bits"`
	StopBits  int    `yaml:"stop_bits"`
	Parity    string `yaml:"parity"` // N, E, O
	TimeoutMs int    `yaml:"timeout_ms"`
}

// ModbusRegisterConfig addresses one register on a Modbus I/O module.
type ModbusRegisterConfig struct {
	Endpoint  string `yaml:"endpoint"` // host:port or serial device
	UnitID    uint8  `yaml:"unit_id"`
	Register  uint16 `yaml:"register"`
	TimeoutMs int    `yaml:"timeout_ms"`
	BaudRate  int    `yaml:"baud_rate"` // RTU only
}

// ---- NODE A ----

type NodeAConfig struct {
	Link   SerialConfig  `yaml:"link"`
	Remote *SerialConfig `yaml:"remote"` // optional command channel

	Sensor SensorConfig `yaml:"sensor"`
	Keypad KeypadConfig `yaml:"keypad"`

	PeriodsMs        NodeAPeriods `yaml:"periods_ms"`
	ResetWindowTicks int          `yaml:"reset_window_ticks"`
}

type SensorConfig struct {
	Threshold uint16                `yaml:"threshold"`
	Modbus    *ModbusRegisterConfig `yaml:"modbus"`
}

type KeypadConfig struct {
	Modbus *ModbusRegisterConfig `yaml:"modbus"`
}

type NodeAPeriods struct {
	Coin        int `yaml:"coin"`
	Selection   int `yaml:"selection"`
	Encoder     int `yaml:"encoder"`
	Transmitter int `yaml:"transmitter"`
}

// ---- NODE B ----

type NodeBConfig struct {
	Link  SerialConfig `yaml:"link"`
	Motor MotorConfig  `yaml:"motor"`

	PeriodsMs  NodeBPeriods `yaml:"periods_ms"`
	DwellTicks DwellTicks   `yaml:"dwell_ticks"`

	// Machine status block (optional, opt-in)
	Status *StatusConfig `yaml:"status"`
}

type MotorConfig struct {
	Modbus *ModbusRegisterConfig `yaml:"modbus"`
}

type NodeBPeriods struct {
	Dispense int `yaml:"dispense"`
	Display  int `yaml:"display"`
	Receiver int `yaml:"receiver"`
}

type DwellTicks struct {
	Welcome      int `yaml:"welcome"`
	Insufficient int `yaml:"insufficient"`
	ThankYou     int `yaml:"thank_you"`
}

// ---- STATUS ----

const (
	TransportModbus = "modbus"
	TransportIngest = "ingest"
)

type StatusConfig struct {
	Transport  string `yaml:"transport"` // modbus (default) or ingest
	Endpoint   string `yaml:"endpoint"`
	UnitID     int    `yaml:"unit_id"`
	BaseSlot   uint16 `yaml:"base_slot"`
	TimeoutMs  int    `yaml:"timeout_ms"`
	IntervalMs int    `yaml:"interval_ms"`
}

// ---- SIMULATION ----

type SimConfig struct {
	IdleReading    uint16 `yaml:"idle_reading"`
	BlockedReading uint16 `yaml:"blocked_reading"`
	CoinSamples    int    `yaml:"coin_samples"`
	KeyReads       int    `yaml:"key_reads"`
}

// ---- AMBIENT ----

type LogConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

type MetricsConfig struct {
	Listen string `yaml:"listen"` // empty disables the endpoint
	Path   string `yaml:"path"`
}
