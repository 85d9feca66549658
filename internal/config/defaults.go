// internal/config/defaults.go
package config

// Defaults applied by Normalize to zero values.
const (
	DefaultMachineName      = "MiniVendi"
	DefaultPhasesToDispense = 2048 // (360/11.25)*64
	DefaultThreshold        = 900
	DefaultResetWindowTicks = 10

	DefaultCoinPeriodMs        = 5
	DefaultSelectionPeriodMs   = 25
	DefaultEncoderPeriodMs     = 50
	DefaultTransmitterPeriodMs = 50

	DefaultDispensePeriodMs = 3
	DefaultDisplayPeriodMs  = 50
	DefaultReceiverPeriodMs = 25

	DefaultWelcomeTicks      = 40
	DefaultInsufficientTicks = 60
	DefaultThankYouTicks     = 60

	DefaultBaudRate        = 9600
	DefaultStatusTimeoutMs = 1000
	DefaultStatusInterval  = 500

	DefaultLogLevel    = "info"
	DefaultMetricsPath = "/metrics"

	MachineNameMaxChars = 16
)

// DefaultProducts is the stock product table.
func DefaultProducts() []ProductConfig {
	return []ProductConfig{
		{ID: 1, Price: 1, Sequence: []uint8{0x30, 0x60, 0xC0, 0x90}},
		{ID: 2, Price: 2, Sequence: []uint8{0x03, 0x06, 0x0C, 0x09}},
	}
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
