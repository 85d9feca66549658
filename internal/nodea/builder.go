// internal/nodea/builder.go
package nodea

import (
	"time"

	cfg "github.com/tamzrod/minivendi/internal/config"
)

// BuildConfig converts the node A section into a runtime Config.
// Assumes config has already passed Validate and Normalize.
func BuildConfig(a cfg.NodeAConfig) Config {
	ms := func(v int) time.Duration { return time.Duration(v) * time.Millisecond }

	return Config{
		Threshold:        a.Sensor.Threshold,
		ResetWindowTicks: a.ResetWindowTicks,
		Periods: Periods{
			Coin:        ms(a.PeriodsMs.Coin),
			Selection:   ms(a.PeriodsMs.Selection),
			Encoder:     ms(a.PeriodsMs.Encoder),
			Transmitter: ms(a.PeriodsMs.Transmitter),
		},
	}
}
