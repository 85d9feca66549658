// internal/peripheral/types.go
package peripheral

// Sampler yields the raw reading of the coin presence sensor.
// Lower readings mean an object blocks the beam.
type Sampler interface {
	Sample() (uint16, error)
}

// Keypad yields the ASCII token of the key currently held, 0 when none.
type Keypad interface {
	Key() (byte, error)
}

// NoKey is returned by Keypad implementations when nothing is pressed.
const NoKey byte = 0
