// internal/status/snapshot.go
package status

// Snapshot is what node B exports about itself at one instant.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	Health       uint16
	Balance      int
	Validity     uint16
	MotorRunning bool
	Screen       uint16
	Dispensed    uint64
	Coins        uint64
	Refused      uint64
	Rejected     uint64
}
