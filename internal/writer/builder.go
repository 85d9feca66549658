// internal/writer/builder.go
package writer

import (
	"fmt"
	"time"

	cfg "github.com/tamzrod/minivendi/internal/config"
	"github.com/tamzrod/minivendi/internal/writer/ingest"
	wmodbus "github.com/tamzrod/minivendi/internal/writer/modbus"
)

// BuildPlan converts the status config into a StatusPlan.
// Assumes config has already passed validation.
func BuildPlan(machineName string, sc cfg.StatusConfig) StatusPlan {
	return StatusPlan{
		Endpoint:    sc.Endpoint,
		UnitID:      uint16(sc.UnitID),
		BaseSlot:    sc.BaseSlot,
		MachineName: machineName,
	}
}

// Build creates the endpoint client for the configured transport and the
// status writer on top of it.
func Build(machineName string, sc cfg.StatusConfig) (StatusWriter, func() error, error) {
	timeout := time.Duration(sc.TimeoutMs) * time.Millisecond

	var (
		cli     endpointClient
		closeFn func() error
	)

	switch sc.Transport {
	case cfg.TransportModbus:
		c, err := wmodbus.NewEndpointClient(wmodbus.Config{Endpoint: sc.Endpoint, Timeout: timeout})
		if err != nil {
			return nil, nil, err
		}
		cli, closeFn = c, c.Close

	case cfg.TransportIngest:
		c, err := ingest.NewEndpointClient(ingest.Config{Endpoint: sc.Endpoint, Timeout: timeout})
		if err != nil {
			return nil, nil, err
		}
		cli, closeFn = c, c.Close

	default:
		return nil, nil, fmt.Errorf("writer: unknown transport %q", sc.Transport)
	}

	return NewMachineStatusWriter(BuildPlan(machineName, sc), cli), closeFn, nil
}
