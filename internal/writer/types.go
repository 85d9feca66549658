// internal/writer/types.go
package writer

// StatusPlan is where one machine's status block is delivered.
type StatusPlan struct {
	Endpoint    string
	UnitID      uint16
	BaseSlot    uint16
	MachineName string
}

// endpointClient is the exact contract the status writer uses.
// Both the Modbus TCP client and the raw ingest client satisfy it.
type endpointClient interface {
	WriteRegisters(area byte, unitID uint8, addr uint16, regs []uint16) error
}
