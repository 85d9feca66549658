// internal/writer/status_writer.go
package writer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tamzrod/minivendi/internal/status"
)

// StatusWriter is the delivery-only contract for machine status.
// It receives a snapshot and writes it verbatim.
type StatusWriter interface {
	WriteStatus(s status.Snapshot) error
}

// machineStatusWriter delivers one machine's status block.
type machineStatusWriter struct {
	plan *StatusPlan
	cli  endpointClient

	needFull bool
	last     []uint16
	nameRegs []uint16
}

const statusAreaHoldingRegisters byte = 3

// NewMachineStatusWriter builds a status writer for plan.
func NewMachineStatusWriter(plan StatusPlan, cli endpointClient) *machineStatusWriter {
	return &machineStatusWriter{
		plan:     &plan,
		cli:      cli,
		needFull: true, // full re-assert on first successful write
		nameRegs: status.EncodeName(plan.MachineName),
	}
}

// WriteStatus delivers a status snapshot into status memory.
// On any write failure, the next call re-asserts the full block.
func (sw *machineStatusWriter) WriteStatus(s status.Snapshot) error {
	if sw == nil || sw.plan == nil {
		return errors.New("status writer: disabled")
	}
	if sw.cli == nil {
		return fmt.Errorf("status writer: missing client for endpoint %s", sw.plan.Endpoint)
	}
	if sw.plan.UnitID > 255 {
		return fmt.Errorf("status writer: unit id %d out of range", sw.plan.UnitID)
	}

	regs := status.Encode(s)
	baseAddr := sw.baseAddr()
	unitID := uint8(sw.plan.UnitID)

	// ------------------------------------------------------------
	// Full block write (identity re-assert)
	// ------------------------------------------------------------
	if sw.needFull {
		copy(regs[status.SlotMachineNameStart:status.SlotMachineNameEnd+1], sw.nameRegs)

		if err := sw.cli.WriteRegisters(
			statusAreaHoldingRegisters,
			unitID,
			baseAddr,
			regs,
		); err != nil {
			sw.needFull = true
			return fmt.Errorf("status writer: full block write failed: %w", err)
		}

		sw.needFull = false
		sw.last = regs
		return nil
	}

	// ------------------------------------------------------------
	// Incremental: one write per run of changed live slots
	// ------------------------------------------------------------
	var errs []string

	for start := 0; start < status.SlotLiveEnd; {
		if sw.last[start] == regs[start] {
			start++
			continue
		}
		end := start + 1
		for end < status.SlotLiveEnd && sw.last[end] != regs[end] {
			end++
		}

		if err := sw.cli.WriteRegisters(
			statusAreaHoldingRegisters,
			unitID,
			baseAddr+uint16(start),
			regs[start:end],
		); err != nil {
			errs = append(errs, fmt.Sprintf("slots %d-%d write failed: %v", start, end-1, err))
		} else {
			copy(sw.last[start:end], regs[start:end])
		}
		start = end
	}

	if len(errs) > 0 {
		// any partial failure introduces doubt: re-assert on next call
		sw.needFull = true
		return errors.New("status writer: " + strings.Join(errs, " | "))
	}

	return nil
}

func (sw *machineStatusWriter) baseAddr() uint16 {
	// each machine owns a fixed SlotsPerMachine block
	return sw.plan.BaseSlot * status.SlotsPerMachine
}
