// internal/writer/status_writer.go
package writer

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/tamzrod/twiirl/internal/status"
)

// slotStatusWriter owns one slot's register block.
type slotStatusWriter struct {
	cli    endpointClient
	unitID uint8
	base   uint16

	needFull bool
	last     []uint16
}

func newSlotStatusWriter(cli endpointClient, unitID uint8, block uint16) *slotStatusWriter {
	return &slotStatusWriter{
		cli:      cli,
		unitID:   unitID,
		base:     block * status.RegistersPerSlot,
		needFull: true, // full re-assert on first write
	}
}

// WriteStatus delivers a slot snapshot into mirror memory.
// On any write failure, the next call will re-assert the full block.
func (sw *slotStatusWriter) WriteStatus(s status.Snapshot) error {
	if sw == nil || sw.cli == nil {
		return errors.New("status writer: disabled")
	}

	regs := status.Encode(s)

	// ------------------------------------------------------------
	// Full block write (identity re-assert)
	// ------------------------------------------------------------
	if sw.needFull {
		if err := sw.cli.WriteRegisters(sw.unitID, sw.base, regs); err != nil {
			sw.needFull = true
			return errors.Wrap(err, "status writer: full block write failed")
		}

		sw.needFull = false
		sw.last = regs
		return nil
	}

	// ------------------------------------------------------------
	// Delta writes: one request per contiguous changed run
	// ------------------------------------------------------------
	var errs []string

	for start := 0; start < len(regs); {
		if regs[start] == sw.last[start] {
			start++
			continue
		}

		end := start
		for end < len(regs) && regs[end] != sw.last[end] {
			end++
		}

		addr := sw.base + uint16(start)
		if err := sw.cli.WriteRegisters(sw.unitID, addr, regs[start:end]); err != nil {
			errs = append(errs, fmt.Sprintf("regs %d-%d write failed: %v", start, end-1, err))
		} else {
			copy(sw.last[start:end], regs[start:end])
		}

		start = end
	}

	if len(errs) > 0 {
		// any partial failure forces a full re-assert on the next call
		sw.needFull = true
		return errors.New("status writer: " + strings.Join(errs, " | "))
	}

	return nil
}
