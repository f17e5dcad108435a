// internal/writer/types.go
package writer

import "github.com/tamzrod/twiirl/internal/status"

// Plan is the fully-built mirror plan.
type Plan struct {
	Endpoint string
	UnitID   uint8
	BaseSlot uint16 // first block index; slot i lives at BaseSlot+i
	Slots    int
}

// StatusWriter is the delivery-only contract for one slot's state.
// It receives a snapshot and writes it verbatim.
// No logic, no interpretation.
type StatusWriter interface {
	WriteStatus(s status.Snapshot) error
}

// endpointClient is the exact contract the writer uses.
type endpointClient interface {
	WriteRegisters(unitID uint8, addr uint16, regs []uint16) error
}
