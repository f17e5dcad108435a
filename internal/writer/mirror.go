// internal/writer/mirror.go
package writer

import (
	"go.uber.org/zap"

	"github.com/tamzrod/twiirl/internal/status"
)

// Mirror delivers per-slot snapshots to a register endpoint.
// Write failures are logged; they never reach the poll loop.
type Mirror struct {
	plan    Plan
	writers []StatusWriter
	logger  *zap.SugaredLogger
}

// New builds a mirror with one block writer per slot.
func New(plan Plan, cli endpointClient, logger *zap.SugaredLogger) *Mirror {
	writers := make([]StatusWriter, plan.Slots)
	for i := range writers {
		writers[i] = newSlotStatusWriter(cli, plan.UnitID, plan.BaseSlot+uint16(i))
	}

	return &Mirror{
		plan:    plan,
		writers: writers,
		logger:  logger.Named("writer"),
	}
}

// Observe implements poller.Observer.
func (m *Mirror) Observe(slot int, s status.Snapshot) {
	if slot < 0 || slot >= len(m.writers) {
		m.logger.Warnw("Snapshot for unknown slot dropped", "slot", slot)
		return
	}

	if err := m.writers[slot].WriteStatus(s); err != nil {
		m.logger.Warnw("Mirror write failed",
			"endpoint", m.plan.Endpoint,
			"unit", m.plan.UnitID,
			"slot", slot,
			"error", err)
	}
}
