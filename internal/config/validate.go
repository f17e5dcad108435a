// internal/config/validate.go
package config

import (
	"fmt"
	"strings"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
// Zero values are allowed: Normalize fills them in.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil")
	}

	t := cfg.Twiirl

	// ------------------------------------------------------------
	// SLOTS / TIMING
	// ------------------------------------------------------------

	if t.Capacity < 0 || t.Capacity > MaxCapacity {
		return fmt.Errorf("capacity %d out of range 1..%d", t.Capacity, MaxCapacity)
	}
	if t.FindTimeoutS < 0 {
		return fmt.Errorf("find_timeout_s must be >= 0, got %d", t.FindTimeoutS)
	}
	if t.PollTimeoutMs < 0 {
		return fmt.Errorf("poll_timeout_ms must be >= 0, got %d", t.PollTimeoutMs)
	}

	switch strings.ToLower(t.ToggleScope) {
	case "", ToggleScopeSession, ToggleScopeDevice:
	default:
		return fmt.Errorf(
			"toggle_scope %q: must be %q or %q",
			t.ToggleScope,
			ToggleScopeSession,
			ToggleScopeDevice,
		)
	}

	switch strings.ToLower(t.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level %q: must be debug, info, warn or error", t.LogLevel)
	}

	// ------------------------------------------------------------
	// MIRROR (OPT-IN)
	// ------------------------------------------------------------

	m := t.Mirror
	if m == nil {
		return nil
	}

	if m.Endpoint == "" {
		return fmt.Errorf("mirror: endpoint required")
	}
	if m.TimeoutMs < 0 {
		return fmt.Errorf("mirror: timeout_ms must be >= 0, got %d", m.TimeoutMs)
	}

	// every slot block must fit the 16-bit address space
	capacity := t.Capacity
	if capacity == 0 {
		capacity = DefaultCapacity
	}
	last := (uint32(m.BaseSlot) + uint32(capacity)) * MirrorBlockSize
	if last > 0x10000 {
		return fmt.Errorf(
			"mirror: base_slot %d with capacity %d exceeds register space",
			m.BaseSlot,
			capacity,
		)
	}

	return nil
}

// MirrorBlockSize is the register span owned by one slot.
// Kept here so validation does not depend on the status package.
const MirrorBlockSize = 20
