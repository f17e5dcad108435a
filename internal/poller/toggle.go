// internal/poller/toggle.go
package poller

// Toggle holds the "motion reporting desired" flag.
// Session scope keeps one flag shared by every slot; device scope keeps one per slot.
type Toggle struct {
	perDevice bool
	on        []bool

	// flips counts Flip calls since the last startTick.
	flips int
}

// NewToggle builds a toggle for the given number of slots.
func NewToggle(perDevice bool, slots int) *Toggle {
	n := 1
	if perDevice && slots > 0 {
		n = slots
	}
	return &Toggle{perDevice: perDevice, on: make([]bool, n)}
}

// Flip inverts the flag that governs slot and returns the new value.
func (t *Toggle) Flip(slot int) bool {
	i := t.index(slot)
	t.on[i] = !t.on[i]
	t.flips++
	return t.on[i]
}

// On returns the flag that governs slot.
func (t *Toggle) On(slot int) bool {
	return t.on[t.index(slot)]
}

// PerDevice reports the scope.
func (t *Toggle) PerDevice() bool {
	return t.perDevice
}

func (t *Toggle) startTick() {
	t.flips = 0
}

// sharedFlipsThisTick returns how many times the shared flag flipped
// in the current tick. Always 0 in device scope.
func (t *Toggle) sharedFlipsThisTick() int {
	if t.perDevice {
		return 0
	}
	return t.flips
}

func (t *Toggle) index(slot int) int {
	if !t.perDevice || slot < 0 || slot >= len(t.on) {
		return 0
	}
	return slot
}
