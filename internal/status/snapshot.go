// internal/status/snapshot.go
package status

import "github.com/tamzrod/twiirl/internal/device"

// Snapshot represents exactly what the mirror is allowed to deliver for one slot.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	Connected bool
	Buttons   uint16
	Battery   float64 // 0.0 .. 1.0
	Expansion device.Expansion
	Motion    bool

	Orientation device.Orientation
	Gyro        device.GyroRates
}

// Capture reads the current slot state from a device.
// A nil device yields the zero (disconnected) snapshot.
func Capture(d device.Device) Snapshot {
	if d == nil {
		return Snapshot{}
	}

	var held uint16
	for b := device.Button(1); b != 0 && b <= device.ButtonAll; b <<= 1 {
		if device.ButtonAll&b == 0 {
			continue
		}
		if d.Held(b) {
			held |= uint16(b)
		}
	}

	s := Snapshot{
		Connected: d.Connected(),
		Buttons:   held,
		Battery:   d.Battery(),
		Expansion: d.Expansion(),
		Motion:    d.UsingAccelerometer(),
	}
	if s.Motion {
		s.Orientation = d.Orientation()
	}
	if s.Expansion.HasGyro() {
		s.Gyro = d.GyroRates()
	}
	return s
}
