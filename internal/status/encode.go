// internal/status/encode.go
package status

import "math"

// Encode converts a Snapshot into a full slot state block.
// Layout is protocol-locked.
// No IO. No side effects.
func Encode(s Snapshot) []uint16 {
	regs := make([]uint16, RegistersPerSlot)

	regs[RegConnected] = b2u(s.Connected)
	regs[RegButtons] = s.Buttons
	regs[RegBattery] = percent(s.Battery)
	regs[RegExpansion] = uint16(s.Expansion)
	regs[RegMotion] = b2u(s.Motion)

	regs[RegRoll] = scaled(s.Orientation.Roll, 100)
	regs[RegPitch] = scaled(s.Orientation.Pitch, 100)
	regs[RegYaw] = scaled(s.Orientation.Yaw, 100)

	regs[RegGyroPitch] = scaled(s.Gyro.Pitch, 10)
	regs[RegGyroRoll] = scaled(s.Gyro.Roll, 10)
	regs[RegGyroYaw] = scaled(s.Gyro.Yaw, 10)

	return regs
}

func b2u(b bool) uint16 {
	if b {
		return 1
	}
	return 0
}

func percent(level float64) uint16 {
	switch {
	case level <= 0 || math.IsNaN(level):
		return 0
	case level >= 1:
		return 100
	}
	return uint16(math.Round(level * 100))
}

// scaled clamps v*k into int16 range and returns its two's complement.
func scaled(v, k float64) uint16 {
	x := math.Round(v * k)
	switch {
	case math.IsNaN(x):
		x = 0
	case x > math.MaxInt16:
		x = math.MaxInt16
	case x < math.MinInt16:
		x = math.MinInt16
	}
	return uint16(int16(x))
}
