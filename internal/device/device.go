// internal/device/device.go
package device

import (
	"context"
	"time"
)

// Service is the device collaborator the poll loop drives.
// It owns discovery, connection, wire decoding and actuation.
type Service interface {
	Find(ctx context.Context, timeout time.Duration) (int, error)
	Connect(ctx context.Context) (int, error)

	// Slots returns a fixed-length view; empty slots are nil.
	Slots() []Device

	// Poll blocks until some slot has a pending event or the backend
	// timeout elapses. Events and edges from the previous call are cleared.
	Poll(ctx context.Context) bool

	Cleanup() error
}

// Device is one connected controller as seen by the poll loop.
type Device interface {
	ID() int
	Event() EventKind
	Connected() bool

	JustPressed(b Button) bool
	Held(b Button) bool

	UsingAccelerometer() bool
	UsingExpansion() bool
	UsingSpeaker() bool
	UsingIR() bool
	LEDSet(n int) bool

	Expansion() Expansion
	Orientation() Orientation
	GyroRates() GyroRates
	Battery() float64

	SetLEDs(leds LED) error
	Rumble(on bool) error
	RequestStatus() error
	SetMotionReporting(enabled bool) error
	SetMotionPlus(mode MotionPlusMode) error
}

// Orientation is the per-tick decoded attitude in degrees.
type Orientation struct {
	Roll   float64
	ARoll  float64
	Pitch  float64
	APitch float64
	Yaw    float64
}

// GyroRates are angular rates in degrees per second.
type GyroRates struct {
	Pitch float64
	Roll  float64
	Yaw   float64
}
