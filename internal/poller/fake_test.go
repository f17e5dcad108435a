// internal/poller/fake_test.go
package poller

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tamzrod/twiirl/internal/device"
	"github.com/tamzrod/twiirl/internal/report"
	"github.com/tamzrod/twiirl/internal/status"
)

// ---- fake device ----

type fakeDevice struct {
	id        int
	event     device.EventKind
	connected bool

	just device.Button
	held device.Button

	accel     bool
	usingExp  bool
	expansion device.Expansion
	orient    device.Orientation
	gyro      device.GyroRates
	battery   float64
	leds      device.LED

	motionCalls []bool
	plusCalls   []device.MotionPlusMode
	rumbleCalls []bool
	statusReqs  int
	failMotion  bool
}

func (f *fakeDevice) ID() int                          { return f.id }
func (f *fakeDevice) Event() device.EventKind          { return f.event }
func (f *fakeDevice) Connected() bool                  { return f.connected }
func (f *fakeDevice) JustPressed(b device.Button) bool { return f.just&b != 0 }
func (f *fakeDevice) Held(b device.Button) bool        { return f.held&b != 0 }
func (f *fakeDevice) UsingAccelerometer() bool         { return f.accel }
func (f *fakeDevice) UsingExpansion() bool             { return f.usingExp }
func (f *fakeDevice) UsingSpeaker() bool               { return false }
func (f *fakeDevice) UsingIR() bool                    { return false }
func (f *fakeDevice) Expansion() device.Expansion      { return f.expansion }
func (f *fakeDevice) Orientation() device.Orientation  { return f.orient }
func (f *fakeDevice) GyroRates() device.GyroRates      { return f.gyro }
func (f *fakeDevice) Battery() float64                 { return f.battery }

func (f *fakeDevice) LEDSet(n int) bool {
	return n >= 1 && n <= 4 && f.leds&device.SlotLED(n-1) != 0
}

func (f *fakeDevice) SetLEDs(l device.LED) error {
	f.leds = l
	return nil
}

func (f *fakeDevice) Rumble(on bool) error {
	f.rumbleCalls = append(f.rumbleCalls, on)
	return nil
}

func (f *fakeDevice) RequestStatus() error {
	f.statusReqs++
	return nil
}

func (f *fakeDevice) SetMotionReporting(on bool) error {
	f.motionCalls = append(f.motionCalls, on)
	if f.failMotion {
		return errors.New("write failed")
	}
	f.accel = on
	return nil
}

func (f *fakeDevice) SetMotionPlus(m device.MotionPlusMode) error {
	f.plusCalls = append(f.plusCalls, m)
	return nil
}

// ---- fake service ----

// fakeService plays one script step per Poll call.
// When the script runs out every device disconnects.
type fakeService struct {
	devs      []*fakeDevice
	found     int
	connected int

	script []func() bool
	step   int

	findCalls    int
	connectCalls int
	pollCalls    int
	cleanupCalls int
}

func newFakeService(devs ...*fakeDevice) *fakeService {
	return &fakeService{
		devs:      devs,
		found:     len(devs),
		connected: len(devs),
	}
}

func (s *fakeService) Find(ctx context.Context, timeout time.Duration) (int, error) {
	s.findCalls++
	return s.found, nil
}

func (s *fakeService) Connect(ctx context.Context) (int, error) {
	s.connectCalls++
	return s.connected, nil
}

func (s *fakeService) Slots() []device.Device {
	out := make([]device.Device, 4)
	for i, d := range s.devs {
		if d != nil {
			out[i] = d
		}
	}
	return out
}

func (s *fakeService) Poll(ctx context.Context) bool {
	s.pollCalls++

	for _, d := range s.devs {
		if d != nil {
			d.event = device.EventNone
			d.just = 0
		}
	}

	if s.step >= len(s.script) {
		for _, d := range s.devs {
			if d != nil {
				d.connected = false
			}
		}
		return false
	}

	fn := s.script[s.step]
	s.step++
	return fn()
}

func (s *fakeService) Cleanup() error {
	s.cleanupCalls++
	return nil
}

// ---- fake observer ----

type observed struct {
	slot int
	snap status.Snapshot
}

type fakeObserver struct {
	seen []observed
}

func (o *fakeObserver) Observe(slot int, s status.Snapshot) {
	o.seen = append(o.seen, observed{slot: slot, snap: s})
}

// ---- helpers ----

func connected(id int) *fakeDevice {
	return &fakeDevice{id: id, connected: true, battery: 1}
}

func newTestPoller(t *testing.T, svc *fakeService, perDevice bool, obs Observer) (*Poller, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	p, err := New(
		Config{Capacity: 4, FindTimeout: time.Second, PerDeviceToggle: perDevice},
		svc,
		report.New(&buf),
		nil,
		obs,
	)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	return p, &buf
}
