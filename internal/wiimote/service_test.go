// internal/wiimote/service_test.go
package wiimote

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/flynn/hid"

	"github.com/tamzrod/twiirl/internal/device"
)

// ---- fake hid connection ----

type fakeConn struct {
	mu     sync.Mutex
	writes [][]byte
	fail   bool

	ch        chan []byte
	closeOnce sync.Once
	closed    bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{ch: make(chan []byte, 16)}
}

func (f *fakeConn) Write(b []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("write failed")
	}
	f.writes = append(f.writes, append([]byte(nil), b...))
	return nil
}

func (f *fakeConn) ReadCh() <-chan []byte { return f.ch }

func (f *fakeConn) Close() {
	f.closeOnce.Do(func() {
		f.mu.Lock()
		f.closed = true
		f.mu.Unlock()
		close(f.ch)
	})
}

func (f *fakeConn) sent(report byte) [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out [][]byte
	for _, w := range f.writes {
		if len(w) > 0 && w[0] == report {
			out = append(out, w)
		}
	}
	return out
}

// ---- helpers ----

func remoteInfo(path string) *hid.DeviceInfo {
	return &hid.DeviceInfo{Path: path, VendorID: VendorNintendo, ProductID: ProductRemote}
}

func newTestService(t *testing.T, capacity int, infos []*hid.DeviceInfo, conns map[string]*fakeConn) *Service {
	t.Helper()

	s, err := New(Config{Capacity: capacity, PollTimeout: 50 * time.Millisecond}, nil)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	s.enumerate = func() ([]*hid.DeviceInfo, error) { return infos, nil }
	s.open = func(info *hid.DeviceInfo) (hidConn, error) {
		c, ok := conns[info.Path]
		if !ok {
			return nil, errors.New("open failed")
		}
		return c, nil
	}
	return s
}

func pollUntil(t *testing.T, s *Service, slot int, want device.EventKind) device.Device {
	t.Helper()
	for i := 0; i < 20; i++ {
		if s.Poll(context.Background()) {
			d := s.Slots()[slot]
			if d.Event() == want {
				return d
			}
		}
	}
	t.Fatalf("slot %d never reported %v", slot, want)
	return nil
}

// ---- discovery / connect ----

func TestFind_FiltersAndCaps(t *testing.T) {
	infos := []*hid.DeviceInfo{
		{Path: "kbd", VendorID: 0x046d, ProductID: 0xc31c},
		remoteInfo("r1"),
		{Path: "pro", VendorID: VendorNintendo, ProductID: 0x2009},
		remoteInfo("r2"),
		remoteInfo("r3"),
	}
	s := newTestService(t, 2, infos, nil)

	n, err := s.Find(context.Background(), time.Second)
	if err != nil {
		t.Fatalf("Find() err=%v", err)
	}
	if n != 2 {
		t.Fatalf("found got=%d want=2", n)
	}
}

func TestFind_NoneWithinTimeout(t *testing.T) {
	s := newTestService(t, 4, nil, nil)

	n, err := s.Find(context.Background(), 0)
	if err != nil {
		t.Fatalf("Find() err=%v", err)
	}
	if n != 0 {
		t.Fatalf("found got=%d want=0", n)
	}
}

func TestConnect_PartialKeepsSlotOrder(t *testing.T) {
	c2 := newFakeConn()
	s := newTestService(t, 4,
		[]*hid.DeviceInfo{remoteInfo("r1"), remoteInfo("r2")},
		map[string]*fakeConn{"r2": c2},
	)
	defer s.Cleanup()

	if _, err := s.Find(context.Background(), time.Second); err != nil {
		t.Fatalf("Find() err=%v", err)
	}

	n, err := s.Connect(context.Background())
	if err != nil {
		t.Fatalf("Connect() err=%v", err)
	}
	if n != 1 {
		t.Fatalf("connected got=%d want=1", n)
	}

	slots := s.Slots()
	if slots[0] != nil {
		t.Fatalf("slot 0 should be empty")
	}
	if slots[1] == nil || slots[1].ID() != 2 {
		t.Fatalf("slot 1 should hold remote 2")
	}

	// initial buttons-only report mode
	if modes := c2.sent(outReportMode); len(modes) != 1 || modes[0][2] != inButtons {
		t.Fatalf("initial report mode got=%x", modes)
	}
}

func TestConnect_AllFail(t *testing.T) {
	s := newTestService(t, 4, []*hid.DeviceInfo{remoteInfo("r1")}, nil)

	_, _ = s.Find(context.Background(), time.Second)
	n, err := s.Connect(context.Background())
	if n != 0 || err == nil {
		t.Fatalf("expected 0 and error, got %d/%v", n, err)
	}
}

// ---- polling ----

func connectOne(t *testing.T) (*Service, *fakeConn) {
	t.Helper()
	c := newFakeConn()
	s := newTestService(t, 4, []*hid.DeviceInfo{remoteInfo("r1")}, map[string]*fakeConn{"r1": c})
	if _, err := s.Find(context.Background(), time.Second); err != nil {
		t.Fatalf("Find() err=%v", err)
	}
	if n, err := s.Connect(context.Background()); n != 1 || err != nil {
		t.Fatalf("Connect() n=%d err=%v", n, err)
	}
	return s, c
}

func TestPoll_TimeoutWithoutReports(t *testing.T) {
	s, _ := connectOne(t)
	defer s.Cleanup()

	if s.Poll(context.Background()) {
		t.Fatalf("poll reported an event without input")
	}
}

func TestPoll_JustPressedEdges(t *testing.T) {
	s, c := connectOne(t)
	defer s.Cleanup()

	// press A
	c.ch <- []byte{inButtons, 0x00, 0x08}
	d := pollUntil(t, s, 0, device.EventGeneric)
	if !d.JustPressed(device.ButtonA) || !d.Held(device.ButtonA) {
		t.Fatalf("A should be just pressed and held")
	}

	// still holding A, press B
	c.ch <- []byte{inButtons, 0x00, 0x08 | 0x04}
	d = pollUntil(t, s, 0, device.EventGeneric)
	if d.JustPressed(device.ButtonA) {
		t.Fatalf("held A reported as new edge")
	}
	if !d.JustPressed(device.ButtonB) {
		t.Fatalf("B edge missed")
	}
}

func TestPoll_StatusAndMotionPlusLifecycle(t *testing.T) {
	s, c := connectOne(t)
	defer s.Cleanup()

	d := s.Slots()[0]

	// enable motion + gyro as the event handler would
	if err := d.SetMotionReporting(true); err != nil {
		t.Fatalf("SetMotionReporting err=%v", err)
	}
	if err := d.SetMotionPlus(device.MotionPlusStandalone); err != nil {
		t.Fatalf("SetMotionPlus err=%v", err)
	}
	if got := c.sent(outWriteMemory); len(got) != 2 || got[1][6] != mpStandalone {
		t.Fatalf("motion plus writes got=%x", got)
	}

	// attachment appears: status then identifier reply
	c.ch <- []byte{inStatus, 0, 0, 0x10 | statusExtConnected, 0, 0, 0xC8}
	pollUntil(t, s, 0, device.EventStatus)

	if got := c.sent(outReadMemory); len(got) != 1 {
		t.Fatalf("expected identifier read, got %x", got)
	}

	reply := make([]byte, 22)
	reply[0] = inReadData
	reply[3] = 0x50
	reply[4], reply[5] = 0x00, 0xFA
	copy(reply[6:], []byte{0x00, 0x00, 0xA4, 0x20, 0x04, 0x05})
	c.ch <- reply
	d = pollUntil(t, s, 0, device.EventMotionPlusActivated)

	if d.Expansion() != device.ExpansionMotionPlus || !d.UsingExpansion() {
		t.Fatalf("expansion got=%d", d.Expansion())
	}
	if d.Battery() != 1 || !d.LEDSet(1) || d.LEDSet(2) {
		t.Fatalf("status fields not applied")
	}

	// gyro frame: roll +100 deg/s fast
	roll := 8192 + 400
	data := make([]byte, 22)
	data[0] = inButtonsAccelExt
	data[3], data[4], data[5] = accelZero, accelZero, accelOneG
	copy(data[6:], []byte{0x00, byte(roll), 0x00, 0x80, byte(roll>>8) << 2, 0x80 | 0x02})
	c.ch <- data
	d = pollUntil(t, s, 0, device.EventGeneric)
	if d.GyroRates().Roll != 100 {
		t.Fatalf("gyro roll got=%f", d.GyroRates().Roll)
	}

	// attachment removed
	c.ch <- []byte{inStatus, 0, 0, 0x10, 0, 0, 0xC8}
	d = pollUntil(t, s, 0, device.EventMotionPlusRemoved)
	if d.Expansion() != device.ExpansionNone {
		t.Fatalf("expansion not cleared")
	}
}

func TestPoll_OrientationOnlyWhileReporting(t *testing.T) {
	s, c := connectOne(t)
	defer s.Cleanup()

	d := s.Slots()[0]
	if err := d.SetMotionReporting(true); err != nil {
		t.Fatalf("SetMotionReporting err=%v", err)
	}
	if modes := c.sent(outReportMode); modes[len(modes)-1][2] != inButtonsAccel || modes[len(modes)-1][1]&0x04 == 0 {
		t.Fatalf("expected continuous accel mode, got %x", modes[len(modes)-1])
	}

	c.ch <- []byte{inButtonsAccel, 0, 0, accelOneG, accelZero, accelZero}
	d = pollUntil(t, s, 0, device.EventGeneric)
	if o := d.Orientation(); o.ARoll < 89 || o.ARoll > 91 {
		t.Fatalf("a_roll got=%f want=90", o.ARoll)
	}
	if !d.UsingAccelerometer() {
		t.Fatalf("accelerometer should be in use")
	}

	if err := d.SetMotionReporting(false); err != nil {
		t.Fatalf("SetMotionReporting err=%v", err)
	}
	if d.UsingAccelerometer() {
		t.Fatalf("accelerometer still in use")
	}
}

func TestPoll_ClosedChannelIsUnexpectedDisconnect(t *testing.T) {
	s, c := connectOne(t)
	defer s.Cleanup()

	c.Close()
	d := pollUntil(t, s, 0, device.EventUnexpectedDisconnect)
	if d.Connected() {
		t.Fatalf("remote still connected")
	}
	if err := d.RequestStatus(); err == nil {
		t.Fatalf("write on a lost remote should fail")
	}
}

func TestCleanup_ClosesOnce(t *testing.T) {
	s, c := connectOne(t)

	if err := s.Cleanup(); err != nil {
		t.Fatalf("Cleanup() err=%v", err)
	}
	if err := s.Cleanup(); err != nil {
		t.Fatalf("second Cleanup() err=%v", err)
	}

	if !c.closed {
		t.Fatalf("connection not closed")
	}
	if leds := c.sent(outLEDs); len(leds) != 1 || leds[0][1]&0xF0 != 0 {
		t.Fatalf("LEDs not cleared on cleanup: %x", leds)
	}
	if s.Slots()[0].Connected() {
		t.Fatalf("remote still connected after cleanup")
	}
}

func TestPoll_EdgeSurvivesStatusInSameTick(t *testing.T) {
	for _, tc := range []struct {
		name string
		b2   byte
		btn  device.Button
	}{
		{"A", 0x08, device.ButtonA},
		{"Home", 0x80, device.ButtonHome},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s, c := connectOne(t)
			defer s.Cleanup()

			// press, then a status report while the button is still held
			c.ch <- []byte{inButtons, 0x00, tc.b2}
			c.ch <- []byte{inStatus, 0x00, tc.b2, 0x10, 0, 0, 0xC8}

			updates, statuses := 0, 0
			for i := 0; i < 10; i++ {
				if !s.Poll(context.Background()) {
					continue
				}
				d := s.Slots()[0]
				switch d.Event() {
				case device.EventGeneric:
					if d.JustPressed(tc.btn) {
						updates++
					}
				case device.EventStatus:
					statuses++
				}
			}

			if statuses != 1 {
				t.Fatalf("status ticks got=%d want=1", statuses)
			}
			if updates != 1 {
				t.Fatalf("update ticks with edge got=%d want=1", updates)
			}
		})
	}
}

func TestPoll_ReadReplyEdgeIsGeneric(t *testing.T) {
	s, c := connectOne(t)
	defer s.Cleanup()

	// identifier reply for an unrelated address, B pressed
	reply := make([]byte, 22)
	reply[0] = inReadData
	reply[2] = 0x04
	reply[3] = 0x50
	reply[5] = 0x20
	c.ch <- reply

	d := pollUntil(t, s, 0, device.EventGeneric)
	if !d.JustPressed(device.ButtonB) {
		t.Fatalf("B edge missed on read reply")
	}
}
