// internal/wiimote/service.go
package wiimote

import (
	"context"
	"sync"
	"time"

	"github.com/flynn/hid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/tamzrod/twiirl/internal/device"
)

const scanInterval = 250 * time.Millisecond

// inbound is one input report tagged with its slot.
// A nil rep means the read channel closed.
type inbound struct {
	slot int
	rep  []byte
}

// hidConn is the part of hid.Device the backend uses.
type hidConn interface {
	Write([]byte) error
	ReadCh() <-chan []byte
	Close()
}

// Config is the minimal runtime config the backend needs.
type Config struct {
	Capacity    int
	PollTimeout time.Duration
}

// Service drives up to Capacity remotes over HID.
// One reader goroutine per remote forwards reports; all decoding
// happens on the caller's goroutine inside Poll.
type Service struct {
	cfg    Config
	logger *zap.SugaredLogger

	// enumerate and open are swapped in tests
	enumerate func() ([]*hid.DeviceInfo, error)
	open      func(*hid.DeviceInfo) (hidConn, error)

	found   []*hid.DeviceInfo
	remotes []*Remote
	devs    []hidConn

	msgs chan inbound
	done chan struct{}
	wg   sync.WaitGroup

	cleanupOnce sync.Once
}

// New creates an unconnected backend.
func New(cfg Config, logger *zap.SugaredLogger) (*Service, error) {
	if cfg.Capacity <= 0 {
		return nil, errors.New("wiimote: capacity must be > 0")
	}
	if cfg.PollTimeout <= 0 {
		return nil, errors.New("wiimote: poll timeout must be > 0")
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return &Service{
		cfg:       cfg,
		logger:    logger.Named("wiimote"),
		enumerate: hid.Devices,
		open:      openHID,
		remotes:   make([]*Remote, cfg.Capacity),
		devs:      make([]hidConn, cfg.Capacity),
		msgs:      make(chan inbound, 64*cfg.Capacity),
		done:      make(chan struct{}),
	}, nil
}

// Find enumerates HID devices until Capacity remotes are seen, the set
// stops growing after the first hit, or timeout elapses.
func (s *Service) Find(ctx context.Context, timeout time.Duration) (int, error) {
	deadline := time.Now().Add(timeout)
	seen := map[string]bool{}

	for {
		infos, err := s.enumerate()
		if err != nil {
			return len(s.found), errors.Wrap(err, "wiimote: enumerate")
		}

		grew := false
		for _, info := range infos {
			if len(s.found) >= s.cfg.Capacity {
				break
			}
			if !isRemote(info) || seen[info.Path] {
				continue
			}
			seen[info.Path] = true
			s.found = append(s.found, info)
			grew = true
			s.logger.Debugw("Remote found", "path", info.Path, "product", info.Product)
		}

		switch {
		case len(s.found) >= s.cfg.Capacity:
			return len(s.found), nil
		case len(s.found) > 0 && !grew:
			return len(s.found), nil
		case !time.Now().Before(deadline):
			return len(s.found), nil
		}

		select {
		case <-ctx.Done():
			return len(s.found), nil
		case <-time.After(scanInterval):
		}
	}
}

func openHID(info *hid.DeviceInfo) (hidConn, error) {
	return info.Open()
}

func isRemote(info *hid.DeviceInfo) bool {
	if info == nil || info.VendorID != VendorNintendo {
		return false
	}
	switch info.ProductID {
	case ProductRemote, ProductRemotePlus:
		return true
	}
	return false
}

// Connect opens every found remote. Slot order follows discovery order.
func (s *Service) Connect(ctx context.Context) (int, error) {
	var lastErr error
	n := 0

	for i, info := range s.found {
		if ctx.Err() != nil {
			break
		}

		dev, err := s.open(info)
		if err != nil {
			s.logger.Warnw("Remote open failed", "path", info.Path, "error", err)
			lastErr = err
			continue
		}

		r := newRemote(i+1, dev, s.logger)
		if err := r.applyReportMode(); err != nil {
			s.logger.Warnw("Remote initial report mode failed", "path", info.Path, "error", err)
			dev.Close()
			lastErr = err
			continue
		}

		s.remotes[i] = r
		s.devs[i] = dev
		n++

		s.wg.Add(1)
		go s.read(i, dev)
	}

	if n == 0 && lastErr != nil {
		return 0, errors.Wrap(lastErr, "wiimote: connect")
	}
	return n, nil
}

// read forwards reports from one device until its channel closes.
func (s *Service) read(slot int, dev hidConn) {
	defer s.wg.Done()

	for rep := range dev.ReadCh() {
		select {
		case s.msgs <- inbound{slot: slot, rep: rep}:
		case <-s.done:
			return
		}
	}

	s.logger.Debugw("Remote read ended", "slot", slot)

	select {
	case s.msgs <- inbound{slot: slot}:
	case <-s.done:
	}
}

// Slots returns one entry per slot; unconnected slots are nil.
func (s *Service) Slots() []device.Device {
	out := make([]device.Device, len(s.remotes))
	for i, r := range s.remotes {
		if r != nil {
			out[i] = r
		}
	}
	return out
}

// Poll waits up to PollTimeout for the first report, then drains what is
// already queued. Draining stops early once any slot holds a non-generic
// event so that event is not overwritten before dispatch. Edges carried
// over from the previous tick skip the wait.
func (s *Service) Poll(ctx context.Context) bool {
	carried := false
	for _, r := range s.remotes {
		if r != nil {
			r.beginTick()
			carried = carried || r.event != device.EventNone
		}
	}

	if !carried {
		timer := time.NewTimer(s.cfg.PollTimeout)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return false
		case <-timer.C:
			return false
		case m := <-s.msgs:
			s.apply(m)
		}
	}

drain:
	for !s.pendingSpecific() {
		select {
		case m := <-s.msgs:
			s.apply(m)
		default:
			break drain
		}
	}

	for _, r := range s.remotes {
		if r != nil && r.event != device.EventNone {
			return true
		}
	}
	return false
}

func (s *Service) apply(m inbound) {
	if m.slot < 0 || m.slot >= len(s.remotes) || s.remotes[m.slot] == nil {
		return
	}
	r := s.remotes[m.slot]

	if m.rep == nil {
		r.lost(false)
		return
	}
	if !r.connected {
		return
	}
	r.handle(m.rep)
}

func (s *Service) pendingSpecific() bool {
	for _, r := range s.remotes {
		if r != nil && r.pendingSpecific() {
			return true
		}
	}
	return false
}

// Cleanup turns remotes back to idle and closes every handle once.
func (s *Service) Cleanup() error {
	s.cleanupOnce.Do(func() {
		for i, r := range s.remotes {
			if r == nil || !r.connected {
				continue
			}
			if err := r.SetLEDs(device.LEDNone); err != nil {
				s.logger.Debugw("LED reset on cleanup failed", "slot", i, "error", err)
			}
			if r.rumble {
				_ = r.Rumble(false)
			}
			r.connected = false
		}

		close(s.done)

		for _, d := range s.devs {
			if d != nil {
				d.Close()
			}
		}
		s.wg.Wait()
	})
	return nil
}
