// internal/poller/poller.go
package poller

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/tamzrod/twiirl/internal/device"
	"github.com/tamzrod/twiirl/internal/report"
	"github.com/tamzrod/twiirl/internal/status"
)

var (
	ErrNoDevicesFound     = errors.New("poller: no devices found")
	ErrNoDevicesConnected = errors.New("poller: failed to connect to any device")
)

// Observer receives the slot state after every dispatched event.
type Observer interface {
	Observe(slot int, s status.Snapshot)
}

// Config is the minimal runtime config the poller needs.
type Config struct {
	Capacity        int
	FindTimeout     time.Duration
	RumblePulse     time.Duration
	PerDeviceToggle bool
}

// Poller owns the device registry for the process lifetime.
// Dispatch is single-threaded; the toggle is session state, not global.
type Poller struct {
	cfg      Config
	svc      device.Service
	out      *report.Printer
	logger   *zap.SugaredLogger
	observer Observer
	toggle   *Toggle
}

// New creates a poller with immutable config.
// observer may be nil.
func New(cfg Config, svc device.Service, out *report.Printer, logger *zap.SugaredLogger, observer Observer) (*Poller, error) {
	if cfg.Capacity <= 0 {
		return nil, errors.New("poller: capacity must be > 0")
	}
	if cfg.FindTimeout < 0 {
		return nil, errors.New("poller: find timeout must be >= 0")
	}
	if svc == nil {
		return nil, errors.New("poller: device service required")
	}
	if out == nil {
		return nil, errors.New("poller: printer required")
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return &Poller{
		cfg:      cfg,
		svc:      svc,
		out:      out,
		logger:   logger.Named("poller"),
		observer: observer,
		toggle:   NewToggle(cfg.PerDeviceToggle, cfg.Capacity),
	}, nil
}

// Toggle exposes the session toggle state.
func (p *Poller) Toggle() *Toggle {
	return p.toggle
}

// Run finds, connects, confirms and polls until no slot is connected
// or ctx is done. Discovery and connect are attempted exactly once.
func (p *Poller) Run(ctx context.Context) error {
	p.out.Banner()

	// --------------------
	// Discover
	// --------------------

	found, err := p.svc.Find(ctx, p.cfg.FindTimeout)
	if err != nil {
		p.logger.Warnw("Device discovery failed", "error", err)
	}
	if found == 0 {
		p.out.NoneFound()
		return ErrNoDevicesFound
	}

	// --------------------
	// Connect
	// --------------------

	connected, err := p.svc.Connect(ctx)
	if err != nil {
		p.logger.Warnw("Device connect reported errors", "error", err)
	}
	if connected == 0 {
		p.out.NoneConnected()
		return ErrNoDevicesConnected
	}
	p.out.Connected(connected, found)
	p.logger.Infow("Devices connected",
		"connected", connected,
		"found", found,
		"toggle_per_device", p.toggle.PerDevice())

	p.confirm(ctx)
	p.out.Controls()
	p.seedStatus()

	// --------------------
	// Poll loop
	// --------------------

	for p.anyConnected() {
		if ctx.Err() != nil {
			p.logger.Infow("Poll loop interrupted", "reason", ctx.Err())
			break
		}
		if p.svc.Poll(ctx) {
			p.tick()
		}
	}

	p.out.Shutdown()
	if err := p.svc.Cleanup(); err != nil {
		p.logger.Warnw("Device cleanup failed", "error", err)
	}
	return nil
}

// tick dispatches every slot with a pending event.
func (p *Poller) tick() {
	p.toggle.startTick()

	for i, d := range p.svc.Slots() {
		if d == nil {
			continue
		}
		if !Dispatch(p, i, d) {
			continue
		}
		if p.observer != nil {
			p.observer.Observe(i, status.Capture(d))
		}
	}

	if n := p.toggle.sharedFlipsThisTick(); n > 1 {
		p.logger.Warnw("Shared motion toggle flipped more than once in one tick",
			"flips", n,
			"on", p.toggle.On(0))
	}
}

// confirm lights one distinct LED per slot and pulses rumble once.
func (p *Poller) confirm(ctx context.Context) {
	slots := p.svc.Slots()

	for i, d := range slots {
		if d == nil {
			continue
		}
		if err := d.SetLEDs(device.SlotLED(i)); err != nil {
			p.logger.Warnw("Set LEDs failed", "slot", i, "error", err)
		}
	}

	p.rumbleAll(slots, true)
	if p.cfg.RumblePulse > 0 {
		select {
		case <-ctx.Done():
		case <-time.After(p.cfg.RumblePulse):
		}
	}
	p.rumbleAll(slots, false)
}

func (p *Poller) rumbleAll(slots []device.Device, on bool) {
	for i, d := range slots {
		if d == nil || !d.Connected() {
			continue
		}
		if err := d.Rumble(on); err != nil {
			p.logger.Warnw("Rumble failed", "slot", i, "on", on, "error", err)
		}
	}
}

// seedStatus requests one status report from slot 0 if populated.
func (p *Poller) seedStatus() {
	slots := p.svc.Slots()
	if len(slots) == 0 || slots[0] == nil {
		return
	}
	if err := slots[0].RequestStatus(); err != nil {
		p.logger.Warnw("Status request failed", "slot", 0, "error", err)
	}
}

func (p *Poller) anyConnected() bool {
	for _, d := range p.svc.Slots() {
		if d != nil && d.Connected() {
			return true
		}
	}
	return false
}

// ---- Handler ----

// OnUpdate reports button edges and the orientation line for one slot.
func (p *Poller) OnUpdate(slot int, d device.Device) {
	if err := handleEvent(p.out, p.toggle, slot, d); err != nil {
		p.logger.Warnw("Motion toggle failed", "slot", slot, "id", d.ID(), "error", err)
	}
}

// OnStatus prints the slot's status block.
func (p *Poller) OnStatus(slot int, d device.Device) {
	handleStatus(p.out, d)
}

// OnDisconnect prints the disconnect notice for either kind of disconnect.
func (p *Poller) OnDisconnect(slot int, d device.Device, unexpected bool) {
	p.logger.Infow("Device disconnected", "slot", slot, "id", d.ID(), "unexpected", unexpected)
	handleDisconnect(p.out, d)
}

// OnMotionPlusActivated is intentionally silent.
func (p *Poller) OnMotionPlusActivated(slot int, d device.Device) {
	p.logger.Debugw("Motion plus activated", "slot", slot, "id", d.ID())
}

// OnExpansionRemoved prints the status block followed by the removal notice.
func (p *Poller) OnExpansionRemoved(slot int, d device.Device) {
	handleStatus(p.out, d)
	p.out.ExpansionRemoved()
}
