// internal/wiimote/remote.go
package wiimote

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/tamzrod/twiirl/internal/device"
)

// conn is the subset of hid.Device a Remote writes to.
type conn interface {
	Write([]byte) error
	Close()
}

// Remote is one connected Wii Remote.
// All state is touched from the polling goroutine only.
type Remote struct {
	id     int
	conn   conn
	logger *zap.SugaredLogger

	connected bool
	event     device.EventKind

	buttons device.Button
	just    device.Button

	accelOn      bool
	extConnected bool
	expansion    device.Expansion
	mpMode       device.MotionPlusMode

	speaker    bool
	ir         bool
	leds       device.LED
	battery    float64
	batteryLow bool
	rumble     bool

	orient    device.Orientation
	haveAngle bool
	gyro      device.GyroRates
}

func newRemote(id int, c conn, logger *zap.SugaredLogger) *Remote {
	return &Remote{
		id:        id,
		conn:      c,
		logger:    logger.With("id", id),
		connected: true,
	}
}

// ---- device.Device (queries) ----

func (r *Remote) ID() int                         { return r.id }
func (r *Remote) Event() device.EventKind         { return r.event }
func (r *Remote) Connected() bool                 { return r.connected }
func (r *Remote) UsingAccelerometer() bool        { return r.accelOn }
func (r *Remote) UsingExpansion() bool            { return r.expansion != device.ExpansionNone }
func (r *Remote) UsingSpeaker() bool              { return r.speaker }
func (r *Remote) UsingIR() bool                   { return r.ir }
func (r *Remote) Expansion() device.Expansion     { return r.expansion }
func (r *Remote) Orientation() device.Orientation { return r.orient }
func (r *Remote) GyroRates() device.GyroRates     { return r.gyro }
func (r *Remote) Battery() float64                { return r.battery }

func (r *Remote) JustPressed(b device.Button) bool { return r.just&b == b && b != 0 }
func (r *Remote) Held(b device.Button) bool        { return r.buttons&b == b && b != 0 }

// LEDSet reports whether player LED n (1..4) is lit.
func (r *Remote) LEDSet(n int) bool {
	if n < 1 || n > 4 {
		return false
	}
	return r.leds&device.SlotLED(n-1) != 0
}

// ---- device.Device (actuation) ----

func (r *Remote) SetLEDs(leds device.LED) error {
	if err := r.write(encodeLEDs(leds, r.rumble)); err != nil {
		return errors.Wrap(err, "set leds")
	}
	r.leds = leds
	return nil
}

func (r *Remote) Rumble(on bool) error {
	if err := r.write(encodeRumble(on)); err != nil {
		return errors.Wrap(err, "rumble")
	}
	r.rumble = on
	return nil
}

func (r *Remote) RequestStatus() error {
	return errors.Wrap(r.write(encodeStatusRequest(r.rumble)), "status request")
}

// SetMotionReporting switches the accelerometer stream on or off.
// The flag changes immediately; data follows with the next report.
func (r *Remote) SetMotionReporting(enabled bool) error {
	r.accelOn = enabled
	if !enabled {
		r.haveAngle = false
	}
	return r.applyReportMode()
}

// SetMotionPlus activates or deactivates the gyro attachment.
// The attachment announces itself through a status report afterwards.
func (r *Remote) SetMotionPlus(mode device.MotionPlusMode) error {
	if mode == r.mpMode {
		return nil
	}

	switch mode {
	case device.MotionPlusOff:
		if err := r.writeRegister(regExtInit1, extInitValue); err != nil {
			return errors.Wrap(err, "motion plus off")
		}

	case device.MotionPlusStandalone, device.MotionPlusPassThrough:
		value := mpStandalone
		if mode == device.MotionPlusPassThrough {
			value = mpPassNunchuk
		}
		if err := r.writeRegister(regMPInit, extInitValue); err != nil {
			return errors.Wrap(err, "motion plus init")
		}
		if err := r.writeRegister(regMPActivate, value); err != nil {
			return errors.Wrap(err, "motion plus activate")
		}

	default:
		return errors.Errorf("motion plus: unknown mode %d", mode)
	}

	r.mpMode = mode
	return nil
}

// ---- wire ----

func (r *Remote) write(rep []byte) error {
	if !r.connected {
		return errors.New("not connected")
	}
	return r.conn.Write(rep)
}

func (r *Remote) writeRegister(addr uint32, data ...byte) error {
	return r.write(encodeWriteRegister(addr, data, r.rumble))
}

func (r *Remote) applyReportMode() error {
	mode := reportModeFor(r.accelOn, r.extConnected)
	if err := r.write(encodeReportMode(mode, r.accelOn, r.rumble)); err != nil {
		return errors.Wrapf(err, "report mode %#x", mode)
	}
	return nil
}

// identifyExpansion initialises the attachment and asks for its identifier.
func (r *Remote) identifyExpansion() error {
	if r.mpMode == device.MotionPlusOff {
		if err := r.writeRegister(regExtInit1, extInitValue); err != nil {
			return err
		}
		if err := r.writeRegister(regExtInit2, 0x00); err != nil {
			return err
		}
	}
	return r.write(encodeReadRegister(regExtID, extIDLength, r.rumble))
}

// ---- tick state ----

// beginTick clears the previous tick's event and edges. Edges that rode
// along with a specific event were never shown to the update handler, so
// they carry into this tick as a generic event.
func (r *Remote) beginTick() {
	carry := r.connected && r.just != 0 && r.pendingSpecific()

	r.event = device.EventNone
	if !carry {
		r.just = 0
		return
	}
	r.event = device.EventGeneric
}

// setEvent records kind unless a more specific event is already pending.
func (r *Remote) setEvent(kind device.EventKind) {
	if kind == device.EventNone {
		return
	}
	if r.event == device.EventNone || r.event == device.EventGeneric {
		r.event = kind
	}
}

// pendingSpecific reports whether a non-generic event waits for dispatch.
func (r *Remote) pendingSpecific() bool {
	return r.event != device.EventNone && r.event != device.EventGeneric
}

// lost marks the remote as gone.
func (r *Remote) lost(expected bool) {
	if !r.connected {
		return
	}
	r.connected = false
	r.accelOn = false
	if expected {
		r.setEvent(device.EventDisconnect)
	} else {
		r.setEvent(device.EventUnexpectedDisconnect)
	}
}

// handle applies one input report and records the resulting event.
func (r *Remote) handle(rep []byte) {
	if len(rep) == 0 {
		return
	}

	if b, ok := decodeButtons(rep); ok {
		r.just |= b &^ r.buttons
		r.buttons = b
	}

	switch rep[0] {
	case inStatus:
		r.handleStatus(rep)

	case inReadData:
		r.handleReadReply(rep)

	case inAck:
		// buttons only

	case inButtons, inButtonsAccel, inButtonsExt8, inButtonsAccelExt:
		r.handleData(rep)
		r.setEvent(device.EventGeneric)

	default:
		r.logger.Debugw("Unhandled input report", "report", rep[0])
	}

	// every report carries the core buttons
	if r.just != 0 {
		r.setEvent(device.EventGeneric)
	}
}

func (r *Remote) handleStatus(rep []byte) {
	st, ok := decodeStatus(rep)
	if !ok {
		return
	}

	if st.batteryLow && !r.batteryLow {
		r.logger.Warnw("Battery low", "level", st.battery)
	}

	r.leds = st.leds
	r.speaker = st.speaker
	r.ir = st.ir
	r.battery = st.battery
	r.batteryLow = st.batteryLow

	kind := device.EventStatus

	switch {
	case st.extConnected && !r.extConnected:
		if err := r.identifyExpansion(); err != nil {
			r.logger.Warnw("Expansion identify failed", "error", err)
		}

	case !st.extConnected && r.extConnected:
		kind = removedKind(r.expansion)
		r.expansion = device.ExpansionNone
		r.gyro = device.GyroRates{}
		if kind == device.EventMotionPlusRemoved {
			r.mpMode = device.MotionPlusOff
		}
	}
	r.extConnected = st.extConnected

	// a status report stops the data stream until the mode is set again
	if err := r.applyReportMode(); err != nil {
		r.logger.Warnw("Report mode restore failed", "error", err)
	}

	r.setEvent(kind)
}

func (r *Remote) handleReadReply(rep []byte) {
	rr, ok := decodeReadReply(rep)
	if !ok || rr.addr != uint16(regExtID&0xFFFF) {
		return
	}
	if rr.err != 0 {
		r.logger.Warnw("Expansion identifier read failed", "code", rr.err)
		return
	}

	prev := r.expansion
	r.expansion = expansionFromID(rr.data)
	if r.expansion == prev {
		return
	}

	r.setEvent(insertedKind(r.expansion))
}

func (r *Remote) handleData(rep []byte) {
	if raw, ok := accelBytes(rep); ok && r.accelOn {
		roll, pitch := absoluteAngles(raw)
		r.orient.ARoll = roll
		r.orient.APitch = pitch
		if r.haveAngle {
			r.orient.Roll = smooth(r.orient.Roll, roll)
			r.orient.Pitch = smooth(r.orient.Pitch, pitch)
		} else {
			r.orient.Roll = roll
			r.orient.Pitch = pitch
			r.haveAngle = true
		}
	}

	if ext, ok := extBytes(rep); ok && r.expansion.HasGyro() {
		if g, ok := decodeGyro(ext); ok {
			r.gyro = g
		}
	}
}

func insertedKind(e device.Expansion) device.EventKind {
	switch e {
	case device.ExpansionMotionPlus, device.ExpansionMotionPlusNunchuk, device.ExpansionMotionPlusClassic:
		return device.EventMotionPlusActivated
	case device.ExpansionNunchuk:
		return device.EventNunchukInserted
	case device.ExpansionClassic:
		return device.EventClassicInserted
	}
	return device.EventStatus
}

func removedKind(e device.Expansion) device.EventKind {
	switch e {
	case device.ExpansionMotionPlus, device.ExpansionMotionPlusNunchuk, device.ExpansionMotionPlusClassic:
		return device.EventMotionPlusRemoved
	case device.ExpansionNunchuk:
		return device.EventNunchukRemoved
	case device.ExpansionClassic:
		return device.EventClassicRemoved
	}
	return device.EventStatus
}
