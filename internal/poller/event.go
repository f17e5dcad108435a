// internal/poller/event.go
package poller

import "github.com/tamzrod/twiirl/internal/device"

// Event is a classified per-slot event.
// The set is closed: every variant routes to exactly one Handler method,
// so a new variant cannot be added without extending Handler.
type Event interface {
	dispatch(h Handler, slot int, d device.Device)
}

// Handler receives classified events.
type Handler interface {
	OnUpdate(slot int, d device.Device)
	OnStatus(slot int, d device.Device)
	OnDisconnect(slot int, d device.Device, unexpected bool)
	OnMotionPlusActivated(slot int, d device.Device)
	OnExpansionRemoved(slot int, d device.Device)
}

// ---- VARIANTS ----

type Update struct{}

type StatusReport struct{}

type Disconnect struct {
	Unexpected bool
}

type MotionPlusActivated struct{}

type ExpansionRemoved struct{}

func (Update) dispatch(h Handler, slot int, d device.Device)       { h.OnUpdate(slot, d) }
func (StatusReport) dispatch(h Handler, slot int, d device.Device) { h.OnStatus(slot, d) }
func (e Disconnect) dispatch(h Handler, slot int, d device.Device) {
	h.OnDisconnect(slot, d, e.Unexpected)
}
func (MotionPlusActivated) dispatch(h Handler, slot int, d device.Device) {
	h.OnMotionPlusActivated(slot, d)
}
func (ExpansionRemoved) dispatch(h Handler, slot int, d device.Device) {
	h.OnExpansionRemoved(slot, d)
}

// Classify maps a backend event kind to an Event.
// Kinds the console does not react to yield nil.
func Classify(k device.EventKind) Event {
	switch k {
	case device.EventGeneric:
		return Update{}
	case device.EventStatus:
		return StatusReport{}
	case device.EventDisconnect:
		return Disconnect{}
	case device.EventUnexpectedDisconnect:
		return Disconnect{Unexpected: true}
	case device.EventMotionPlusActivated:
		return MotionPlusActivated{}
	case device.EventMotionPlusRemoved:
		return ExpansionRemoved{}
	}
	return nil
}

// Dispatch classifies the slot's pending event and routes it.
// It reports whether anything was dispatched.
func Dispatch(h Handler, slot int, d device.Device) bool {
	ev := Classify(d.Event())
	if ev == nil {
		return false
	}
	ev.dispatch(h, slot, d)
	return true
}
