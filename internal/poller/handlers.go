// internal/poller/handlers.go
package poller

import (
	"github.com/pkg/errors"

	"github.com/tamzrod/twiirl/internal/device"
	"github.com/tamzrod/twiirl/internal/report"
)

// handleEvent reacts to a generic update on one slot.
// Only just-pressed edges are reported; held buttons print nothing.
func handleEvent(out *report.Printer, t *Toggle, slot int, d device.Device) error {
	for _, e := range Catalog {
		if d.JustPressed(e.Code) {
			out.Label(e.Label)
		}
	}

	var err error
	if d.JustPressed(Activation.Code) {
		out.Label(Activation.Label)
		err = applyMotion(d, t.Flip(slot))
	}

	// device state decides, not the flag
	if d.UsingAccelerometer() {
		var gyro *device.GyroRates
		if d.Expansion().HasGyro() {
			g := d.GyroRates()
			gyro = &g
		}
		out.Orientation(d.Orientation(), gyro)
	}

	return err
}

// applyMotion drives the device to match the toggle value.
func applyMotion(d device.Device, on bool) error {
	if on {
		if err := d.SetMotionReporting(true); err != nil {
			return errors.Wrap(err, "enable motion reporting")
		}

		mode := device.MotionPlusStandalone
		if d.UsingExpansion() {
			mode = device.MotionPlusPassThrough
		}
		if err := d.SetMotionPlus(mode); err != nil {
			return errors.Wrapf(err, "enable motion plus mode %d", mode)
		}
		return nil
	}

	// disable both even if the first call fails
	errMotion := d.SetMotionReporting(false)
	errPlus := d.SetMotionPlus(device.MotionPlusOff)

	switch {
	case errMotion != nil:
		return errors.Wrap(errMotion, "disable motion reporting")
	case errPlus != nil:
		return errors.Wrap(errPlus, "disable motion plus")
	}
	return nil
}

// handleStatus prints the status block. No state mutation.
func handleStatus(out *report.Printer, d device.Device) {
	out.Status(report.StatusBlock{
		ID:         d.ID(),
		Attachment: d.Expansion(),
		Speaker:    d.UsingSpeaker(),
		IR:         d.UsingIR(),
		LEDs:       [4]bool{d.LEDSet(1), d.LEDSet(2), d.LEDSet(3), d.LEDSet(4)},
		Battery:    d.Battery(),
	})
}

// handleDisconnect prints the notice. Removal from polling happens
// because the device stops reporting itself connected.
func handleDisconnect(out *report.Printer, d device.Device) {
	out.Disconnected(d.ID())
}
