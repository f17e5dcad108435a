// internal/report/report.go
package report

import (
	"fmt"
	"io"

	"github.com/tamzrod/twiirl/internal/device"
)

// Printer writes the human-readable console report.
// Lines are informational only; nothing parses them for control.
type Printer struct {
	w io.Writer
}

// New returns a Printer writing to w.
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// ---- STARTUP / SHUTDOWN ----

// Banner prints the startup greeting.
func (p *Printer) Banner() {
	fmt.Fprint(p.w, "You are running Twiirl v0\n"+
		"Please connect the Wiimote to Twiirl\n")
}

// NoneFound prints the pairing hint after an empty discovery.
func (p *Printer) NoneFound() {
	fmt.Fprint(p.w, "No wiimotes found.\n"+
		"Make sure to press the pairing button during Twiirl's startup.\n")
}

// Connected prints how many of the found remotes connected.
func (p *Printer) Connected(connected, found int) {
	fmt.Fprintf(p.w, "Connected to %d wiimotes (of %d found).\n", connected, found)
}

// NoneConnected prints the connect failure notice.
func (p *Printer) NoneConnected() {
	fmt.Fprint(p.w, "Failed to connect to any wiimote.\n")
}

// Controls prints the usage hint.
func (p *Printer) Controls() {
	fmt.Fprint(p.w, "\nControls:\n")
	fmt.Fprint(p.w, "\tPress the home button to start and stop motion reporting\n")
	fmt.Fprint(p.w, "\n\n")
}

// Shutdown prints the stop notice.
func (p *Printer) Shutdown() {
	fmt.Fprint(p.w, "Stopping Twiirl / Wiiuse...\n")
}

// ---- EVENTS ----

// Label prints one button label on its own line.
func (p *Printer) Label(label string) {
	fmt.Fprintf(p.w, "%s\n", label)
}

// Orientation prints roll, a_roll, pitch, a_pitch, yaw and, when
// gyro is non-nil, the gyro pitch, roll and yaw rates on the same line.
func (p *Printer) Orientation(o device.Orientation, gyro *device.GyroRates) {
	fmt.Fprintf(p.w, "%f %f %f %f %f", o.Roll, o.ARoll, o.Pitch, o.APitch, o.Yaw)
	if gyro != nil {
		fmt.Fprintf(p.w, " %f %f %f", gyro.Pitch, gyro.Roll, gyro.Yaw)
	}
	fmt.Fprint(p.w, "\n")
}

// StatusBlock is the field set printed for a controller status event.
type StatusBlock struct {
	ID         int
	Attachment device.Expansion
	Speaker    bool
	IR         bool
	LEDs       [4]bool
	Battery    float64 // 0.0 .. 1.0
}

// Status prints the multi-line status block.
func (p *Printer) Status(s StatusBlock) {
	fmt.Fprintf(p.w, "\n\n--- CONTROLLER STATUS [wiimote %d] ---\n", s.ID)
	fmt.Fprintf(p.w, "attachment:      %d\n", int(s.Attachment))
	fmt.Fprintf(p.w, "speaker:         %d\n", b2i(s.Speaker))
	fmt.Fprintf(p.w, "ir:              %d\n", b2i(s.IR))
	fmt.Fprintf(p.w, "leds:            %d %d %d %d\n",
		b2i(s.LEDs[0]), b2i(s.LEDs[1]), b2i(s.LEDs[2]), b2i(s.LEDs[3]))
	fmt.Fprintf(p.w, "battery:         %f %%\n", s.Battery*100)
}

// Disconnected prints the disconnect notice for remote id.
func (p *Printer) Disconnected(id int) {
	fmt.Fprintf(p.w, "\n\n--- DISCONNECTED [wiimote id %d] ---\n", id)
}

// ExpansionRemoved prints the removal notice.
func (p *Printer) ExpansionRemoved() {
	fmt.Fprint(p.w, "An expansion was removed.\n")
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
