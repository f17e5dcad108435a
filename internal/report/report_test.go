// internal/report/report_test.go
package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tamzrod/twiirl/internal/device"
)

func TestOrientation_FiveFields(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Orientation(device.Orientation{Roll: 1, ARoll: 2, Pitch: 3, APitch: 4, Yaw: 5}, nil)

	want := "1.000000 2.000000 3.000000 4.000000 5.000000\n"
	if buf.String() != want {
		t.Fatalf("got=%q want=%q", buf.String(), want)
	}
}

func TestOrientation_WithGyro(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Orientation(
		device.Orientation{Roll: -1.5},
		&device.GyroRates{Pitch: 10, Roll: 20, Yaw: 30},
	)

	line := strings.TrimSuffix(buf.String(), "\n")
	fields := strings.Fields(line)
	if len(fields) != 8 {
		t.Fatalf("expected 8 fields, got %d (%q)", len(fields), line)
	}
	if fields[0] != "-1.500000" || fields[5] != "10.000000" || fields[7] != "30.000000" {
		t.Fatalf("unexpected fields: %v", fields)
	}
}

func TestStatusBlock(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Status(StatusBlock{
		ID:         2,
		Attachment: device.ExpansionNunchuk,
		Speaker:    false,
		IR:         true,
		LEDs:       [4]bool{false, true, false, false},
		Battery:    0.5,
	})

	out := buf.String()
	for _, want := range []string{
		"--- CONTROLLER STATUS [wiimote 2] ---\n",
		"attachment:      1\n",
		"speaker:         0\n",
		"ir:              1\n",
		"leds:            0 1 0 0\n",
		"battery:         50.000000 %\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestDisconnected(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Disconnected(3)

	if !strings.Contains(buf.String(), "--- DISCONNECTED [wiimote id 3] ---") {
		t.Fatalf("got=%q", buf.String())
	}
}

func TestConnectedCounts(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).Connected(1, 2)

	if buf.String() != "Connected to 1 wiimotes (of 2 found).\n" {
		t.Fatalf("got=%q", buf.String())
	}
}
