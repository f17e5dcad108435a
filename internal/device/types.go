// internal/device/types.go
package device

import "fmt"

// ---- BUTTONS ----

// Button is the device-reported bit for one button.
type Button uint16

const (
	ButtonTwo   Button = 0x0001
	ButtonOne   Button = 0x0002
	ButtonB     Button = 0x0004
	ButtonA     Button = 0x0008
	ButtonMinus Button = 0x0010
	ButtonHome  Button = 0x0080
	ButtonLeft  Button = 0x0100
	ButtonRight Button = 0x0200
	ButtonDown  Button = 0x0400
	ButtonUp    Button = 0x0800
	ButtonPlus  Button = 0x1000

	// ButtonAll masks out the accelerometer bits sharing the button bytes.
	ButtonAll Button = 0x1F9F
)

// ---- LEDS ----

// LED is a bitmask of lit player indicators.
type LED uint8

const (
	LEDNone LED = 0x00
	LED1    LED = 0x10
	LED2    LED = 0x20
	LED3    LED = 0x40
	LED4    LED = 0x80
)

// SlotLED returns the indicator used to identify slot i (0-based).
func SlotLED(i int) LED {
	switch i {
	case 0:
		return LED1
	case 1:
		return LED2
	case 2:
		return LED3
	case 3:
		return LED4
	}
	return LEDNone
}

// ---- MOTION PLUS ----

// MotionPlusMode selects how the gyro attachment is run.
type MotionPlusMode uint8

const (
	MotionPlusOff         MotionPlusMode = 0
	MotionPlusStandalone  MotionPlusMode = 1
	MotionPlusPassThrough MotionPlusMode = 2
)

// ---- EXPANSIONS ----

// Expansion is the attachment type code.
type Expansion int

const (
	ExpansionNone              Expansion = 0
	ExpansionNunchuk           Expansion = 1
	ExpansionClassic           Expansion = 2
	ExpansionGuitarHero3       Expansion = 3
	ExpansionBalanceBoard      Expansion = 4
	ExpansionMotionPlus        Expansion = 5
	ExpansionMotionPlusNunchuk Expansion = 6
	ExpansionMotionPlusClassic Expansion = 7
)

// HasGyro reports whether the attachment delivers angular rates.
func (e Expansion) HasGyro() bool {
	switch e {
	case ExpansionMotionPlus, ExpansionMotionPlusNunchuk, ExpansionMotionPlusClassic:
		return true
	}
	return false
}

// ---- EVENT KINDS ----

// EventKind is what the backend flagged for a slot during the last poll.
type EventKind int

const (
	EventNone EventKind = iota
	EventGeneric
	EventStatus
	EventConnect
	EventDisconnect
	EventUnexpectedDisconnect
	EventReadData
	EventNunchukInserted
	EventNunchukRemoved
	EventClassicInserted
	EventClassicRemoved
	EventMotionPlusActivated
	EventMotionPlusRemoved
)

var eventKindNames = map[EventKind]string{
	EventNone:                 "none",
	EventGeneric:              "generic",
	EventStatus:               "status",
	EventConnect:              "connect",
	EventDisconnect:           "disconnect",
	EventUnexpectedDisconnect: "unexpected_disconnect",
	EventReadData:             "read_data",
	EventNunchukInserted:      "nunchuk_inserted",
	EventNunchukRemoved:       "nunchuk_removed",
	EventClassicInserted:      "classic_inserted",
	EventClassicRemoved:       "classic_removed",
	EventMotionPlusActivated:  "motion_plus_activated",
	EventMotionPlusRemoved:    "motion_plus_removed",
}

func (k EventKind) String() string {
	if s, ok := eventKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("event(%d)", int(k))
}
