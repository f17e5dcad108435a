// internal/wiimote/protocol.go
package wiimote

// Ref: https://wiibrew.org/wiki/Wiimote

import (
	"math"

	"github.com/tamzrod/twiirl/internal/device"
)

// ---- HID IDENTITY ----

const (
	VendorNintendo uint16 = 0x057e

	ProductRemote     uint16 = 0x0306 // RVL-CNT-01
	ProductRemotePlus uint16 = 0x0330 // RVL-CNT-01-TR
)

// ---- OUTPUT REPORTS ----

const (
	outRumble        byte = 0x10
	outLEDs          byte = 0x11
	outReportMode    byte = 0x12
	outStatusRequest byte = 0x15
	outWriteMemory   byte = 0x16
	outReadMemory    byte = 0x17
)

// ---- INPUT REPORTS ----

const (
	inStatus   byte = 0x20
	inReadData byte = 0x21
	inAck      byte = 0x22

	inButtons         byte = 0x30
	inButtonsAccel    byte = 0x31
	inButtonsExt8     byte = 0x32
	inButtonsAccelExt byte = 0x35
)

// ---- STATUS FLAGS (byte 3 of 0x20) ----

const (
	statusBatteryLow   byte = 0x01
	statusExtConnected byte = 0x02
	statusSpeaker      byte = 0x04
	statusIR           byte = 0x08
	statusLEDMask      byte = 0xF0
)

// batteryFull is the raw battery byte for a fresh set of cells.
const batteryFull = 0xC8

// ---- REGISTERS ----

const (
	regExtInit1   uint32 = 0xA400F0
	regExtInit2   uint32 = 0xA400FB
	regExtID      uint32 = 0xA400FA
	regMPInit     uint32 = 0xA600F0
	regMPActivate uint32 = 0xA600FE
)

const (
	extInitValue   byte = 0x55
	mpStandalone   byte = 0x04
	mpPassNunchuk  byte = 0x05
	extIDLength         = 6
	memoryRegister byte = 0x04
)

// ---- ACCELEROMETER ----

const (
	accelZero  = 0x80
	accelOneG  = 0x9A
	smoothRate = 0.07
)

// ---- GYRO ----

const (
	gyroZero      = 8192
	gyroSlowScale = 20.0
	gyroFastScale = 4.0
)

// ------------------------------------------------------------
// ENCODERS
// ------------------------------------------------------------

func rumbleBit(on bool) byte {
	if on {
		return 0x01
	}
	return 0x00
}

func encodeRumble(on bool) []byte {
	return []byte{outRumble, rumbleBit(on)}
}

func encodeLEDs(leds device.LED, rumble bool) []byte {
	return []byte{outLEDs, byte(leds)&statusLEDMask | rumbleBit(rumble)}
}

func encodeStatusRequest(rumble bool) []byte {
	return []byte{outStatusRequest, rumbleBit(rumble)}
}

func encodeReportMode(mode byte, continuous, rumble bool) []byte {
	flags := rumbleBit(rumble)
	if continuous {
		flags |= 0x04
	}
	return []byte{outReportMode, flags, mode}
}

// encodeWriteRegister writes up to 16 bytes into the register space.
func encodeWriteRegister(addr uint32, data []byte, rumble bool) []byte {
	if len(data) > 16 {
		data = data[:16]
	}
	buf := make([]byte, 22)
	buf[0] = outWriteMemory
	buf[1] = memoryRegister | rumbleBit(rumble)
	buf[2] = byte(addr >> 16)
	buf[3] = byte(addr >> 8)
	buf[4] = byte(addr)
	buf[5] = byte(len(data))
	copy(buf[6:], data)
	return buf
}

func encodeReadRegister(addr uint32, size uint16, rumble bool) []byte {
	return []byte{
		outReadMemory,
		memoryRegister | rumbleBit(rumble),
		byte(addr >> 16),
		byte(addr >> 8),
		byte(addr),
		byte(size >> 8),
		byte(size),
	}
}

// reportModeFor picks the smallest data report carrying what is enabled.
func reportModeFor(accel, ext bool) byte {
	switch {
	case accel && ext:
		return inButtonsAccelExt
	case accel:
		return inButtonsAccel
	case ext:
		return inButtonsExt8
	}
	return inButtons
}

// ------------------------------------------------------------
// DECODERS
// ------------------------------------------------------------

// decodeButtons reads the core button bytes present in every input report.
func decodeButtons(rep []byte) (device.Button, bool) {
	if len(rep) < 3 {
		return 0, false
	}
	b := device.Button(uint16(rep[1])<<8|uint16(rep[2])) & device.ButtonAll
	return b, true
}

type statusReport struct {
	leds         device.LED
	batteryLow   bool
	extConnected bool
	speaker      bool
	ir           bool
	battery      float64
}

func decodeStatus(rep []byte) (statusReport, bool) {
	if len(rep) < 7 || rep[0] != inStatus {
		return statusReport{}, false
	}
	flags := rep[3]

	level := float64(rep[6]) / batteryFull
	if level > 1 {
		level = 1
	}

	return statusReport{
		leds:         device.LED(flags & statusLEDMask),
		batteryLow:   flags&statusBatteryLow != 0,
		extConnected: flags&statusExtConnected != 0,
		speaker:      flags&statusSpeaker != 0,
		ir:           flags&statusIR != 0,
		battery:      level,
	}, true
}

type readReply struct {
	addr uint16
	err  byte
	data []byte
}

func decodeReadReply(rep []byte) (readReply, bool) {
	if len(rep) < 6 || rep[0] != inReadData {
		return readReply{}, false
	}
	size := int(rep[3]>>4) + 1
	end := 6 + size
	if end > len(rep) {
		end = len(rep)
	}
	return readReply{
		addr: uint16(rep[4])<<8 | uint16(rep[5]),
		err:  rep[3] & 0x0F,
		data: rep[6:end],
	}, true
}

// expansionFromID maps the 6-byte identifier at 0xA400FA.
func expansionFromID(id []byte) device.Expansion {
	if len(id) < extIDLength {
		return device.ExpansionNone
	}
	switch uint16(id[4])<<8 | uint16(id[5]) {
	case 0x0000:
		return device.ExpansionNunchuk
	case 0x0101:
		return device.ExpansionClassic
	case 0x0103:
		return device.ExpansionGuitarHero3
	case 0x0402:
		return device.ExpansionBalanceBoard
	case 0x0405:
		return device.ExpansionMotionPlus
	case 0x0505:
		return device.ExpansionMotionPlusNunchuk
	case 0x0705:
		return device.ExpansionMotionPlusClassic
	}
	return device.ExpansionNone
}

// accelBytes returns the three accelerometer bytes of a data report.
func accelBytes(rep []byte) ([]byte, bool) {
	switch rep[0] {
	case inButtonsAccel, inButtonsAccelExt:
		if len(rep) >= 6 {
			return rep[3:6], true
		}
	}
	return nil, false
}

// extBytes returns the extension payload of a data report.
func extBytes(rep []byte) ([]byte, bool) {
	switch rep[0] {
	case inButtonsExt8:
		if len(rep) >= 11 {
			return rep[3:11], true
		}
	case inButtonsAccelExt:
		if len(rep) >= 22 {
			return rep[6:22], true
		}
	}
	return nil, false
}

// absoluteAngles returns roll and pitch in degrees from raw 8-bit axes.
func absoluteAngles(raw []byte) (roll, pitch float64) {
	x := float64(int(raw[0])-accelZero) / (accelOneG - accelZero)
	y := float64(int(raw[1])-accelZero) / (accelOneG - accelZero)
	z := float64(int(raw[2])-accelZero) / (accelOneG - accelZero)

	roll = math.Atan2(x, z) * 180 / math.Pi
	pitch = math.Atan2(y, z) * 180 / math.Pi
	return roll, pitch
}

// smooth moves prev toward next by smoothRate.
func smooth(prev, next float64) float64 {
	return prev + smoothRate*(next-prev)
}

// decodeGyro reads MotionPlus rates. ok is false for pass-through
// frames, which carry the attached controller instead of gyro data.
func decodeGyro(ext []byte) (device.GyroRates, bool) {
	if len(ext) < 6 || ext[5]&0x02 == 0 {
		return device.GyroRates{}, false
	}

	yaw := int(ext[0]) | int(ext[3]&0xFC)<<6
	roll := int(ext[1]) | int(ext[4]&0xFC)<<6
	pitch := int(ext[2]) | int(ext[5]&0xFC)<<6

	yawSlow := ext[3]&0x02 != 0
	pitchSlow := ext[3]&0x01 != 0
	rollSlow := ext[4]&0x02 != 0

	return device.GyroRates{
		Pitch: gyroRate(pitch, pitchSlow),
		Roll:  gyroRate(roll, rollSlow),
		Yaw:   gyroRate(yaw, yawSlow),
	}, true
}

func gyroRate(raw int, slow bool) float64 {
	scale := gyroFastScale
	if slow {
		scale = gyroSlowScale
	}
	return float64(raw-gyroZero) / scale
}
