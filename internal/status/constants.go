// internal/status/constants.go
package status

// Slot state block layout constants.
// These values define the mirror protocol and MUST NOT be configurable.

// ---- BLOCK GEOMETRY ----

// RegistersPerSlot is the fixed number of registers per device slot.
const RegistersPerSlot = 20

// ---- REGISTER INDICES ----

// RegConnected is 1 while the slot holds a connected device.
const RegConnected = 0

// RegButtons holds the held-button bitmask.
const RegButtons = 1

// RegBattery holds the battery level in percent (0..100).
const RegBattery = 2

// RegExpansion holds the attachment type code.
const RegExpansion = 3

// RegMotion is 1 while motion reporting is active.
const RegMotion = 4

// Orientation in hundredths of a degree, int16 two's complement.
const (
	RegRoll  = 5
	RegPitch = 6
	RegYaw   = 7
)

// Gyro rates in tenths of a degree per second, int16 two's complement.
const (
	RegGyroPitch = 8
	RegGyroRoll  = 9
	RegGyroYaw   = 10
)

// ---- RESERVED RANGE ----

// Registers 11–19 are reserved for future use.
const RegReservedStart = 11
const RegReservedEnd = 19
