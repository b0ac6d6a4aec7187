// Package board is the compile-time configuration of the power display PCB:
// display and mode selectors, the debug flag, pin wiring, button feel and the
// serial input bound.
//
// Selectors are chosen with build tags (see display_*.go, mode_*.go and
// debug_*.go). Everything else is a fixed constant.
package board

import "time"

// Pin is an Arduino digital pin number (D0..D19, A0..A5 are 14..19).
type Pin uint8

// Pin range of the Uno/Nano class target.
const (
	MinPin Pin = 0
	MaxPin Pin = 19
)

// Hardware serial lines, used for debug output.
const (
	SerialRX Pin = 0
	SerialTX Pin = 1
)

func (p Pin) Int() int { return int(p) }

// DisplayType selects the display driver the firmware talks to.
type DisplayType uint8

const (
	DisplaySURE DisplayType = iota // Sure Electronics LED matrix on WR/DATA/CS
	DisplayEA                      // EA serial display on TX/RX
)

func (d DisplayType) String() string {
	switch d {
	case DisplaySURE:
		return "sure"
	case DisplayEA:
		return "ea"
	default:
		return "unknown"
	}
}

func (d DisplayType) Valid() bool { return d == DisplaySURE || d == DisplayEA }

func (d DisplayType) MarshalJSON() ([]byte, error) { return []byte(`"` + d.String() + `"`), nil }

// DeviceMode selects what the device shows.
type DeviceMode uint8

const (
	ModePowerEnergy DeviceMode = iota // power & energy readings
	ModeCountdown                     // times, for timers and count downs
)

func (m DeviceMode) String() string {
	switch m {
	case ModePowerEnergy:
		return "power_energy"
	case ModeCountdown:
		return "countdown"
	default:
		return "unknown"
	}
}

func (m DeviceMode) Valid() bool { return m == ModePowerEnergy || m == ModeCountdown }

func (m DeviceMode) MarshalJSON() ([]byte, error) { return []byte(`"` + m.String() + `"`), nil }

// Pin wiring.
const (
	LED Pin = 9 // blink LED on the PCB

	WRClk Pin = 7 // SURE matrix write clock
	Data  Pin = 8 // SURE matrix data
	CS    Pin = 5 // SURE matrix chip select

	TXEA Pin = 11 // EA display transmit
	RXEA Pin = 12 // EA display receive

	ResetButton   Pin = 3
	DisplayButton Pin = 2
)

// Button feel, in milliseconds.
const (
	ButtonThresholdMs     = 5
	ButtonDelayMs         = 5
	ButtonHeldMs          = 300
	ButtonRepeatInitialMs = 500
	ButtonRepeatMs        = 300
)

// Time between each display refresh and button check.
const DisplayUpdateMs = 500

// Longest serial input string accepted, in bytes.
const MaxString = 25

// Duration forms of the millisecond constants.
const (
	ButtonThreshold     = ButtonThresholdMs * time.Millisecond
	ButtonDelay         = ButtonDelayMs * time.Millisecond
	ButtonHeld          = ButtonHeldMs * time.Millisecond
	ButtonRepeatInitial = ButtonRepeatInitialMs * time.Millisecond
	ButtonRepeat        = ButtonRepeatMs * time.Millisecond
	DisplayUpdate       = DisplayUpdateMs * time.Millisecond
)
