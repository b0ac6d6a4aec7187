//go:build arduino || arduino_nano

package board

import "machine"

// Machine returns the ATmega328P port pin behind an Arduino pin number.
// Numbers outside MinPin..MaxPin map to machine.NoPin.
func (p Pin) Machine() machine.Pin {
	switch {
	case p <= 7:
		return machine.PD0 + machine.Pin(p)
	case p <= 13:
		return machine.PB0 + machine.Pin(p-8)
	case p <= MaxPin:
		return machine.PC0 + machine.Pin(p-14)
	}
	return machine.NoPin
}
