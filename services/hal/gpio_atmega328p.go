//go:build arduino || arduino_nano

package hal

import (
	"machine"

	"powerdisplay/board"
	"powerdisplay/errcode"
)

type avrGPIO struct {
	p machine.Pin
	n int
}

func openGPIO(pin board.Pin) GPIOHandle {
	return &avrGPIO{p: pin.Machine(), n: pin.Int()}
}

func (g *avrGPIO) Number() int { return g.n }

func (g *avrGPIO) ConfigureInput(pull Pull) error {
	switch pull {
	case PullUp:
		g.p.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	case PullDown:
		// ATmega328P has no internal pull-downs.
		return errcode.Unsupported
	default:
		g.p.Configure(machine.PinConfig{Mode: machine.PinInput})
	}
	return nil
}

func (g *avrGPIO) ConfigureOutput(initial bool) error {
	g.p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	g.p.Set(initial)
	return nil
}

func (g *avrGPIO) Set(b bool) { g.p.Set(b) }
func (g *avrGPIO) Get() bool  { return g.p.Get() }
func (g *avrGPIO) Toggle()    { g.p.Set(!g.p.Get()) }
