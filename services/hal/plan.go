// Package hal turns a board table into the device plan the display firmware
// instantiates, and owns the board's pins while it runs.
package hal

import (
	"powerdisplay/board"
	"powerdisplay/types"
)

// Device ids used in the plan.
const (
	DevBlinkLED      = "blink_led"
	DevResetButton   = "reset_button"
	DevDisplayButton = "display_button"
	DevSureMatrix    = "sure_matrix"
	DevEADisplay     = "ea_display"
)

// Setup is the plan for the table compiled into this build.
func Setup(reg *PinRegistry) (types.HALConfig, error) {
	return Plan(board.Defaults(), reg)
}

// Plan validates t and lists the devices the consumer should build. Each
// device claims its pins in reg; a pin already held by someone else (for
// example the debug console) fails the plan with pin_in_use. A failed plan
// releases every pin it claimed.
func Plan(t board.Table, reg *PinRegistry) (cfg types.HALConfig, err error) {
	if err := board.Validate(t); err != nil {
		return types.HALConfig{}, err
	}

	type claim struct {
		id  string
		pin board.Pin
	}
	var claimed []claim
	defer func() {
		if err != nil {
			for _, c := range claimed {
				reg.ReleasePin(c.id, c.pin)
			}
		}
	}()

	add := func(id, typ string, params any, pins ...board.Pin) error {
		for _, p := range pins {
			if owner, ok := reg.Owner(p); ok && owner == id {
				continue
			}
			if err := reg.ClaimPin(id, p); err != nil {
				return err
			}
			claimed = append(claimed, claim{id, p})
		}
		cfg.Devices = append(cfg.Devices, types.HALDevice{ID: id, Type: typ, Params: params})
		return nil
	}

	if err := add(DevBlinkLED, types.TypeGPIOLED, types.LEDParams{Pin: t.Pins.LED.Int()}, t.Pins.LED); err != nil {
		return types.HALConfig{}, err
	}
	if err := add(DevResetButton, types.TypeGPIOButton, buttonParams(t.Pins.ResetButton, t.Buttons), t.Pins.ResetButton); err != nil {
		return types.HALConfig{}, err
	}
	if err := add(DevDisplayButton, types.TypeGPIOButton, buttonParams(t.Pins.DisplayButton, t.Buttons), t.Pins.DisplayButton); err != nil {
		return types.HALConfig{}, err
	}

	profile := profileFor(t.Mode)
	var displayID string
	switch t.Display {
	case board.DisplayEA:
		displayID = DevEADisplay
		err = add(displayID, types.TypeEASerial, types.EASerialParams{
			TX:      t.Pins.TXEA.Int(),
			RX:      t.Pins.RXEA.Int(),
			RXMax:   t.MaxString,
			Profile: profile,
		}, t.Pins.TXEA, t.Pins.RXEA)
		if err != nil {
			return types.HALConfig{}, err
		}
	default:
		displayID = DevSureMatrix
		err = add(displayID, types.TypeSureMatrix, types.SureMatrixParams{
			WRClk:   t.Pins.WRClk.Int(),
			Data:    t.Pins.Data.Int(),
			CS:      t.Pins.CS.Int(),
			Profile: profile,
		}, t.Pins.WRClk, t.Pins.Data, t.Pins.CS)
		if err != nil {
			return types.HALConfig{}, err
		}
	}

	cfg.Pollers = []types.PollSpec{
		{Domain: "ui", Kind: types.KindDisplay, Name: displayID, Verb: "refresh", IntervalMs: uint32(t.DisplayUpdateMs)},
		{Domain: "ui", Kind: types.KindButton, Name: DevResetButton, Verb: "read", IntervalMs: uint32(t.Buttons.DelayMs)},
		{Domain: "ui", Kind: types.KindButton, Name: DevDisplayButton, Verb: "read", IntervalMs: uint32(t.Buttons.DelayMs)},
	}
	return cfg, nil
}

// Buttons pull to VCC and short to ground when pressed.
func buttonParams(pin board.Pin, b board.ButtonTiming) types.ButtonParams {
	return types.ButtonParams{
		Pin:             pin.Int(),
		Pull:            types.PullUp,
		Invert:          true,
		ThresholdMs:     b.ThresholdMs,
		DelayMs:         b.DelayMs,
		HeldMs:          b.HeldMs,
		RepeatInitialMs: b.RepeatInitialMs,
		RepeatMs:        b.RepeatMs,
	}
}

func profileFor(m board.DeviceMode) types.Profile {
	if m == board.ModePowerEnergy {
		return types.ProfilePowerEnergy
	}
	return types.ProfileCountdown
}
