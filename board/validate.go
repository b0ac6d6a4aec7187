package board

import (
	"powerdisplay/errcode"
	"powerdisplay/x/mathx"
	"powerdisplay/x/strconvx"
)

const opValidate = "board.validate"

// Validate checks a table for wiring and timing mistakes that the firmware
// would otherwise only show as odd hardware behaviour. It returns nil or the
// first problem found as an *errcode.E.
//
// Every role must have its own pin, even pins the selected display does not
// drive, so a board can be rebuilt for the other display without rewiring.
func Validate(t Table) error {
	if !t.Display.Valid() {
		return errcode.New(errcode.InvalidParams, opValidate, "DISPLAYTYPE "+strconvx.Itoa(int(t.Display)))
	}
	if !t.Mode.Valid() {
		return errcode.New(errcode.InvalidParams, opValidate, "DEVICETYPE "+strconvx.Itoa(int(t.Mode)))
	}
	if err := validatePins(t.Pins, t.Debug); err != nil {
		return err
	}
	if err := validateButtons(t.Buttons); err != nil {
		return err
	}
	if t.DisplayUpdateMs == 0 {
		return errcode.New(errcode.InvalidTiming, opValidate, "DISPLAYUPDATEMS is zero")
	}
	if t.MaxString <= 0 {
		return errcode.New(errcode.InvalidParams, opValidate, "MAX_STRING "+strconvx.Itoa(t.MaxString))
	}
	return nil
}

func validatePins(p Pins, debug bool) error {
	var owner [int(MaxPin) + 1]string
	for _, np := range p.List() {
		if !mathx.Between(np.Pin, MinPin, MaxPin) {
			return errcode.New(errcode.UnknownPin, opValidate, np.Name+" pin "+strconvx.Itoa(np.Pin.Int()))
		}
		if debug && (np.Pin == SerialRX || np.Pin == SerialTX) {
			return errcode.New(errcode.PinReserved, opValidate, np.Name+" pin "+strconvx.Itoa(np.Pin.Int())+" is the debug serial port")
		}
		if prev := owner[np.Pin]; prev != "" {
			return errcode.New(errcode.PinInUse, opValidate, "pin "+strconvx.Itoa(np.Pin.Int())+" used by "+prev+" and "+np.Name)
		}
		owner[np.Pin] = np.Name
	}
	return nil
}

func validateButtons(b ButtonTiming) error {
	for _, f := range []struct {
		name string
		v    uint16
	}{
		{"DEBOUNCED_BUTTON_THRESHOLD", b.ThresholdMs},
		{"DEBOUNCED_BUTTON_DELAY", b.DelayMs},
		{"DEBOUNCED_BUTTON_HELD_MS", b.HeldMs},
		{"DEBOUNCED_BUTTON_RPT_INITIAL_MS", b.RepeatInitialMs},
		{"DEBOUNCED_BUTTON_RPT_MS", b.RepeatMs},
	} {
		if f.v == 0 {
			return errcode.New(errcode.InvalidTiming, opValidate, f.name+" is zero")
		}
	}
	// A repeat that starts before the press counts as held would fire on
	// every long press.
	if !mathx.AtLeast(b.RepeatInitialMs, b.HeldMs) {
		return errcode.New(errcode.InvalidTiming, opValidate,
			"DEBOUNCED_BUTTON_RPT_INITIAL_MS "+strconvx.Itoa(int(b.RepeatInitialMs))+
				" < DEBOUNCED_BUTTON_HELD_MS "+strconvx.Itoa(int(b.HeldMs)))
	}
	return nil
}
