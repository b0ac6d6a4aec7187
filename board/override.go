package board

import (
	"strings"

	"powerdisplay/errcode"
	"powerdisplay/x/strconvx"

	"github.com/google/shlex"
)

const opOverride = "board.override"

// Override applies KEY=VALUE words to a copy of t and validates the result.
// Keys are the header names (LED, WR_CLK, DEBOUNCED_BUTTON_HELD_MS, ...).
// Words follow shell quoting and '#' starts a comment, so a revision file
// can carry one override per line with notes.
//
//	LED=13               # blink LED moved on rev B
//	DISPLAYTYPE=1
func Override(t Table, text string) (Table, error) {
	words, err := shlex.Split(text)
	if err != nil {
		return t, &errcode.E{C: errcode.InvalidPayload, Op: opOverride, Msg: err.Error(), Err: err}
	}
	for _, w := range words {
		key, val, ok := strings.Cut(w, "=")
		if !ok || key == "" {
			return t, errcode.New(errcode.InvalidPayload, opOverride, "expected KEY=VALUE, got "+w)
		}
		n, err := strconvx.Atoi32(val)
		if err != nil {
			return t, &errcode.E{C: errcode.InvalidPayload, Op: opOverride, Msg: key + "=" + val, Err: err}
		}
		if err := set(&t, key, val, n); err != nil {
			return t, err
		}
	}
	if err := Validate(t); err != nil {
		return t, err
	}
	return t, nil
}

// maxString is the largest MAX_STRING an AVR int holds.
const maxString = 1<<15 - 1

func set(t *Table, key, val string, n int32) error {
	if p := t.Pins.ref(key); p != nil {
		if n < 0 || n > 255 {
			return outOfRange(key, val)
		}
		*p = Pin(n)
		return nil
	}
	switch key {
	case "DISPLAYTYPE":
		if n != int32(DisplaySURE) && n != int32(DisplayEA) {
			return outOfRange(key, val)
		}
		t.Display = DisplayType(n)
	case "DEVICETYPE":
		if n != int32(ModePowerEnergy) && n != int32(ModeCountdown) {
			return outOfRange(key, val)
		}
		t.Mode = DeviceMode(n)
	case "DEBUG_LOCAL":
		if n != 0 && n != 1 {
			return outOfRange(key, val)
		}
		t.Debug = n == 1
	case "MAX_STRING":
		if n <= 0 || n > maxString {
			return outOfRange(key, val)
		}
		t.MaxString = int(n)
	default:
		field := msField(t, key)
		if field == nil {
			return errcode.New(errcode.InvalidParams, opOverride, "unknown key "+key)
		}
		if n < 0 || n > 0xFFFF {
			return outOfRange(key, val)
		}
		*field = uint16(n)
	}
	return nil
}

func msField(t *Table, key string) *uint16 {
	switch key {
	case "DEBOUNCED_BUTTON_THRESHOLD":
		return &t.Buttons.ThresholdMs
	case "DEBOUNCED_BUTTON_DELAY":
		return &t.Buttons.DelayMs
	case "DEBOUNCED_BUTTON_HELD_MS":
		return &t.Buttons.HeldMs
	case "DEBOUNCED_BUTTON_RPT_INITIAL_MS":
		return &t.Buttons.RepeatInitialMs
	case "DEBOUNCED_BUTTON_RPT_MS":
		return &t.Buttons.RepeatMs
	case "DISPLAYUPDATEMS":
		return &t.DisplayUpdateMs
	}
	return nil
}

func outOfRange(key, val string) error {
	return errcode.New(errcode.InvalidPayload, opOverride, key+" out of range: "+val)
}
