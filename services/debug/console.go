// Package debug writes boot and configuration lines to the serial port when
// the board is built with debug output on.
package debug

import (
	"powerdisplay/board"
	"powerdisplay/x/strconvx"

	"tinygo.org/x/drivers"
)

// Console is a line writer over a UART. A disabled console, or one without a
// port, writes nothing.
type Console struct {
	port drivers.UART
	on   bool
	buf  []byte
}

func New(port drivers.UART, enabled bool) *Console {
	return &Console{port: port, on: enabled && port != nil}
}

func (c *Console) Enabled() bool { return c.on }

// Line writes parts separated by spaces and terminated with CRLF.
func (c *Console) Line(parts ...string) {
	if !c.on {
		return
	}
	c.buf = c.buf[:0]
	for i, p := range parts {
		if i > 0 {
			c.buf = append(c.buf, ' ')
		}
		c.buf = append(c.buf, p...)
	}
	c.buf = append(c.buf, '\r', '\n')
	_, _ = c.port.Write(c.buf)
}

// Value writes "name=v".
func (c *Console) Value(name string, v int) {
	if !c.on {
		return
	}
	c.Line(name + "=" + strconvx.Itoa(v))
}

// Err writes an error line for op.
func (c *Console) Err(op string, err error) {
	if !c.on || err == nil {
		return
	}
	c.Line("[err]", op, err.Error())
}

// Dump writes the table using the header names, one value per line.
func (c *Console) Dump(t board.Table) {
	if !c.on {
		return
	}
	c.Line("[cfg]", "display="+t.Display.String(), "mode="+t.Mode.String())
	c.Value("DISPLAYTYPE", int(t.Display))
	c.Value("DEVICETYPE", int(t.Mode))
	c.Value("DEBUG_LOCAL", boolToInt(t.Debug))
	for _, np := range t.Pins.List() {
		c.Value(np.Name, np.Pin.Int())
	}
	c.Value("DEBOUNCED_BUTTON_THRESHOLD", int(t.Buttons.ThresholdMs))
	c.Value("DEBOUNCED_BUTTON_DELAY", int(t.Buttons.DelayMs))
	c.Value("DEBOUNCED_BUTTON_HELD_MS", int(t.Buttons.HeldMs))
	c.Value("DEBOUNCED_BUTTON_RPT_INITIAL_MS", int(t.Buttons.RepeatInitialMs))
	c.Value("DEBOUNCED_BUTTON_RPT_MS", int(t.Buttons.RepeatMs))
	c.Value("DISPLAYUPDATEMS", int(t.DisplayUpdateMs))
	c.Value("MAX_STRING", t.MaxString)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
