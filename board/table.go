package board

// Pins is the wiring of one board.
type Pins struct {
	LED           Pin `json:"led"`
	WRClk         Pin `json:"wr_clk"`
	Data          Pin `json:"data"`
	CS            Pin `json:"cs"`
	TXEA          Pin `json:"tx_ea"`
	RXEA          Pin `json:"rx_ea"`
	ResetButton   Pin `json:"reset_button"`
	DisplayButton Pin `json:"display_button"`
}

// ButtonTiming is the button feel, in milliseconds.
type ButtonTiming struct {
	ThresholdMs     uint16 `json:"threshold_ms"`
	DelayMs         uint16 `json:"delay_ms"`
	HeldMs          uint16 `json:"held_ms"`
	RepeatInitialMs uint16 `json:"repeat_initial_ms"`
	RepeatMs        uint16 `json:"repeat_ms"`
}

// Table is a value copy of the board configuration. Consumers that accept
// per-revision overrides work on a Table; the constants never change.
type Table struct {
	Display         DisplayType  `json:"display"`
	Mode            DeviceMode   `json:"mode"`
	Debug           bool         `json:"debug"`
	Pins            Pins         `json:"pins"`
	Buttons         ButtonTiming `json:"buttons"`
	DisplayUpdateMs uint16       `json:"display_update_ms"`
	MaxString       int          `json:"max_string"`
}

// Defaults returns the table compiled into this build.
func Defaults() Table {
	return Table{
		Display: Display,
		Mode:    Mode,
		Debug:   DebugLocal,
		Pins: Pins{
			LED:           LED,
			WRClk:         WRClk,
			Data:          Data,
			CS:            CS,
			TXEA:          TXEA,
			RXEA:          RXEA,
			ResetButton:   ResetButton,
			DisplayButton: DisplayButton,
		},
		Buttons: ButtonTiming{
			ThresholdMs:     ButtonThresholdMs,
			DelayMs:         ButtonDelayMs,
			HeldMs:          ButtonHeldMs,
			RepeatInitialMs: ButtonRepeatInitialMs,
			RepeatMs:        ButtonRepeatMs,
		},
		DisplayUpdateMs: DisplayUpdateMs,
		MaxString:       MaxString,
	}
}

// NamedPin pairs a pin with the header name of its role.
type NamedPin struct {
	Name string
	Pin  Pin
}

// List returns every pin role in wiring order.
func (p Pins) List() []NamedPin {
	return []NamedPin{
		{"LED", p.LED},
		{"WR_CLK", p.WRClk},
		{"DATA", p.Data},
		{"PIN_CS", p.CS},
		{"TX_EA", p.TXEA},
		{"RX_EA", p.RXEA},
		{"RESET_BUTTON_PIN", p.ResetButton},
		{"DISPLAY_BUTTON_PIN", p.DisplayButton},
	}
}

// ref returns a pointer to the pin with the given header name.
func (p *Pins) ref(name string) *Pin {
	switch name {
	case "LED":
		return &p.LED
	case "WR_CLK":
		return &p.WRClk
	case "DATA":
		return &p.Data
	case "PIN_CS":
		return &p.CS
	case "TX_EA":
		return &p.TXEA
	case "RX_EA":
		return &p.RXEA
	case "RESET_BUTTON_PIN":
		return &p.ResetButton
	case "DISPLAY_BUTTON_PIN":
		return &p.DisplayButton
	}
	return nil
}
