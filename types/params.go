package types

// ---- LED ----

type LEDParams struct {
	Pin     int  `json:"pin"`
	Initial bool `json:"initial,omitempty"`
}

// ---- Buttons ----

type Pull string

const (
	PullNone Pull = "none"
	PullUp   Pull = "up"
	PullDown Pull = "down"
)

// ButtonParams carries the pin and the button feel. The state machine that
// uses them lives in the consumer.
type ButtonParams struct {
	Pin             int    `json:"pin"`
	Pull            Pull   `json:"pull"`
	Invert          bool   `json:"invert"` // pressed == low
	ThresholdMs     uint16 `json:"threshold_ms"`
	DelayMs         uint16 `json:"delay_ms"`
	HeldMs          uint16 `json:"held_ms"`
	RepeatInitialMs uint16 `json:"repeat_initial_ms"`
	RepeatMs        uint16 `json:"repeat_ms"`
}

// ---- Displays ----

// Profile names what a display shows.
type Profile string

const (
	ProfilePowerEnergy Profile = "power_energy"
	ProfileCountdown   Profile = "countdown"
)

// SureMatrixParams wires a Sure Electronics LED matrix.
type SureMatrixParams struct {
	WRClk   int     `json:"wr_clk"`
	Data    int     `json:"data"`
	CS      int     `json:"cs"`
	Profile Profile `json:"profile"`
}

// EASerialParams wires an EA serial display.
type EASerialParams struct {
	TX      int     `json:"tx"`
	RX      int     `json:"rx"`
	RXMax   int     `json:"rx_max"` // longest input string, bytes
	Profile Profile `json:"profile"`
}
