package types

// ------------------------
// HAL configuration
// ------------------------

// HALConfig is the device plan a consumer instantiates on boot.
type HALConfig struct {
	Devices []HALDevice `json:"devices"`
	Pollers []PollSpec  `json:"pollers,omitempty"`
}

type HALDevice struct {
	ID     string `json:"id"`     // logical device id, e.g. "reset_button"
	Type   string `json:"type"`   // e.g. "gpio_button"
	Params any    `json:"params"` // one of the *Params types below
}

// Device returns the device with the given id.
func (c HALConfig) Device(id string) (HALDevice, bool) {
	for _, d := range c.Devices {
		if d.ID == id {
			return d, true
		}
	}
	return HALDevice{}, false
}

// PollSpec is a declarative schedule attached to HALConfig.
type PollSpec struct {
	Domain     string `json:"domain"`      // e.g. "ui"
	Kind       Kind   `json:"kind"`        // e.g. "display"
	Name       string `json:"name"`        // e.g. "main"
	Verb       string `json:"verb"`        // e.g. "refresh"
	IntervalMs uint32 `json:"interval_ms"` // >0
}

// ------------------------
// Capability kinds
// ------------------------

type Kind string

const (
	KindLED     Kind = "led"
	KindButton  Kind = "button"
	KindDisplay Kind = "display"
)

// Device types understood by the consuming firmware.
const (
	TypeGPIOLED    = "gpio_led"
	TypeGPIOButton = "gpio_button"
	TypeSureMatrix = "sure_matrix"
	TypeEASerial   = "ea_serial"
)

// ------------------------
// Generic replies
// ------------------------

type ErrorReply struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}
