package hal

import (
	"sync"

	"powerdisplay/board"
	"powerdisplay/errcode"
	"powerdisplay/x/mathx"
	"powerdisplay/x/strconvx"
)

// ---- GPIO handles ----

type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

type GPIOHandle interface {
	Number() int
	ConfigureInput(pull Pull) error
	ConfigureOutput(initial bool) error
	Set(bool)
	Get() bool
	Toggle()
}

// ---- Pin ownership ----

// PinRegistry records which device owns each board pin.
type PinRegistry struct {
	mu     sync.Mutex
	owners map[board.Pin]string
}

func NewPinRegistry() *PinRegistry {
	return &PinRegistry{owners: make(map[board.Pin]string)}
}

// ClaimPin gives pin to devID. Claiming a pin the device already owns is a
// no-op.
func (r *PinRegistry) ClaimPin(devID string, pin board.Pin) error {
	if !mathx.Between(pin, board.MinPin, board.MaxPin) {
		return errcode.New(errcode.UnknownPin, "hal.claim", devID+" pin "+strconvx.Itoa(pin.Int()))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if owner, ok := r.owners[pin]; ok && owner != devID {
		return errcode.New(errcode.PinInUse, "hal.claim", "pin "+strconvx.Itoa(pin.Int())+" owned by "+owner+", wanted by "+devID)
	}
	r.owners[pin] = devID
	return nil
}

// ReleasePin frees pin if devID owns it.
func (r *PinRegistry) ReleasePin(devID string, pin board.Pin) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.owners[pin] == devID {
		delete(r.owners, pin)
	}
}

// ReleaseDevice frees every pin devID owns.
func (r *PinRegistry) ReleaseDevice(devID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for pin, owner := range r.owners {
		if owner == devID {
			delete(r.owners, pin)
		}
	}
}

func (r *PinRegistry) Owner(pin board.Pin) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	owner, ok := r.owners[pin]
	return owner, ok
}

// GPIO returns a handle for a pin devID has claimed.
func (r *PinRegistry) GPIO(devID string, pin board.Pin) (GPIOHandle, error) {
	owner, ok := r.Owner(pin)
	if !ok || owner != devID {
		return nil, errcode.New(errcode.PinInUse, "hal.gpio", devID+" does not own pin "+strconvx.Itoa(pin.Int()))
	}
	return openGPIO(pin), nil
}
