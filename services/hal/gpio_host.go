//go:build !(arduino || arduino_nano)

package hal

import (
	"sync"

	"powerdisplay/board"
)

// memGPIO stands in for hardware on host builds. Levels are shared per pin
// so separate handles observe each other.
type memGPIO struct{ n int }

var (
	memMu     sync.Mutex
	memLevels = map[int]bool{}
	memInputs = map[int]Pull{}
)

func openGPIO(pin board.Pin) GPIOHandle { return &memGPIO{n: pin.Int()} }

func (g *memGPIO) Number() int { return g.n }

func (g *memGPIO) ConfigureInput(pull Pull) error {
	memMu.Lock()
	defer memMu.Unlock()
	memInputs[g.n] = pull
	memLevels[g.n] = pull == PullUp
	return nil
}

func (g *memGPIO) ConfigureOutput(initial bool) error {
	memMu.Lock()
	defer memMu.Unlock()
	delete(memInputs, g.n)
	memLevels[g.n] = initial
	return nil
}

func (g *memGPIO) Set(b bool) {
	memMu.Lock()
	memLevels[g.n] = b
	memMu.Unlock()
}

func (g *memGPIO) Get() bool {
	memMu.Lock()
	defer memMu.Unlock()
	return memLevels[g.n]
}

func (g *memGPIO) Toggle() {
	memMu.Lock()
	memLevels[g.n] = !memLevels[g.n]
	memMu.Unlock()
}
