//go:build !(arduino || arduino_nano)

package main

import (
	"os"

	"tinygo.org/x/drivers"
)

// stdoutUART lets host builds run main with debug output on stdout.
type stdoutUART struct{}

func (stdoutUART) Read(p []byte) (int, error)  { return 0, nil }
func (stdoutUART) Write(p []byte) (int, error) { return os.Stdout.Write(p) }
func (stdoutUART) Buffered() int               { return 0 }

func debugPort() drivers.UART { return stdoutUART{} }
