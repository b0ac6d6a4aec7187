//go:build arduino || arduino_nano

package main

import (
	"machine"

	"tinygo.org/x/drivers"
)

const debugBaud = 115_200

func debugPort() drivers.UART {
	u := machine.DefaultUART
	u.Configure(machine.UARTConfig{BaudRate: debugBaud})
	return u
}
