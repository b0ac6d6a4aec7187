package main

import (
	"context"
	"time"

	"powerdisplay/board"
	"powerdisplay/bus"
	"powerdisplay/services/config"
	"powerdisplay/services/debug"
	"powerdisplay/services/hal"
	"powerdisplay/services/heartbeat"
)

func main() {
	// Give the serial monitor time to attach before we print.
	time.Sleep(2 * time.Second)
	println("boot")

	ctx := context.Background()
	reg := hal.NewPinRegistry()

	con := debug.New(debugPort(), board.DebugLocal)
	if con.Enabled() {
		if err := claimDebugPins(reg); err != nil {
			println("[main] debug pins:", err.Error())
			con.Err("debug", err)
		}
		con.Line("[boot]", "debug on")
	}

	b := bus.NewBus(4)
	cfg := config.NewConfigService(board.Defaults(), reg)
	if err := cfg.Start(ctx, b.NewConnection("config")); err != nil {
		println("[main] config:", err.Error())
		con.Err("config", err)
		halt()
	}
	table, _, _ := cfg.Snapshot()
	con.Dump(table)

	led, err := reg.GPIO(hal.DevBlinkLED, table.Pins.LED)
	if err != nil {
		println("[main] led:", err.Error())
		con.Err("led", err)
		halt()
	}
	hb := &heartbeat.Service{LED: led}
	if err := hb.Start(ctx, b.NewConnection("heartbeat")); err != nil {
		println("[main] heartbeat:", err.Error())
		con.Err("heartbeat", err)
	}

	select {}
}

// claimDebugPins reserves the hardware serial lines for the debug console.
func claimDebugPins(reg *hal.PinRegistry) error {
	for _, p := range []board.Pin{board.SerialRX, board.SerialTX} {
		if err := reg.ClaimPin("debug", p); err != nil {
			return err
		}
	}
	return nil
}

// halt parks the firmware after a fatal configuration error.
func halt() {
	for {
		time.Sleep(time.Hour)
	}
}
