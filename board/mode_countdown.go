//go:build !mode_power

package board

// Mode is the device mode compiled in. Build with -tags mode_power for the
// power & energy display.
const Mode = ModeCountdown
