//go:build !debug_local

package board

// DebugLocal enables debug output on the hardware serial port. Build with
// -tags debug_local to turn it on.
const DebugLocal = false
