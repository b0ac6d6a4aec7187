//go:build debug_local

package board

const DebugLocal = true
