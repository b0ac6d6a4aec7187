//go:build display_ea

package board

const Display = DisplayEA
