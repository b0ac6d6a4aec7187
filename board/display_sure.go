//go:build !display_ea

package board

// Display is the display driver compiled in. Build with -tags display_ea for
// the EA serial display.
const Display = DisplaySURE
