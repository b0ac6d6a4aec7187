//go:build !(tinygo && avr)

package strconvx

import "strconv"

// Host builds delegate to strconv.

func Itoa(i int) string          { return strconv.Itoa(i) }
func Atoi(s string) (int, error) { return strconv.Atoi(s) }

// Atoi32 parses a decimal int32, which is as wide on every target.
func Atoi32(s string) (int32, error) {
	n, err := strconv.ParseInt(s, 10, 32)
	return int32(n), err
}
