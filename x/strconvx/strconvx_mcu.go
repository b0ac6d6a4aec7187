//go:build tinygo && avr

package strconvx

// Decimal-only helpers with strconv signatures. strconv pulls in float
// formatting tables that do not fit in AVR flash.

type parseError struct{}

func (parseError) Error() string { return "invalid syntax" }

type rangeError struct{}

func (rangeError) Error() string { return "value out of range" }

func Itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	u := uint(i)
	if neg {
		u = uint(-i)
	}
	var buf [24]byte
	n := len(buf)
	for u > 0 {
		n--
		buf[n] = byte('0' + u%10)
		u /= 10
	}
	if neg {
		n--
		buf[n] = '-'
	}
	return string(buf[n:])
}

func Atoi(s string) (int, error) {
	v, err := Atoi32(s)
	if err != nil {
		return 0, err
	}
	const maxInt = int32(int(^uint(0) >> 1))
	if v > maxInt || v < -maxInt-1 {
		return 0, rangeError{}
	}
	return int(v), nil
}

// Atoi32 parses a decimal int32. On AVR int is 16 bits, so values that must
// agree with host builds go through here.
func Atoi32(s string) (int32, error) {
	if len(s) == 0 {
		return 0, parseError{}
	}
	neg := false
	if s[0] == '+' || s[0] == '-' {
		neg = s[0] == '-'
		s = s[1:]
		if len(s) == 0 {
			return 0, parseError{}
		}
	}
	limit := uint32(1<<31 - 1)
	if neg {
		limit = 1 << 31
	}
	var u uint32
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, parseError{}
		}
		d := uint32(c - '0')
		if u > (limit-d)/10 {
			return 0, rangeError{}
		}
		u = u*10 + d
	}
	if neg {
		return int32(-int64(u)), nil
	}
	return int32(u), nil
}
