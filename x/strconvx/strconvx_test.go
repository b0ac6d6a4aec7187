package strconvx

import "testing"

func TestItoa(t *testing.T) {
	for _, c := range []struct {
		in   int
		want string
	}{
		{0, "0"},
		{9, "9"},
		{-5, "-5"},
		{500, "500"},
	} {
		if got := Itoa(c.in); got != c.want {
			t.Fatalf("Itoa(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestAtoi(t *testing.T) {
	for _, c := range []struct {
		in   string
		want int
	}{
		{"0", 0},
		{"25", 25},
		{"+7", 7},
		{"-12", -12},
	} {
		got, err := Atoi(c.in)
		if err != nil {
			t.Fatalf("Atoi(%q) error: %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("Atoi(%q) = %d, want %d", c.in, got, c.want)
		}
	}
	for _, bad := range []string{"", "-", "1a", "0x10", "3.5"} {
		if _, err := Atoi(bad); err == nil {
			t.Fatalf("Atoi(%q) expected error", bad)
		}
	}
}

func TestAtoi32(t *testing.T) {
	for _, c := range []struct {
		in   string
		want int32
	}{
		{"65535", 65535},
		{"40000", 40000},
		{"2147483647", 2147483647},
		{"-2147483648", -2147483648},
		{"+12", 12},
	} {
		got, err := Atoi32(c.in)
		if err != nil {
			t.Fatalf("Atoi32(%q) error: %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("Atoi32(%q) = %d, want %d", c.in, got, c.want)
		}
	}
	for _, bad := range []string{"", "+", "2147483648", "-2147483649", "6e4", "1_000"} {
		if _, err := Atoi32(bad); err == nil {
			t.Fatalf("Atoi32(%q) expected error", bad)
		}
	}
}
