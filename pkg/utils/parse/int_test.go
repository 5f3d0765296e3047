package parse

import "testing"

func TestIntOrZero(t *testing.T) {
	tests := map[string]int{
		"42":   42,
		" 7 ":  7,
		"-3":   -3,
		"abc":  0,
		"":     0,
		"1.5":  0,
	}
	for in, want := range tests {
		if got := IntOrZero(in); got != want {
			t.Errorf("IntOrZero(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestAbsInt(t *testing.T) {
	tests := map[string]uint64{
		"42":         42,
		"-42":        42,
		"1700000000": 1700000000,
		"x1":         0,
		"":           0,
	}
	for in, want := range tests {
		if got := AbsInt(in); got != want {
			t.Errorf("AbsInt(%q) = %d, want %d", in, got, want)
		}
	}
}
