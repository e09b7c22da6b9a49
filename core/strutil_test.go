package core

import "testing"

func TestItoa(t *testing.T) {
	testCases := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{7, "7"},
		{100, "100"},
		{-42, "-42"},
		{25000, "25000"},
	}

	for _, tc := range testCases {
		if got := itoa(tc.in); got != tc.want {
			t.Errorf("itoa(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}

	if got := utoa(4294967295); got != "4294967295" {
		t.Errorf("utoa(max) = %q", got)
	}
}

func TestHex8(t *testing.T) {
	if got := hex8(0x12); got != "0x12" {
		t.Errorf("hex8(0x12) = %q", got)
	}
	if got := hex8(0xFF); got != "0xFF" {
		t.Errorf("hex8(0xFF) = %q", got)
	}
	if got := hex8(0); got != "0x00" {
		t.Errorf("hex8(0) = %q", got)
	}
}
