package i2cdev

import "testing"

func TestCheckAddr(t *testing.T) {
	cases := []struct {
		addr uint16
		ok   bool
	}{
		{0x00, false},
		{0x07, false},
		{0x08, true},
		{0x71, true},
		{0x77, true},
		{0x78, false},
		{0x3FF, false},
	}
	for _, tc := range cases {
		err := checkAddr(tc.addr)
		if (err == nil) != tc.ok {
			t.Errorf("checkAddr(0x%X) = %v, want ok=%v", tc.addr, err, tc.ok)
		}
	}
}

func TestOpenMissingBus(t *testing.T) {
	if _, err := Open("/dev/i2c-does-not-exist"); err == nil {
		t.Fatal("expected error opening a missing bus")
	}
}

func TestNilDevice(t *testing.T) {
	var d *Dev
	if err := d.Write([]byte{0x01}); err == nil {
		t.Fatal("expected error from nil device")
	}
}
