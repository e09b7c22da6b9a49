package protocol

import "testing"

func TestSetDutyOpcodes(t *testing.T) {
	for ch := 0; ch < Channels; ch++ {
		op := SetDutyOpcode(ch)
		if op != byte(0x10+ch) {
			t.Errorf("Channel %d: expected opcode 0x%02X, got 0x%02X", ch, 0x10+ch, op)
		}
	}
	if SetDutyOpcode(Channels-1) != CmdSetDutyCh5 {
		t.Errorf("Last channel should map to 0x%02X", CmdSetDutyCh5)
	}
}

func TestFrequencyEncoding(t *testing.T) {
	testCases := []struct {
		hz   uint32
		wire byte
	}{
		{25000, 25},
		{1000, 1},
		{999, 0},
		{255000, 255},
		{300000, 255},
	}

	for _, tc := range testCases {
		if got := EncodeFrequency(tc.hz); got != tc.wire {
			t.Errorf("EncodeFrequency(%d) = %d, want %d", tc.hz, got, tc.wire)
		}
	}

	if DecodeFrequency(25) != 25000 {
		t.Errorf("DecodeFrequency(25) = %d, want 25000", DecodeFrequency(25))
	}
}
