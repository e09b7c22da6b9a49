package core

import "testing"

func TestRequestModeTransitions(t *testing.T) {
	var m RequestMode

	if m != RequestNone {
		t.Fatalf("Zero value should be none, got %v", m)
	}
	if got := m.Consume(); got != RequestNone {
		t.Errorf("Consume on none = %v", got)
	}

	m.Arm(RequestDuty)
	if got := m.Consume(); got != RequestDuty {
		t.Errorf("Consume = %v, want duty", got)
	}
	if m != RequestNone {
		t.Errorf("Expected none after consume, got %v", m)
	}

	m.Arm(RequestDuty)
	m.Arm(RequestFrequency)
	if got := m.Consume(); got != RequestFrequency {
		t.Errorf("Latest arm should win, got %v", got)
	}

	if RequestFrequency.String() != "frequency" || RequestMode(9).String() != "invalid" {
		t.Error("Unexpected String() output")
	}
}

func TestControlStateDefaults(t *testing.T) {
	s := NewControlState()

	duties, hz := s.Snapshot()
	for ch, d := range duties {
		if d != DefaultDuty {
			t.Errorf("Channel %d default duty %d", ch, d)
		}
	}
	if hz != DefaultFrequency {
		t.Errorf("Default frequency %d", hz)
	}
	if s.Initialized() || s.Dirty() != 0 || s.Mode() != RequestNone {
		t.Error("Unexpected initial flags")
	}
}

func TestControlStateValidation(t *testing.T) {
	s := NewControlState()
	s.MarkInitialized(s.Snapshot())

	testCases := []struct {
		channel int
		duty    uint8
		want    error
	}{
		{0, 0, nil},
		{4, 100, nil},
		{-1, 10, ErrInvalidChannel},
		{5, 10, ErrInvalidChannel},
		{2, 101, ErrInvalidDuty},
	}

	for _, tc := range testCases {
		if err := s.SetDuty(tc.channel, tc.duty); err != tc.want {
			t.Errorf("SetDuty(%d, %d) = %v, want %v", tc.channel, tc.duty, err, tc.want)
		}
	}

	if err := s.SetFrequency(0); err != ErrInvalidFrequency {
		t.Errorf("SetFrequency(0) = %v", err)
	}
}

func TestControlStateTakeClears(t *testing.T) {
	s := NewControlState()
	s.MarkInitialized(s.Snapshot())

	s.SetDuty(1, 10)
	s.SetDuty(3, 30)
	s.RequestOutput(OutputDisable)

	p := s.Take()
	if p.Dirty != 0b01010 {
		t.Errorf("Dirty = %05b, want 01010", p.Dirty)
	}
	if p.Duties[1] != 10 || p.Duties[3] != 30 {
		t.Errorf("Unexpected duties %v", p.Duties)
	}
	if p.Output != OutputDisable {
		t.Errorf("Output = %d, want disable", p.Output)
	}

	p = s.Take()
	if p.Dirty != 0 || p.Output != OutputUnchanged {
		t.Errorf("Second Take not empty: %+v", p)
	}

	// A write after Take is not lost
	s.SetDuty(0, 5)
	if s.Take().Dirty != 1 {
		t.Error("Write after Take was lost")
	}
}

func TestMarkInitializedCatchesChanges(t *testing.T) {
	s := NewControlState()
	duties, hz := s.Snapshot()

	// Arrives while the bank is being configured with the sampled values
	s.SetDuty(2, 77)
	s.MarkInitialized(duties, hz)

	if s.Dirty() != 1<<2 {
		t.Errorf("Expected channel 2 dirty after bring-up race, got %05b", s.Dirty())
	}

	s2 := NewControlState()
	d2, _ := s2.Snapshot()
	s2.SetFrequency(10000)
	s2.MarkInitialized(d2, DefaultFrequency)
	if s2.Dirty() != allChannels {
		t.Errorf("Expected all channels dirty after frequency change, got %05b", s2.Dirty())
	}
}
