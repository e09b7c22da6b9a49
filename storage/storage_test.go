package storage

import (
	"errors"
	"testing"
)

func TestBlankEEPROM(t *testing.T) {
	s := New(NewMemory(64), 2)

	id, err := s.LoadDeviceID()
	if err != nil {
		t.Fatalf("LoadDeviceID failed: %v", err)
	}
	if !id.Blank() {
		t.Errorf("Expected blank ID, got %x", id)
	}

	rec, ok, err := s.Load(1)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if ok || rec != (ChannelRecord{}) {
		t.Errorf("Blank slot should read as off, got %+v ok=%v", rec, ok)
	}
}

func TestEnsureDeviceID(t *testing.T) {
	mem := NewMemory(64)
	s := New(mem, 2)

	id, err := s.EnsureDeviceID(0x12345678)
	if err != nil {
		t.Fatalf("EnsureDeviceID failed: %v", err)
	}
	if id != (DeviceID{0x12, 0x34, 0x56, 0x78}) {
		t.Errorf("Unexpected ID %x", id)
	}
	if mem.Bytes()[0] != 0x12 || mem.Bytes()[3] != 0x78 {
		t.Error("ID not written at offset 0")
	}

	again, _ := s.EnsureDeviceID(0xDEADBEEF)
	if again != id {
		t.Errorf("Stored ID replaced: %x", again)
	}

	blankSeed, _ := New(NewMemory(64), 2).EnsureDeviceID(0xFFFFFFFF)
	if blankSeed.Blank() {
		t.Error("Generated ID must not read as blank")
	}
}

func TestChannelRecordLayout(t *testing.T) {
	mem := NewMemory(64)
	s := New(mem, 2)

	if s.Size() != 2*ChannelRecordSize {
		t.Errorf("Size = %d", s.Size())
	}

	want := ChannelRecord{Mode: ModeStatic, R: 10, G: 20, B: 30}
	if err := s.Save(1, want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	raw := mem.Bytes()[ChannelBase+ChannelRecordSize:]
	if raw[0] != recordMagic || raw[2] != 10 || raw[4] != 30 {
		t.Errorf("Unexpected raw record % x", raw[:ChannelRecordSize])
	}
	if mem.Bytes()[ChannelBase] != 0xFF {
		t.Error("Save touched record 0")
	}

	got, ok, err := s.Load(1)
	if err != nil || !ok || got != want {
		t.Errorf("Load = %+v ok=%v err=%v", got, ok, err)
	}

	// Corrupt the colour byte; checksum must catch it
	raw[3] ^= 0x01
	if _, ok, _ := s.Load(1); ok {
		t.Error("Damaged record accepted")
	}
}

func TestInvalidIndex(t *testing.T) {
	s := New(NewMemory(64), 2)

	for _, idx := range []int{-1, 2} {
		if _, _, err := s.Load(idx); err != ErrInvalidIndex {
			t.Errorf("Load(%d) = %v", idx, err)
		}
		if err := s.Save(idx, ChannelRecord{}); err != ErrInvalidIndex {
			t.Errorf("Save(%d) = %v", idx, err)
		}
	}
}

func TestDeviceErrors(t *testing.T) {
	s := New(NewMemory(6), 2)

	if _, _, err := s.Load(1); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Expected out of range error, got %v", err)
	}
}
