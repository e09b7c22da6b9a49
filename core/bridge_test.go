package core

import (
	"bytes"
	"errors"
	"testing"

	"pwmnode/protocol"
)

func frame(t *testing.T, kind byte, payload ...byte) []byte {
	t.Helper()
	f, err := protocol.AppendFrame(nil, kind, payload)
	if err != nil {
		t.Fatalf("AppendFrame failed: %v", err)
	}
	return f
}

func TestBridgeWriteAndRead(t *testing.T) {
	rig := newTestRig(t, true)
	bridge := NewBridge(rig.state, nil)

	var stream []byte
	stream = append(stream, frame(t, protocol.KindWrite, 0x12, 75)...)
	stream = append(stream, frame(t, protocol.KindWrite, protocol.CmdGetDutyCycle)...)
	stream = append(stream, frame(t, protocol.KindRead)...)
	bridge.Feed(stream)

	reply := bridge.Process()
	want := frame(t, protocol.KindRead|protocol.KindReply, 50, 50, 75, 50, 50)
	if !bytes.Equal(reply, want) {
		t.Errorf("Reply % x, want % x", reply, want)
	}
	if bridge.Frames() != 3 {
		t.Errorf("Frames = %d", bridge.Frames())
	}

	rig.applier.Poll()
	if rig.bank.Duty(2) != 75 {
		t.Errorf("Bridge write not applied, duty %d", rig.bank.Duty(2))
	}

	if len(bridge.Process()) != 0 {
		t.Error("Expected no reply without input")
	}
}

func TestBridgeMultipleReads(t *testing.T) {
	rig := newTestRig(t, true)
	bridge := NewBridge(rig.state, nil)

	bridge.Feed(frame(t, protocol.KindWrite, protocol.CmdGetFrequency))
	bridge.Feed(frame(t, protocol.KindRead))
	bridge.Feed(frame(t, protocol.KindRead))

	reply := bridge.Process()
	want := append(frame(t, 0x82, 25), frame(t, 0x82, 0)...)
	if !bytes.Equal(reply, want) {
		t.Errorf("Reply % x, want % x", reply, want)
	}
}

func TestBridgeTaggedRead(t *testing.T) {
	rig := newTestRig(t, true)
	bridge := NewBridge(rig.state, nil)

	bridge.Feed(frame(t, protocol.KindWrite, protocol.CmdGetDutyCycle))
	bridge.Feed(frame(t, protocol.KindRead, 0x2A))
	bridge.Feed(frame(t, protocol.KindRead, 0x2B))

	reply := bridge.Process()
	want := append(frame(t, 0x82, 0x2A, 50, 50, 50, 50, 50), frame(t, 0x82, 0x2B, 0)...)
	if !bytes.Equal(reply, want) {
		t.Errorf("Reply % x, want % x", reply, want)
	}
}

func TestBridgeResyncsAfterCorruption(t *testing.T) {
	rig := newTestRig(t, true)
	bridge := NewBridge(rig.state, nil)

	bad := frame(t, protocol.KindWrite, 0x10, 10)
	bad[2] ^= 0xFF
	bridge.Feed(bad)
	bridge.Feed(frame(t, protocol.KindWrite, 0x11, 20))
	bridge.Process()

	if bridge.Errors() == 0 {
		t.Error("Expected corrupt frame to be counted")
	}
	duties, _ := rig.state.Snapshot()
	if duties[0] != DefaultDuty || duties[1] != 20 {
		t.Errorf("Unexpected duties %v", duties)
	}
}

func TestBridgeLED(t *testing.T) {
	rig := newTestRig(t, true)

	var got []int
	bridge := NewBridge(rig.state, func(ch int, r, g, b uint8) error {
		if ch > 1 {
			return errors.New("no such channel")
		}
		got = append(got, ch, int(r), int(g), int(b))
		return nil
	})

	bridge.Feed(frame(t, protocol.KindLED, 1, 255, 0, 10))
	bridge.Feed(frame(t, protocol.KindLED, 7, 1, 2, 3))
	bridge.Feed(frame(t, protocol.KindLED, 0, 1))
	bridge.Process()

	if len(got) != 4 || got[0] != 1 || got[1] != 255 || got[3] != 10 {
		t.Errorf("Unexpected LED calls %v", got)
	}
}
