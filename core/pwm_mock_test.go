package core

import (
	"errors"
	"testing"

	"pwmnode/protocol"
)

// mockPin records what the bank pushed to one pin
type mockPin struct {
	configured bool
	enabled    bool
	frequency  uint32
	duty       uint8
	sets       int
}

// mockPWMDriver is a test implementation of PWMDriver
type mockPWMDriver struct {
	pins          map[PWMPin]*mockPin
	failConfigure map[PWMPin]bool
	failSet       bool
	failEnable    bool
	calls         int
}

func newMockPWMDriver() *mockPWMDriver {
	return &mockPWMDriver{
		pins:          make(map[PWMPin]*mockPin),
		failConfigure: make(map[PWMPin]bool),
	}
}

func (m *mockPWMDriver) pin(p PWMPin) *mockPin {
	mp, ok := m.pins[p]
	if !ok {
		mp = &mockPin{}
		m.pins[p] = mp
	}
	return mp
}

func (m *mockPWMDriver) Configure(pin PWMPin, frequencyHz uint32, dutyPercent uint8) error {
	m.calls++
	if m.failConfigure[pin] {
		return errors.New("configure failed")
	}
	mp := m.pin(pin)
	mp.configured = true
	mp.enabled = true
	mp.frequency = frequencyHz
	mp.duty = dutyPercent
	return nil
}

func (m *mockPWMDriver) Set(pin PWMPin, frequencyHz uint32, dutyPercent uint8) error {
	m.calls++
	if m.failSet {
		return errors.New("set failed")
	}
	mp := m.pin(pin)
	if !mp.configured {
		return errors.New("pin not configured")
	}
	mp.frequency = frequencyHz
	mp.duty = dutyPercent
	mp.sets++
	return nil
}

func (m *mockPWMDriver) Enable(pin PWMPin, enabled bool) error {
	m.calls++
	if m.failEnable {
		return errors.New("enable failed")
	}
	m.pin(pin).enabled = enabled
	return nil
}

// testPins mirrors the board wiring: channel 0 on GP21 down to channel 4 on GP17
var testPins = [NumChannels]PWMPin{21, 20, 19, 18, 17}

// testRig wires the core the way the target main does
type testRig struct {
	state      *ControlState
	dispatcher *Dispatcher
	responder  *Responder
	bank       *PWMBank
	applier    *Applier
	driver     *mockPWMDriver
}

func newTestRig(t *testing.T, start bool) *testRig {
	t.Helper()
	ClearEventRing()

	driver := newMockPWMDriver()
	state := NewControlState()
	bank := NewPWMBank(driver, testPins)
	rig := &testRig{
		state:      state,
		dispatcher: NewDispatcher(state),
		responder:  NewResponder(state),
		bank:       bank,
		applier:    NewApplier(state, bank),
		driver:     driver,
	}
	if start {
		if err := rig.applier.Start(); err != nil {
			t.Fatalf("Start failed: %v", err)
		}
	}
	return rig
}

// write performs one I2C write transaction
func (r *testRig) write(data ...byte) {
	r.dispatcher.Receive(protocol.NewSliceInputBuffer(data))
}

// read performs one I2C read transaction
func (r *testRig) read() []byte {
	var buf [protocol.ResponseMax]byte
	return append([]byte(nil), r.responder.Request(buf[:])...)
}
