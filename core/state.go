package core

import (
	"errors"

	"pwmnode/protocol"
)

// NumChannels is the number of PWM outputs on the board
const NumChannels = protocol.Channels

const (
	DefaultDuty      = 50
	DefaultFrequency = 25000 // Hz
	MaxDuty          = 100
)

// allChannels is the dirty mask with every channel set
const allChannels = uint8(1<<NumChannels - 1)

var (
	ErrInvalidChannel   = errors.New("invalid channel")
	ErrInvalidDuty      = errors.New("invalid duty cycle")
	ErrInvalidFrequency = errors.New("invalid frequency")
	ErrNotInitialized   = errors.New("pwm not initialized")
)

// OutputIntent is a pending group enable/disable for the main loop
type OutputIntent uint8

const (
	OutputUnchanged OutputIntent = iota
	OutputEnable
	OutputDisable
)

// ControlState is the only data shared between the I2C receive/request
// context and the main loop. Every field is accessed inside a critical
// section; nothing here touches hardware.
//
// Written by the receive context: duties, frequency, dirty, output, mode.
// Read and cleared by the main loop: dirty, output (Take).
// Written by the main loop only: initialized (MarkInitialized).
type ControlState struct {
	duties      [NumChannels]uint8
	frequency   uint32
	dirty       uint8 // bit n set: channel n must be pushed to hardware
	output      OutputIntent
	initialized bool
	mode        RequestMode
}

// Pending is a main-loop snapshot of the work to apply
type Pending struct {
	Dirty     uint8
	Duties    [NumChannels]uint8
	Frequency uint32
	Output    OutputIntent
}

// NewControlState returns state holding the power-on defaults
func NewControlState() *ControlState {
	s := &ControlState{frequency: DefaultFrequency}
	for i := range s.duties {
		s.duties[i] = DefaultDuty
	}
	return s
}

// SetDuty stores the duty for a channel. Before the bank is initialized
// the value is kept but not scheduled and ErrNotInitialized is returned.
func (s *ControlState) SetDuty(channel int, duty uint8) error {
	if channel < 0 || channel >= NumChannels {
		return ErrInvalidChannel
	}
	if duty > MaxDuty {
		return ErrInvalidDuty
	}

	state := disableInterrupts()
	defer restoreInterrupts(state)

	s.duties[channel] = duty
	if !s.initialized {
		return ErrNotInitialized
	}
	s.dirty |= 1 << channel
	return nil
}

// SetFrequency stores the shared frequency and marks every channel dirty
func (s *ControlState) SetFrequency(hz uint32) error {
	if hz == 0 {
		return ErrInvalidFrequency
	}

	state := disableInterrupts()
	defer restoreInterrupts(state)

	s.frequency = hz
	s.dirty = allChannels
	return nil
}

// RequestOutput records a group enable/disable for the main loop.
// The latest request wins. No-op before initialization.
func (s *ControlState) RequestOutput(intent OutputIntent) error {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	if !s.initialized {
		return ErrNotInitialized
	}
	s.output = intent
	return nil
}

// ArmRequest selects what the next read returns
func (s *ControlState) ArmRequest(mode RequestMode) {
	state := disableInterrupts()
	s.mode.Arm(mode)
	restoreInterrupts(state)
}

// TakeRequest consumes the armed request together with the values it
// reports, so a concurrent write cannot split the response
func (s *ControlState) TakeRequest() (RequestMode, [NumChannels]uint8, uint32) {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	return s.mode.Consume(), s.duties, s.frequency
}

// Take returns and clears the pending work. A write landing after Take
// sets its dirty bit again and is picked up by the next call.
func (s *ControlState) Take() Pending {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	p := Pending{
		Dirty:     s.dirty,
		Duties:    s.duties,
		Frequency: s.frequency,
		Output:    s.output,
	}
	s.dirty = 0
	s.output = OutputUnchanged
	return p
}

// MarkInitialized records that the bank is running with the given values.
// Channels whose state changed since those values were sampled are marked
// dirty so nothing written during bring-up is lost.
func (s *ControlState) MarkInitialized(duties [NumChannels]uint8, hz uint32) {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	if s.frequency != hz {
		s.dirty = allChannels
	}
	for i := range s.duties {
		if s.duties[i] != duties[i] {
			s.dirty |= 1 << i
		}
	}
	s.initialized = true
}

// Initialized reports whether the PWM bank is running
func (s *ControlState) Initialized() bool {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	return s.initialized
}

// Snapshot returns the current duties and frequency
func (s *ControlState) Snapshot() ([NumChannels]uint8, uint32) {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	return s.duties, s.frequency
}

// Mode returns the armed request mode without consuming it
func (s *ControlState) Mode() RequestMode {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	return s.mode
}

// Dirty returns the pending dirty mask without clearing it
func (s *ControlState) Dirty() uint8 {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	return s.dirty
}
