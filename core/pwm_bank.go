package core

import (
	"go.uber.org/multierr"
)

// pwmChannel is one output of the bank and the values last pushed to it
type pwmChannel struct {
	pin       PWMPin
	duty      uint8
	frequency uint32
}

// PWMBank owns the five PWM outputs. Every method calls into the driver,
// so the bank belongs to the main loop; the receive context never sees it.
type PWMBank struct {
	driver      PWMDriver
	channels    [NumChannels]pwmChannel
	initialized bool
	enabled     bool
}

// NewPWMBank creates a bank over the given pins. No hardware is touched
// until Initialize.
func NewPWMBank(driver PWMDriver, pins [NumChannels]PWMPin) *PWMBank {
	b := &PWMBank{driver: driver}
	for i, pin := range pins {
		b.channels[i].pin = pin
	}
	return b
}

// Initialize configures and starts every channel. It does nothing once
// the bank is up. If any channel fails the bank stays uninitialized and
// the combined error is returned.
func (b *PWMBank) Initialize(frequency uint32, duties [NumChannels]uint8) error {
	if b.initialized {
		return nil
	}

	var err error
	for i := range b.channels {
		ch := &b.channels[i]
		if cerr := b.driver.Configure(ch.pin, frequency, duties[i]); cerr != nil {
			err = multierr.Append(err, cerr)
			continue
		}
		ch.duty = duties[i]
		ch.frequency = frequency
	}
	if err != nil {
		return err
	}

	b.initialized = true
	b.enabled = true
	return nil
}

// Apply pushes duty and frequency to one channel. It is a no-op before
// Initialize or for a channel outside the bank.
func (b *PWMBank) Apply(channel int, duty uint8, frequency uint32) error {
	if !b.initialized || channel < 0 || channel >= NumChannels {
		return nil
	}

	ch := &b.channels[channel]
	if err := b.driver.Set(ch.pin, frequency, duty); err != nil {
		return err
	}
	ch.duty = duty
	ch.frequency = frequency
	return nil
}

// EnableAll starts output on every channel
func (b *PWMBank) EnableAll() error {
	return b.setEnabled(true)
}

// DisableAll stops output on every channel
func (b *PWMBank) DisableAll() error {
	return b.setEnabled(false)
}

func (b *PWMBank) setEnabled(enabled bool) error {
	if !b.initialized {
		return nil
	}

	var err error
	for i := range b.channels {
		err = multierr.Append(err, b.driver.Enable(b.channels[i].pin, enabled))
	}
	if err == nil {
		b.enabled = enabled
	}
	return err
}

// Initialized reports whether Initialize has succeeded
func (b *PWMBank) Initialized() bool {
	return b.initialized
}

// Enabled reports whether output is currently on
func (b *PWMBank) Enabled() bool {
	return b.enabled
}

// Duty returns the duty last pushed to a channel
func (b *PWMBank) Duty(channel int) uint8 {
	if channel < 0 || channel >= NumChannels {
		return 0
	}
	return b.channels[channel].duty
}

// Frequency returns the frequency last pushed to a channel
func (b *PWMBank) Frequency(channel int) uint32 {
	if channel < 0 || channel >= NumChannels {
		return 0
	}
	return b.channels[channel].frequency
}

// Pin returns the hardware pin of a channel
func (b *PWMBank) Pin(channel int) PWMPin {
	if channel < 0 || channel >= NumChannels {
		return 0
	}
	return b.channels[channel].pin
}
