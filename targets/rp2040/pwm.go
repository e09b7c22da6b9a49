//go:build rp2040

package main

import (
	"errors"
	"machine"

	"pwmnode/core"
)

var errPinNotConfigured = errors.New("pwm pin not configured")

// pwmPeripheral is an interface for PWM hardware peripherals
// This abstracts over TinyGo's unexported *pwmGroup type
type pwmPeripheral interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	SetPeriod(period uint64) error
	Top() uint32
	Set(channel uint8, value uint32)
}

// pwmOutput is one configured pin and the duty it should show
type pwmOutput struct {
	slice   uint8
	channel uint8
	duty    uint8
	enabled bool
}

// RP2040PWMDriver implements core.PWMDriver on the RP2040's 8 PWM slices.
// The two channels of a slice share its period, so a frequency change on
// one pin rescales the other.
type RP2040PWMDriver struct {
	// Key: slice number (0-7), Value: configured period in nanoseconds
	periods map[uint8]uint64

	// Key: pin number
	outputs map[core.PWMPin]*pwmOutput

	// Key: slice number (0-7)
	peripherals map[uint8]pwmPeripheral
}

// NewRP2040PWMDriver creates a new RP2040 PWM driver
func NewRP2040PWMDriver() *RP2040PWMDriver {
	return &RP2040PWMDriver{
		periods:     make(map[uint8]uint64),
		outputs:     make(map[core.PWMPin]*pwmOutput),
		peripherals: make(map[uint8]pwmPeripheral),
	}
}

// Configure sets a pin up for PWM and starts it at the given duty
func (d *RP2040PWMDriver) Configure(pin core.PWMPin, frequencyHz uint32, dutyPercent uint8) error {
	if frequencyHz == 0 {
		return core.ErrInvalidFrequency
	}

	// RP2040: GPIO pin N maps to
	//   Slice: (N >> 1) & 0x7
	//   Channel: N & 1 (even=A, odd=B)
	sliceNum := uint8((uint32(pin) >> 1) & 0x7)

	pwm, exists := d.peripherals[sliceNum]
	if !exists {
		pwm = d.getPWMPeripheral(sliceNum)
		period := periodFor(frequencyHz)
		if err := pwm.Configure(machine.PWMConfig{Period: period}); err != nil {
			return err
		}
		d.peripherals[sliceNum] = pwm
		d.periods[sliceNum] = period
	}

	channel, err := pwm.Channel(machine.Pin(pin))
	if err != nil {
		return err
	}

	d.outputs[pin] = &pwmOutput{slice: sliceNum, channel: channel, enabled: true}
	return d.Set(pin, frequencyHz, dutyPercent)
}

// Set pushes frequency and duty to a configured pin
func (d *RP2040PWMDriver) Set(pin core.PWMPin, frequencyHz uint32, dutyPercent uint8) error {
	out, ok := d.outputs[pin]
	if !ok {
		return errPinNotConfigured
	}
	if frequencyHz == 0 {
		return core.ErrInvalidFrequency
	}

	pwm := d.peripherals[out.slice]
	period := periodFor(frequencyHz)
	if d.periods[out.slice] != period {
		if err := pwm.SetPeriod(period); err != nil {
			return err
		}
		d.periods[out.slice] = period
		// Top changed; keep the sibling channel at its duty
		for p, sib := range d.outputs {
			if p != pin && sib.slice == out.slice {
				d.write(sib)
			}
		}
	}

	out.duty = dutyPercent
	d.write(out)
	return nil
}

// Enable starts or stops output on a pin. A stopped pin is held low and
// keeps its duty for the next enable.
func (d *RP2040PWMDriver) Enable(pin core.PWMPin, enabled bool) error {
	out, ok := d.outputs[pin]
	if !ok {
		return errPinNotConfigured
	}
	out.enabled = enabled
	d.write(out)
	return nil
}

// write scales the duty percentage to the slice's counter top
func (d *RP2040PWMDriver) write(out *pwmOutput) {
	pwm := d.peripherals[out.slice]
	var value uint32
	if out.enabled {
		value = uint32(uint64(out.duty) * uint64(pwm.Top()) / core.MaxDuty)
	}
	pwm.Set(out.channel, value)
}

// periodFor converts a frequency to a period in nanoseconds
func periodFor(frequencyHz uint32) uint64 {
	return 1000000000 / uint64(frequencyHz)
}

// getPWMPeripheral returns the PWM peripheral for a given slice number
func (d *RP2040PWMDriver) getPWMPeripheral(sliceNum uint8) pwmPeripheral {
	switch sliceNum {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	case 7:
		return machine.PWM7
	default:
		return machine.PWM0
	}
}
