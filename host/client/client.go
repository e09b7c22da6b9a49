// Package client drives a pwmnode over I2C or the USB serial bridge.
package client

import (
	"github.com/pkg/errors"

	"pwmnode/protocol"
)

var (
	ErrInvalidChannel   = errors.New("channel out of range")
	ErrInvalidDuty      = errors.New("duty cycle out of range")
	ErrInvalidFrequency = errors.New("frequency must be a whole kHz between 1 and 255 kHz")
	ErrUnsupported      = errors.New("operation not supported by this transport")
)

// Transport carries raw I2C transactions to the node
type Transport interface {
	// Write performs one write transaction
	Write(p []byte) error
	// Read performs one read transaction of n bytes
	Read(n int) ([]byte, error)
	Close() error
}

// LEDWriter is implemented by transports that can set LED colours
type LEDWriter interface {
	WriteLED(channel int, r, g, b uint8) error
}

// Client issues node commands. Channels are numbered from 0.
type Client struct {
	t Transport
}

// New creates a client over a transport
func New(t Transport) *Client {
	return &Client{t: t}
}

// Close closes the transport
func (c *Client) Close() error {
	return c.t.Close()
}

// Begin sends the BEGIN_PWM command
func (c *Client) Begin() error {
	return c.send(protocol.CmdBeginPWM)
}

// SetDuty sets the duty cycle (0-100) of one channel
func (c *Client) SetDuty(channel int, duty uint8) error {
	if channel < 0 || channel >= protocol.Channels {
		return errors.Wrapf(ErrInvalidChannel, "channel %d", channel)
	}
	if duty > 100 {
		return errors.Wrapf(ErrInvalidDuty, "duty %d", duty)
	}
	return c.send(protocol.SetDutyOpcode(channel), duty)
}

// SetFrequency sets the shared frequency of every channel
func (c *Client) SetFrequency(hz uint32) error {
	if hz == 0 || hz%protocol.FrequencyScale != 0 || hz/protocol.FrequencyScale > 255 {
		return errors.Wrapf(ErrInvalidFrequency, "%d Hz", hz)
	}
	return c.send(protocol.CmdSetFrequency, protocol.EncodeFrequency(hz))
}

// Duties reads back the duty cycle of every channel
func (c *Client) Duties() ([protocol.Channels]uint8, error) {
	var duties [protocol.Channels]uint8
	resp, err := c.query(protocol.CmdGetDutyCycle, protocol.DutyResponseLen)
	if err != nil {
		return duties, errors.Wrap(err, "get duty cycle")
	}
	copy(duties[:], resp)
	return duties, nil
}

// Frequency reads back the shared frequency, in whole kHz resolution
func (c *Client) Frequency() (uint32, error) {
	resp, err := c.query(protocol.CmdGetFrequency, protocol.FrequencyResponseLen)
	if err != nil {
		return 0, errors.Wrap(err, "get frequency")
	}
	return protocol.DecodeFrequency(resp[0]), nil
}

// Enable turns output on for every channel
func (c *Client) Enable() error {
	return c.send(protocol.CmdEnablePWM)
}

// Disable turns output off for every channel
func (c *Client) Disable() error {
	return c.send(protocol.CmdDisablePWM)
}

// SetLED sets a static colour on one LED channel. Only the serial bridge
// carries LED frames.
func (c *Client) SetLED(channel int, r, g, b uint8) error {
	lw, ok := c.t.(LEDWriter)
	if !ok {
		return ErrUnsupported
	}
	return errors.Wrapf(lw.WriteLED(channel, r, g, b), "set led %d", channel)
}

func (c *Client) send(opcode byte, args ...byte) error {
	p := append([]byte{opcode}, args...)
	return errors.Wrapf(c.t.Write(p), "command 0x%02X", opcode)
}

func (c *Client) query(opcode byte, n int) ([]byte, error) {
	if err := c.send(opcode); err != nil {
		return nil, err
	}
	resp, err := c.t.Read(n)
	if err != nil {
		return nil, err
	}
	if len(resp) < n {
		return nil, errors.Errorf("short response: %d of %d bytes", len(resp), n)
	}
	return resp, nil
}
