// Package i2cdev is a minimal I2C master for talking to the node from a
// Linux single-board computer.
package i2cdev

import (
	"github.com/pkg/errors"
)

var (
	ErrNoDevice    = errors.New("i2c device is nil")
	ErrUnsupported = errors.New("i2c: unsupported OS (need linux)")
)

// checkAddr rejects reserved and 10-bit addresses
func checkAddr(addr uint16) error {
	if addr < 0x08 || addr > 0x77 {
		return errors.Errorf("invalid i2c addr 0x%X", addr)
	}
	return nil
}
