//go:build linux

package i2cdev

import (
	"os"
	"path/filepath"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Linux I2C master backed by /dev/i2c-*.
//
// I2C_RDWR keeps each transaction a single bus transfer, so a command and
// its arguments always arrive at the node as one write.

const (
	i2cMrd  = 0x0001
	i2cRdwr = 0x0707
)

type msg struct {
	addr  uint16
	flags uint16
	len   uint16
	buf   uintptr
}

type rdwrData struct {
	msgs  uintptr
	nmsgs uint32
}

// Bus is an opened I2C bus (e.g., /dev/i2c-1).
//
// Bus is not safe for concurrent transfers.
type Bus struct {
	f    *os.File
	path string
}

// Open opens an I2C bus device node
func Open(path string) (*Bus, error) {
	path = filepath.Clean(path)
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	return &Bus{f: f, path: path}, nil
}

// Close closes the bus
func (b *Bus) Close() error {
	if b == nil || b.f == nil {
		return nil
	}
	err := b.f.Close()
	b.f = nil
	return err
}

// Dev returns a handle for the device at a 7-bit address
func (b *Bus) Dev(addr uint16) *Dev {
	if b == nil {
		return nil
	}
	return &Dev{bus: b, addr: addr}
}

// Dev represents a device at a 7-bit I2C address.
type Dev struct {
	bus  *Bus
	addr uint16
}

// Write performs one write transaction
func (d *Dev) Write(p []byte) error {
	return d.tx(p, nil)
}

// Read performs one read transaction filling p
func (d *Dev) Read(p []byte) error {
	return d.tx(nil, p)
}

func (d *Dev) tx(w, r []byte) error {
	if d == nil || d.bus == nil || d.bus.f == nil {
		return ErrNoDevice
	}
	if err := checkAddr(d.addr); err != nil {
		return err
	}

	msgs := make([]msg, 0, 2)
	if len(w) > 0 {
		msgs = append(msgs, msg{addr: d.addr, flags: 0, len: uint16(len(w)), buf: uintptr(unsafe.Pointer(&w[0]))})
	}
	if len(r) > 0 {
		msgs = append(msgs, msg{addr: d.addr, flags: i2cMrd, len: uint16(len(r)), buf: uintptr(unsafe.Pointer(&r[0]))})
	}
	if len(msgs) == 0 {
		return nil
	}

	data := rdwrData{msgs: uintptr(unsafe.Pointer(&msgs[0])), nmsgs: uint32(len(msgs))}
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, d.bus.f.Fd(), uintptr(i2cRdwr), uintptr(unsafe.Pointer(&data)))
	if errno != 0 {
		return errors.Wrapf(errno, "i2c transfer to 0x%02X on %s", d.addr, d.bus.path)
	}
	return nil
}
