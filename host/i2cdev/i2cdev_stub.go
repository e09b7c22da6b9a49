//go:build !linux

package i2cdev

type Bus struct{}

type Dev struct{}

func Open(path string) (*Bus, error) { return nil, ErrUnsupported }

func (b *Bus) Close() error { return nil }

func (b *Bus) Dev(addr uint16) *Dev { return nil }

func (d *Dev) Write(p []byte) error { return ErrUnsupported }
func (d *Dev) Read(p []byte) error  { return ErrUnsupported }
