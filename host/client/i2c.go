package client

import (
	"go.uber.org/multierr"

	"pwmnode/host/i2cdev"
)

// I2CTransport talks to the node as an I2C master
type I2CTransport struct {
	bus *i2cdev.Bus
	dev *i2cdev.Dev
}

// OpenI2C opens the bus device and addresses the node
func OpenI2C(path string, addr uint16) (*I2CTransport, error) {
	bus, err := i2cdev.Open(path)
	if err != nil {
		return nil, err
	}
	return &I2CTransport{bus: bus, dev: bus.Dev(addr)}, nil
}

func (t *I2CTransport) Write(p []byte) error {
	return t.dev.Write(p)
}

func (t *I2CTransport) Read(n int) ([]byte, error) {
	buf := make([]byte, n)
	if err := t.dev.Read(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func (t *I2CTransport) Close() error {
	var err error
	if t.bus != nil {
		err = multierr.Append(err, t.bus.Close())
		t.bus = nil
	}
	return err
}
