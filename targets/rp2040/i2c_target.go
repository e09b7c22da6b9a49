//go:build rp2040

package main

import (
	"machine"
	"time"

	"pwmnode/core"
	"pwmnode/protocol"
)

// i2cTarget serves the command interface on the target bus. Its goroutine
// stands in for the receive and request interrupt handlers: it only
// touches the shared state through the dispatcher and responder.
type i2cTarget struct {
	bus        *machine.I2C
	address    uint16
	dispatcher *core.Dispatcher
	responder  *core.Responder

	rx    [protocol.ResponseMax]byte
	reply [protocol.ResponseMax]byte
	input protocol.SliceInputBuffer

	errors uint32
}

func newI2CTarget(bus *machine.I2C, address uint8, d *core.Dispatcher, r *core.Responder) *i2cTarget {
	return &i2cTarget{
		bus:        bus,
		address:    uint16(address),
		dispatcher: d,
		responder:  r,
	}
}

// configure puts the bus in target mode and starts listening
func (t *i2cTarget) configure() error {
	err := t.bus.Configure(machine.I2CConfig{
		Mode:      machine.I2CModeTarget,
		SDA:       targetSDA,
		SCL:       targetSCL,
		Frequency: targetBaud,
	})
	if err != nil {
		return err
	}
	return t.bus.Listen(t.address)
}

// run services bus events forever
func (t *i2cTarget) run() {
	defer func() {
		if r := recover(); r != nil {
			t.errors++
			// Restart the listener
			time.Sleep(100 * time.Millisecond)
			go t.run()
		}
	}()

	for {
		evt, count, err := t.bus.WaitForEvent(t.rx[:])
		if err != nil {
			t.errors++
			core.DebugAsync("[I2C] Error: " + err.Error())
			time.Sleep(time.Millisecond)
			continue
		}

		switch evt {
		case machine.I2CReceive:
			t.receive(count)
		case machine.I2CRequest:
			// A write followed by a repeated start arrives with the read
			if count > 0 {
				t.receive(count)
			}
			if err := t.bus.Reply(t.responder.Request(t.reply[:])); err != nil {
				t.errors++
				core.DebugAsync("[I2C] Error: reply: " + err.Error())
			}
		case machine.I2CFinish:
		}
	}
}

func (t *i2cTarget) receive(count int) {
	t.input.Reset(t.rx[:count])
	t.dispatcher.Receive(&t.input)
}
