//go:build rp2040

package main

import (
	"machine"

	"pwmnode/core"
	"pwmnode/protocol"
)

// usbLink carries bridge frames over the USB CDC port. Serviced from the
// main loop only.
type usbLink struct {
	bridge *core.Bridge
	out    *protocol.ScratchOutput
	rx     [32]byte

	disconnected             bool
	consecutiveWriteFailures uint32
	errors                   uint32
}

func newUSBLink(bridge *core.Bridge) *usbLink {
	return &usbLink{
		bridge: bridge,
		out:    protocol.NewScratchOutput(),
	}
}

// InitUSB initializes USB serial communication
// machine.Serial is USB CDC on RP2040
func InitUSB() {
	machine.Serial.Configure(machine.UARTConfig{})
}

// service reads pending bytes, runs the bridge and sends replies
func (u *usbLink) service() {
	n := 0
	for n < len(u.rx) && machine.Serial.Buffered() > 0 {
		b, err := machine.Serial.ReadByte()
		if err != nil {
			u.errors++
			break
		}
		u.rx[n] = b
		n++
	}
	if n == 0 {
		return
	}

	// Data after a disconnect starts a fresh stream
	if u.disconnected {
		u.disconnected = false
		u.consecutiveWriteFailures = 0
		u.bridge.Reset()
		u.out.Reset()
	}

	if u.bridge.Feed(u.rx[:n]) < n {
		u.errors++
	}

	reply := u.bridge.Process()
	for len(reply) > 0 && !u.disconnected {
		w := u.out.Output(reply)
		reply = reply[w:]
		u.flush()
	}
}

// flush writes the staged output, handling partial writes
func (u *usbLink) flush() {
	result := u.out.Result()
	written := 0
	for written < len(result) {
		n, err := machine.Serial.Write(result[written:])
		if err != nil || n == 0 {
			// Likely disconnect
			u.consecutiveWriteFailures++
			if u.consecutiveWriteFailures > 10 {
				u.disconnected = true
				u.consecutiveWriteFailures = 0
				u.out.Reset()
			}
			return
		}
		written += n
	}
	u.consecutiveWriteFailures = 0
	u.out.Reset()
}
