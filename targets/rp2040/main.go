//go:build rp2040

package main

import (
	"machine"
	"time"

	"pwmnode/core"
	"pwmnode/protocol"
)

var (
	// Main loop error counter
	loopErrors uint32

	ledTimer       core.Timer
	heartbeatTimer core.Timer
)

func main() {
	// Disable watchdog on boot to clear any previous state
	err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})
	if err != nil {
		return
	}

	InitUSB()
	if InitDebugUART() {
		core.SetDebugWriter(debugWrite)
		core.SetDebugEnabled(true)
		core.InitAsyncDebug()
	}
	UpdateSystemTime()
	core.DebugPrintln("[BOOT] pwmnode " + protocol.Version)

	// Shared state first so the I2C target can accept writes while the
	// bank comes up
	state := core.NewControlState()

	core.SetPWMDriver(NewRP2040PWMDriver())
	bank := core.NewPWMBank(core.MustPWM(), pwmPins)
	applier := core.NewApplier(state, bank)

	dispatcher := core.NewDispatcher(state)
	core.DebugPrintln("[I2C] " + itoa(dispatcher.Table().Count()) + " commands:\n" + dispatcher.Table().Describe())

	target := newI2CTarget(machine.I2C0, targetAddress, dispatcher, core.NewResponder(state))
	if err := target.configure(); err != nil {
		core.DebugPrintln("[I2C] Error: target setup: " + err.Error())
	} else {
		go target.run()
		core.DebugPrintln("[I2C] Listening on " + itoa(int(targetAddress)))
	}

	store := initStorage()
	leds := initLEDs(store)
	usb := newUSBLink(core.NewBridge(state, leds.setLED))

	started := applier.Start() == nil

	core.Every(&ledTimer, core.TimerFromMS(ledRefreshMS), leds.refresh)
	core.Every(&heartbeatTimer, core.TimerFromMS(heartbeatMS), func() {
		if !started {
			started = applier.Start() == nil
		}
		if bank.Enabled() {
			leds.setStatus(statusOK)
		} else {
			leds.setStatus(statusOff)
		}
		if !core.IsDebugEnabled() {
			return
		}
		for _, line := range applier.Status() {
			core.DebugPrintln(line)
		}
		core.DebugPrintln("[STATS] i2c errors=" + itoa(int(target.errors)) +
			" usb frames=" + itoa(int(usb.bridge.Frames())) +
			" usb errors=" + itoa(int(usb.bridge.Errors()+usb.errors)) +
			" loop errors=" + itoa(int(loopErrors)))
	})

	for {
		// Recover from panics in the main loop to prevent a firmware crash
		func() {
			defer func() {
				if r := recover(); r != nil {
					loopErrors++
					core.DumpEventRing()
				}
			}()

			UpdateSystemTime()

			applier.Poll()

			usb.service()

			core.ProcessTimers()
		}()

		// Yield to the I2C target goroutine
		time.Sleep(10 * time.Microsecond)
	}
}

// itoa converts int to string without importing strconv (for embedded)
func itoa(i int) string {
	if i == 0 {
		return "0"
	}

	negative := i < 0
	if negative {
		i = -i
	}

	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}

	if negative {
		pos--
		buf[pos] = '-'
	}

	return string(buf[pos:])
}
