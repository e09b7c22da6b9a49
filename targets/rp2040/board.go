//go:build rp2040

package main

import (
	"machine"

	"pwmnode/core"
	"pwmnode/protocol"
)

// I2C target bus (command interface)
const (
	targetAddress = protocol.DefaultAddress
	targetSDA     = machine.GPIO0
	targetSCL     = machine.GPIO1
	targetBaud    = 100 * machine.KHz
)

// PWM outputs, channel 0 first
var pwmPins = [core.NumChannels]core.PWMPin{
	core.PWMPin(machine.GPIO21),
	core.PWMPin(machine.GPIO20),
	core.PWMPin(machine.GPIO19),
	core.PWMPin(machine.GPIO18),
	core.PWMPin(machine.GPIO17),
}

// EEPROM on the second I2C bus (24LC256)
const (
	eepromAddress  = 0x50
	eepromSDA      = machine.GPIO10
	eepromSCL      = machine.GPIO11
	eepromBaud     = 400 * machine.KHz
	eepromPageSize = 64
	eepromSize     = 32 * 1024
)

// Addressable LED headers
const (
	ledStrip1Pin = machine.GPIO8
	ledStrip2Pin = machine.GPIO9
	statusPixel  = machine.GPIO7
)

// Debug UART
const (
	debugBaud = 115200
	debugTX   = machine.GPIO4
	debugRX   = machine.GPIO5
)

// Main loop periods
const (
	ledRefreshMS = 20
	heartbeatMS  = 5000
)
