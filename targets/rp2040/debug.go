//go:build rp2040

package main

import (
	"machine"
)

var debugUART *machine.UART

// InitDebugUART configures UART1 for debug output and reports success
func InitDebugUART() bool {
	debugUART = machine.UART1

	err := debugUART.Configure(machine.UARTConfig{
		BaudRate: debugBaud,
		TX:       debugTX,
		RX:       debugRX,
	})
	if err != nil {
		debugUART = nil
		return false
	}
	return true
}

// debugWrite writes one line to the debug UART
func debugWrite(s string) {
	if debugUART == nil {
		return
	}
	debugUART.Write([]byte(s))
	debugUART.Write([]byte("\r\n"))
}
