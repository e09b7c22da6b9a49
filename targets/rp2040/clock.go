//go:build rp2040

package main

import (
	"runtime/volatile"
	"unsafe"

	"pwmnode/core"
)

// RP2040 Timer peripheral memory map
const (
	timerBase     = 0x40054000
	timerTIMERAWL = timerBase + 0x28 // Raw timer low word
)

var timerRAWL = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWL)))

// GetHardwareTime returns the low 32 bits of the 1 MHz microsecond counter
func GetHardwareTime() uint32 {
	return timerRAWL.Get()
}

// UpdateSystemTime publishes the hardware time to the core scheduler
func UpdateSystemTime() {
	core.SetTime(GetHardwareTime())
}
