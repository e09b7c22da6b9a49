//go:build rp2040

package main

import (
	"machine"

	"tinygo.org/x/drivers/at24cx"

	"pwmnode/core"
	"pwmnode/lighting"
	"pwmnode/storage"
)

var eeprom at24cx.Device

// initStorage brings up the EEPROM on I2C1 and makes sure the board has
// a device ID. Returns nil if the EEPROM is not usable.
func initStorage() *storage.Store {
	err := machine.I2C1.Configure(machine.I2CConfig{
		SDA:       eepromSDA,
		SCL:       eepromSCL,
		Frequency: eepromBaud,
	})
	if err != nil {
		core.DebugPrintln("[EEPROM] Error: bus: " + err.Error())
		return nil
	}

	eeprom = at24cx.New(machine.I2C1)
	eeprom.Address = eepromAddress
	eeprom.Configure(at24cx.Config{
		PageSize:        eepromPageSize,
		StartRAMAddress: 0,
		EndRAMAddress:   eepromSize - 1,
	})

	store := storage.New(&eeprom, lighting.NumLEDChannels)

	seed, _ := machine.GetRNG()
	id, err := store.EnsureDeviceID(seed)
	if err != nil {
		core.DebugPrintln("[EEPROM] Error: " + err.Error())
		return nil
	}
	core.DebugPrintln("[EEPROM] Device ID " + hexID(id))
	return store
}

func hexID(id storage.DeviceID) string {
	const digits = "0123456789ABCDEF"
	var buf [2 * storage.DeviceIDSize]byte
	for i, b := range id {
		buf[2*i] = digits[b>>4]
		buf[2*i+1] = digits[b&0x0F]
	}
	return string(buf[:])
}
