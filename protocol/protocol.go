// Package protocol defines the pwmnode I2C command set and the framing used to
// carry the same transactions over the USB serial bridge.
package protocol

// Version is the firmware protocol version
const Version = "0.1.0"

// DefaultAddress is the 7-bit I2C target address of the board
const DefaultAddress = 0x71

// Channels is the number of PWM outputs addressable by the command set
const Channels = 5

// I2C command opcodes. A write transaction carries one opcode followed by its
// argument bytes. A read transaction carries nothing and returns whatever the
// last get command armed.
const (
	CmdBeginPWM     = 0x01 // reserved, accepted and ignored
	CmdSetFrequency = 0x02 // 1 arg: frequency / FrequencyScale
	CmdGetDutyCycle = 0x03 // next read returns Channels bytes
	CmdGetFrequency = 0x04 // next read returns 1 byte (kHz)
	CmdDisablePWM   = 0x05
	CmdEnablePWM    = 0x06

	CmdSetDutyCh1 = 0x10 // 1 arg: duty percent 0-100
	CmdSetDutyCh2 = 0x11
	CmdSetDutyCh3 = 0x12
	CmdSetDutyCh4 = 0x13
	CmdSetDutyCh5 = 0x14
)

// FrequencyScale converts the single frequency byte on the wire to Hz
const FrequencyScale = 1000

// Response sizes for read transactions
const (
	NoneResponseLen      = 1
	DutyResponseLen      = Channels
	FrequencyResponseLen = 1
	ResponseMax          = 8
)

// SetDutyOpcode returns the SET_DUTY opcode for a zero-based channel index
func SetDutyOpcode(channel int) byte {
	return byte(CmdSetDutyCh1 + channel)
}

// EncodeFrequency converts Hz to the wire byte, rounding down to whole kHz
// Values above 255 kHz saturate
func EncodeFrequency(hz uint32) byte {
	khz := hz / FrequencyScale
	if khz > 0xFF {
		return 0xFF
	}
	return byte(khz)
}

// DecodeFrequency converts the wire byte to Hz
func DecodeFrequency(b byte) uint32 {
	return uint32(b) * FrequencyScale
}
