package core

import (
	"pwmnode/protocol"
)

// Responder answers I2C read transactions. It runs in the request context
// and must produce its bytes synchronously.
type Responder struct {
	state *ControlState
}

// NewResponder creates a responder over the shared state
func NewResponder(state *ControlState) *Responder {
	return &Responder{state: state}
}

// Request consumes the armed request and writes the response into buf,
// which should have capacity protocol.ResponseMax. With nothing armed the
// response is a single zero byte.
func (r *Responder) Request(buf []byte) []byte {
	mode, duties, hz := r.state.TakeRequest()

	buf = buf[:0]
	switch mode {
	case RequestDuty:
		buf = append(buf, duties[:]...)
		RecordEvent(EvtRead, protocol.CmdGetDutyCycle, duties[0], ResultOK)
	case RequestFrequency:
		buf = append(buf, protocol.EncodeFrequency(hz))
		RecordEvent(EvtRead, protocol.CmdGetFrequency, buf[0], ResultOK)
	default:
		buf = append(buf, 0)
		RecordEvent(EvtRead, 0, 0, ResultOK)
	}
	return buf
}
