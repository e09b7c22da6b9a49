package core

import (
	"pwmnode/protocol"
)

// BridgeBufferSize is the receive buffer of the serial bridge
const BridgeBufferSize = 256

// LEDHandler receives colour frames from the bridge
type LEDHandler func(channel int, r, g, b uint8) error

// Bridge carries I2C-equivalent transactions over a byte stream, so the
// node can be driven from USB serial without an I2C master. It runs on
// the main loop.
type Bridge struct {
	reader     *protocol.FrameReader
	dispatcher *Dispatcher
	responder  *Responder
	led        LEDHandler
	out        []byte

	input protocol.SliceInputBuffer
	reply [protocol.ResponseMax + 1]byte

	frames uint32
}

// NewBridge creates a bridge over the shared state. It owns its own
// dispatcher so it never shares argument scratch with the I2C target.
func NewBridge(state *ControlState, led LEDHandler) *Bridge {
	return &Bridge{
		reader:     protocol.NewFrameReader(BridgeBufferSize),
		dispatcher: NewDispatcher(state),
		responder:  NewResponder(state),
		led:        led,
		out:        make([]byte, 0, protocol.FrameMax),
	}
}

// Feed queues received stream bytes and returns how many were accepted
func (b *Bridge) Feed(data []byte) int {
	return b.reader.Write(data)
}

// Process handles every complete frame and returns the reply bytes to
// send. The slice is valid until the next call.
func (b *Bridge) Process() []byte {
	b.out = b.out[:0]
	for {
		f, ok := b.reader.Next()
		if !ok {
			break
		}
		b.frames++
		b.handle(f)
	}
	return b.out
}

func (b *Bridge) handle(f protocol.Frame) {
	switch f.Kind {
	case protocol.KindWrite:
		b.input.Reset(f.Payload)
		b.dispatcher.Receive(&b.input)
	case protocol.KindRead:
		// A tagged read is answered with the tag ahead of the response
		resp := b.responder.Request(b.reply[1:])
		if len(f.Payload) > 0 {
			b.reply[0] = f.Payload[0]
			resp = b.reply[:len(resp)+1]
		}
		out, err := protocol.AppendFrame(b.out, protocol.KindRead|protocol.KindReply, resp)
		if err != nil {
			DebugPrintln("[USB] Error: reply dropped: " + err.Error())
			return
		}
		b.out = out
	case protocol.KindLED:
		if len(f.Payload) < 4 || b.led == nil {
			DebugPrintln("[USB] Error: bad LED frame")
			return
		}
		p := f.Payload
		if err := b.led(int(p[0]), p[1], p[2], p[3]); err != nil {
			DebugPrintln("[USB] Error: LED ch " + itoa(int(p[0])) + ": " + err.Error())
		}
	default:
		DebugPrintln("[USB] Error: unknown frame kind " + hex8(f.Kind))
	}
}

// Reset drops partial input, used after a reconnect
func (b *Bridge) Reset() {
	b.reader.Reset()
	b.out = b.out[:0]
}

// Frames returns the number of frames handled
func (b *Bridge) Frames() uint32 {
	return b.frames
}

// Errors returns the number of corrupt frames discarded
func (b *Bridge) Errors() uint32 {
	return b.reader.Errors()
}
