package protocol

import (
	"bytes"
	"errors"
)

// USB bridge framing. Every frame is
//
//	len | kind | payload... | crc-hi | crc-lo | sync
//
// where len counts the whole frame and the CRC covers len, kind and payload.
const (
	FrameHeaderSize  = 2
	FrameTrailerSize = 3
	FrameMin         = FrameHeaderSize + FrameTrailerSize
	FrameMax         = 64
	FramePayloadMax  = FrameMax - FrameMin
	FrameSync        = 0x7E
)

// Frame kinds
const (
	KindWrite byte = 0x01 // payload is an I2C write transaction
	KindRead  byte = 0x02 // optional tag byte, answered with KindRead|KindReply
	KindLED   byte = 0x03 // payload: channel r g b
	KindReply byte = 0x80
)

var (
	ErrPayloadTooLarge = errors.New("frame payload too large")
	ErrFrameCorrupt    = errors.New("frame corrupt")
)

// Frame is one decoded bridge frame
type Frame struct {
	Kind    byte
	Payload []byte
}

// CRC16 computes the CCITT checksum used by bridge frames (initial value 0xFFFF)
func CRC16(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		b ^= uint8(crc & 0xFF)
		b ^= b << 4
		w := uint16(b)
		crc = (w<<8 | crc>>8) ^ (w >> 4) ^ (w << 3)
	}
	return crc
}

// AppendFrame encodes a frame onto dst
func AppendFrame(dst []byte, kind byte, payload []byte) ([]byte, error) {
	if len(payload) > FramePayloadMax {
		return dst, ErrPayloadTooLarge
	}
	start := len(dst)
	dst = append(dst, byte(len(payload)+FrameMin), kind)
	dst = append(dst, payload...)
	crc := CRC16(dst[start:])
	return append(dst, byte(crc>>8), byte(crc), FrameSync), nil
}

// FrameReader reassembles frames from a byte stream. After a bad length,
// CRC or sync byte it drops input up to the next sync byte.
type FrameReader struct {
	fifo    *FifoBuffer
	synced  bool
	errors  uint32
	payload [FramePayloadMax]byte
}

// NewFrameReader creates a reader buffering up to capacity-1 bytes
func NewFrameReader(capacity int) *FrameReader {
	return &FrameReader{
		fifo:   NewFifoBuffer(capacity),
		synced: true,
	}
}

// Write queues stream bytes and returns how many were accepted
func (r *FrameReader) Write(p []byte) int {
	return r.fifo.Write(p)
}

// WriteByte queues one stream byte
func (r *FrameReader) WriteByte(b byte) error {
	return r.fifo.WriteByte(b)
}

// Errors returns the number of corrupt frames discarded so far
func (r *FrameReader) Errors() uint32 {
	return r.errors
}

// Reset drops buffered input and assumes the stream is synchronized
func (r *FrameReader) Reset() {
	r.fifo.Reset()
	r.synced = true
}

// Next returns the next complete frame. The payload aliases an internal
// buffer and is valid until the following call.
func (r *FrameReader) Next() (Frame, bool) {
	for {
		data := r.fifo.Data()
		if len(data) == 0 {
			return Frame{}, false
		}

		if !r.synced {
			i := bytes.IndexByte(data, FrameSync)
			if i < 0 {
				r.fifo.Pop(len(data))
				return Frame{}, false
			}
			r.fifo.Pop(i + 1)
			r.synced = true
			continue
		}

		// Leading sync bytes separate frames
		if data[0] == FrameSync {
			r.fifo.Pop(1)
			continue
		}

		n := int(data[0])
		if n < FrameMin || n > FrameMax {
			r.desync()
			continue
		}
		if len(data) < n {
			return Frame{}, false
		}
		if data[n-1] != FrameSync {
			r.desync()
			continue
		}
		crc := uint16(data[n-3])<<8 | uint16(data[n-2])
		if CRC16(data[:n-3]) != crc {
			r.desync()
			continue
		}

		m := copy(r.payload[:], data[FrameHeaderSize:n-FrameTrailerSize])
		f := Frame{Kind: data[1], Payload: r.payload[:m]}
		r.fifo.Pop(n)
		return f, true
	}
}

func (r *FrameReader) desync() {
	r.errors++
	r.synced = false
	r.fifo.Pop(1)
}
