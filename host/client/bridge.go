package client

import (
	"io"
	"time"

	"github.com/pkg/errors"

	"pwmnode/protocol"
)

// ErrTimeout is returned when the node does not answer a read
var ErrTimeout = errors.New("timed out waiting for reply")

// BridgeTransport carries transactions over the node's USB serial bridge
type BridgeTransport struct {
	port    io.ReadWriteCloser
	reader  *protocol.FrameReader
	timeout time.Duration
	tag     byte
	buf     [64]byte
}

// NewBridgeTransport wraps an open serial port. timeout bounds the wait
// for a read reply.
func NewBridgeTransport(port io.ReadWriteCloser, timeout time.Duration) *BridgeTransport {
	return &BridgeTransport{
		port:    port,
		reader:  protocol.NewFrameReader(256),
		timeout: timeout,
	}
}

func (t *BridgeTransport) Write(p []byte) error {
	return t.writeFrame(protocol.KindWrite, p)
}

// Read sends a tagged read frame and waits for the reply carrying the
// same tag. Replies to earlier reads that timed out are discarded.
func (t *BridgeTransport) Read(n int) ([]byte, error) {
	t.reader.Reset()
	t.tag++
	if err := t.writeFrame(protocol.KindRead, []byte{t.tag}); err != nil {
		return nil, err
	}

	deadline := time.Now().Add(t.timeout)
	for {
		for {
			f, ok := t.reader.Next()
			if !ok {
				break
			}
			if f.Kind != protocol.KindRead|protocol.KindReply || len(f.Payload) == 0 || f.Payload[0] != t.tag {
				continue
			}
			resp := append([]byte(nil), f.Payload[1:]...)
			if len(resp) > n {
				resp = resp[:n]
			}
			return resp, nil
		}

		if time.Now().After(deadline) {
			return nil, ErrTimeout
		}
		m, err := t.port.Read(t.buf[:])
		if err != nil && err != io.EOF {
			return nil, errors.Wrap(err, "read reply")
		}
		t.reader.Write(t.buf[:m])
	}
}

// WriteLED sends a colour frame
func (t *BridgeTransport) WriteLED(channel int, r, g, b uint8) error {
	return t.writeFrame(protocol.KindLED, []byte{byte(channel), r, g, b})
}

func (t *BridgeTransport) Close() error {
	return t.port.Close()
}

func (t *BridgeTransport) writeFrame(kind byte, payload []byte) error {
	frame, err := protocol.AppendFrame(nil, kind, payload)
	if err != nil {
		return err
	}
	if _, err := t.port.Write(frame); err != nil {
		return errors.Wrap(err, "write frame")
	}
	return nil
}
