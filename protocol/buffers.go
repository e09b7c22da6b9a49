package protocol

import "errors"

// ErrBufferEmpty is returned by ReadByte when no data is buffered
var ErrBufferEmpty = errors.New("buffer empty")

// ByteSource is the receive side of a single transaction.
// Implementations must never block: Available reports what can be read
// right now and ReadByte fails instead of waiting.
type ByteSource interface {
	// Available returns the number of bytes that can be read without blocking
	Available() int

	// ReadByte returns the next byte or ErrBufferEmpty
	ReadByte() (byte, error)
}

// SliceInputBuffer implements ByteSource over a byte slice
type SliceInputBuffer struct {
	data []byte
}

// NewSliceInputBuffer creates a new SliceInputBuffer
func NewSliceInputBuffer(data []byte) *SliceInputBuffer {
	return &SliceInputBuffer{data: data}
}

func (s *SliceInputBuffer) Data() []byte {
	return s.data
}

func (s *SliceInputBuffer) Available() int {
	return len(s.data)
}

func (s *SliceInputBuffer) ReadByte() (byte, error) {
	if len(s.data) == 0 {
		return 0, ErrBufferEmpty
	}
	b := s.data[0]
	s.data = s.data[1:]
	return b, nil
}

// Reset replaces the buffered data
func (s *SliceInputBuffer) Reset(data []byte) {
	s.data = data
}

// ScratchOutput accumulates an outgoing frame in a fixed-size buffer
type ScratchOutput struct {
	buf [FrameMax]byte
	pos int
}

// NewScratchOutput creates a new ScratchOutput
func NewScratchOutput() *ScratchOutput {
	return &ScratchOutput{}
}

// Output appends data, truncating at the buffer capacity
// Returns the number of bytes stored
func (s *ScratchOutput) Output(data []byte) int {
	n := copy(s.buf[s.pos:], data)
	s.pos += n
	return n
}

func (s *ScratchOutput) CurPosition() int {
	return s.pos
}

// Result returns the accumulated output data
func (s *ScratchOutput) Result() []byte {
	return s.buf[:s.pos]
}

// Reset clears the buffer
func (s *ScratchOutput) Reset() {
	s.pos = 0
}

// FifoBuffer is a circular byte buffer. It is the receive FIFO for both the
// I2C target (one transaction at a time) and the USB serial stream.
// One slot is kept free to tell full from empty, so a FifoBuffer of
// capacity n holds at most n-1 bytes.
type FifoBuffer struct {
	buf   []byte
	read  int
	write int
	size  int
}

// NewFifoBuffer creates a new FifoBuffer with the specified capacity
func NewFifoBuffer(capacity int) *FifoBuffer {
	return &FifoBuffer{
		buf:  make([]byte, capacity),
		size: capacity,
	}
}

// Write appends data to the FIFO buffer
// Returns the number of bytes accepted; the rest is dropped when full
func (f *FifoBuffer) Write(data []byte) int {
	written := 0
	for _, b := range data {
		if !f.push(b) {
			break
		}
		written++
	}
	return written
}

// WriteByte appends a single byte
func (f *FifoBuffer) WriteByte(b byte) error {
	if !f.push(b) {
		return errors.New("buffer full")
	}
	return nil
}

func (f *FifoBuffer) push(b byte) bool {
	nextWrite := (f.write + 1) % f.size
	if nextWrite == f.read {
		return false
	}
	f.buf[f.write] = b
	f.write = nextWrite
	return true
}

// ReadByte removes and returns the oldest byte
func (f *FifoBuffer) ReadByte() (byte, error) {
	if f.read == f.write {
		return 0, ErrBufferEmpty
	}
	b := f.buf[f.read]
	f.read = (f.read + 1) % f.size
	return b, nil
}

// Available returns the number of bytes available for reading
func (f *FifoBuffer) Available() int {
	if f.write >= f.read {
		return f.write - f.read
	}
	return f.size - f.read + f.write
}

// Data returns available data as a contiguous slice
// When wrapped, the two segments are copied into a new slice
func (f *FifoBuffer) Data() []byte {
	if f.read <= f.write {
		return f.buf[f.read:f.write]
	}
	avail := f.Available()
	result := make([]byte, avail)

	firstLen := f.size - f.read
	copy(result, f.buf[f.read:])
	copy(result[firstLen:], f.buf[:f.write])

	return result
}

// Pop removes n bytes from the front
func (f *FifoBuffer) Pop(n int) {
	for i := 0; i < n && f.read != f.write; i++ {
		f.read = (f.read + 1) % f.size
	}
}

// Reset clears the buffer
func (f *FifoBuffer) Reset() {
	f.read = 0
	f.write = 0
}
