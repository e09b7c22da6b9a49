package storage

import "errors"

var ErrOutOfRange = errors.New("storage: address out of range")

// Memory is a RAM-backed EEPROM. It starts erased (all 0xFF).
type Memory struct {
	data []byte
}

// NewMemory creates an erased memory device of size bytes
func NewMemory(size int) *Memory {
	m := &Memory{data: make([]byte, size)}
	for i := range m.data {
		m.data[i] = 0xFF
	}
	return m
}

func (m *Memory) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(p)) > int64(len(m.data)) {
		return 0, ErrOutOfRange
	}
	return copy(p, m.data[off:]), nil
}

func (m *Memory) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(p)) > int64(len(m.data)) {
		return 0, ErrOutOfRange
	}
	return copy(m.data[off:], p), nil
}

// Bytes returns the raw contents
func (m *Memory) Bytes() []byte {
	return m.data
}
