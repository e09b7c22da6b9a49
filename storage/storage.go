// Package storage keeps small fixed-size records in an external EEPROM.
//
// Layout:
//
//	0x0000  device ID (4 bytes)
//	0x0004  LED channel record 0
//	0x0004 + n*ChannelRecordSize  LED channel record n
package storage

import (
	"errors"
	"io"
)

const (
	DeviceIDAddress   = 0
	DeviceIDSize      = 4
	ChannelBase       = DeviceIDAddress + DeviceIDSize
	ChannelRecordSize = 6
	recordMagic       = 0xA5
)

var (
	ErrInvalidIndex = errors.New("storage: record index out of range")
	ErrShortIO      = errors.New("storage: short read or write")
)

// EEPROM is the byte-addressed backing device. tinygo.org/x/drivers/at24cx
// satisfies it.
type EEPROM interface {
	io.ReaderAt
	io.WriterAt
}

// DeviceID identifies one board across reboots
type DeviceID [DeviceIDSize]byte

// Blank reports whether the ID was never written
func (id DeviceID) Blank() bool {
	return id == DeviceID{} || id == DeviceID{0xFF, 0xFF, 0xFF, 0xFF}
}

// Mode of one LED channel
type Mode uint8

const (
	ModeOff Mode = iota
	ModeStatic
)

// ChannelRecord is the persisted state of one LED channel
type ChannelRecord struct {
	Mode    Mode
	R, G, B uint8
}

func (r ChannelRecord) encode() [ChannelRecordSize]byte {
	b := [ChannelRecordSize]byte{recordMagic, byte(r.Mode), r.R, r.G, r.B}
	b[5] = checksum(b[:5])
	return b
}

// decodeRecord returns the zero record for blank or damaged bytes
func decodeRecord(b []byte) (ChannelRecord, bool) {
	if b[0] != recordMagic || checksum(b[:5]) != b[5] || Mode(b[1]) > ModeStatic {
		return ChannelRecord{}, false
	}
	return ChannelRecord{Mode: Mode(b[1]), R: b[2], G: b[3], B: b[4]}, true
}

func checksum(b []byte) byte {
	var sum byte
	for _, v := range b {
		sum = sum<<1 | sum>>7
		sum ^= v
	}
	return sum
}

// Store reads and writes records for a fixed number of LED channels
type Store struct {
	dev      EEPROM
	channels int
}

// New creates a store for the given number of LED channels
func New(dev EEPROM, channels int) *Store {
	return &Store{dev: dev, channels: channels}
}

// Size returns the number of EEPROM bytes used by channel records
func (s *Store) Size() int {
	return ChannelRecordSize * s.channels
}

// LoadDeviceID reads the stored device ID
func (s *Store) LoadDeviceID() (DeviceID, error) {
	var id DeviceID
	if err := s.readAt(id[:], DeviceIDAddress); err != nil {
		return DeviceID{}, err
	}
	return id, nil
}

// SaveDeviceID writes the device ID
func (s *Store) SaveDeviceID(id DeviceID) error {
	return s.writeAt(id[:], DeviceIDAddress)
}

// EnsureDeviceID returns the stored device ID, writing a new one derived
// from seed if the EEPROM holds none.
func (s *Store) EnsureDeviceID(seed uint32) (DeviceID, error) {
	id, err := s.LoadDeviceID()
	if err != nil {
		return DeviceID{}, err
	}
	if !id.Blank() {
		return id, nil
	}

	id = DeviceID{byte(seed >> 24), byte(seed >> 16), byte(seed >> 8), byte(seed)}
	if id.Blank() {
		id[3] = 0x01
	}
	if err := s.SaveDeviceID(id); err != nil {
		return DeviceID{}, err
	}
	return id, nil
}

// Load reads one channel record. A blank or damaged slot yields the zero
// record (channel off) and ok false.
func (s *Store) Load(index int) (rec ChannelRecord, ok bool, err error) {
	if index < 0 || index >= s.channels {
		return ChannelRecord{}, false, ErrInvalidIndex
	}
	var buf [ChannelRecordSize]byte
	if err := s.readAt(buf[:], recordAddress(index)); err != nil {
		return ChannelRecord{}, false, err
	}
	rec, ok = decodeRecord(buf[:])
	return rec, ok, nil
}

// Save writes one channel record
func (s *Store) Save(index int, rec ChannelRecord) error {
	if index < 0 || index >= s.channels {
		return ErrInvalidIndex
	}
	buf := rec.encode()
	return s.writeAt(buf[:], recordAddress(index))
}

func recordAddress(index int) int64 {
	return int64(ChannelBase + index*ChannelRecordSize)
}

func (s *Store) readAt(p []byte, off int64) error {
	n, err := s.dev.ReadAt(p, off)
	if err != nil {
		return err
	}
	if n != len(p) {
		return ErrShortIO
	}
	return nil
}

func (s *Store) writeAt(p []byte, off int64) error {
	n, err := s.dev.WriteAt(p, off)
	if err != nil {
		return err
	}
	if n != len(p) {
		return ErrShortIO
	}
	return nil
}
