// Package lighting drives the addressable LED channels with a static
// colour per channel.
package lighting

import (
	"errors"
	"image/color"

	"pwmnode/storage"
)

const (
	NumLEDChannels = 2
	LEDsPerChannel = 96
)

var ErrInvalidChannel = errors.New("lighting: invalid channel")

// Strip is one chain of addressable LEDs
type Strip interface {
	WriteColors(buf []color.RGBA) error
}

// RecordStore persists channel records
type RecordStore interface {
	Load(index int) (storage.ChannelRecord, bool, error)
	Save(index int, rec storage.ChannelRecord) error
}

type channel struct {
	strip  Strip
	record storage.ChannelRecord
	leds   [LEDsPerChannel]color.RGBA
	dirty  bool
}

// Controller owns the LED channels. It is only used from the main loop.
type Controller struct {
	store    RecordStore
	channels [NumLEDChannels]channel
}

// NewController creates a controller. A nil strip leaves its channel
// unrendered; a nil store disables persistence.
func NewController(store RecordStore, strips [NumLEDChannels]Strip) *Controller {
	c := &Controller{store: store}
	for i := range c.channels {
		c.channels[i].strip = strips[i]
		c.channels[i].dirty = true
	}
	return c
}

// Load reads every channel record from the store. Blank slots leave the
// channel off.
func (c *Controller) Load() error {
	if c.store == nil {
		return nil
	}
	for i := range c.channels {
		rec, _, err := c.store.Load(i)
		if err != nil {
			return err
		}
		c.channels[i].record = rec
		c.channels[i].dirty = true
	}
	return nil
}

// SetChannel stores a record, persists it and schedules a re-render
func (c *Controller) SetChannel(index int, rec storage.ChannelRecord) error {
	if index < 0 || index >= NumLEDChannels {
		return ErrInvalidChannel
	}
	ch := &c.channels[index]
	if ch.record == rec {
		return nil
	}
	ch.record = rec
	ch.dirty = true
	if c.store != nil {
		return c.store.Save(index, rec)
	}
	return nil
}

// Channel returns the current record of a channel
func (c *Controller) Channel(index int) storage.ChannelRecord {
	if index < 0 || index >= NumLEDChannels {
		return storage.ChannelRecord{}
	}
	return c.channels[index].record
}

// Update fills the LED buffers of changed channels and reports whether
// anything needs to be rendered. Channels without a strip are skipped.
func (c *Controller) Update() bool {
	pending := false
	for i := range c.channels {
		ch := &c.channels[i]
		if !ch.dirty || ch.strip == nil {
			continue
		}
		col := colorOf(ch.record)
		for j := range ch.leds {
			ch.leds[j] = col
		}
		pending = true
	}
	return pending
}

// Render writes every changed channel to its strip. A channel whose write
// fails stays pending and is retried on the next call.
func (c *Controller) Render() error {
	var err error
	for i := range c.channels {
		ch := &c.channels[i]
		if !ch.dirty || ch.strip == nil {
			continue
		}
		if werr := ch.strip.WriteColors(ch.leds[:]); werr != nil {
			err = werr
			continue
		}
		ch.dirty = false
	}
	return err
}

func colorOf(rec storage.ChannelRecord) color.RGBA {
	if rec.Mode != storage.ModeStatic {
		return color.RGBA{}
	}
	return color.RGBA{R: rec.R, G: rec.G, B: rec.B, A: 0xFF}
}
