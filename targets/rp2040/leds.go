//go:build rp2040

package main

import (
	"image/color"
	"machine"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"
	"github.com/tinygo-org/pio/rp2-pio/piolib"
	"tinygo.org/x/drivers/ws2812"

	"pwmnode/core"
	"pwmnode/lighting"
	"pwmnode/storage"
)

// pioStrip drives a WS2812B chain from a PIO state machine
type pioStrip struct {
	ws  *piolib.WS2812B
	raw [lighting.LEDsPerChannel]uint32
}

func newPIOStrip(smNum uint8, pin machine.Pin) (*pioStrip, error) {
	sm := rp2pio.PIO0.StateMachine(smNum)
	sm.TryClaim()
	ws, err := piolib.NewWS2812B(sm, pin)
	if err != nil {
		return nil, err
	}
	return &pioStrip{ws: ws}, nil
}

func (s *pioStrip) WriteColors(buf []color.RGBA) error {
	raw := s.raw[:0]
	for _, c := range buf {
		raw = append(raw, uint32(c.G)<<24|uint32(c.R)<<16|uint32(c.B)<<8)
	}
	return s.ws.WriteRaw(raw)
}

// Status pixel colours
var (
	statusOK       = color.RGBA{G: 0x20, A: 0xFF}
	statusOff      = color.RGBA{R: 0x20, G: 0x10, A: 0xFF}
	statusStarting = color.RGBA{B: 0x20, A: 0xFF}
)

// ledService owns the strips, the lighting controller and the status pixel
type ledService struct {
	ctl    *lighting.Controller
	status ws2812.Device
	pixel  [1]color.RGBA
}

func initLEDs(store *storage.Store) *ledService {
	var strips [lighting.NumLEDChannels]lighting.Strip
	for i, pin := range [lighting.NumLEDChannels]machine.Pin{ledStrip1Pin, ledStrip2Pin} {
		strip, err := newPIOStrip(uint8(i), pin)
		if err != nil {
			core.DebugPrintln("[LED] Error: strip " + itoa(i) + ": " + err.Error())
			continue
		}
		strips[i] = strip
	}

	var records lighting.RecordStore
	if store != nil {
		records = store
	}

	l := &ledService{ctl: lighting.NewController(records, strips)}
	if err := l.ctl.Load(); err != nil {
		core.DebugPrintln("[LED] Error: load: " + err.Error())
	}

	statusPixel.Configure(machine.PinConfig{Mode: machine.PinOutput})
	l.status = ws2812.New(statusPixel)
	l.setStatus(statusStarting)
	return l
}

// setLED handles a colour from the bridge. Black turns the channel off.
func (l *ledService) setLED(channel int, r, g, b uint8) error {
	rec := storage.ChannelRecord{Mode: storage.ModeStatic, R: r, G: g, B: b}
	if r == 0 && g == 0 && b == 0 {
		rec = storage.ChannelRecord{}
	}
	return l.ctl.SetChannel(channel, rec)
}

// refresh renders changed channels, called from the LED timer
func (l *ledService) refresh() {
	if !l.ctl.Update() {
		return
	}
	if err := l.ctl.Render(); err != nil {
		core.DebugPrintln("[LED] Error: render: " + err.Error())
	}
}

func (l *ledService) setStatus(c color.RGBA) {
	if l.pixel[0] == c {
		return
	}
	// Left unchanged on failure so the next heartbeat retries
	if err := l.status.WriteColors([]color.RGBA{c}); err != nil {
		core.DebugPrintln("[LED] Error: status pixel: " + err.Error())
		return
	}
	l.pixel[0] = c
}
