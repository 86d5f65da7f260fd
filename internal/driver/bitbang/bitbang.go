// Package bitbang drives a 74HC595-style shift register over three plain GPIO
// lines: serial data, shift clock and storage (latch) clock.
package bitbang

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"

	"github.com/example/ledchase/internal/driver"
)

// Dev bit-bangs one byte per Write. Both register clocks trigger on the
// rising edge, so each pulse is a High followed by a Low.
type Dev struct {
	mu    sync.Mutex
	data  gpio.PinOut
	clock gpio.PinOut
	latch gpio.PinOut
}

// New looks up the three pins by name (e.g. "GPIO2") and drives them low.
func New(dataPin, clockPin, latchPin string) (*Dev, error) {
	d := &Dev{}
	for _, p := range []struct {
		name string
		dst  *gpio.PinOut
	}{
		{dataPin, &d.data},
		{clockPin, &d.clock},
		{latchPin, &d.latch},
	} {
		pin := gpioreg.ByName(p.name)
		if pin == nil {
			return nil, fmt.Errorf("bitbang: no such pin %q", p.name)
		}
		if err := pin.Out(gpio.Low); err != nil {
			return nil, fmt.Errorf("bitbang: init %q: %w", p.name, err)
		}
		*p.dst = pin
	}
	return d, nil
}

// Write shifts the word's mask byte out MSB first, then pulses the latch once
// to present the new byte on the register outputs.
func (d *Dev) Write(word uint32) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	mask := driver.Mask(word)
	for i := 7; i >= 0; i-- {
		bit := gpio.Low
		if mask&(1<<uint(i)) != 0 {
			bit = gpio.High
		}
		if err := d.data.Out(bit); err != nil {
			return fmt.Errorf("bitbang: data: %w", err)
		}
		if err := d.pulse(d.clock); err != nil {
			return fmt.Errorf("bitbang: clock: %w", err)
		}
	}
	if err := d.pulse(d.latch); err != nil {
		return fmt.Errorf("bitbang: latch: %w", err)
	}
	return nil
}

func (d *Dev) pulse(p gpio.PinOut) error {
	if err := p.Out(gpio.High); err != nil {
		return err
	}
	return p.Out(gpio.Low)
}

// Close drives all outputs low so the register holds a dark bank.
func (d *Dev) Close() error {
	if err := d.Write(0); err != nil {
		return err
	}
	return nil
}

var _ driver.Driver = &Dev{}
