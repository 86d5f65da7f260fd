// Package shift drives a 74HC595-style shift register over SPI: data to SER,
// SCLK to SRCLK, and chip-select doubling as the RCLK latch, so one 1-byte
// transaction shifts the mask in and presents it on the outputs.
package shift

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"

	"github.com/example/ledchase/internal/driver"
)

// Opts configures the SPI connection.
type Opts struct {
	// Freq is the SPI clock. The 74HC595 shifts comfortably into the MHz
	// range; defaults to 1MHz.
	Freq physic.Frequency
}

// Dev is an open shift-register device.
type Dev struct {
	mu   sync.Mutex
	c    spi.Conn
	port spi.PortCloser // set only when the device owns the port
}

// New prepares a shift-register driver on an already-open SPI port.
func New(p spi.Port, o *Opts) (*Dev, error) {
	freq := physic.MegaHertz
	if o != nil && o.Freq != 0 {
		freq = o.Freq
	}
	c, err := p.Connect(freq, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("shift: connect: %w", err)
	}
	return &Dev{c: c}, nil
}

// Open opens the named SPI port (e.g. "/dev/spidev0.0", or "" for the first
// registered port) and prepares a driver on it. Close releases the port.
func Open(name string, o *Opts) (*Dev, error) {
	p, err := spireg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("shift: open %q: %w", name, err)
	}
	d, err := New(p, o)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	d.port = p
	return d, nil
}

func (d *Dev) String() string { return fmt.Sprintf("shift{%s}", d.c) }

// Write shifts the word's mask byte out MSB first. The trailing chip-select
// edge latches it onto the register outputs.
func (d *Dev) Write(word uint32) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.c.Tx([]byte{driver.Mask(word)}, nil); err != nil {
		return fmt.Errorf("shift: tx: %w", err)
	}
	return nil
}

func (d *Dev) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.port != nil {
		err := d.port.Close()
		d.port = nil
		return err
	}
	return nil
}

var _ driver.Driver = &Dev{}
