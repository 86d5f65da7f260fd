// Package fake records written words, for headless runs and tests.
package fake

import (
	"sync"

	"github.com/example/ledchase/internal/driver"
)

type Driver struct {
	mu    sync.Mutex
	words []uint32
}

func (d *Driver) Write(word uint32) error {
	d.mu.Lock()
	d.words = append(d.words, word)
	d.mu.Unlock()
	return nil
}

func (d *Driver) Close() error { return nil }

// Words returns a copy of everything written so far.
func (d *Driver) Words() []uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]uint32, len(d.words))
	copy(out, d.words)
	return out
}

// Count returns the number of writes so far.
func (d *Driver) Count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.words)
}

var _ driver.Driver = &Driver{}
