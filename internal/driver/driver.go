// Package driver abstracts the serial output channel the player writes masks to.
package driver

// MaskShift positions the 8-bit channel mask in the high byte of the 32-bit
// word handed to a Driver, matching the left-aligned layout the shift-register
// peripheral expects on its input FIFO.
const MaskShift = 24

// Driver abstracts a shift-register output sink.
type Driver interface {
	// Write pushes one mask word to the peripheral.
	Write(word uint32) error
	// Close releases resources.
	Close() error
}

// Mask extracts the channel mask from a word in the wire layout.
func Mask(word uint32) uint8 { return uint8(word >> MaskShift) }

// Word packs a channel mask into the wire layout.
func Word(mask uint8) uint32 { return uint32(mask) << MaskShift }
