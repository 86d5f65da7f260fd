package anim

import (
	"math"

	"github.com/example/ledchase/internal/pwm"
)

const (
	// DefaultStepSize is how far the comet head travels per tick, in channel
	// units. At a 15ms tick it takes ~4s for a full loop around the bank.
	DefaultStepSize = 0.03

	tailRampStart = 0.4
	tailRampGain  = 1.667
)

// Comet sweeps a bright head around the eight channels with a dimmer tail
// chasing it. The phase is a cyclic float position in [0, 8).
type Comet struct {
	pos    float64
	step   float64
	levels pwm.Levels
}

func NewComet() *Comet { return &Comet{step: DefaultStepSize} }

func (c *Comet) Name() string { return "comet" }

// SetStepSize overrides the per-tick phase advance. Zero or negative values
// are ignored.
func (c *Comet) SetStepSize(s float64) {
	if s > 0 {
		c.step = s
	}
}

// Position returns the current phase, for inspection.
func (c *Comet) Position() float64 { return c.pos }

// Tick derives the three affected levels from the current phase and advances
// it. Channels outside the head/tail window keep whatever they faded to,
// which is zero once the head has passed them.
func (c *Comet) Tick() pwm.Levels {
	idx := int(math.Floor(c.pos))
	frac := c.pos - float64(idx)

	prev := (idx + pwm.NumChannels - 1) % pwm.NumChannels
	next := (idx + 1) % pwm.NumChannels

	c.levels[prev] = 0
	c.levels[idx] = clampLevel(math.Round(255 * (1 - frac)))
	// The trailing channel only lights once the head is 40% into its cell.
	// Below that the raw expression is negative and clamps to zero; the
	// unsigned wraparound this produced upstream was a defect, not behavior.
	c.levels[next] = clampLevel(math.Round(255 * (frac - tailRampStart) * tailRampGain))

	c.pos = math.Mod(c.pos+c.step, pwm.NumChannels)
	return c.levels
}

func clampLevel(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
