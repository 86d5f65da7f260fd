package anim

import "github.com/example/ledchase/internal/pwm"

// Bounce drives a single full-brightness channel from one end of the bank to
// the other and back again.
type Bounce struct {
	current   int
	direction int
}

func NewBounce() *Bounce { return &Bounce{direction: 1} }

func (b *Bounce) Name() string { return "bounce" }

func (b *Bounce) Tick() pwm.Levels {
	var l pwm.Levels
	l[b.current] = 255

	b.current += b.direction
	if b.current == pwm.NumChannels {
		b.current = pwm.NumChannels - 2
		b.direction = -1
	}
	if b.current == -1 {
		b.current = 1
		b.direction = 1
	}
	return l
}
