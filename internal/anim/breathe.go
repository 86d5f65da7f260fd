package anim

import "github.com/example/ledchase/internal/pwm"

// Breathe ramps the whole bank up to full brightness and back down in a
// triangle wave.
type Breathe struct {
	level     int
	direction int
	rate      int
}

func NewBreathe() *Breathe { return &Breathe{direction: 1, rate: 4} }

func (b *Breathe) Name() string { return "breathe" }

func (b *Breathe) Tick() pwm.Levels {
	b.level += b.direction * b.rate
	if b.level >= 255 {
		b.level = 255
		b.direction = -1
	}
	if b.level <= 0 {
		b.level = 0
		b.direction = 1
	}

	var l pwm.Levels
	for i := range l {
		l[i] = uint8(b.level)
	}
	return l
}
