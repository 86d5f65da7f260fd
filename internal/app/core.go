// Package app wires the shared state, the level generator task and the
// playback task together.
package app

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/ledchase/internal/anim"
	"github.com/example/ledchase/internal/driver"
	"github.com/example/ledchase/internal/player"
	"github.com/example/ledchase/internal/pwm"
)

// DefaultTick is the level generator's refresh interval.
const DefaultTick = 15 * time.Millisecond

// Config carries the pieces InitCore wires together. Pattern and Driver are
// required; zero timing values fall back to defaults.
type Config struct {
	Pattern anim.Pattern
	Driver  driver.Driver
	Tick    time.Duration
	Unit    time.Duration
	Log     zerolog.Logger
}

// Core owns the two long-running tasks and the state they share.
type Core struct {
	State  *pwm.State
	Player *player.Player

	cancel context.CancelFunc
	errc   chan error
}

// InitCore creates the shared state (dark bank, valid table) and starts the
// generator and player goroutines. The generator derives fresh levels each
// tick, encodes them, and commits both in one locked write; the player
// replays one snapshot per cycle. Stop the core by cancelling via Stop or
// the parent context.
func InitCore(ctx context.Context, c Config) (*Core, error) {
	if c.Pattern == nil {
		return nil, errors.New("app: no pattern")
	}
	if c.Driver == nil {
		return nil, errors.New("app: no driver")
	}
	tick := c.Tick
	if tick <= 0 {
		tick = DefaultTick
	}

	state := pwm.NewState()
	p := player.New(state, c.Driver, player.SystemClock(), c.Unit, c.Log)

	ctx, cancel := context.WithCancel(ctx)
	core := &Core{
		State:  state,
		Player: p,
		cancel: cancel,
		errc:   make(chan error, 1),
	}

	go func() {
		t := time.NewTicker(tick)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				levels := c.Pattern.Tick()
				state.Write(levels, pwm.Encode(levels))
			}
		}
	}()

	go func() {
		core.errc <- p.Run(ctx)
	}()

	c.Log.Info().
		Str("pattern", c.Pattern.Name()).
		Dur("tick", tick).
		Msg("core started")
	return core, nil
}

// Stop cancels both tasks.
func (c *Core) Stop() { c.cancel() }

// Wait blocks until the player exits and returns its error. Cancellation is a
// clean shutdown and reports nil.
func (c *Core) Wait() error {
	err := <-c.errc
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
