// Package player replays encoded step tables onto the output driver.
package player

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/ledchase/internal/driver"
	"github.com/example/ledchase/internal/pwm"
)

// DefaultUnit is the playback duration of one abstract period unit, so a full
// 255-unit table takes 25.5ms (~39 refreshes per second).
const DefaultUnit = 100 * time.Microsecond

// Player consumes the shared state: once per outer cycle it snapshots the
// current table and replays its nine steps with per-step timing.
type Player struct {
	state  *pwm.State
	drv    driver.Driver
	clk    Clock
	unit   time.Duration
	log    zerolog.Logger
	cycles atomic.Uint64
}

func New(state *pwm.State, drv driver.Driver, clk Clock, unit time.Duration, log zerolog.Logger) *Player {
	if clk == nil {
		clk = SystemClock()
	}
	if unit <= 0 {
		unit = DefaultUnit
	}
	return &Player{state: state, drv: drv, clk: clk, unit: unit, log: log}
}

// Run loops until the context is cancelled or a driver write fails (fatal).
//
// The snapshot is taken once per cycle, not per step: a table written
// mid-cycle becomes visible at the start of the next cycle. Playback may lag
// the generator by up to one cycle and may skip tables entirely, but it never
// mixes steps from two encodings. The lock is released before any write or
// sleep.
func (p *Player) Run(ctx context.Context) error {
	p.log.Debug().Dur("unit", p.unit).Msg("playback started")
	for {
		table := p.state.Snapshot()
		for _, step := range table {
			if err := p.drv.Write(driver.Word(step.Mask)); err != nil {
				p.log.Error().Err(err).Uint8("mask", step.Mask).Msg("driver write failed")
				return err
			}
			if err := p.clk.Sleep(ctx, time.Duration(step.Length)*p.unit); err != nil {
				return err
			}
		}
		p.cycles.Add(1)
	}
}

// Cycles reports how many full tables have been replayed.
func (p *Player) Cycles() uint64 { return p.cycles.Load() }
