package player

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/ledchase/internal/driver"
	"github.com/example/ledchase/internal/driver/fake"
	"github.com/example/ledchase/internal/pwm"
)

// fakeClock records requested durations and fires a callback per sleep, so
// tests can mutate state mid-cycle or stop the player at a precise step.
type fakeClock struct {
	mu      sync.Mutex
	sleeps  []time.Duration
	onSleep func(n int)
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	c.mu.Lock()
	c.sleeps = append(c.sleeps, d)
	n := len(c.sleeps)
	cb := c.onSleep
	c.mu.Unlock()
	if cb != nil {
		cb(n)
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

func (c *fakeClock) durations() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]time.Duration, len(c.sleeps))
	copy(out, c.sleeps)
	return out
}

func TestPlayerReplaysTableWithTiming(t *testing.T) {
	levels := pwm.Levels{10, 20, 30, 40, 50, 60, 70, 80}
	table := pwm.Encode(levels)

	state := pwm.NewState()
	state.Write(levels, table)

	drv := &fake.Driver{}
	ctx, cancel := context.WithCancel(context.Background())
	clk := &fakeClock{onSleep: func(n int) {
		if n == 2*pwm.StepCount {
			cancel()
		}
	}}

	p := New(state, drv, clk, time.Millisecond, zerolog.Nop())
	err := p.Run(ctx)
	if err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	words := drv.Words()
	if len(words) != 2*pwm.StepCount {
		t.Fatalf("expected %d writes over two cycles, got %d", 2*pwm.StepCount, len(words))
	}
	sleeps := clk.durations()
	for cycle := 0; cycle < 2; cycle++ {
		for i, step := range table {
			j := cycle*pwm.StepCount + i
			if words[j] != driver.Word(step.Mask) {
				t.Fatalf("cycle %d step %d: wrote %#08x, want mask %#02x in high byte", cycle, i, words[j], step.Mask)
			}
			if want := time.Duration(step.Length) * time.Millisecond; sleeps[j] != want {
				t.Fatalf("cycle %d step %d: slept %v, want %v", cycle, i, sleeps[j], want)
			}
		}
	}
	if p.Cycles() != 1 {
		// Cancellation lands on the last sleep of cycle two, before the
		// cycle counter advances.
		t.Fatalf("expected 1 completed cycle, got %d", p.Cycles())
	}
}

func TestPlayerSnapshotPerCycle(t *testing.T) {
	levelsA := pwm.Levels{1, 2, 3, 4, 5, 6, 7, 8}
	levelsB := pwm.Levels{200, 190, 180, 170, 160, 150, 140, 130}
	tableA := pwm.Encode(levelsA)
	tableB := pwm.Encode(levelsB)

	state := pwm.NewState()
	state.Write(levelsA, tableA)

	drv := &fake.Driver{}
	ctx, cancel := context.WithCancel(context.Background())
	clk := &fakeClock{}
	clk.onSleep = func(n int) {
		// Publish a new table in the middle of the first cycle. The player
		// must keep replaying tableA until the cycle completes.
		if n == 3 {
			state.Write(levelsB, tableB)
		}
		if n == 2*pwm.StepCount {
			cancel()
		}
	}

	p := New(state, drv, clk, time.Millisecond, zerolog.Nop())
	if err := p.Run(ctx); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	words := drv.Words()
	if len(words) != 2*pwm.StepCount {
		t.Fatalf("expected %d writes, got %d", 2*pwm.StepCount, len(words))
	}
	for i := 0; i < pwm.StepCount; i++ {
		if words[i] != driver.Word(tableA[i].Mask) {
			t.Fatalf("first cycle step %d leaked the mid-cycle update", i)
		}
		if words[pwm.StepCount+i] != driver.Word(tableB[i].Mask) {
			t.Fatalf("second cycle step %d did not pick up the new table", i)
		}
	}
}

func TestPlayerStopsOnWriteError(t *testing.T) {
	state := pwm.NewState()
	clk := &fakeClock{}
	p := New(state, failingDriver{}, clk, time.Millisecond, zerolog.Nop())
	if err := p.Run(context.Background()); err == nil {
		t.Fatal("expected the driver error to be fatal")
	}
}

type failingDriver struct{}

func (failingDriver) Write(uint32) error { return errWrite }
func (failingDriver) Close() error       { return nil }

var errWrite = &writeError{}

type writeError struct{}

func (*writeError) Error() string { return "tx overrun" }
