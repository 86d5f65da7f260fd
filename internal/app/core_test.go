package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/ledchase/internal/anim"
	"github.com/example/ledchase/internal/driver/fake"
	"github.com/example/ledchase/internal/pwm"
)

func TestInitCoreRequiresPatternAndDriver(t *testing.T) {
	if _, err := InitCore(context.Background(), Config{Driver: &fake.Driver{}, Log: zerolog.Nop()}); err == nil {
		t.Fatal("expected error for missing pattern")
	}
	if _, err := InitCore(context.Background(), Config{Pattern: anim.NewComet(), Log: zerolog.Nop()}); err == nil {
		t.Fatal("expected error for missing driver")
	}
}

func TestCoreRunsAndStopsCleanly(t *testing.T) {
	drv := &fake.Driver{}
	core, err := InitCore(context.Background(), Config{
		Pattern: anim.NewComet(),
		Driver:  drv,
		Tick:    time.Millisecond,
		Unit:    time.Microsecond,
		Log:     zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("init: %v", err)
	}

	time.Sleep(50 * time.Millisecond)
	core.Stop()
	if err := core.Wait(); err != nil {
		t.Fatalf("expected clean shutdown, got %v", err)
	}

	if core.Player.Cycles() == 0 {
		t.Fatal("player never completed a cycle")
	}
	if drv.Count() < pwm.StepCount {
		t.Fatalf("expected at least one full table of writes, got %d", drv.Count())
	}
	// The generator ran: the state is no longer the all-dark boot table.
	if core.State.Levels() == (pwm.Levels{}) {
		t.Fatal("generator never committed levels")
	}
}

type deadDriver struct{}

func (deadDriver) Write(uint32) error { return errors.New("tx overrun") }
func (deadDriver) Close() error       { return nil }

func TestCoreStopAfterPlayerError(t *testing.T) {
	core, err := InitCore(context.Background(), Config{
		Pattern: anim.NewComet(),
		Driver:  deadDriver{},
		Tick:    time.Millisecond,
		Unit:    time.Microsecond,
		Log:     zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := core.Wait(); err == nil {
		t.Fatal("expected the driver error to surface")
	}
	// Stop after the player already died must still halt the generator and
	// must not panic.
	core.Stop()
}
