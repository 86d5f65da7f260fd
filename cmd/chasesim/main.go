// chasesim runs the chaser headless against the recording driver and prints
// the generated levels, for eyeballing patterns without hardware.
package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/ledchase/internal/anim"
	"github.com/example/ledchase/internal/app"
	"github.com/example/ledchase/internal/driver/fake"
	"github.com/example/ledchase/internal/pwm"
)

var ramp = []rune(" .:-=+*#%@")

func bar(levels pwm.Levels) string {
	var b strings.Builder
	for _, v := range levels {
		b.WriteRune(ramp[int(v)*(len(ramp)-1)/255])
	}
	return b.String()
}

func main() {
	pattern := flag.String("pattern", "comet", "pattern: comet | bounce | breathe")
	runFor := flag.Duration("for", 5*time.Second, "how long to run")
	flag.Parse()

	pat, ok := anim.Default().New(*pattern)
	if !ok {
		fmt.Println("unknown pattern:", *pattern)
		return
	}

	drv := &fake.Driver{}
	core, err := app.InitCore(context.Background(), app.Config{
		Pattern: pat,
		Driver:  drv,
		Tick:    15 * time.Millisecond,
		Unit:    100 * time.Microsecond,
		Log:     zerolog.Nop(),
	})
	if err != nil {
		panic(err)
	}

	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()
	deadline := time.After(*runFor)
	for {
		select {
		case <-tick.C:
			levels := core.State.Levels()
			fmt.Printf("[%s] %v cycles=%d writes=%d\n", bar(levels), levels, core.Player.Cycles(), drv.Count())
		case <-deadline:
			core.Stop()
			_ = core.Wait()
			return
		}
	}
}
