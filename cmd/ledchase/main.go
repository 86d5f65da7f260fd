package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/example/ledchase/internal/anim"
	"github.com/example/ledchase/internal/app"
	"github.com/example/ledchase/internal/config"
	"github.com/example/ledchase/internal/driver"
	"github.com/example/ledchase/internal/driver/bitbang"
	"github.com/example/ledchase/internal/driver/shift"
	"github.com/example/ledchase/internal/driver/term"
	"github.com/example/ledchase/internal/mon"
)

func main() {
	// ---- Flags (config.yaml can override most) ----
	var (
		drvName    = flag.String("driver", "", "driver: spi | gpio | term")
		pattern    = flag.String("pattern", "", "pattern: comet | bounce | breathe")
		tickMs     = flag.Int("tick-ms", 0, "animation tick interval (ms)")
		stepSize   = flag.Float64("step-size", 0, "comet phase advance per tick")
		unitUs     = flag.Int("unit-us", 0, "playback µs per period unit")
		addr       = flag.String("addr", "", "monitor HTTP listen address")
		configPath = flag.String("config", "config.yaml", "path to config.yaml")
		debug      = flag.Bool("debug", false, "debug logging")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	// ---- Effective config: defaults <- config.yaml <- flags ----
	cfg := config.Default()
	if c, err := config.Load(*configPath); err != nil {
		log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; proceeding with defaults")
	} else {
		cfg = c
	}
	if *drvName != "" {
		cfg.Driver = *drvName
	}
	if *pattern != "" {
		cfg.Pattern = *pattern
	}
	if *tickMs > 0 {
		cfg.TickMs = *tickMs
	}
	if *stepSize > 0 {
		cfg.StepSize = *stepSize
	}
	if *unitUs > 0 {
		cfg.StepUnitUs = *unitUs
	}
	if *addr != "" {
		cfg.Addr = *addr
	}

	// ---- Hardware bring-up ----
	if _, err := host.Init(); err != nil {
		log.Fatal().Err(err).Msg("host init failed")
	}

	// ---- Driver selection, falling back to the terminal preview ----
	var drv driver.Driver
	switch cfg.Driver {
	case "spi":
		d, err := shift.Open(cfg.SPI.Dev, &shift.Opts{Freq: physic.Frequency(cfg.SPI.SpeedHz) * physic.Hertz})
		if err != nil {
			log.Warn().Err(err).Str("dev", cfg.SPI.Dev).Msg("SPI init failed; falling back to terminal")
			drv = term.New()
		} else {
			drv = d
		}
	case "gpio":
		d, err := bitbang.New(cfg.Pins.Data, cfg.Pins.Clock, cfg.Pins.Latch)
		if err != nil {
			log.Warn().Err(err).Msg("GPIO init failed; falling back to terminal")
			drv = term.New()
		} else {
			drv = d
		}
	case "term":
		drv = term.New()
	default:
		log.Warn().Str("driver", cfg.Driver).Msg("unknown driver; using terminal")
		drv = term.New()
	}

	// ---- Pattern ----
	pat, ok := anim.Default().New(cfg.Pattern)
	if !ok {
		log.Warn().Str("pattern", cfg.Pattern).Msg("unknown pattern; using comet")
		pat = anim.NewComet()
	}
	if c, ok := pat.(*anim.Comet); ok {
		c.SetStepSize(cfg.StepSize)
	}

	// ---- Core ----
	ctx := context.Background()
	core, err := app.InitCore(ctx, app.Config{
		Pattern: pat,
		Driver:  drv,
		Tick:    time.Duration(cfg.TickMs) * time.Millisecond,
		Unit:    time.Duration(cfg.StepUnitUs) * time.Microsecond,
		Log:     log.With().Str("component", "core").Logger(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("core init failed")
	}

	// ---- Monitor ----
	monitor := mon.New(core.State, core.Player.Cycles, pat.Name(),
		log.With().Str("component", "mon").Logger())
	mux := http.NewServeMux()
	monitor.Routes(mux)

	monCtx, monCancel := context.WithCancel(ctx)
	go monitor.Broadcast(monCtx, 100*time.Millisecond)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		log.Info().Str("addr", cfg.Addr).Str("driver", cfg.Driver).Msg("monitor starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("monitor crashed")
		}
	}()

	// ---- Run until a signal or a fatal player error ----
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	errc := make(chan error, 1)
	go func() { errc <- core.Wait() }()

	select {
	case s := <-ch:
		log.Info().Str("signal", s.String()).Msg("shutting down")
		core.Stop()
		<-errc
	case err := <-errc:
		if err != nil {
			log.Error().Err(err).Msg("player stopped")
		}
		// Stop the generator too before tearing the driver down.
		core.Stop()
	}

	monCancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
	_ = srv.Shutdown(shutdownCtx)
	shutdownCancel()
	// Leave the bank dark.
	_ = drv.Write(0)
	if err := drv.Close(); err != nil {
		log.Warn().Err(err).Msg("driver close")
	}
}
