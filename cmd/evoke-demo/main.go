// Package main is a terminal demonstration of raising events across
// goroutines into a UI-owning loop.
//
// Background workers raise progress events from their own goroutines; the
// subscribers that draw them are bound to the loop owning the terminal, so
// every raise marshals onto the UI goroutine and blocks the worker until
// the screen has been updated. Resizing the terminal recreates the loop's
// queue mid-flight, exercising the teardown races the raiser absorbs.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/dshills/evoke/loop"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath  = flag.String("config", "evoke-demo.json", "path to the demo config file")
		logPath     = flag.String("log", "evoke-demo.log", "path to the trace log (a TUI cannot log to stdout)")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("evoke-demo %s (%s)\n", version, commit)
		return 0
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		return 1
	}

	logFile, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open log: %v\n", err)
		return 1
	}
	defer logFile.Close()
	logger := zerolog.New(logFile).With().Timestamp().Logger()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create screen: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to init screen: %v\n", err)
		return 1
	}
	defer screen.Fini()

	ui := loop.New(
		loop.WithName("ui"),
		loop.WithPanicHandler(func(recovered any, stack []byte) {
			logger.Error().
				Interface("recovered", recovered).
				Bytes("stack", stack).
				Msg("subscriber panicked on ui loop")
		}),
	)

	d, err := newDemo(cfg, logger, screen, ui)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to build demo: %v\n", err)
		return 1
	}

	// Graceful shutdown on signals; the poll goroutine handles 'q'.
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		ui.Dispose()
	}()

	go d.pollEvents()
	d.startWorkers()

	logger.Info().Str("version", version).Int("workers", cfg.Workers).Msg("demo started")

	// The main goroutine is the UI thread: it owns the screen for the
	// lifetime of the pump.
	if err := ui.Run(); err != nil {
		logger.Error().Err(err).Msg("ui loop failed")
		return 1
	}
	logger.Info().Msg("demo stopped")
	return 0
}
