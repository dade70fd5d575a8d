package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-life/engine"
	"github.com/sheikhrachel/go-life/gui"
	"github.com/sheikhrachel/go-life/scheduler"
	"github.com/sheikhrachel/go-life/utils"
)

func main() {
	configPath := flag.String("config", "config.json", "path to the JSON configuration file")
	interactive := flag.Bool("interactive", false, "run the interactive terminal front end")
	window := flag.Bool("gui", false, "open a desktop window (build with -tags ebiten)")
	scale := flag.Int("scale", 15, "window pixels per cell")
	flag.Parse()

	// Load configuration - fallback to defaults if file doesn't exist
	config, err := utils.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Using default configuration (%v)\n", errors.Cause(err))
		config = utils.DefaultConfig()
	}
	if *interactive {
		config.Interactive = true
	}

	// Handle Ctrl+C gracefully
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e, err := engine.New(config, scheduler.NewTicker())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create engine: %v\n", err)
		os.Exit(1)
	}
	if err = seedGame(e, config); err != nil {
		fmt.Fprintf(os.Stderr, "failed to seed grid: %v\n", err)
		os.Exit(1)
	}

	switch {
	case *window:
		err = gui.Run(e, *scale)
	case config.Interactive:
		err = runInteractive(ctx, e)
	default:
		displayGameInfo(os.Stdout, config, e)
		err = runHeadless(ctx, e, newSession(os.Stdout, config))
	}
	e.Stop()

	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
