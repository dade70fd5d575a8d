package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-life/console"
	"github.com/sheikhrachel/go-life/engine"
	"github.com/sheikhrachel/go-life/model"
	"github.com/sheikhrachel/go-life/utils"
)

// seedGame applies the configured starting pattern
func seedGame(e *engine.Engine, config utils.Config) error {
	switch config.StartPattern {
	case utils.PatternRandom:
		return e.Randomize()
	case utils.PatternEmpty:
		return nil
	default:
		return e.SeedGlider()
	}
}

// displayGameInfo shows the initial game information
func displayGameInfo(w io.Writer, config utils.Config, e *engine.Engine) {
	st := e.Status()
	fmt.Fprintf(w, "Features: Memory Pool: %v | Start pattern: %s | Speed: %dms\n",
		config.UseMemoryPool, config.StartPattern, st.SpeedMs)
	fmt.Fprintf(w, "Grid: %dx%d | Initial living cells: %d\n",
		st.Rows, st.Cols, e.Grid().CountLivingCells())
	fmt.Fprintln(w, "Press Ctrl+C to exit gracefully")
	fmt.Fprintln(w)
}

// runInteractive hands the terminal to the tcell console until the user quits
func runInteractive(ctx context.Context, e *engine.Engine) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return errors.Wrap(err, "[runInteractive] failed to create screen")
	}
	if err = screen.Init(); err != nil {
		return errors.Wrap(err, "[runInteractive] failed to initialize screen")
	}
	defer screen.Fini()

	return console.New(screen, e).Run(ctx)
}

// session renders a headless run and decides when it should end
type session struct {
	out      io.Writer
	config   utils.Config
	renderer *model.TerminalRenderer
	stats    *utils.Stats
	history  model.History

	stagnantCount int
	done          chan string
}

func newSession(out io.Writer, config utils.Config) *session {
	return &session{
		out:      out,
		config:   config,
		renderer: &model.TerminalRenderer{Out: out},
		stats:    utils.NewStats(),
		done:     make(chan string, 1),
	}
}

// runHeadless runs the simulation, printing every generation, until a stop
// condition fires or ctx is cancelled
func runHeadless(ctx context.Context, e *engine.Engine, s *session) error {
	e.Subscribe(s.observe)
	e.Start()

	select {
	case <-ctx.Done():
		e.Stop()
		fmt.Fprintln(s.out, "\n🛑 Shutting down gracefully...")
	case reason := <-s.done:
		e.Stop()
		fmt.Fprintf(s.out, "\n🏁 Stopped: %s\n", reason)
	}

	fmt.Fprintf(s.out, "Final stats: %d generations in %.1f seconds\n",
		s.stats.TotalGenerations, s.stats.Runtime().Seconds())
	fmt.Fprintf(s.out, "Average: %.1f gen/sec, %.1f avg population\n",
		s.stats.GenerationsPerSecond, s.stats.AveragePopulation)
	return ctx.Err()
}

// observe is the engine observer; it runs on the scheduler goroutine
func (s *session) observe(ch engine.Change) {
	if ch.Kind != engine.ChangeStep {
		return
	}

	livingCells, density, status := s.updateGameState(ch, time.Now())

	s.renderer.Clear()
	s.displayGameStatus(ch.Generation, livingCells, density, status)
	s.renderer.Display(ch.Grid)

	if reason, stop := s.checkStopConditions(livingCells, ch.Generation); stop {
		select {
		case s.done <- reason:
		default:
		}
	}
}

// updateGameState updates stats and stagnation tracking and returns status information
func (s *session) updateGameState(ch engine.Change, now time.Time) (int, float64, string) {
	livingCells := ch.Grid.CountLivingCells()
	density := float64(livingCells) / float64(ch.Grid.Rows()*ch.Grid.Cols()) * 100

	s.stats.Observe(ch.Generation, livingCells, now)

	hash := ch.Grid.Hash()
	isStagnant := s.history.IsStagnant(hash)
	s.history.Push(hash)
	if isStagnant {
		s.stagnantCount++
	} else {
		s.stagnantCount = 0
	}

	status := "Active"
	if isStagnant {
		status = fmt.Sprintf("Stagnant (%d)", s.stagnantCount)
	}
	if livingCells == 0 {
		status = "Extinct"
	}
	return livingCells, density, status
}

// displayGameStatus shows the current game status
func (s *session) displayGameStatus(generation, livingCells int, density float64, status string) {
	fmt.Fprintf(s.out, "Gen: %d | Living: %d | Density: %.1f%% | Status: %s\n",
		generation, livingCells, density, status)
	fmt.Fprintf(s.out, "Performance: %.1f gen/sec | Avg Pop: %.1f | Runtime: %.1fs\n",
		s.stats.GenerationsPerSecond, s.stats.AveragePopulation, s.stats.Runtime().Seconds())
	fmt.Fprintln(s.out)
}

// checkStopConditions determines if the run should end
func (s *session) checkStopConditions(livingCells, generation int) (string, bool) {
	if livingCells == 0 {
		return "extinction", true
	}
	if s.config.StagnationThreshold > 0 && s.stagnantCount >= s.config.StagnationThreshold {
		return "stagnation detected", true
	}
	if s.config.MaxGenerations > 0 && generation >= s.config.MaxGenerations {
		return fmt.Sprintf("reached maximum generations limit (%d)", s.config.MaxGenerations), true
	}
	return "", false
}
