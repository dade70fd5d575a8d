// Package scheduler drives a simulation at a fixed interval on its own goroutine.
package scheduler

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Ticker calls a tick function every interval until stopped.
// Ticks never overlap: a single goroutine runs them, and ticks that fire
// while the previous one is still running are dropped.
type Ticker struct {
	mu       sync.Mutex
	cancel   context.CancelFunc
	eg       *errgroup.Group
	interval time.Duration
}

func NewTicker() *Ticker {
	return &Ticker{}
}

// Start begins invoking tick every interval, replacing any loop already running
func (t *Ticker) Start(interval time.Duration, tick func()) {
	if interval <= 0 {
		interval = time.Millisecond
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()

	ctx, cancel := context.WithCancel(context.Background())
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		tk := time.NewTicker(interval)
		defer tk.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-tk.C:
				if ctx.Err() != nil {
					return nil
				}
				tick()
			}
		}
	})

	t.cancel, t.eg, t.interval = cancel, eg, interval
}

// Stop cancels the loop and waits for an in-flight tick to finish.
// It is a no-op when nothing is running. Stop must not be called from inside tick.
func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

func (t *Ticker) stopLocked() {
	if t.cancel == nil {
		return
	}
	t.cancel()
	_ = t.eg.Wait()
	t.cancel, t.eg, t.interval = nil, nil, 0
}

// Running reports whether a tick loop is active
func (t *Ticker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancel != nil
}

// Interval returns the current tick interval, or 0 when stopped
func (t *Ticker) Interval() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.interval
}
