// Package engine owns the state of a single Game of Life simulation: the grid,
// its configuration and whether it is running. Hosts drive it through user
// intents and repaint from the snapshots it publishes to observers.
package engine

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-life/model"
	"github.com/sheikhrachel/go-life/utils"
)

// RunState says whether generations are being produced on a timer
type RunState int

const (
	Stopped RunState = iota
	Running
)

func (s RunState) String() string {
	if s == Running {
		return "running"
	}
	return "stopped"
}

// ChangeKind identifies the mutation behind a Change
type ChangeKind int

const (
	ChangeStep ChangeKind = iota
	ChangeToggle
	ChangeRandomize
	ChangeSeed
	ChangeResize
	ChangeReset
)

var changeKindNames = [...]string{"step", "toggle", "randomize", "seed", "resize", "reset"}

func (k ChangeKind) String() string {
	if k >= 0 && int(k) < len(changeKindNames) {
		return changeKindNames[k]
	}
	return "unknown"
}

// Change is published to observers after every successful mutation.
// Grid is a copy detached from the engine, shared by all observers of the change.
type Change struct {
	Kind       ChangeKind
	Generation int
	Grid       *model.Grid
}

// Observer is notified synchronously after each change, outside the engine lock.
// Observers run on the scheduler goroutine for ChangeStep and must not call
// Start, Stop, SetSpeed, Resize or Reset from there.
type Observer func(Change)

// Scheduler invokes tick every interval until stopped. Start on a running
// scheduler replaces the previous loop.
type Scheduler interface {
	Start(interval time.Duration, tick func())
	Stop()
}

// Status is a read-only view of the engine's configuration and run state
type Status struct {
	Rows       int
	Cols       int
	SpeedMs    int
	MinSize    int
	MaxSize    int
	Generation int
	RunState   RunState
}

// Engine holds the grid and run state of one simulation
type Engine struct {
	// ctl serializes run-state transitions with their scheduler calls;
	// scheduler calls are never made while holding mu
	ctl sync.Mutex
	mu  sync.Mutex

	cfg        utils.Config
	grid       *model.Grid
	state      RunState
	generation int

	rng       *rand.Rand
	pool      *model.GridPool
	sched     Scheduler
	observers []Observer
}

// New builds a stopped engine with an all-dead grid sized by cfg. A nil
// scheduler leaves stepping to the caller via Tick.
func New(cfg utils.Config, sched Scheduler) (*Engine, error) {
	cfg.SpeedMs = utils.ClampSpeed(cfg.SpeedMs)
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "[New]")
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	e := &Engine{
		cfg:   cfg,
		grid:  model.NewGrid(cfg.Rows, cfg.Cols),
		rng:   rand.New(rand.NewPCG(seed, 0)),
		sched: sched,
	}
	if cfg.UseMemoryPool {
		e.pool = model.NewGridPool()
	}
	return e, nil
}

// Subscribe registers an observer for grid changes
func (e *Engine) Subscribe(o Observer) {
	if o == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observers = append(e.observers, o)
}

// Grid returns a snapshot of the current grid
func (e *Engine) Grid() *model.Grid {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.grid.Clone()
}

// Status returns the current dimensions, speed, generation and run state
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Status{
		Rows:       e.cfg.Rows,
		Cols:       e.cfg.Cols,
		SpeedMs:    e.cfg.SpeedMs,
		MinSize:    e.cfg.MinSize,
		MaxSize:    e.cfg.MaxSize,
		Generation: e.generation,
		RunState:   e.state,
	}
}

// Running reports whether the simulation is running
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state == Running
}

// Initialize allocates an all-dead rows × cols grid after checking it against
// the engine's size bounds. Engine state is not modified.
func (e *Engine) Initialize(rows, cols int) (*model.Grid, error) {
	e.mu.Lock()
	cfg := e.cfg
	e.mu.Unlock()

	if err := cfg.CheckSize(rows, cols); err != nil {
		return nil, errors.Wrap(err, "[Initialize]")
	}
	return model.NewGrid(rows, cols), nil
}

// Start begins producing generations every SpeedMs milliseconds. No-op if already running.
func (e *Engine) Start() {
	e.ctl.Lock()
	defer e.ctl.Unlock()

	e.mu.Lock()
	if e.state == Running {
		e.mu.Unlock()
		return
	}
	e.state = Running
	interval := e.cfg.Speed()
	e.mu.Unlock()

	if e.sched != nil {
		e.sched.Start(interval, e.runTick)
	}
}

// Stop halts the simulation. No-op if already stopped.
func (e *Engine) Stop() {
	e.ctl.Lock()
	defer e.ctl.Unlock()
	e.stopLocked()
}

func (e *Engine) stopLocked() {
	e.mu.Lock()
	if e.state == Stopped {
		e.mu.Unlock()
		return
	}
	e.state = Stopped
	e.mu.Unlock()

	if e.sched != nil {
		e.sched.Stop()
	}
}

// SetSpeed sets the delay between generations, clamped to [10, 500] ms, and
// returns the value applied. A running scheduler picks up the new interval immediately.
func (e *Engine) SetSpeed(ms int) int {
	e.ctl.Lock()
	defer e.ctl.Unlock()

	ms = utils.ClampSpeed(ms)
	e.mu.Lock()
	e.cfg.SpeedMs = ms
	running := e.state == Running
	interval := e.cfg.Speed()
	e.mu.Unlock()

	if running && e.sched != nil {
		e.sched.Start(interval, e.runTick)
	}
	return ms
}

// Tick advances one generation if the engine is running and reports whether it did.
// Schedulers call it; hosts without a scheduler may call it directly.
func (e *Engine) Tick() bool {
	e.mu.Lock()
	if e.state != Running {
		e.mu.Unlock()
		return false
	}
	change := e.advanceLocked()
	observers := e.observers
	e.mu.Unlock()

	notify(observers, change)
	return true
}

// runTick adapts Tick to the Scheduler's callback signature
func (e *Engine) runTick() {
	e.Tick()
}

// Advance steps a single generation while stopped
func (e *Engine) Advance() error {
	e.mu.Lock()
	if e.state == Running {
		e.mu.Unlock()
		return errors.Wrap(ErrRunning, "[Advance]")
	}
	change := e.advanceLocked()
	observers := e.observers
	e.mu.Unlock()

	notify(observers, change)
	return nil
}

func (e *Engine) advanceLocked() Change {
	var next *model.Grid
	if e.pool != nil {
		next = e.pool.Get(e.grid.Rows(), e.grid.Cols())
	}
	next = model.StepInto(next, e.grid)

	// e.grid never escapes the engine, so the old generation can be recycled
	model.GridToPool(e.grid, e.pool)
	e.grid = next
	e.generation++
	return e.changeLocked(ChangeStep)
}

// ToggleCell flips the cell at (r, c)
func (e *Engine) ToggleCell(r, c int) error {
	e.mu.Lock()
	if e.state == Running {
		e.mu.Unlock()
		return errors.Wrapf(ErrRunning, "[ToggleCell] (%d, %d)", r, c)
	}
	if !e.grid.InBounds(r, c) {
		e.mu.Unlock()
		return errors.Wrapf(ErrOutOfBounds, "[ToggleCell] (%d, %d) on %dx%d grid", r, c, e.grid.Rows(), e.grid.Cols())
	}
	e.grid.Toggle(r, c)
	change := e.changeLocked(ChangeToggle)
	observers := e.observers
	e.mu.Unlock()

	notify(observers, change)
	return nil
}

// Randomize replaces the grid, each cell alive with the configured random density
func (e *Engine) Randomize() error {
	e.mu.Lock()
	density := e.cfg.RandomDensity
	e.mu.Unlock()
	return e.RandomizeWithDensity(density)
}

// RandomizeWithDensity replaces the grid, each cell alive independently with probability density
func (e *Engine) RandomizeWithDensity(density float64) error {
	if math.IsNaN(density) || density < 0 || density > 1 {
		return errors.Wrapf(ErrInvalidConfiguration, "[Randomize] density %v outside [0, 1]", density)
	}

	e.mu.Lock()
	if e.state == Running {
		e.mu.Unlock()
		return errors.Wrap(ErrRunning, "[Randomize]")
	}
	e.grid.Randomize(density, e.rng)
	change := e.changeLocked(ChangeRandomize)
	observers := e.observers
	e.mu.Unlock()

	notify(observers, change)
	return nil
}

// SeedPattern clears the pattern's bounding box at (originRow, originCol) and
// stamps its live cells, dropping any that fall outside the grid. Grids not
// strictly larger than the pattern in both dimensions are left untouched.
func (e *Engine) SeedPattern(p model.Pattern, originRow, originCol int) error {
	e.mu.Lock()
	if e.state == Running {
		e.mu.Unlock()
		return errors.Wrapf(ErrRunning, "[SeedPattern] %s", p.Name)
	}
	if e.grid.Rows() <= p.Height || e.grid.Cols() <= p.Width {
		e.mu.Unlock()
		return nil
	}
	e.grid.Stamp(p, originRow, originCol)
	change := e.changeLocked(ChangeSeed)
	observers := e.observers
	e.mu.Unlock()

	notify(observers, change)
	return nil
}

// SeedGlider places the built-in glider near the top-left corner
func (e *Engine) SeedGlider() error {
	return e.SeedPattern(model.Glider, 1, 1)
}

// Resize replaces the grid with an all-dead rows × cols grid. Prior cells are
// discarded and the generation counter restarts. The grid stays square, so
// rows must equal cols; invalid sizes leave state unchanged.
func (e *Engine) Resize(rows, cols int) error {
	e.ctl.Lock()
	defer e.ctl.Unlock()

	if e.Running() {
		return errors.Wrapf(ErrRunning, "[Resize] %dx%d", rows, cols)
	}
	if rows != cols {
		return errors.Wrapf(ErrInvalidConfiguration, "[Resize] grid must stay square, got %dx%d", rows, cols)
	}
	grid, err := e.Initialize(rows, cols)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.grid = grid
	e.cfg.Rows, e.cfg.Cols = rows, cols
	e.generation = 0
	change := e.changeLocked(ChangeResize)
	observers := e.observers
	e.mu.Unlock()

	notify(observers, change)
	return nil
}

// DoubleSize doubles both grid dimensions
func (e *Engine) DoubleSize() error {
	st := e.Status()
	return e.Resize(st.Rows*2, st.Cols*2)
}

// HalveSize halves both grid dimensions
func (e *Engine) HalveSize() error {
	st := e.Status()
	return e.Resize(st.Rows/2, st.Cols/2)
}

// Reset stops the simulation if needed and kills every cell, keeping the current size
func (e *Engine) Reset() {
	e.ctl.Lock()
	defer e.ctl.Unlock()
	e.stopLocked()

	e.mu.Lock()
	e.grid.Clear()
	e.generation = 0
	change := e.changeLocked(ChangeReset)
	observers := e.observers
	e.mu.Unlock()

	notify(observers, change)
}

func (e *Engine) changeLocked(kind ChangeKind) Change {
	return Change{Kind: kind, Generation: e.generation, Grid: e.grid.Clone()}
}

func notify(observers []Observer, change Change) {
	for _, o := range observers {
		o(change)
	}
}
