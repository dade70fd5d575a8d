package engine

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-life/model"
	"github.com/sheikhrachel/go-life/scheduler"
	"github.com/sheikhrachel/go-life/utils"
)

type fakeScheduler struct {
	mu        sync.Mutex
	intervals []time.Duration
	stops     int
	tick      func()
}

func (f *fakeScheduler) Start(interval time.Duration, tick func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.intervals = append(f.intervals, interval)
	f.tick = tick
}

func (f *fakeScheduler) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	f.tick = nil
}

func (f *fakeScheduler) fire(t *testing.T) {
	t.Helper()
	f.mu.Lock()
	tick := f.tick
	f.mu.Unlock()
	if tick == nil {
		t.Fatal("scheduler is not running")
	}
	tick()
}

func testConfig() utils.Config {
	c := utils.DefaultConfig()
	c.Seed = 1
	return c
}

func newEngine(t *testing.T, cfg utils.Config) (*Engine, *fakeScheduler) {
	t.Helper()
	sched := &fakeScheduler{}
	e, err := New(cfg, sched)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e, sched
}

func recordChanges(e *Engine) func() []Change {
	var (
		mu      sync.Mutex
		changes []Change
	)
	e.Subscribe(func(c Change) {
		mu.Lock()
		defer mu.Unlock()
		changes = append(changes, c)
	})
	return func() []Change {
		mu.Lock()
		defer mu.Unlock()
		return append([]Change(nil), changes...)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*utils.Config)
	}{
		{"below min", func(c *utils.Config) { c.Rows, c.Cols = 8, 8 }},
		{"above max", func(c *utils.Config) { c.Cols = 512 }},
		{"zero", func(c *utils.Config) { c.Rows = 0 }},
		{"bad density", func(c *utils.Config) { c.RandomDensity = 2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			if _, err := New(cfg, nil); !errors.Is(err, ErrInvalidConfiguration) {
				t.Fatalf("New error = %v, want ErrInvalidConfiguration", err)
			}
		})
	}
}

func TestNewEngineIsStoppedAndEmpty(t *testing.T) {
	cfg := testConfig()
	cfg.SpeedMs = 2
	e, _ := newEngine(t, cfg)

	st := e.Status()
	want := Status{Rows: 32, Cols: 32, SpeedMs: 10, MinSize: 16, MaxSize: 128, RunState: Stopped}
	if st != want {
		t.Fatalf("Status = %+v, want %+v", st, want)
	}
	if n := e.Grid().CountLivingCells(); n != 0 {
		t.Fatalf("new engine has %d live cells", n)
	}
}

func TestInitialize(t *testing.T) {
	e, _ := newEngine(t, testConfig())

	g, err := e.Initialize(16, 64)
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if g.Rows() != 16 || g.Cols() != 64 || g.CountLivingCells() != 0 {
		t.Fatalf("Initialize returned %dx%d with %d live cells", g.Rows(), g.Cols(), g.CountLivingCells())
	}
	for _, size := range [][2]int{{0, 16}, {16, -1}, {15, 16}, {16, 129}} {
		if _, err := e.Initialize(size[0], size[1]); !errors.Is(err, ErrInvalidConfiguration) {
			t.Errorf("Initialize(%d, %d) error = %v", size[0], size[1], err)
		}
	}
	if st := e.Status(); st.Rows != 32 || st.Cols != 32 {
		t.Fatal("Initialize changed the engine's dimensions")
	}
}

func TestStartStop(t *testing.T) {
	e, sched := newEngine(t, testConfig())

	e.Start()
	e.Start()
	if !e.Running() || e.Status().RunState != Running {
		t.Fatal("engine not running after Start")
	}
	if len(sched.intervals) != 1 || sched.intervals[0] != 100*time.Millisecond {
		t.Fatalf("scheduler starts = %v, want one at 100ms", sched.intervals)
	}

	e.Stop()
	e.Stop()
	if e.Running() {
		t.Fatal("engine running after Stop")
	}
	if sched.stops != 1 {
		t.Fatalf("scheduler stops = %d, want 1", sched.stops)
	}

	e.Start()
	if len(sched.intervals) != 2 {
		t.Fatal("engine did not resume after Stop")
	}
}

func TestTickStepsOnlyWhileRunning(t *testing.T) {
	e, sched := newEngine(t, testConfig())
	changes := recordChanges(e)

	if err := e.SeedGlider(); err != nil {
		t.Fatalf("SeedGlider: %v", err)
	}
	if e.Tick() {
		t.Fatal("Tick stepped while stopped")
	}

	e.Start()
	for range 4 {
		sched.fire(t)
	}
	e.Stop()

	want := model.NewGrid(32, 32)
	want.Stamp(model.Glider, 2, 2)
	if got := e.Grid(); !got.Equal(want) {
		t.Fatalf("after 4 ticks got\n%swant\n%s", got, want)
	}
	if gen := e.Status().Generation; gen != 4 {
		t.Fatalf("generation = %d, want 4", gen)
	}

	got := changes()
	if len(got) != 5 {
		t.Fatalf("got %d changes, want 5", len(got))
	}
	if got[0].Kind != ChangeSeed {
		t.Fatalf("first change = %v, want seed", got[0].Kind)
	}
	for i, c := range got[1:] {
		if c.Kind != ChangeStep || c.Generation != i+1 {
			t.Fatalf("change %d = %v gen %d", i+1, c.Kind, c.Generation)
		}
	}
	if !got[4].Grid.Equal(want) {
		t.Fatal("last notification does not carry the final grid")
	}
}

func TestSetSpeed(t *testing.T) {
	e, sched := newEngine(t, testConfig())

	if got := e.SetSpeed(5); got != 10 {
		t.Fatalf("SetSpeed(5) = %d, want 10", got)
	}
	if got := e.SetSpeed(1000); got != 500 {
		t.Fatalf("SetSpeed(1000) = %d, want 500", got)
	}
	if len(sched.intervals) != 0 {
		t.Fatal("SetSpeed started the scheduler while stopped")
	}
	if e.Status().SpeedMs != 500 {
		t.Fatalf("SpeedMs = %d, want 500", e.Status().SpeedMs)
	}

	if err := e.SeedGlider(); err != nil {
		t.Fatal(err)
	}
	before := e.Grid()
	e.Start()
	e.SetSpeed(250)
	want := []time.Duration{500 * time.Millisecond, 250 * time.Millisecond}
	if len(sched.intervals) != 2 || sched.intervals[0] != want[0] || sched.intervals[1] != want[1] {
		t.Fatalf("scheduler intervals = %v, want %v", sched.intervals, want)
	}
	if !e.Grid().Equal(before) {
		t.Fatal("SetSpeed changed the grid")
	}
	if !e.Running() {
		t.Fatal("SetSpeed stopped the engine")
	}
}

func TestToggleCell(t *testing.T) {
	e, _ := newEngine(t, testConfig())
	changes := recordChanges(e)

	if err := e.ToggleCell(3, 4); err != nil {
		t.Fatalf("ToggleCell: %v", err)
	}
	if !e.Grid().Get(3, 4) {
		t.Fatal("cell (3,4) not alive after toggle")
	}
	if err := e.ToggleCell(3, 4); err != nil {
		t.Fatal(err)
	}
	if e.Grid().Get(3, 4) {
		t.Fatal("cell (3,4) alive after second toggle")
	}

	for _, rc := range [][2]int{{-1, 0}, {0, -1}, {32, 0}, {0, 32}} {
		if err := e.ToggleCell(rc[0], rc[1]); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("ToggleCell(%d, %d) error = %v, want ErrOutOfBounds", rc[0], rc[1], err)
		}
	}
	if n := len(changes()); n != 2 {
		t.Fatalf("got %d notifications, want 2", n)
	}
}

func TestMutationsRejectedWhileRunning(t *testing.T) {
	e, _ := newEngine(t, testConfig())
	if err := e.Randomize(); err != nil {
		t.Fatal(err)
	}
	e.Start()
	changes := recordChanges(e)

	before := e.Grid()
	beforeStatus := e.Status()

	mutations := map[string]func() error{
		"toggle":    func() error { return e.ToggleCell(0, 0) },
		"randomize": e.Randomize,
		"seed":      e.SeedGlider,
		"resize":    func() error { return e.Resize(64, 64) },
		"double":    e.DoubleSize,
		"halve":     e.HalveSize,
		"advance":   e.Advance,
	}
	for name, mutate := range mutations {
		if err := mutate(); !errors.Is(err, ErrRunning) {
			t.Errorf("%s error = %v, want ErrRunning", name, err)
		}
	}

	if !e.Grid().Equal(before) {
		t.Fatal("grid changed while running")
	}
	if st := e.Status(); st != beforeStatus {
		t.Fatalf("status changed while running: %+v -> %+v", beforeStatus, st)
	}
	if n := len(changes()); n != 0 {
		t.Fatalf("rejected mutations produced %d notifications", n)
	}
}

func TestRandomize(t *testing.T) {
	e, _ := newEngine(t, testConfig())
	if err := e.Resize(128, 128); err != nil {
		t.Fatal(err)
	}
	if err := e.Randomize(); err != nil {
		t.Fatalf("Randomize: %v", err)
	}
	n := e.Grid().CountLivingCells()
	if n < 4300 || n > 5500 {
		t.Fatalf("default density produced %d/16384 live cells", n)
	}

	if err := e.RandomizeWithDensity(0); err != nil {
		t.Fatal(err)
	}
	if n := e.Grid().CountLivingCells(); n != 0 {
		t.Fatalf("density 0 left %d live cells", n)
	}

	for _, d := range []float64{-0.5, 1.01} {
		if err := e.RandomizeWithDensity(d); !errors.Is(err, ErrInvalidConfiguration) {
			t.Errorf("RandomizeWithDensity(%v) error = %v", d, err)
		}
	}
}

func TestRandomizeIsSeeded(t *testing.T) {
	cfg := testConfig()
	cfg.Seed = 99
	a, _ := newEngine(t, cfg)
	b, _ := newEngine(t, cfg)
	if err := a.Randomize(); err != nil {
		t.Fatal(err)
	}
	if err := b.Randomize(); err != nil {
		t.Fatal(err)
	}
	if !a.Grid().Equal(b.Grid()) {
		t.Fatal("engines with the same seed randomized differently")
	}
}

func TestSeedPattern(t *testing.T) {
	cfg := testConfig()
	cfg.MinSize = 2
	cfg.Rows, cfg.Cols = 3, 3
	e, _ := newEngine(t, cfg)
	changes := recordChanges(e)

	if err := e.SeedGlider(); err != nil {
		t.Fatalf("SeedGlider on 3x3: %v", err)
	}
	if n := e.Grid().CountLivingCells(); n != 0 || len(changes()) != 0 {
		t.Fatal("glider seeded on a grid too small to hold it")
	}

	if err := e.Resize(4, 4); err != nil {
		t.Fatal(err)
	}
	if err := e.SeedGlider(); err != nil {
		t.Fatal(err)
	}
	want := model.NewGrid(4, 4)
	want.Stamp(model.Glider, 1, 1)
	if got := e.Grid(); !got.Equal(want) || got.CountLivingCells() != 5 {
		t.Fatalf("glider on 4x4 got\n%swant\n%s", got, want)
	}

	if err := e.SeedPattern(model.Block, 10, 10); err != nil {
		t.Fatalf("off-grid seed should be ignored, got %v", err)
	}
	if !e.Grid().Equal(want) {
		t.Fatal("off-grid seed changed the grid")
	}
}

func TestResizeClearsState(t *testing.T) {
	e, _ := newEngine(t, testConfig())
	if err := e.Randomize(); err != nil {
		t.Fatal(err)
	}
	e.Start()
	e.Tick()
	e.Stop()
	changes := recordChanges(e)

	if err := e.Resize(64, 64); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	g := e.Grid()
	if g.Rows() != 64 || g.Cols() != 64 || g.CountLivingCells() != 0 {
		t.Fatalf("after resize: %dx%d with %d live cells", g.Rows(), g.Cols(), g.CountLivingCells())
	}
	if st := e.Status(); st.Rows != 64 || st.Cols != 64 || st.Generation != 0 {
		t.Fatalf("status after resize: %+v", st)
	}
	if got := changes(); len(got) != 1 || got[0].Kind != ChangeResize {
		t.Fatalf("resize notifications = %+v", got)
	}

	if err := e.ToggleCell(5, 5); err != nil {
		t.Fatal(err)
	}
	before := e.Grid()
	for _, size := range [][2]int{{256, 256}, {8, 8}, {0, 0}, {-16, 16}} {
		if err := e.Resize(size[0], size[1]); !errors.Is(err, ErrInvalidConfiguration) {
			t.Errorf("Resize(%d, %d) error = %v", size[0], size[1], err)
		}
	}
	if !e.Grid().Equal(before) {
		t.Fatal("failed resize changed the grid")
	}
	if st := e.Status(); st.Rows != 64 || st.Cols != 64 {
		t.Fatal("failed resize changed the dimensions")
	}
}

func TestDoubleAndHalveSize(t *testing.T) {
	e, _ := newEngine(t, testConfig())

	for _, want := range []int{64, 128} {
		if err := e.DoubleSize(); err != nil {
			t.Fatalf("DoubleSize to %d: %v", want, err)
		}
		if st := e.Status(); st.Rows != want || st.Cols != want {
			t.Fatalf("size = %dx%d, want %d", st.Rows, st.Cols, want)
		}
	}
	if err := e.DoubleSize(); !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("DoubleSize past max error = %v", err)
	}

	for _, want := range []int{64, 32, 16} {
		if err := e.HalveSize(); err != nil {
			t.Fatalf("HalveSize to %d: %v", want, err)
		}
		if st := e.Status(); st.Rows != want || st.Cols != want {
			t.Fatalf("size = %dx%d, want %d", st.Rows, st.Cols, want)
		}
	}
	if err := e.HalveSize(); !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("HalveSize past min error = %v", err)
	}
}

func TestReset(t *testing.T) {
	e, sched := newEngine(t, testConfig())
	if err := e.Randomize(); err != nil {
		t.Fatal(err)
	}
	e.Start()
	sched.fire(t)
	changes := recordChanges(e)

	e.Reset()
	if e.Running() || sched.stops != 1 {
		t.Fatalf("Reset did not stop the engine (stops=%d)", sched.stops)
	}
	st := e.Status()
	if st.Generation != 0 || st.Rows != 32 {
		t.Fatalf("status after reset: %+v", st)
	}
	if n := e.Grid().CountLivingCells(); n != 0 {
		t.Fatalf("reset left %d live cells", n)
	}
	if got := changes(); len(got) != 1 || got[0].Kind != ChangeReset {
		t.Fatalf("reset notifications = %+v", got)
	}
}

func TestAdvanceWhileStopped(t *testing.T) {
	e, _ := newEngine(t, testConfig())
	if err := e.SeedPattern(model.Blinker, 5, 5); err != nil {
		t.Fatal(err)
	}
	start := e.Grid()

	if err := e.Advance(); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if e.Grid().Equal(start) {
		t.Fatal("blinker did not change after one generation")
	}
	if err := e.Advance(); err != nil {
		t.Fatal(err)
	}
	if !e.Grid().Equal(start) {
		t.Fatal("blinker did not return after two generations")
	}
	if gen := e.Status().Generation; gen != 2 {
		t.Fatalf("generation = %d, want 2", gen)
	}
}

func TestSnapshotsAreDetached(t *testing.T) {
	e, _ := newEngine(t, testConfig())
	var seen *model.Grid
	e.Subscribe(func(c Change) { seen = c.Grid })
	e.Subscribe(nil)

	if err := e.ToggleCell(0, 0); err != nil {
		t.Fatal(err)
	}
	snap := e.Grid()
	snap.Set(1, 1, true)
	seen.Set(2, 2, true)

	g := e.Grid()
	if g.Get(1, 1) || g.Get(2, 2) || !g.Get(0, 0) {
		t.Fatalf("engine grid affected by snapshot writes:\n%s", g)
	}
}

func TestMemoryPoolDoesNotChangeResults(t *testing.T) {
	pooled, plain := testConfig(), testConfig()
	plain.UseMemoryPool = false

	a, _ := newEngine(t, pooled)
	b, _ := newEngine(t, plain)
	for _, e := range []*Engine{a, b} {
		if err := e.Randomize(); err != nil {
			t.Fatal(err)
		}
		for range 20 {
			if err := e.Advance(); err != nil {
				t.Fatal(err)
			}
		}
	}
	if !a.Grid().Equal(b.Grid()) {
		t.Fatal("pooled and unpooled engines diverged")
	}
}

func TestEngineWithTicker(t *testing.T) {
	cfg := testConfig()
	cfg.SpeedMs = 10
	e, err := New(cfg, scheduler.NewTicker())
	if err != nil {
		t.Fatal(err)
	}
	if err := e.SeedGlider(); err != nil {
		t.Fatal(err)
	}

	e.Start()
	deadline := time.Now().Add(3 * time.Second)
	for e.Status().Generation < 3 {
		if time.Now().After(deadline) {
			e.Stop()
			t.Fatal("ticker did not advance the engine")
		}
		time.Sleep(5 * time.Millisecond)
	}
	e.Stop()

	gen := e.Status().Generation
	time.Sleep(40 * time.Millisecond)
	if got := e.Status().Generation; got != gen {
		t.Fatalf("generation advanced after Stop: %d -> %d", gen, got)
	}
	if n := e.Grid().CountLivingCells(); n != 5 {
		t.Fatalf("glider has %d cells after %d generations", n, gen)
	}
}

func TestStringers(t *testing.T) {
	if Running.String() != "running" || Stopped.String() != "stopped" {
		t.Fatal("RunState strings")
	}
	if ChangeResize.String() != "resize" || ChangeKind(42).String() != "unknown" {
		t.Fatal("ChangeKind strings")
	}
}

func TestInvalidSizeErrorNamesCauseOnce(t *testing.T) {
	e, _ := newEngine(t, testConfig())

	_, err := e.Initialize(32, 256)
	if !errors.Is(err, ErrInvalidConfiguration) || !errors.Is(err, utils.ErrInvalidConfig) {
		t.Fatalf("Initialize error = %v", err)
	}
	if n := strings.Count(err.Error(), "invalid configuration"); n != 1 {
		t.Fatalf("error text %q repeats its cause %d times", err.Error(), n)
	}

	cfg := testConfig()
	cfg.Rows = 4
	_, err = New(cfg, nil)
	if err == nil || strings.Count(err.Error(), "invalid configuration") != 1 {
		t.Fatalf("New error text = %v", err)
	}
}

func TestResizeKeepsGridSquare(t *testing.T) {
	e, _ := newEngine(t, testConfig())

	if err := e.Resize(16, 128); !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("Resize(16, 128) error = %v, want ErrInvalidConfiguration", err)
	}
	if st := e.Status(); st.Rows != 32 || st.Cols != 32 {
		t.Fatalf("rejected resize changed size to %dx%d", st.Rows, st.Cols)
	}
	if err := e.DoubleSize(); err != nil {
		t.Fatalf("DoubleSize after rejected resize: %v", err)
	}
}
