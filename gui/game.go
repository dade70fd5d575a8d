//go:build ebiten

package gui

import (
	"fmt"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-life/engine"
	"github.com/sheikhrachel/go-life/model"
)

const speedStepMs = 10

// Game adapts the engine to the ebiten.Game interface
type Game struct {
	engine *engine.Engine
	scale  int

	mu     sync.Mutex
	latest *model.Grid
	dirty  bool

	canvas *ebiten.Image
	pixels []byte
}

// Run opens a window showing e and blocks until it is closed
func Run(e *engine.Engine, scale int) error {
	if scale <= 0 {
		scale = 15
	}
	g := &Game{engine: e, scale: scale, latest: e.Grid(), dirty: true}
	e.Subscribe(func(ch engine.Change) {
		g.mu.Lock()
		g.latest, g.dirty = ch.Grid, true
		g.mu.Unlock()
	})

	ebiten.SetWindowTitle(g.title())
	ebiten.SetWindowSize(g.latest.Cols()*scale, g.latest.Rows()*scale)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return errors.Wrap(err, "[gui.Run] ebiten")
	}
	return nil
}

// Update handles input once per frame; the engine's scheduler advances generations
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	e := g.engine
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		if e.Running() {
			e.Stop()
		} else {
			e.Start()
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		_ = e.Advance()
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		_ = e.Randomize()
	case inpututil.IsKeyJustPressed(ebiten.KeyG):
		_ = e.SeedGlider()
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		e.Reset()
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual):
		if e.DoubleSize() == nil {
			g.fitWindow()
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus):
		if e.HalveSize() == nil {
			g.fitWindow()
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft):
		e.SetSpeed(e.Status().SpeedMs - speedStepMs)
	case inpututil.IsKeyJustPressed(ebiten.KeyBracketRight):
		e.SetSpeed(e.Status().SpeedMs + speedStepMs)
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		x, y := ebiten.CursorPosition()
		if row, col, ok := cellAt(x, y, g.scale); ok {
			_ = e.ToggleCell(row, col)
		}
	}

	ebiten.SetWindowTitle(g.title())
	return nil
}

// Draw paints the most recent snapshot, one pixel per cell scaled up
func (g *Game) Draw(screen *ebiten.Image) {
	g.mu.Lock()
	grid, dirty := g.latest, g.dirty
	g.dirty = false
	g.mu.Unlock()

	w, h := grid.Cols(), grid.Rows()
	if g.canvas == nil || g.canvas.Bounds().Dx() != w || g.canvas.Bounds().Dy() != h {
		g.canvas = ebiten.NewImage(w, h)
		g.pixels = make([]byte, 4*w*h)
		dirty = true
	}
	if dirty {
		fillGridRGBA(g.pixels, grid, aliveColor, deadColor)
		g.canvas.WritePixels(g.pixels)
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(g.scale), float64(g.scale))
	screen.DrawImage(g.canvas, op)
}

// Layout returns the logical screen size
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	st := g.engine.Status()
	return st.Cols * g.scale, st.Rows * g.scale
}

func (g *Game) fitWindow() {
	st := g.engine.Status()
	ebiten.SetWindowSize(st.Cols*g.scale, st.Rows*g.scale)
}

func (g *Game) title() string {
	st := g.engine.Status()
	return fmt.Sprintf("go-life | %dx%d | gen %d | %dms | %s", st.Rows, st.Cols, st.Generation, st.SpeedMs, st.RunState)
}
