// Package console is an interactive terminal front end for the engine: the grid is
// painted with tcell and keyboard and mouse input map onto engine operations.
package console

import (
	"context"
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/sheikhrachel/go-life/engine"
	"github.com/sheikhrachel/go-life/model"
)

const (
	speedStepMs = 10
	helpLine    = "space run/stop  n step  r random  g glider  c clear  +/- size  [/] speed  q quit"
)

var (
	aliveStyle  = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
	deadStyle   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	statusStyle = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	errorStyle  = tcell.StyleDefault.Foreground(tcell.ColorRed)
)

// Console binds a tcell screen to an engine
type Console struct {
	screen tcell.Screen
	engine *engine.Engine

	mu          sync.Mutex
	message     string
	prevButtons tcell.ButtonMask
}

// New wires the console to repaint on every engine change. The screen must already be initialized.
func New(screen tcell.Screen, e *engine.Engine) *Console {
	c := &Console{screen: screen, engine: e}
	e.Subscribe(func(ch engine.Change) {
		c.draw(ch.Grid, e.Status())
	})
	return c
}

// Run processes input until the user quits or ctx is cancelled
func (c *Console) Run(ctx context.Context) error {
	c.screen.EnableMouse()
	c.Redraw()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = c.screen.PostEvent(tcell.NewEventInterrupt(nil))
		case <-done:
		}
	}()

	for {
		ev := c.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if _, ok := ev.(*tcell.EventInterrupt); ok {
			return ctx.Err()
		}
		if c.HandleEvent(ev) {
			return nil
		}
	}
}

// Redraw repaints the whole screen from the engine's current state
func (c *Console) Redraw() {
	c.draw(c.engine.Grid(), c.engine.Status())
}

// HandleEvent applies one input event and reports whether the user asked to quit
func (c *Console) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return c.handleKey(ev)
	case *tcell.EventMouse:
		c.handleMouse(ev)
	case *tcell.EventResize:
		c.screen.Sync()
		c.Redraw()
	}
	return false
}

func (c *Console) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
	default:
		return false
	}

	var err error
	switch ev.Rune() {
	case 'q':
		return true
	case ' ':
		if c.engine.Running() {
			c.engine.Stop()
		} else {
			c.engine.Start()
		}
	case 'n':
		err = c.engine.Advance()
	case 'r':
		err = c.engine.Randomize()
	case 'g':
		err = c.engine.SeedGlider()
	case 'c':
		c.engine.Reset()
	case '+', '=':
		err = c.engine.DoubleSize()
	case '-':
		err = c.engine.HalveSize()
	case '[':
		c.engine.SetSpeed(c.engine.Status().SpeedMs - speedStepMs)
	case ']':
		c.engine.SetSpeed(c.engine.Status().SpeedMs + speedStepMs)
	default:
		return false
	}
	c.setMessage(err)
	c.Redraw()
	return false
}

func (c *Console) handleMouse(ev *tcell.EventMouse) {
	c.mu.Lock()
	pressed := ev.Buttons()&tcell.Button1 != 0 && c.prevButtons&tcell.Button1 == 0
	c.prevButtons = ev.Buttons()
	c.mu.Unlock()
	if !pressed {
		return
	}

	x, y := ev.Position()
	st := c.engine.Status()
	if y >= st.Rows || x/2 >= st.Cols {
		return
	}
	c.setMessage(c.engine.ToggleCell(y, x/2))
	c.Redraw()
}

func (c *Console) setMessage(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.message = ""
	if err != nil {
		c.message = err.Error()
	}
}

func (c *Console) draw(g *model.Grid, st engine.Status) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.screen.Clear()
	for r := range g.Rows() {
		for col := range g.Cols() {
			style := deadStyle
			if g.Get(r, col) {
				style = aliveStyle
			}
			c.screen.SetContent(col*2, r, ' ', nil, style)
			c.screen.SetContent(col*2+1, r, ' ', nil, style)
		}
	}

	status := fmt.Sprintf("Gen: %d | Grid: %dx%d | Speed: %dms | Living: %d | %s",
		st.Generation, g.Rows(), g.Cols(), st.SpeedMs, g.CountLivingCells(), st.RunState)
	drawText(c.screen, 0, g.Rows()+1, statusStyle, status)
	drawText(c.screen, 0, g.Rows()+2, statusStyle, helpLine)
	if c.message != "" {
		drawText(c.screen, 0, g.Rows()+3, errorStyle, c.message)
	}
	c.screen.Show()
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range []rune(text) {
		s.SetContent(x+i, y, r, nil, style)
	}
}
