// Package gui is a desktop window front end for the engine. The window itself
// needs the ebiten build tag; without it Run reports ErrUnavailable.
package gui

import (
	"image/color"

	"github.com/sheikhrachel/go-life/model"
)

var (
	aliveColor color.Color = color.Black
	deadColor  color.Color = color.White
)

// fillGridRGBA converts grid cells into RGBA pixels in buf, one pixel per cell.
// buf must hold 4*rows*cols bytes.
func fillGridRGBA(buf []byte, g *model.Grid, on, off color.Color) {
	rOn, gOn, bOn, aOn := on.RGBA()
	rOff, gOff, bOff, aOff := off.RGBA()
	cols := g.Cols()
	for r := range g.Rows() {
		for c := range cols {
			base := (r*cols + c) * 4
			if g.Get(r, c) {
				buf[base+0] = uint8(rOn >> 8)
				buf[base+1] = uint8(gOn >> 8)
				buf[base+2] = uint8(bOn >> 8)
				buf[base+3] = uint8(aOn >> 8)
				continue
			}
			buf[base+0] = uint8(rOff >> 8)
			buf[base+1] = uint8(gOff >> 8)
			buf[base+2] = uint8(bOff >> 8)
			buf[base+3] = uint8(aOff >> 8)
		}
	}
}

// cellAt maps a window position to grid coordinates for a given cell scale
func cellAt(x, y, scale int) (row, col int, ok bool) {
	if scale <= 0 || x < 0 || y < 0 {
		return 0, 0, false
	}
	return y / scale, x / scale, true
}
