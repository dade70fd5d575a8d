//go:build !ebiten

package gui

import "github.com/sheikhrachel/go-life/engine"

// Run reports ErrUnavailable in the headless build
func Run(*engine.Engine, int) error {
	return ErrUnavailable
}
