package engine

import (
	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-life/utils"
)

var (
	// ErrInvalidConfiguration is returned for grid sizes that are non-positive or outside
	// [MinSize, MaxSize]. It is the same sentinel config validation reports.
	ErrInvalidConfiguration = utils.ErrInvalidConfig
	// ErrOutOfBounds is returned when a cell coordinate lies outside the grid
	ErrOutOfBounds = errors.New("coordinates out of bounds")
	// ErrRunning is returned when a mutation is attempted while the simulation is running
	ErrRunning = errors.New("operation not allowed while running")
)
