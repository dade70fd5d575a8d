package utils

import (
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"
)

const (
	// MinSpeedMs is the shortest allowed delay between generations
	MinSpeedMs = 10
	// MaxSpeedMs is the longest allowed delay between generations
	MaxSpeedMs = 500

	PatternGlider = "glider"
	PatternRandom = "random"
	PatternEmpty  = "empty"
)

// ErrInvalidConfig is returned when a Config fails validation
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the configuration for the game
type Config struct {
	Rows                int     `json:"rows"`
	Cols                int     `json:"cols"`
	SpeedMs             int     `json:"speed_ms"`
	MinSize             int     `json:"min_size"`
	MaxSize             int     `json:"max_size"`
	RandomDensity       float64 `json:"random_density"`
	Seed                uint64  `json:"seed"`
	UseMemoryPool       bool    `json:"use_memory_pool"`
	MaxGenerations      int     `json:"max_generations"`
	StagnationThreshold int     `json:"stagnation_threshold"`
	Interactive         bool    `json:"interactive"`
	StartPattern        string  `json:"start_pattern"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Rows:                32,
		Cols:                32,
		SpeedMs:             100,
		MinSize:             16,  // 2^4
		MaxSize:             128, // 2^7
		RandomDensity:       0.3,
		UseMemoryPool:       true,
		StagnationThreshold: 5,
		StartPattern:        PatternGlider,
	}
}

// LoadConfig loads configuration from JSON file. Fields absent from the file keep their defaults.
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	}

	if err = json.Unmarshal(data, &config); err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to unmarshal data from file: %+v", filename)
	}

	config.SpeedMs = ClampSpeed(config.SpeedMs)
	if err = config.Validate(); err != nil {
		return DefaultConfig(), errors.Wrapf(err, "[LoadConfig] invalid config in file: %+v", filename)
	}

	return config, nil
}

// Validate checks the size bounds, the grid dimensions and the random density
func (c Config) Validate() error {
	if c.MinSize <= 0 || c.MaxSize < c.MinSize {
		return errors.Wrapf(ErrInvalidConfig, "size bounds [%d, %d]", c.MinSize, c.MaxSize)
	}
	if err := c.CheckSize(c.Rows, c.Cols); err != nil {
		return err
	}
	if c.RandomDensity < 0 || c.RandomDensity > 1 {
		return errors.Wrapf(ErrInvalidConfig, "random density %v outside [0, 1]", c.RandomDensity)
	}
	switch c.StartPattern {
	case "", PatternGlider, PatternRandom, PatternEmpty:
	default:
		return errors.Wrapf(ErrInvalidConfig, "unknown start pattern %q", c.StartPattern)
	}
	return nil
}

// CheckSize reports whether rows × cols fits within [MinSize, MaxSize]
func (c Config) CheckSize(rows, cols int) error {
	if rows <= 0 || cols <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "non-positive grid size %dx%d", rows, cols)
	}
	if rows < c.MinSize || rows > c.MaxSize || cols < c.MinSize || cols > c.MaxSize {
		return errors.Wrapf(ErrInvalidConfig, "grid size %dx%d outside [%d, %d]", rows, cols, c.MinSize, c.MaxSize)
	}
	return nil
}

// Speed returns the delay between generations
func (c Config) Speed() time.Duration {
	return time.Duration(ClampSpeed(c.SpeedMs)) * time.Millisecond
}

// ClampSpeed normalizes a generation delay in milliseconds into [MinSpeedMs, MaxSpeedMs]
func ClampSpeed(ms int) int {
	return min(max(ms, MinSpeedMs), MaxSpeedMs)
}
