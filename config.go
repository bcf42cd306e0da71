package pointcloud

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Config holds the sampling parameters of the pipeline.
type Config struct {
	Size     int     // raster resolution in pixels, the mask is Size×Size
	Radius   float64 // minimum distance between points in pixels
	MaxTries int     // candidates per active point before it is retired
	Step     float64 // arc length between outline samples
	Seed     uint64  // random seed, zero picks a fresh seed
}

// DefaultConfig is a 512×512 raster with points at least 6 pixels apart.
var DefaultConfig = Config{
	Size:     512,
	Radius:   6.0,
	MaxTries: 30,
	Step:     1.0,
}

// Validate returns an error wrapping ErrUsage for values the pipeline cannot run with.
func (cfg Config) Validate() error {
	if cfg.Size <= 0 || MaxSize < cfg.Size {
		return fmt.Errorf("%w: size must be in [1,%d]: %d", ErrUsage, MaxSize, cfg.Size)
	} else if !(0.0 < cfg.Radius) || math.IsInf(cfg.Radius, 0) {
		return fmt.Errorf("%w: radius must be positive: %v", ErrUsage, cfg.Radius)
	} else if cfg.MaxTries <= 0 {
		return fmt.Errorf("%w: tries must be positive: %d", ErrUsage, cfg.MaxTries)
	} else if !(0.0 < cfg.Step) || math.IsInf(cfg.Step, 0) {
		return fmt.Errorf("%w: step must be positive: %v", ErrUsage, cfg.Step)
	}
	return nil
}

// source returns a random source for the n-th input; it is reproducible when a seed is set.
func (cfg Config) source(n int) *rand.Rand {
	if cfg.Seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(cfg.Seed, uint64(n)))
}
