package harness

import (
	"fmt"
	"slices"

	"github.com/LynnColeArt/dgemm"
)

// Config controls a benchmark sweep.
type Config struct {
	// Sizes are the matrix orders, run in the given order.
	Sizes []int

	// TileSize is passed to every kernel. It must not exceed the smallest
	// order in Sizes.
	TileSize int

	// Kernels are the variants graded against the reference. The reference
	// itself always runs first and must not be listed here.
	Kernels []dgemm.Kernel

	// Seed selects the input data: 0 uses the i mod 64 pattern, anything
	// else fills A and B with deterministic values in [-1, 1).
	Seed uint64

	// Tolerance, when set, is checked against every kernel's output and a
	// warning is logged on mismatch. The report is written either way.
	Tolerance *dgemm.ToleranceConfig

	// FailOnDeviation stops the sweep with a numerical error when a kernel
	// exceeds Tolerance.
	FailOnDeviation bool

	// Perf collects hardware counters around each kernel call when the
	// platform allows it.
	Perf bool

	// ColdCache evicts the caches before each kernel call.
	ColdCache bool
}

// DefaultConfig reproduces the classic sweep: orders 500 to 2000 in steps
// of 500, tile size 10, steps 1 to 4 on pattern data.
func DefaultConfig() Config {
	return Config{
		Sizes:    dgemm.DefaultSizes(),
		TileSize: dgemm.DefaultTileSize,
		Kernels:  dgemm.Steps(),
	}
}

// Validate checks the configuration before any matrix is allocated.
func (c Config) Validate() error {
	if len(c.Sizes) == 0 {
		return dgemm.NewInvalidArgError("Config", "no matrix sizes")
	}
	for _, n := range c.Sizes {
		if n < 1 {
			return dgemm.NewInvalidArgError("Config", fmt.Sprintf("matrix size %d must be positive", n))
		}
	}
	if smallest := slices.Min(c.Sizes); c.TileSize < 1 || c.TileSize > smallest {
		return dgemm.NewInvalidArgError("Config",
			fmt.Sprintf("tile size %d outside [1, %d]", c.TileSize, smallest))
	}
	if len(c.Kernels) == 0 {
		return dgemm.NewInvalidArgError("Config", "no kernels selected")
	}
	seen := make(map[string]bool, len(c.Kernels))
	for _, k := range c.Kernels {
		if k == nil {
			return dgemm.NewInvalidArgError("Config", "nil kernel")
		}
		if _, ok := k.(dgemm.Reference); ok {
			return dgemm.NewInvalidArgError("Config", "the reference kernel always runs and cannot be listed")
		}
		if seen[k.Name()] {
			return dgemm.NewInvalidArgError("Config", fmt.Sprintf("kernel %s listed twice", k.Name()))
		}
		seen[k.Name()] = true
	}
	if c.FailOnDeviation && c.Tolerance == nil {
		return dgemm.NewInvalidArgError("Config", "FailOnDeviation requires a Tolerance")
	}
	return nil
}
