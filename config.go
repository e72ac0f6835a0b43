// Package dgemm configuration constants
package dgemm

// Nominal cache sizes (in bytes) used to classify tile working sets and to
// size the cold-cache eviction buffer. They are not probed from the host.
const (
	// L1 data cache per core
	L1CacheSize = 32 * 1024 // 32KB

	// L2 cache per core
	L2CacheSize = 256 * 1024 // 256KB

	// L3 cache, shared
	L3CacheSize = 8 * 1024 * 1024 // 8MB

	// Cache line size in bytes
	CacheLineSize = 64
)

// Blocking parameters
const (
	// DefaultTileSize is the blocking factor used by the sweep. Three 10x10
	// float64 tiles take 2.4KB, well inside L1.
	DefaultTileSize = 10

	// UnrollFactor for the k loop of the step 4 inner kernel. The kernel
	// body is written out for exactly four terms.
	UnrollFactor = 4
)

// Sweep parameters
const (
	// SizeStep is the increment between consecutive matrix orders
	SizeStep = 500

	// SizeIterations is the number of orders in the default sweep
	SizeIterations = 4

	// PatternModulus bounds the deterministic fill pattern to [0, 63]
	PatternModulus = 64
)

// Memory limits
const (
	// MaxMatrixBytes caps a single matrix allocation (4 GiB, N ~ 23170)
	MaxMatrixBytes int64 = 4 << 30

	// Float64Size is the size of one element in bytes
	Float64Size = 8
)

// TileWorkingSet is the bytes touched by one tile step of the tiled
// kernels: a tile each of A, B and C.
func TileWorkingSet(tileSize int) int {
	return 3 * tileSize * tileSize * Float64Size
}

// TileCacheLevel names the smallest nominal cache level that holds the
// working set of a tileSize tile, or "memory" when none does.
func TileCacheLevel(tileSize int) string {
	switch ws := TileWorkingSet(tileSize); {
	case ws <= L1CacheSize:
		return "L1"
	case ws <= L2CacheSize:
		return "L2"
	case ws <= L3CacheSize:
		return "L3"
	default:
		return "memory"
	}
}

// DefaultSizes returns the default sweep orders: 500, 1000, 1500, 2000.
func DefaultSizes() []int {
	sizes := make([]int, SizeIterations)
	for i := range sizes {
		sizes[i] = (i + 1) * SizeStep
	}
	return sizes
}
