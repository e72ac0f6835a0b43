package dgemm

// GenerateFloat64 generates deterministic float64 data in [0, 1) using a
// linear congruential generator (LCG). This keeps benchmark inputs and test
// fixtures reproducible across runs and platforms.
//
// Example:
//
//	data := GenerateFloat64(1024, 12345)
func GenerateFloat64(size int, seed uint64) []float64 {
	data := make([]float64, size)
	rng := seed
	for i := range data {
		rng = rng*6364136223846793005 + 1442695040888963407 // Knuth MMIX
		data[i] = float64(rng>>11) / (1 << 53)
	}
	return data
}

// GenerateFloat64Range generates deterministic float64 data in [min, max).
//
// Example:
//
//	data := GenerateFloat64Range(1024, 42, -1.0, 1.0)
func GenerateFloat64Range(size int, seed uint64, min, max float64) []float64 {
	data := GenerateFloat64(size, seed)
	scale := max - min
	for i := range data {
		data[i] = data[i]*scale + min
	}
	return data
}

// GeneratePattern returns size elements where element i is i mod 64.
func GeneratePattern(size int) []float64 {
	data := make([]float64, size)
	for i := range data {
		data[i] = float64(i % PatternModulus)
	}
	return data
}

// TestMatrixOrders returns orders exercising tiny, odd, tile-unaligned and
// cache-sized matrices.
func TestMatrixOrders() []int {
	return []int{
		1, 2, 3, // Degenerate
		17,  // Prime, never a multiple of a tile
		50,  // Multiple of the default tile
		64,  // Power of two
		129, // One past a power of two
	}
}

// SlicesAlmostEqual checks if two float64 slices are element-wise equal
// within an absolute tolerance.
func SlicesAlmostEqual(a, b []float64, tolerance float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		diff := a[i] - b[i]
		if diff < 0 {
			diff = -diff
		}
		if !(diff <= tolerance) {
			return false
		}
	}
	return true
}
