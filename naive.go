package dgemm

import "time"

// Naive is step 1: the textbook r-c-k triple loop. The innermost loop walks
// a column of B, touching a new cache line on every iteration once a row
// of B no longer fits in cache. It is the worst case the later steps are
// measured against.
type Naive struct{}

// Name implements Kernel.
func (Naive) Name() string { return "step01" }

// Multiply implements Kernel. tileSize is ignored.
func (Naive) Multiply(n int, a, b, c *Matrix, tileSize int) (time.Duration, error) {
	if err := checkOperands("Naive", n, a, b, c); err != nil {
		return 0, err
	}
	return timed(func() { naive(n, a.Data, b.Data, c.Data) }), nil
}

func naive(n int, a, b, c []float64) {
	size := n * n
	_ = a[size-1]
	_ = b[size-1]
	_ = c[size-1]

	for r := 0; r < n; r++ {
		row := r * n
		for col := 0; col < n; col++ {
			var sum float64
			for k := 0; k < n; k++ {
				sum += a[row+k] * b[k*n+col]
			}
			c[row+col] = sum
		}
	}
}
