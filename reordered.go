package dgemm

import "time"

// Reordered is step 2: the same product in r-k-c order. A[r][k] is held in
// a register while the innermost loop streams a row of B and a row of C
// sequentially, trading the naive kernel's column walk of B for repeated
// passes over a row of C.
type Reordered struct{}

// Name implements Kernel.
func (Reordered) Name() string { return "step02" }

// Multiply implements Kernel. tileSize is ignored.
func (Reordered) Multiply(n int, a, b, c *Matrix, tileSize int) (time.Duration, error) {
	if err := checkOperands("Reordered", n, a, b, c); err != nil {
		return 0, err
	}
	return timed(func() { reordered(n, a.Data, b.Data, c.Data) }), nil
}

func reordered(n int, a, b, c []float64) {
	for r := 0; r < n; r++ {
		crow := c[r*n : r*n+n]
		clear(crow)
		arow := a[r*n : r*n+n]
		for k, ark := range arow {
			brow := b[k*n : k*n+n]
			for col := range crow {
				crow[col] += ark * brow[col]
			}
		}
	}
}
