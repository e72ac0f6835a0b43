package dgemm

import "time"

// Tiled is step 3: cache blocking. The output is walked tile by tile
// (row tile, column tile) and each output tile accumulates the products of
// one k tile of A and B at a time, so the three T x T working sets stay
// resident while they are reused.
//
// Tiles on the last row, column and k strip are clipped to the remaining
// extent when n is not a multiple of the tile size. Each output element
// receives its k terms in ascending order, so the result equals a triple
// loop regrouped by tile.
type Tiled struct{}

// Name implements Kernel.
func (Tiled) Name() string { return "step03" }

// Multiply implements Kernel. tileSize must be in [1, n].
func (Tiled) Multiply(n int, a, b, c *Matrix, tileSize int) (time.Duration, error) {
	if err := checkOperands("Tiled", n, a, b, c); err != nil {
		return 0, err
	}
	if err := checkTile("Tiled", n, tileSize, a, b, c); err != nil {
		return 0, err
	}
	return timed(func() { tiled(n, tileSize, a.Data, b.Data, c.Data) }), nil
}

func tiled(n, t int, a, b, c []float64) {
	clear(c[:n*n])
	for ii := 0; ii < n; ii += t {
		iEnd := min(ii+t, n)
		for jj := 0; jj < n; jj += t {
			jEnd := min(jj+t, n)
			for kk := 0; kk < n; kk += t {
				kEnd := min(kk+t, n)

				for i := ii; i < iEnd; i++ {
					row := i * n
					for j := jj; j < jEnd; j++ {
						for k := kk; k < kEnd; k++ {
							c[row+j] += a[row+k] * b[k*n+j]
						}
					}
				}
			}
		}
	}
}

// TiledUnrolled is step 4: the step 3 tile walk with a register-blocked
// inner body. Each output element is loaded into an accumulator once per k
// tile, the k sweep is unrolled by UnrollFactor, and the element is stored
// once. The additions happen in the same order as step 3.
type TiledUnrolled struct{}

// Name implements Kernel.
func (TiledUnrolled) Name() string { return "step04" }

// Multiply implements Kernel. tileSize must be in [1, n].
func (TiledUnrolled) Multiply(n int, a, b, c *Matrix, tileSize int) (time.Duration, error) {
	if err := checkOperands("TiledUnrolled", n, a, b, c); err != nil {
		return 0, err
	}
	if err := checkTile("TiledUnrolled", n, tileSize, a, b, c); err != nil {
		return 0, err
	}
	return timed(func() { tiledUnrolled(n, tileSize, a.Data, b.Data, c.Data) }), nil
}

func tiledUnrolled(n, t int, a, b, c []float64) {
	clear(c[:n*n])
	for ii := 0; ii < n; ii += t {
		iEnd := min(ii+t, n)
		for jj := 0; jj < n; jj += t {
			jEnd := min(jj+t, n)
			for kk := 0; kk < n; kk += t {
				kEnd := min(kk+t, n)
				// Last k where a full unrolled group still fits.
				kMain := kk + (kEnd-kk)/UnrollFactor*UnrollFactor

				for i := ii; i < iEnd; i++ {
					arow := a[i*n+kk : i*n+kEnd]
					crow := c[i*n : i*n+n]
					for j := jj; j < jEnd; j++ {
						sum := crow[j]
						k := kk
						for ; k < kMain; k += UnrollFactor {
							ak := arow[k-kk : k-kk+UnrollFactor]
							sum += ak[0] * b[k*n+j]
							sum += ak[1] * b[(k+1)*n+j]
							sum += ak[2] * b[(k+2)*n+j]
							sum += ak[3] * b[(k+3)*n+j]
						}
						for ; k < kEnd; k++ {
							sum += arow[k-kk] * b[k*n+j]
						}
						crow[j] = sum
					}
				}
			}
		}
	}
}
