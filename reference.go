// Package dgemm reference implementation for verification
package dgemm

import (
	"time"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
)

// oracleBlock is the largest output block handed to one Gemm call. gonum
// only spreads a product over goroutines when C spans at least four of its
// 64x64 blocks, so a single block always runs on the calling goroutine.
const oracleBlock = 64

// Reference is the correctness oracle. It delegates to gonum's BLAS DGEMM,
// an independent library implementation, so the stepped kernels are never
// graded against code written in the same style as themselves.
//
// Like every other kernel it is single threaded: C is computed one
// oracleBlock x oracleBlock block at a time, each block being a full-depth
// Gemm of a row panel of A with a column panel of B.
type Reference struct{}

// Name implements Kernel.
func (Reference) Name() string { return "reference" }

// Multiply computes C = A*B with blas64.Gemm (alpha = 1, beta = 0).
// tileSize is ignored.
func (Reference) Multiply(n int, a, b, c *Matrix, tileSize int) (time.Duration, error) {
	if err := checkOperands("Reference", n, a, b, c); err != nil {
		return 0, err
	}
	return timed(func() { reference(n, a.Data, b.Data, c.Data) }), nil
}

func reference(n int, a, b, c []float64) {
	for i := 0; i < n; i += oracleBlock {
		rows := min(oracleBlock, n-i)
		panelA := blas64.General{Rows: rows, Cols: n, Stride: n, Data: a[i*n:]}
		for j := 0; j < n; j += oracleBlock {
			cols := min(oracleBlock, n-j)
			panelB := blas64.General{Rows: n, Cols: cols, Stride: n, Data: b[j:]}
			block := blas64.General{Rows: rows, Cols: cols, Stride: n, Data: c[i*n+j:]}
			blas64.Gemm(blas.NoTrans, blas.NoTrans, 1, panelA, panelB, 0, block)
		}
	}
}
