package dgemm

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Deviation returns the sum of absolute element-wise differences between a
// kernel's output and the oracle over the n x n elements. It is the value
// reported in the Error column of the benchmark report.
//
// The sum is accumulated in float64; for the benchmark data (entries below
// 2^53 in magnitude) it cannot overflow for any order that fits in memory.
func Deviation(candidate, oracle *Matrix, n int) (float64, error) {
	if err := checkPair("Deviation", candidate, oracle, n); err != nil {
		return 0, err
	}
	return floats.Distance(candidate.Data, oracle.Data, 1), nil
}

// MaxDeviation returns the largest absolute element-wise difference.
func MaxDeviation(candidate, oracle *Matrix, n int) (float64, error) {
	if err := checkPair("MaxDeviation", candidate, oracle, n); err != nil {
		return 0, err
	}
	return floats.Distance(candidate.Data, oracle.Data, math.Inf(1)), nil
}

// checkPair records the candidate as C and the oracle as A in the
// violation's Operands.
func checkPair(op string, candidate, oracle *Matrix, n int) error {
	ops := Operands{N: n, A: shapeOf(oracle), C: shapeOf(candidate)}
	if candidate == nil || oracle == nil {
		return contractError(op, ErrNilMatrix, ops, "")
	}
	if !candidate.valid(n) || !oracle.valid(n) {
		return contractError(op, ErrBadShape, ops, fmt.Sprintf("matrices are %dx%d and %dx%d, want %dx%d",
			candidate.N, candidate.N, oracle.N, oracle.N, n, n))
	}
	return nil
}
