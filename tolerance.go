// Package dgemm tolerance-based verification for floating-point comparisons
package dgemm

import (
	"fmt"
	"math"
)

// ToleranceConfig defines tolerance parameters for floating-point comparison
type ToleranceConfig struct {
	// AbsTol is the absolute tolerance for values near zero
	AbsTol float64

	// RelTol is the relative tolerance as a fraction of the larger value
	RelTol float64

	// ULPTol is the maximum allowed difference in ULPs (Units in Last Place)
	ULPTol int64
}

// DefaultTolerance returns default tolerance configuration for float64
func DefaultTolerance() ToleranceConfig {
	return ToleranceConfig{
		AbsTol: 1e-12,
		RelTol: 1e-9,
		ULPTol: 16,
	}
}

// StrictTolerance only accepts bit-identical values
func StrictTolerance() ToleranceConfig {
	return ToleranceConfig{}
}

// GEMMTolerance returns a tolerance for an order-n product whose operand
// entries are bounded by maxAbs. Two summation orders of n terms can each
// be off by about n * eps/2 * n * maxAbs^2, so they differ by at most twice
// that.
func GEMMTolerance(n int, maxAbs float64) ToleranceConfig {
	eps := math.Nextafter(1, 2) - 1
	bound := 2 * float64(n) * float64(n) * maxAbs * maxAbs * eps
	return ToleranceConfig{
		AbsTol: math.Max(bound, 1e-12),
		RelTol: 1e-9 * math.Max(1, float64(n)/64),
		ULPTol: 0,
	}
}

// Float64NearEqual checks if two float64 values are equal within tolerance
func Float64NearEqual(a, b float64, tol ToleranceConfig) bool {
	// Handle special cases
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	if math.IsInf(a, 0) || math.IsInf(b, 0) {
		return a == b
	}

	// Exactly equal, including +0 == -0
	if a == b {
		return true
	}

	diff := math.Abs(a - b)
	if diff <= tol.AbsTol {
		return true
	}

	larger := math.Max(math.Abs(a), math.Abs(b))
	if diff <= larger*tol.RelTol {
		return true
	}

	if tol.ULPTol > 0 && Float64ULPDiff(a, b) <= tol.ULPTol {
		return true
	}

	return false
}

// Float64ULPDiff computes the difference in ULPs between two float64 values.
// Values of different sign are measured through zero.
func Float64ULPDiff(a, b float64) int64 {
	if a == b {
		return 0
	}
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.MaxInt64
	}

	ordered := func(x float64) int64 {
		bits := int64(math.Float64bits(x))
		if bits < 0 {
			// Map negative values below zero so integer order matches float order
			bits = math.MinInt64 - bits
		}
		return bits
	}

	ia, ib := ordered(a), ordered(b)
	if ia > ib {
		ia, ib = ib, ia
	}
	diff := uint64(ib) - uint64(ia)
	if diff > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(diff)
}

// VerificationResult summarizes an element-wise comparison
type VerificationResult struct {
	MaxAbsError float64
	MaxRelError float64
	MaxULPError int64
	NumErrors   int
	TotalItems  int
	FirstError  int // Index of first error, -1 if none
}

// Verify compares actual against expected element by element. Error
// statistics are accumulated only over elements outside tolerance.
func Verify(expected, actual *Matrix, tol ToleranceConfig) VerificationResult {
	result := VerificationResult{
		TotalItems: len(expected.Data),
		FirstError: -1,
	}

	if expected.N != actual.N || len(expected.Data) != len(actual.Data) {
		result.NumErrors = len(expected.Data)
		return result
	}

	for i, want := range expected.Data {
		got := actual.Data[i]
		if Float64NearEqual(want, got, tol) {
			continue
		}
		result.NumErrors++
		if result.FirstError == -1 {
			result.FirstError = i
		}

		absDiff := math.Abs(want - got)
		if absDiff > result.MaxAbsError || math.IsNaN(absDiff) {
			result.MaxAbsError = absDiff
		}
		if want != 0 {
			if rel := absDiff / math.Abs(want); rel > result.MaxRelError {
				result.MaxRelError = rel
			}
		}
		if ulp := Float64ULPDiff(want, got); ulp > result.MaxULPError {
			result.MaxULPError = ulp
		}
	}

	return result
}

// IsAcceptable returns true if every element was within tolerance
func (r VerificationResult) IsAcceptable() bool {
	return r.NumErrors == 0
}

// Err returns a numerical error describing the mismatch, or nil
func (r VerificationResult) Err(op string) error {
	if r.IsAcceptable() {
		return nil
	}
	return NewNumericalError(op, r.String(), r)
}

// String formats the verification result for display
func (r VerificationResult) String() string {
	if r.NumErrors == 0 {
		return "PASS: All values match within tolerance"
	}

	errorRate := float64(r.NumErrors) / float64(r.TotalItems) * 100
	row, col := -1, -1
	if n := int(math.Sqrt(float64(r.TotalItems))); n > 0 && r.FirstError >= 0 {
		row, col = r.FirstError/n, r.FirstError%n
	}
	return fmt.Sprintf("FAIL: %d/%d values differ (%.2f%%)\n"+
		"  Max absolute error: %e\n"+
		"  Max relative error: %e\n"+
		"  Max ULP difference: %d\n"+
		"  First error at index: %d (row %d, col %d)",
		r.NumErrors, r.TotalItems, errorRate,
		r.MaxAbsError, r.MaxRelError, r.MaxULPError,
		r.FirstError, row, col)
}
