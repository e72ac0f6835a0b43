package dgemm

import (
	"fmt"
	"math"
	"unsafe"
)

// Matrix is a square, dense, row-major matrix of float64 values.
// Element (r, c) lives at Data[r*N+c]; the stride is always N.
//
// The harness owns every Matrix. Kernels only read their A and B operands
// and only write their own C.
type Matrix struct {
	N    int
	Data []float64
}

// NewMatrix allocates a zeroed n x n matrix.
//
// Orders whose storage would overflow int or exceed MaxMatrixBytes are
// refused with a memory error wrapping ErrOutOfMemory, so a size sweep
// stops cleanly at the first order that does not fit. That limit is the
// only guard: a request the runtime cannot satisfy is a fatal error in Go
// and cannot be recovered here.
func NewMatrix(n int) (*Matrix, error) {
	if n < 1 {
		return nil, &Error{Type: ErrTypeInvalidArg, Op: "NewMatrix",
			Message: fmt.Sprintf("got %d", n), Err: ErrInvalidSize}
	}
	if n > int(math.Sqrt(float64(math.MaxInt/Float64Size))) {
		return nil, NewMemoryError("NewMatrix",
			fmt.Sprintf("order %d overflows the addressable size", n), ErrOutOfMemory)
	}
	bytes := int64(n) * int64(n) * Float64Size
	if bytes > MaxMatrixBytes {
		return nil, NewMemoryError("NewMatrix",
			fmt.Sprintf("order %d needs %d bytes, limit is %d", n, bytes, MaxMatrixBytes), ErrOutOfMemory)
	}
	return &Matrix{N: n, Data: make([]float64, n*n)}, nil
}

// Stride returns the distance between the starts of consecutive rows.
func (m *Matrix) Stride() int { return m.N }

// At returns element (r, c).
func (m *Matrix) At(r, c int) float64 { return m.Data[r*m.N+c] }

// Set stores v at element (r, c).
func (m *Matrix) Set(r, c int, v float64) { m.Data[r*m.N+c] = v }

// Row returns row r as a slice sharing the matrix storage.
func (m *Matrix) Row(r int) []float64 { return m.Data[r*m.N : (r+1)*m.N] }

// Clone returns a deep copy of m.
func (m *Matrix) Clone() *Matrix {
	return &Matrix{N: m.N, Data: append([]float64(nil), m.Data...)}
}

// Zero clears every element.
func (m *Matrix) Zero() {
	clear(m.Data)
}

// Identity returns the n x n identity matrix.
func Identity(n int) (*Matrix, error) {
	m, err := NewMatrix(n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		m.Data[i*n+i] = 1
	}
	return m, nil
}

// FillPattern sets element i (in row-major order) to i mod 64. This is the
// data used by the benchmark sweep: every product and partial sum is an
// exactly representable integer for the orders we run.
func FillPattern(m *Matrix) {
	for i := range m.Data {
		m.Data[i] = float64(i % PatternModulus)
	}
}

// FillRandom fills m with deterministic values in [lo, hi).
func FillRandom(m *Matrix, seed uint64, lo, hi float64) {
	copy(m.Data, GenerateFloat64Range(len(m.Data), seed, lo, hi))
}

// valid reports whether m is a well formed n x n matrix.
func (m *Matrix) valid(n int) bool {
	return m != nil && m.N == n && len(m.Data) == n*n
}

// overlaps reports whether the backing storage of x and y intersects.
func overlaps(x, y *Matrix) bool {
	if len(x.Data) == 0 || len(y.Data) == 0 {
		return false
	}
	xs := uintptr(unsafe.Pointer(unsafe.SliceData(x.Data)))
	ys := uintptr(unsafe.Pointer(unsafe.SliceData(y.Data)))
	xe := xs + uintptr(len(x.Data))*Float64Size
	ye := ys + uintptr(len(y.Data))*Float64Size
	return xs < ye && ys < xe
}
