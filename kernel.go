package dgemm

import (
	"fmt"
	"time"
)

// Kernel computes C = A*B for square n x n matrices.
//
// Every variant shares the same signature so the harness can run them
// polymorphically. tileSize is meaningful only to the tiled variants; the
// others accept and ignore it.
//
// Multiply validates its operands before touching C. A contract violation
// (nil or mis-sized matrix, C aliasing A or B, bad tile size for a tiled
// kernel) returns an invalid argument error and leaves C unchanged. On
// success it returns the wall-clock time of the computation alone.
type Kernel interface {
	Name() string
	Multiply(n int, a, b, c *Matrix, tileSize int) (time.Duration, error)
}

// Steps returns the stepped kernels in optimization order.
func Steps() []Kernel {
	return []Kernel{Naive{}, Reordered{}, Tiled{}, TiledUnrolled{}}
}

// All returns the reference kernel followed by the stepped kernels.
func All() []Kernel {
	return append([]Kernel{Reference{}}, Steps()...)
}

// Lookup returns the kernel with the given name.
func Lookup(name string) (Kernel, bool) {
	for _, k := range All() {
		if k.Name() == name {
			return k, true
		}
	}
	return nil, false
}

// checkOperands enforces the contract shared by every kernel. Violations
// carry the shapes they were handed as Operands.
func checkOperands(op string, n int, a, b, c *Matrix) error {
	ops := Operands{N: n, A: shapeOf(a), B: shapeOf(b), C: shapeOf(c)}
	if a == nil || b == nil || c == nil {
		return contractError(op, ErrNilMatrix, ops, "")
	}
	if n < 1 {
		return contractError(op, ErrInvalidSize, ops, fmt.Sprintf("got %d", n))
	}
	for _, m := range []struct {
		name string
		m    *Matrix
	}{{"A", a}, {"B", b}, {"C", c}} {
		if !m.m.valid(n) {
			return contractError(op, ErrBadShape, ops, fmt.Sprintf("%s is %dx%d with %d elements, want %dx%d",
				m.name, m.m.N, m.m.N, len(m.m.Data), n, n))
		}
	}
	if overlaps(c, a) || overlaps(c, b) {
		return contractError(op, ErrAliasedOutput, ops, "")
	}
	return nil
}

// checkTile enforces 1 <= tileSize <= n for the tiled kernels. It runs after
// checkOperands, so the operands are known to be well formed.
func checkTile(op string, n, tileSize int, a, b, c *Matrix) error {
	if tileSize < 1 || tileSize > n {
		ops := Operands{N: n, Tile: tileSize, A: shapeOf(a), B: shapeOf(b), C: shapeOf(c)}
		return contractError(op, ErrBadTile, ops, fmt.Sprintf("T=%d, n=%d", tileSize, n))
	}
	return nil
}

// timed runs fn and returns its elapsed wall-clock time.
func timed(fn func()) time.Duration {
	start := time.Now()
	fn()
	return time.Since(start)
}
