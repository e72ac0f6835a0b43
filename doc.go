// Copyright ©2026 The dgemm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dgemm provides a family of progressively optimized dense
// double-precision matrix multiplication kernels (C = A*B, square,
// row-major) together with the oracle and deviation metrics used to grade
// them.
//
// The kernels, in optimization order:
//   - Reference (gonum BLAS DGEMM): the correctness oracle
//   - Naive (step01): r-c-k triple loop
//   - Reordered (step02): r-k-c loop order, sequential rows of B and C
//   - Tiled (step03): cache blocking with clipped edge tiles
//   - TiledUnrolled (step04): tiling plus a register accumulator and a
//     k loop unrolled by four
//
// All kernels share the Kernel interface, are single threaded, keep no
// state between calls, never write to their A or B operands and return the
// wall-clock time of the computation. The harness package drives them
// across a sweep of matrix orders and records the results.
package dgemm
