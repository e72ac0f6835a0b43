package dgemm

import (
	"fmt"
	"testing"
)

// BenchmarkKernels compares every kernel across cache regimes: 64 fits in
// L2, 256 fits in L3, 512 spills to memory.
func BenchmarkKernels(b *testing.B) {
	for _, n := range []int{64, 256, 512} {
		a, bm := operands(b, n, 0)
		c, err := NewMatrix(n)
		if err != nil {
			b.Fatal(err)
		}
		for _, k := range All() {
			b.Run(fmt.Sprintf("%s/N%d", k.Name(), n), func(b *testing.B) {
				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					if _, err := k.Multiply(n, a, bm, c, DefaultTileSize); err != nil {
						b.Fatal(err)
					}
				}
				reportGFLOPS(b, n)
			})
		}
	}
}

// BenchmarkTileSizes sweeps the blocking factor for the tiled kernels.
func BenchmarkTileSizes(b *testing.B) {
	const n = 384
	a, bm := operands(b, n, 0)
	c, err := NewMatrix(n)
	if err != nil {
		b.Fatal(err)
	}
	for _, k := range []Kernel{Tiled{}, TiledUnrolled{}} {
		for _, tile := range []int{4, 10, 16, 32, 64, 128} {
			b.Run(fmt.Sprintf("%s/T%d", k.Name(), tile), func(b *testing.B) {
				for i := 0; i < b.N; i++ {
					if _, err := k.Multiply(n, a, bm, c, tile); err != nil {
						b.Fatal(err)
					}
				}
				reportGFLOPS(b, n)
			})
		}
	}
}

func BenchmarkDeviation(b *testing.B) {
	const n = 1000
	x, y := operands(b, n, 3)
	b.SetBytes(2 * n * n * Float64Size)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Deviation(x, y, n); err != nil {
			b.Fatal(err)
		}
	}
}

func reportGFLOPS(b *testing.B, n int) {
	flops := 2 * int64(n) * int64(n) * int64(n)
	seconds := b.Elapsed().Seconds() / float64(b.N)
	gflops := float64(flops) / (seconds * 1e9)
	b.ReportMetric(gflops, "GFLOPS")

	// Compulsory memory traffic: read A and B, write C
	bytes := int64(3 * n * n * Float64Size)
	bandwidth := float64(bytes) / (seconds * 1e9)
	b.ReportMetric(bandwidth, "GB/s")
}
