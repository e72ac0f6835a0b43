package dgemm

import (
	"testing"
)

func TestGenerateFloat64(t *testing.T) {
	// Test deterministic generation
	data1 := GenerateFloat64(100, 12345)
	data2 := GenerateFloat64(100, 12345)

	if !SlicesAlmostEqual(data1, data2, 0) {
		t.Error("GenerateFloat64 is not deterministic")
	}

	// Test different seeds produce different data
	data3 := GenerateFloat64(100, 54321)
	if SlicesAlmostEqual(data1, data3, 0) {
		t.Error("Different seeds should produce different data")
	}

	// Test range [0, 1)
	for i, v := range data1 {
		if v < 0 || v >= 1 {
			t.Errorf("Value %d out of range [0, 1): %f", i, v)
		}
	}
}

func TestGenerateFloat64Range(t *testing.T) {
	min, max := -5.0, 10.0
	data := GenerateFloat64Range(1000, 42, min, max)

	for i, v := range data {
		if v < min || v >= max {
			t.Errorf("Value %d out of range [%f, %f): %f", i, min, max, v)
		}
	}
}

func TestGeneratePattern(t *testing.T) {
	data := GeneratePattern(130)
	for i, v := range data {
		if v != float64(i%64) {
			t.Fatalf("element %d = %v, want %d", i, v, i%64)
		}
	}
}

func TestSlicesAlmostEqual(t *testing.T) {
	if SlicesAlmostEqual([]float64{1}, []float64{1, 2}, 1) {
		t.Error("different lengths compared equal")
	}
	if !SlicesAlmostEqual([]float64{1, 2}, []float64{1.05, 2}, 0.1) {
		t.Error("values within tolerance rejected")
	}
}
