package harness

import (
	"time"
)

// Result is one record per (kernel, matrix size). Sinks receive it by value
// and must not modify Counters.
type Result struct {
	Step         string        `json:"step"`
	Size         int           `json:"size"`
	Tile         int           `json:"tile"`
	Elapsed      time.Duration `json:"elapsed_ns"`
	Deviation    float64       `json:"deviation"`
	MaxDeviation float64       `json:"max_deviation"`
	GFLOPS       float64       `json:"gflops,omitempty"`
	Counters     *PerfCounters `json:"counters,omitempty"`
	Timestamp    time.Time     `json:"timestamp"`
}

// Seconds returns the elapsed time in seconds, as written to the report.
func (r Result) Seconds() float64 {
	return r.Elapsed.Seconds()
}

// gflops returns the floating point rate of an order-n product (2n^3 flops).
func gflops(n int, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	flops := 2 * float64(n) * float64(n) * float64(n)
	return flops / (elapsed.Seconds() * 1e9)
}
