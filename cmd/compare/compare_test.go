package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LynnColeArt/dgemm/harness"
)

func res(step string, size int, elapsed time.Duration, dev float64) harness.Result {
	return harness.Result{Step: step, Size: size, Tile: 10, Elapsed: elapsed, Deviation: dev}
}

func TestCompare(t *testing.T) {
	baseline := []harness.Result{
		res("reference", 500, 100*time.Millisecond, 0),
		res("step01", 500, 2*time.Second, 0),
		res("step02", 500, time.Second, 0),
		res("step03", 500, time.Second, 0),
		res("step04", 500, time.Second, 0),
		res("step04", 1000, 0, 0),
	}
	current := []harness.Result{
		res("reference", 500, 100*time.Millisecond, 0),
		res("step01", 500, 1*time.Second, 0),         // faster
		res("step02", 500, 1500*time.Millisecond, 0), // slower
		res("step03", 500, time.Second, 1e-3),        // less accurate
		res("step04", 1000, 10*time.Millisecond, 0),  // zero baseline time
	}

	comps := compare(baseline, current, 1.1, 1e-6)
	require.Len(t, comps, 6)

	status := make(map[string]string)
	for _, c := range comps {
		status[c.key.String()] = c.status
	}
	assert.Equal(t, map[string]string{
		"reference/500": statusPass,
		"step01/500":    statusFaster,
		"step02/500":    statusSlower,
		"step03/500":    statusFail,
		"step04/500":    statusMissing,
		"step04/1000":   statusPass,
	}, status)

	assert.InDelta(t, 2.0, comps[1].speedup, 1e-12)
	assert.InDelta(t, 1e-3, comps[3].drift, 1e-15)
	assert.Zero(t, comps[5].speedup)

	failed := 0
	for _, c := range comps {
		if c.failed() {
			failed++
		}
	}
	assert.Equal(t, 3, failed)
}

func TestCompareLastRowWins(t *testing.T) {
	baseline := []harness.Result{
		res("step01", 500, 10*time.Second, 0),
		res("step01", 500, time.Second, 0),
	}
	current := []harness.Result{res("step01", 500, time.Second, 0)}

	comps := compare(baseline, current, 1.1, 1e-6)
	require.Len(t, comps, 1)
	assert.Equal(t, statusPass, comps[0].status)
}

func TestPrintComparisons(t *testing.T) {
	comps := compare(
		[]harness.Result{res("step01", 2000, 4*time.Second, 0)},
		[]harness.Result{res("step01", 2000, 8*time.Second, 0)},
		1.1, 1e-6)

	var buf bytes.Buffer
	printComparisons(&buf, comps)
	out := buf.String()
	assert.Contains(t, out, "SLOWER:  1")
	assert.Contains(t, out, "step01/2000: 2.00x slower (4.00s -> 8.00s)")
}
