package harness

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerfCounterFormatting(t *testing.T) {
	pc := &PerfCounters{
		Cycles:          4_500_000_000,
		Instructions:    9_000_000_000,
		CacheReferences: 10_000_000,
		CacheMisses:     2_000_000,
		L1DMisses:       4_000_000,
		LLCMisses:       1_000_000,
	}
	pc.derive()
	assert.Equal(t, 2.0, pc.IPC)
	assert.Equal(t, 0.2, pc.CacheMissRate)

	str := pc.String()
	assert.Contains(t, str, "IPC:               2.00")
	assert.Contains(t, str, "L1D Cache Misses:  4000000")
	assert.Contains(t, str, "Cache Miss Rate:   20.00%")

	empty := &PerfCounters{}
	empty.derive()
	assert.Zero(t, empty.IPC)
	assert.Equal(t, "Performance Counters:\n", empty.String())
}

func TestMeasure(t *testing.T) {
	if err := PerfAvailable(); err != nil {
		t.Skipf("Performance counters not available: %v", err)
	}

	counters, err := Measure(func() error {
		sum := 0.0
		for i := 0; i < 1_000_000; i++ {
			sum += float64(i)
		}
		_ = sum
		return nil
	})
	require.NoError(t, err)
	require.NotNil(t, counters)
	assert.NotZero(t, counters.Instructions)
	assert.NotZero(t, counters.Cycles)
	t.Logf("\n%s", counters)

	boom := errors.New("boom")
	_, err = Measure(func() error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestRunWithPerf(t *testing.T) {
	cfg := testConfig(16)
	cfg.Perf = true
	h, err := New(cfg)
	require.NoError(t, err)

	results, err := h.Run(context.Background())
	require.NoError(t, err)
	for _, r := range results {
		if h.perf {
			assert.NotNil(t, r.Counters, r.Step)
		} else {
			assert.Nil(t, r.Counters, r.Step)
		}
	}
}
