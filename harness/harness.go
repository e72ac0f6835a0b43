// Package harness runs the dgemm kernels across a sweep of matrix orders,
// grades each against the reference and hands the results to sinks.
package harness

import (
	"context"
	"fmt"
	"time"

	"k8s.io/klog/v2"

	"github.com/LynnColeArt/dgemm"
)

// Harness owns the input and output matrices of a sweep. Kernel calls are
// strictly sequential: A and B are shared read-only by every call in one
// size iteration and each call gets a freshly allocated C.
type Harness struct {
	cfg   Config
	sinks []Sink
	perf  bool

	// now stamps results; replaced in tests.
	now func() time.Time
}

// New validates cfg and returns a harness that records to sinks.
func New(cfg Config, sinks ...Sink) (*Harness, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	h := &Harness{
		cfg:   cfg,
		sinks: sinks,
		perf:  cfg.Perf,
		now:   time.Now,
	}
	klog.V(1).InfoS("Tile working set", "tile", cfg.TileSize,
		"bytes", dgemm.TileWorkingSet(cfg.TileSize), "fits", dgemm.TileCacheLevel(cfg.TileSize))
	if h.perf {
		if err := PerfAvailable(); err != nil {
			klog.InfoS("Hardware counters disabled", "err", err)
			h.perf = false
		}
	}
	return h, nil
}

// Run executes the sweep and returns every recorded result. It stops at the
// first allocation failure, sink failure, kernel error or, with
// FailOnDeviation, out of tolerance kernel; the results recorded before the
// failure are returned with the error. ctx is checked between kernel calls.
func (h *Harness) Run(ctx context.Context) ([]Result, error) {
	var results []Result
	for _, n := range h.cfg.Sizes {
		klog.InfoS("Starting iteration", "size", n, "tile", h.cfg.TileSize)
		rs, err := h.runSize(ctx, n)
		results = append(results, rs...)
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

// runSize runs the reference and every kernel for one order.
func (h *Harness) runSize(ctx context.Context, n int) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a, b, err := h.inputs(n)
	if err != nil {
		return nil, err
	}

	oracle, err := dgemm.NewMatrix(n)
	if err != nil {
		return nil, err
	}
	ref, err := h.call(dgemm.Reference{}, n, a, b, oracle)
	if err != nil {
		return nil, err
	}
	// The reference row is graded against itself.
	if ref.Deviation, err = dgemm.Deviation(oracle, oracle, n); err != nil {
		return nil, err
	}
	if err := h.record(ref); err != nil {
		return nil, err
	}
	results := []Result{ref}

	for _, k := range h.cfg.Kernels {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		c, err := dgemm.NewMatrix(n)
		if err != nil {
			return results, err
		}
		res, err := h.call(k, n, a, b, c)
		if err != nil {
			return results, err
		}
		if res.Deviation, err = dgemm.Deviation(c, oracle, n); err != nil {
			return results, err
		}
		if res.MaxDeviation, err = dgemm.MaxDeviation(c, oracle, n); err != nil {
			return results, err
		}
		if err := h.check(k.Name(), oracle, c); err != nil {
			return results, err
		}
		if err := h.record(res); err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// inputs allocates and fills A and B for order n.
func (h *Harness) inputs(n int) (*dgemm.Matrix, *dgemm.Matrix, error) {
	a, err := dgemm.NewMatrix(n)
	if err != nil {
		return nil, nil, err
	}
	b, err := dgemm.NewMatrix(n)
	if err != nil {
		return nil, nil, err
	}
	if h.cfg.Seed == 0 {
		dgemm.FillPattern(a)
		dgemm.FillPattern(b)
	} else {
		dgemm.FillRandom(a, h.cfg.Seed, -1, 1)
		dgemm.FillRandom(b, h.cfg.Seed+1, -1, 1)
	}
	return a, b, nil
}

// call runs one kernel with the optional cache flush and counters.
func (h *Harness) call(k dgemm.Kernel, n int, a, b, c *dgemm.Matrix) (Result, error) {
	if h.cfg.ColdCache {
		FlushCaches()
	}

	var elapsed time.Duration
	multiply := func() error {
		var err error
		elapsed, err = k.Multiply(n, a, b, c, h.cfg.TileSize)
		return err
	}

	var counters *PerfCounters
	var err error
	if h.perf {
		counters, err = Measure(multiply)
	} else {
		err = multiply()
	}
	if err != nil {
		return Result{}, err
	}

	klog.V(1).InfoS("Kernel finished", "step", k.Name(), "size", n, "elapsed", elapsed)
	return Result{
		Step:      k.Name(),
		Size:      n,
		Tile:      h.cfg.TileSize,
		Elapsed:   elapsed,
		GFLOPS:    gflops(n, elapsed),
		Counters:  counters,
		Timestamp: h.now(),
	}, nil
}

// check grades c against the configured tolerance, if any.
func (h *Harness) check(step string, oracle, c *dgemm.Matrix) error {
	if h.cfg.Tolerance == nil {
		return nil
	}
	vr := dgemm.Verify(oracle, c, *h.cfg.Tolerance)
	if vr.IsAcceptable() {
		return nil
	}
	if h.cfg.FailOnDeviation {
		return vr.Err(step)
	}
	klog.Warningf("%s outside tolerance at size %d: %s", step, c.N, vr)
	return nil
}

func (h *Harness) record(r Result) error {
	for _, s := range h.sinks {
		if err := s.Record(r); err != nil {
			return dgemm.NewExecutionError("Record", fmt.Sprintf("%s at size %d", r.Step, r.Size), err)
		}
	}
	return nil
}
