package harness

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// ErrPerfUnavailable is returned when hardware counters cannot be opened on
// this platform or under the current permissions.
var ErrPerfUnavailable = errors.New("hardware performance counters unavailable")

// PerfCounters holds hardware counter readings for one kernel call.
type PerfCounters struct {
	Cycles          uint64 `json:"cycles"`
	Instructions    uint64 `json:"instructions"`
	CacheReferences uint64 `json:"cache_references,omitempty"`
	CacheMisses     uint64 `json:"cache_misses,omitempty"`
	L1DMisses       uint64 `json:"l1d_misses,omitempty"`
	LLCMisses       uint64 `json:"llc_misses,omitempty"`

	// Derived
	IPC           float64 `json:"ipc"`
	CacheMissRate float64 `json:"cache_miss_rate,omitempty"`
}

func (pc *PerfCounters) derive() {
	if pc.Cycles > 0 {
		pc.IPC = float64(pc.Instructions) / float64(pc.Cycles)
	}
	if pc.CacheReferences > 0 {
		pc.CacheMissRate = float64(pc.CacheMisses) / float64(pc.CacheReferences)
	}
}

// String formats performance counters for display
func (pc *PerfCounters) String() string {
	var sb strings.Builder

	sb.WriteString("Performance Counters:\n")
	if pc.Cycles > 0 {
		fmt.Fprintf(&sb, "  CPU Cycles:        %d\n", pc.Cycles)
		fmt.Fprintf(&sb, "  Instructions:      %d\n", pc.Instructions)
		fmt.Fprintf(&sb, "  IPC:               %.2f\n", pc.IPC)
	}
	if pc.L1DMisses > 0 {
		fmt.Fprintf(&sb, "  L1D Cache Misses:  %d\n", pc.L1DMisses)
	}
	if pc.LLCMisses > 0 {
		fmt.Fprintf(&sb, "  LLC Misses:        %d\n", pc.LLCMisses)
	}
	if pc.CacheReferences > 0 {
		fmt.Fprintf(&sb, "  Cache Miss Rate:   %.2f%%\n", pc.CacheMissRate*100)
	}
	return sb.String()
}

// Measure runs fn with hardware counters enabled on the calling thread. The
// goroutine is locked to its OS thread for the duration, since the counters
// follow a thread and not a goroutine. If the counters cannot be opened fn
// still runs and the returned counters are nil.
func Measure(fn func() error) (*PerfCounters, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	pm := NewPerfMonitor()
	if err := pm.Start(); err != nil {
		return nil, fn()
	}
	err := fn()
	counters := pm.Stop()
	if err != nil {
		return nil, err
	}
	return counters, nil
}

// PerfAvailable reports whether hardware counters can be opened.
func PerfAvailable() error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	pm := NewPerfMonitor()
	if err := pm.Start(); err != nil {
		return err
	}
	pm.Stop()
	return nil
}
