//go:build linux

package harness

import (
	"encoding/binary"
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
	"k8s.io/klog/v2"
)

type perfEvent struct {
	name     string
	typ      uint32
	config   uint64
	optional bool
	store    func(*PerfCounters, uint64)
}

// cacheConfig encodes a PERF_TYPE_HW_CACHE event.
func cacheConfig(cache, op, result uint64) uint64 {
	return cache | op<<8 | result<<16
}

var perfEvents = []perfEvent{
	{"cycles", unix.PERF_TYPE_HARDWARE, unix.PERF_COUNT_HW_CPU_CYCLES, false,
		func(pc *PerfCounters, v uint64) { pc.Cycles = v }},
	{"instructions", unix.PERF_TYPE_HARDWARE, unix.PERF_COUNT_HW_INSTRUCTIONS, false,
		func(pc *PerfCounters, v uint64) { pc.Instructions = v }},
	{"cache-references", unix.PERF_TYPE_HARDWARE, unix.PERF_COUNT_HW_CACHE_REFERENCES, true,
		func(pc *PerfCounters, v uint64) { pc.CacheReferences = v }},
	{"cache-misses", unix.PERF_TYPE_HARDWARE, unix.PERF_COUNT_HW_CACHE_MISSES, true,
		func(pc *PerfCounters, v uint64) { pc.CacheMisses = v }},
	{"L1-dcache-load-misses", unix.PERF_TYPE_HW_CACHE,
		cacheConfig(unix.PERF_COUNT_HW_CACHE_L1D, unix.PERF_COUNT_HW_CACHE_OP_READ, unix.PERF_COUNT_HW_CACHE_RESULT_MISS), true,
		func(pc *PerfCounters, v uint64) { pc.L1DMisses = v }},
	{"LLC-load-misses", unix.PERF_TYPE_HW_CACHE,
		cacheConfig(unix.PERF_COUNT_HW_CACHE_LL, unix.PERF_COUNT_HW_CACHE_OP_READ, unix.PERF_COUNT_HW_CACHE_RESULT_MISS), true,
		func(pc *PerfCounters, v uint64) { pc.LLCMisses = v }},
}

type openEvent struct {
	fd    int
	event *perfEvent
}

// PerfMonitor reads hardware counters through perf_event_open for the
// calling thread. Callers must hold the goroutine on its OS thread between
// Start and Stop.
type PerfMonitor struct {
	open []openEvent
}

// NewPerfMonitor returns a monitor with no counters open.
func NewPerfMonitor() *PerfMonitor {
	return &PerfMonitor{}
}

// Start opens, resets and enables the counters. Cycles and instructions are
// required; cache events the PMU does not expose are skipped.
func (pm *PerfMonitor) Start() error {
	pm.close()

	for i := range perfEvents {
		ev := &perfEvents[i]
		attr := unix.PerfEventAttr{
			Type:   ev.typ,
			Size:   uint32(unsafe.Sizeof(unix.PerfEventAttr{})),
			Config: ev.config,
			Bits:   unix.PerfBitDisabled | unix.PerfBitExcludeKernel | unix.PerfBitExcludeHv,
		}
		fd, err := unix.PerfEventOpen(&attr, 0, -1, -1, unix.PERF_FLAG_FD_CLOEXEC)
		if err != nil {
			if ev.optional {
				klog.V(2).InfoS("Skipping perf event", "event", ev.name, "err", err)
				continue
			}
			pm.close()
			return fmt.Errorf("%w: opening %s: %v", ErrPerfUnavailable, ev.name, err)
		}
		pm.open = append(pm.open, openEvent{fd: fd, event: ev})
	}

	for _, oe := range pm.open {
		if err := unix.IoctlSetInt(oe.fd, unix.PERF_EVENT_IOC_RESET, 0); err != nil {
			pm.close()
			return fmt.Errorf("%w: reset %s: %v", ErrPerfUnavailable, oe.event.name, err)
		}
	}
	for _, oe := range pm.open {
		if err := unix.IoctlSetInt(oe.fd, unix.PERF_EVENT_IOC_ENABLE, 0); err != nil {
			pm.close()
			return fmt.Errorf("%w: enable %s: %v", ErrPerfUnavailable, oe.event.name, err)
		}
	}
	return nil
}

// Stop disables the counters, reads them and closes every descriptor.
func (pm *PerfMonitor) Stop() *PerfCounters {
	for _, oe := range pm.open {
		_ = unix.IoctlSetInt(oe.fd, unix.PERF_EVENT_IOC_DISABLE, 0)
	}

	counters := &PerfCounters{}
	var buf [8]byte
	for _, oe := range pm.open {
		n, err := unix.Read(oe.fd, buf[:])
		if err != nil || n != len(buf) {
			klog.V(2).InfoS("Short perf read", "event", oe.event.name, "n", n, "err", err)
			continue
		}
		oe.event.store(counters, binary.NativeEndian.Uint64(buf[:]))
	}
	pm.close()

	counters.derive()
	return counters
}

func (pm *PerfMonitor) close() {
	for _, oe := range pm.open {
		unix.Close(oe.fd)
	}
	pm.open = nil
}
