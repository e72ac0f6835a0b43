//go:build !linux

package harness

// PerfMonitor is a stub on platforms without perf_event_open.
type PerfMonitor struct{}

// NewPerfMonitor returns a stub monitor.
func NewPerfMonitor() *PerfMonitor {
	return &PerfMonitor{}
}

// Start always fails on this platform.
func (pm *PerfMonitor) Start() error {
	return ErrPerfUnavailable
}

// Stop returns empty counters.
func (pm *PerfMonitor) Stop() *PerfCounters {
	return &PerfCounters{}
}
