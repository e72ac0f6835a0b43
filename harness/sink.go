package harness

import (
	"sync"
)

// Sink receives each Result as soon as it is recorded. Results are only
// ever appended; a sink never sees an update to an earlier record.
type Sink interface {
	Record(Result) error
}

// MemorySink keeps results in memory.
type MemorySink struct {
	mu      sync.Mutex
	results []Result
}

// Record implements Sink.
func (m *MemorySink) Record(r Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, r)
	return nil
}

// Results returns a copy of the recorded results.
func (m *MemorySink) Results() []Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Result(nil), m.results...)
}
