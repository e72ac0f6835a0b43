package harness

import (
	"github.com/LynnColeArt/dgemm"
)

// FlushSize is the size of the eviction buffer: eight times the nominal L3,
// so a flush covers last level caches well beyond it.
const FlushSize = 8 * dgemm.L3CacheSize

var flushBuf []byte

// FlushCaches writes every cache line of a FlushSize buffer twice with
// different patterns so that matrix data is evicted before the next kernel
// call. The buffer is allocated on first use and reused afterwards.
func FlushCaches() {
	if flushBuf == nil {
		flushBuf = make([]byte, FlushSize)
	}
	data := flushBuf
	for i := 0; i < len(data); i += dgemm.CacheLineSize {
		data[i] = byte(i)
	}
	for i := 0; i < len(data); i += dgemm.CacheLineSize {
		data[i] = byte(i * 7)
	}
}
