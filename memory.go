package uhash

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"
)

// Memory alignment for optimal CPU cache performance
const cacheLineSize = 64

// ErrScratchpadAlloc is returned when scratchpad memory cannot be obtained.
var ErrScratchpadAlloc = errors.New("uhash: scratchpad allocation failed")

// hasherPool backs the one-shot Hash function so that repeated calls reuse
// scratchpad memory instead of allocating 2 MiB each time.
var hasherPool = sync.Pool{
	New: func() interface{} {
		h, err := New(Config{Flags: DetectFlags()})
		if err != nil {
			panic(err)
		}
		return h
	},
}

// poolGetHasher retrieves a hasher from the pool.
func poolGetHasher() *Hasher {
	return hasherPool.Get().(*Hasher)
}

// poolPutHasher returns a hasher to the pool for reuse.
func poolPutHasher(h *Hasher) {
	if h != nil && h.IsReady() {
		hasherPool.Put(h)
	}
}

// allocateScratchpads allocates a cache-line aligned arena of size bytes.
//
// A failed allocation is reported as ErrScratchpadAlloc instead of a panic. Note that
// the Go runtime treats true memory exhaustion as fatal, so only failures the
// runtime reports as panics (such as an impossible size) can be surfaced this way.
func allocateScratchpads(size int) (arena []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			arena = nil
			err = fmt.Errorf("%w: %d bytes: %v", ErrScratchpadAlloc, size, r)
		}
	}()

	if size <= 0 {
		return nil, fmt.Errorf("%w: invalid size %d", ErrScratchpadAlloc, size)
	}

	// Allocate slightly larger to allow alignment
	buf := make([]byte, size+cacheLineSize)

	offset := cacheLineSize - (int(uintptr(unsafe.Pointer(&buf[0]))) % cacheLineSize)
	if offset == cacheLineSize {
		offset = 0
	}

	return buf[offset : offset+size : offset+size], nil
}

// zeroBytes clears a byte slice.
func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
