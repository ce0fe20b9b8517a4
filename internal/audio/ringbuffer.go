package audio

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
)

// RingBuffer is a software secondary buffer. A backend pulls from it with
// Read, which advances the play cursor; the writer fills it through
// Lock/Unlock. The mutex is held from Lock until Unlock so the reader never
// sees a half-written region.
type RingBuffer struct {
	mu       sync.Mutex
	data     []byte
	play     int
	guard    int
	playing  bool
	locked   atomic.Bool
	observer io.Writer
}

// NewRingBuffer allocates size bytes. writeGuard is how far the reported
// write cursor runs ahead of the play cursor.
func NewRingBuffer(size, writeGuard int) *RingBuffer {
	writeGuard -= writeGuard % BytesPerSample
	return &RingBuffer{
		data:  make([]byte, size),
		guard: writeGuard,
	}
}

// SetObserver receives a copy of every byte played.
func (r *RingBuffer) SetObserver(w io.Writer) {
	r.mu.Lock()
	r.observer = w
	r.mu.Unlock()
}

func (r *RingBuffer) Size() int { return len(r.data) }

func (r *RingBuffer) PlayCursor() (uint32, uint32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return uint32(r.play), uint32((r.play + r.guard) % len(r.data)), nil
}

func (r *RingBuffer) Lock(offset, length uint32) ([]byte, []byte, error) {
	size := uint32(len(r.data))
	if offset >= size || length > size {
		return nil, nil, fmt.Errorf("%w: lock %d+%d of %d-byte buffer", ErrDeviceUnavailable, offset, length, size)
	}
	r.mu.Lock()
	r.locked.Store(true)
	end := offset + length
	if end <= size {
		return r.data[offset:end], r.data[:0], nil
	}
	return r.data[offset:], r.data[:end-size], nil
}

func (r *RingBuffer) Unlock([]byte, []byte) error {
	if !r.locked.CompareAndSwap(true, false) {
		return fmt.Errorf("%w: unlock without lock", ErrDeviceUnavailable)
	}
	r.mu.Unlock()
	return nil
}

func (r *RingBuffer) Play() error {
	r.mu.Lock()
	r.playing = true
	r.mu.Unlock()
	return nil
}

// Stop halts playback; the play cursor stays where it is.
func (r *RingBuffer) Stop() {
	r.mu.Lock()
	r.playing = false
	r.mu.Unlock()
}

func (r *RingBuffer) Close() error {
	r.Stop()
	return nil
}

// Read plays len(p) bytes from the play cursor, wrapping at the end of the
// buffer. A stopped buffer yields silence and keeps its cursor.
func (r *RingBuffer) Read(p []byte) (int, error) {
	r.mu.Lock()
	if !r.playing {
		r.mu.Unlock()
		clear(p)
		return len(p), nil
	}
	n := 0
	for n < len(p) {
		c := copy(p[n:], r.data[r.play:])
		n += c
		r.play = (r.play + c) % len(r.data)
	}
	observer := r.observer
	r.mu.Unlock()

	if observer != nil {
		_, _ = observer.Write(p)
	}
	return len(p), nil
}
