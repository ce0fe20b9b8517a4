package audio

import (
	"encoding/binary"
	"sync"
)

// Tap records the last N played frames into a ring so the overlay can draw
// a scope of what is actually coming out of the device.
type Tap struct {
	buffer    [][2]float64
	nextIndex int
	partial   []byte
	mu        sync.RWMutex
}

func NewTap(ringSize int) *Tap {
	return &Tap{buffer: make([][2]float64, ringSize)}
}

// Write takes raw int16 stereo bytes as handed out by RingBuffer.Read.
// A trailing partial frame is held until the next call.
func (t *Tap) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	data := p
	if len(t.partial) > 0 {
		data = append(t.partial, p...)
		t.partial = nil
	}
	for len(data) >= BytesPerSample {
		t.buffer[t.nextIndex] = [2]float64{
			float64(int16(binary.LittleEndian.Uint16(data))) / 32768,
			float64(int16(binary.LittleEndian.Uint16(data[2:]))) / 32768,
		}
		t.nextIndex++
		if t.nextIndex >= len(t.buffer) {
			t.nextIndex = 0
		}
		data = data[BytesPerSample:]
	}
	if len(data) > 0 {
		t.partial = append([]byte(nil), data...)
	}
	return len(p), nil
}

// Snapshot returns up to the last n frames, oldest first.
func (t *Tap) Snapshot(n int) [][2]float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if n > len(t.buffer) {
		n = len(t.buffer)
	}
	out := make([][2]float64, n)
	idx := t.nextIndex - n
	if idx < 0 {
		idx += len(t.buffer)
	}
	for i := range out {
		out[i] = t.buffer[idx]
		idx++
		if idx >= len(t.buffer) {
			idx = 0
		}
	}
	return out
}
