package audio

import (
	"encoding/binary"

	"github.com/iburimskiy/gradient-tone/internal/tone"
)

// Writer keeps Output.RunningSampleIndex and the physical write position in
// lock-step. The index only moves when samples actually land in the device.
type Writer struct {
	Out    *Output
	Tone   tone.Generator
	Device Device

	Skipped uint64 // frames the device refused
	Written uint64 // bytes committed
}

func NewWriter(out *Output, gen tone.Generator, dev Device) *Writer {
	return &Writer{Out: out, Tone: gen, Device: dev}
}

// Start primes LatencySampleCount samples and starts looping playback.
func (w *Writer) Start() error {
	if err := w.Fill(w.Out.BytesToLock(), uint32(w.Out.LatencySampleCount*w.Out.BytesPerSample)); err != nil {
		return err
	}
	return w.Device.Play()
}

// Update tops the ring up to LatencySampleCount samples past the current
// play cursor. On a device error nothing is written and the index stays put.
func (w *Writer) Update() error {
	play, _, err := w.Device.PlayCursor()
	if err != nil {
		w.Skipped++
		return err
	}
	lock := w.Out.BytesToLock()
	target := w.Out.TargetCursor(play)
	return w.Fill(lock, BytesToWrite(lock, target, uint32(w.Out.SecondaryBufferSize)))
}

// Fill synthesizes bytesToWrite bytes starting at bytesToLock.
func (w *Writer) Fill(bytesToLock, bytesToWrite uint32) error {
	if bytesToWrite == 0 {
		return nil
	}
	region1, region2, err := w.Device.Lock(bytesToLock, bytesToWrite)
	if err != nil {
		w.Skipped++
		return err
	}
	w.fillRegion(region1)
	w.fillRegion(region2)
	w.Written += uint64(len(region1) + len(region2))
	return w.Device.Unlock(region1, region2)
}

func (w *Writer) fillRegion(region []byte) {
	samples := len(region) / w.Out.BytesPerSample
	for i := 0; i < samples; i++ {
		left, right := w.Tone.Next()
		off := i * w.Out.BytesPerSample
		binary.LittleEndian.PutUint16(region[off:], uint16(left))
		binary.LittleEndian.PutUint16(region[off+2:], uint16(right))
		w.Out.RunningSampleIndex++
	}
}
