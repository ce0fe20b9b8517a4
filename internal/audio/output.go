// Package audio keeps the sound ring buffer a fixed latency ahead of the
// device play cursor.
package audio

// BytesPerSample is one stereo frame of two 16-bit samples.
const BytesPerSample = 4

// Output is the writer's view of the looping secondary buffer.
type Output struct {
	SamplesPerSecond    int
	ToneHz              int
	ToneVolume          int16
	RunningSampleIndex  uint64
	WavePeriod          int
	BytesPerSample      int
	SecondaryBufferSize int
	LatencySampleCount  int
}

// NewOutput sizes a one-second ring for the given rate.
func NewOutput(samplesPerSecond, toneHz int, toneVolume int16, latencySampleCount int) *Output {
	return &Output{
		SamplesPerSecond:    samplesPerSecond,
		ToneHz:              toneHz,
		ToneVolume:          toneVolume,
		WavePeriod:          samplesPerSecond / toneHz,
		BytesPerSample:      BytesPerSample,
		SecondaryBufferSize: samplesPerSecond * BytesPerSample,
		LatencySampleCount:  latencySampleCount,
	}
}

// BytesToLock is the ring offset of the next byte the writer produces.
func (o *Output) BytesToLock() uint32 {
	return uint32(o.RunningSampleIndex * uint64(o.BytesPerSample) % uint64(o.SecondaryBufferSize))
}

// TargetCursor is where the writer should stop this frame: LatencySampleCount
// samples past the current play cursor, rounded down to a whole sample.
func (o *Output) TargetCursor(playCursor uint32) uint32 {
	size := uint64(o.SecondaryBufferSize)
	t := (uint64(playCursor) + uint64(o.LatencySampleCount*o.BytesPerSample)) % size
	return uint32(t - t%uint64(o.BytesPerSample))
}

// BytesToWrite is the forward distance from bytesToLock to targetCursor in a
// ring of size bytes. Equal cursors mean nothing to write.
func BytesToWrite(bytesToLock, targetCursor, size uint32) uint32 {
	if bytesToLock > targetCursor {
		return size - bytesToLock + targetCursor
	}
	return targetCursor - bytesToLock
}
