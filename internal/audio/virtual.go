package audio

import "time"

// Virtual is a device with no hardware behind it: the play cursor advances
// with the clock at the nominal byte rate, so headless runs exercise the same
// ring arithmetic as a real backend.
type Virtual struct {
	*RingBuffer

	Now func() time.Time

	bytesPerSecond int
	start          time.Time
	consumed       int64
	scratch        []byte
}

// NewVirtual creates a stopped virtual device of sizeBytes.
func NewVirtual(samplesPerSecond, sizeBytes int) *Virtual {
	return &Virtual{
		RingBuffer:     NewRingBuffer(sizeBytes, samplesPerSecond*BytesPerSample/100),
		Now:            time.Now,
		bytesPerSecond: samplesPerSecond * BytesPerSample,
		scratch:        make([]byte, 4096),
	}
}

func (v *Virtual) Play() error {
	v.start = v.Now()
	v.consumed = 0
	return v.RingBuffer.Play()
}

// PlayCursor consumes whatever the clock says has been played since the last call.
func (v *Virtual) PlayCursor() (uint32, uint32, error) {
	if !v.start.IsZero() {
		v.advance()
	}
	return v.RingBuffer.PlayCursor()
}

func (v *Virtual) advance() {
	elapsed := v.Now().Sub(v.start)
	due := int64(elapsed) * int64(v.bytesPerSecond) / int64(time.Second)
	due -= due % BytesPerSample
	for v.consumed < due {
		n := min(int64(len(v.scratch)), due-v.consumed)
		_, _ = v.Read(v.scratch[:n])
		v.consumed += n
	}
}
