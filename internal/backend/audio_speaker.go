package backend

import (
	"fmt"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"

	"github.com/iburimskiy/gradient-tone/internal/audio"
)

var pcmFormat = beep.Format{NumChannels: 2, Precision: 2}

// SpeakerDevice plays a RingBuffer through beep's speaker. The speaker
// streams silence until Play starts the ring.
type SpeakerDevice struct {
	*audio.RingBuffer

	scratch []byte
}

func NewSpeakerDevice(samplesPerSecond, sizeBytes int) (*SpeakerDevice, error) {
	sr := beep.SampleRate(samplesPerSecond)
	if err := speaker.Init(sr, sr.N(time.Second/100)); err != nil {
		return nil, fmt.Errorf("%w: speaker: %v", audio.ErrDeviceUnavailable, err)
	}

	d := &SpeakerDevice{
		RingBuffer: audio.NewRingBuffer(sizeBytes, samplesPerSecond*audio.BytesPerSample/100),
	}
	speaker.Play(beep.StreamerFunc(d.stream))
	return d, nil
}

// stream runs on the speaker goroutine.
func (d *SpeakerDevice) stream(samples [][2]float64) (int, bool) {
	need := len(samples) * audio.BytesPerSample
	if cap(d.scratch) < need {
		d.scratch = make([]byte, need)
	}
	p := d.scratch[:need]
	_, _ = d.Read(p)
	for i := range samples {
		samples[i], _ = pcmFormat.DecodeSigned(p[i*audio.BytesPerSample:])
	}
	return len(samples), true
}

func (d *SpeakerDevice) Close() error {
	d.RingBuffer.Stop()
	speaker.Clear()
	speaker.Close()
	return nil
}
