package audio

import (
	"io"
	"os"
	"sync"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
)

// Capture records every played byte so a run can be inspected as a WAV file.
type Capture struct {
	mu  sync.Mutex
	pcm []byte
}

func (c *Capture) Write(p []byte) (int, error) {
	c.mu.Lock()
	c.pcm = append(c.pcm, p...)
	c.mu.Unlock()
	return len(p), nil
}

// Frames is the number of whole stereo frames captured so far.
func (c *Capture) Frames() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pcm) / BytesPerSample
}

// WriteWAV encodes the capture as 16-bit stereo PCM.
func (c *Capture) WriteWAV(w io.WriteSeeker, samplesPerSecond int) error {
	c.mu.Lock()
	pcm := append([]byte(nil), c.pcm[:len(c.pcm)-len(c.pcm)%BytesPerSample]...)
	c.mu.Unlock()

	format := beep.Format{
		SampleRate:  beep.SampleRate(samplesPerSecond),
		NumChannels: 2,
		Precision:   2,
	}
	return wav.Encode(w, pcmStreamer(pcm, format), format)
}

// SaveWAV writes the capture to path.
func (c *Capture) SaveWAV(path string, samplesPerSecond int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := c.WriteWAV(f, samplesPerSecond); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// pcmStreamer plays interleaved little-endian int16 stereo frames once.
// Decoding with the encoder's own format keeps every sample exact through
// wav.Encode, except -32768 which beep clamps to -32767.
func pcmStreamer(pcm []byte, format beep.Format) beep.Streamer {
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if len(pcm) == 0 {
			return 0, false
		}
		n := 0
		for n < len(samples) && len(pcm) >= format.Width() {
			var read int
			samples[n], read = format.DecodeSigned(pcm)
			pcm = pcm[read:]
			n++
		}
		return n, true
	})
}
