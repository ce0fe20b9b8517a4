package tone

import "github.com/faiface/beep"

// fullScale matches beep's signed 16-bit codec, so a sample survives
// Format.EncodeSigned unchanged.
const fullScale = 1<<15 - 1

// streamer adapts a Generator to beep so the tone can be encoded or played
// through any beep pipeline.
type streamer struct {
	gen Generator
}

// Streamer wraps g as an infinite beep.Streamer.
func Streamer(g Generator) beep.Streamer {
	return &streamer{gen: g}
}

func (s *streamer) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		l, r := s.gen.Next()
		samples[i][0] = float64(l) / fullScale
		samples[i][1] = float64(r) / fullScale
	}
	return len(samples), true
}

func (*streamer) Err() error { return nil }
