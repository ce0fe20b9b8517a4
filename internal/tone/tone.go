// Package tone synthesizes the 16-bit stereo test tone.
package tone

import "math"

// Generator produces one stereo sample pair per call.
type Generator interface {
	Next() (left, right int16)
}

// Sine is a sine wave with a running phase in radians.
// The phase is never wrapped, so very long runs lose precision.
type Sine struct {
	Volume     int16
	WavePeriod float64 // samples per cycle
	Phase      float64
}

// NewSine returns a sine tone of toneHz at samplesPerSecond.
func NewSine(samplesPerSecond, toneHz int, volume int16) *Sine {
	return &Sine{
		Volume:     volume,
		WavePeriod: float64(samplesPerSecond / toneHz),
	}
}

func (s *Sine) Next() (int16, int16) {
	v := int16(math.Round(math.Sin(s.Phase) * float64(s.Volume)))
	s.Phase += 2 * math.Pi / s.WavePeriod
	return v, v
}

// Square alternates between +Volume and -Volume every HalfWavePeriod samples.
type Square struct {
	Volume         int16
	HalfWavePeriod uint32
	Index          uint64
}

// NewSquare returns a square tone of toneHz at samplesPerSecond.
func NewSquare(samplesPerSecond, toneHz int, volume int16) *Square {
	half := math.Round(float64(samplesPerSecond) / float64(toneHz) / 2)
	return &Square{
		Volume:         volume,
		HalfWavePeriod: uint32(max(half, 1)),
	}
}

func (s *Square) Next() (int16, int16) {
	v := -s.Volume
	if (s.Index/uint64(s.HalfWavePeriod))%2 == 1 {
		v = s.Volume
	}
	s.Index++
	return v, v
}
