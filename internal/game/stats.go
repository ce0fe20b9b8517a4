package game

import (
	"fmt"
	"time"
)

// Stats is the per-frame timing the loop keeps for the overlay and logs.
type Stats struct {
	Frames    uint64
	LastFrame time.Duration
	Elapsed   time.Duration

	last time.Time
}

// Tick closes the current frame at now.
func (s *Stats) Tick(now time.Time) {
	if !s.last.IsZero() {
		s.LastFrame = now.Sub(s.last)
		s.Elapsed += s.LastFrame
	}
	s.last = now
	s.Frames++
}

// FPS is derived from the last frame time.
func (s Stats) FPS() float64 {
	if s.LastFrame <= 0 {
		return 0
	}
	return float64(time.Second) / float64(s.LastFrame)
}

// AvgFrame is the mean frame time since the first frame.
func (s Stats) AvgFrame() time.Duration {
	if s.Frames < 2 {
		return 0
	}
	return s.Elapsed / time.Duration(s.Frames-1)
}

func (s Stats) String() string {
	ms := float64(s.LastFrame) / float64(time.Millisecond)
	return fmt.Sprintf("%s %.2fms/f %.1ff/s frame %d", formatDuration(s.Elapsed), ms, s.FPS(), s.Frames)
}
