// Package headless runs the loop without a window: an off-screen surface
// and keyboard events read from the controlling terminal.
package headless

import (
	"image"

	"github.com/iburimskiy/gradient-tone/internal/pixel"
)

// Surface accepts blits without displaying them. It keeps the last
// presented buffer for snapshots and tests.
type Surface struct {
	Width   int
	Height  int
	Blits   uint64
	LastDst image.Rectangle

	last *pixel.Buffer
}

func NewSurface(width, height int) *Surface {
	return &Surface{Width: width, Height: height}
}

func (s *Surface) ClientSize() (int, int) { return s.Width, s.Height }

func (s *Surface) Blit(buf *pixel.Buffer, dst image.Rectangle) error {
	s.Blits++
	s.LastDst = dst
	s.last = buf
	return nil
}

// LastFrame is the buffer presented by the most recent blit, or nil.
func (s *Surface) LastFrame() *pixel.Buffer { return s.last }
