// Package game runs the per-frame loop: events, input, audio, render, blit.
package game

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"time"

	"github.com/iburimskiy/gradient-tone/internal/audio"
	"github.com/iburimskiy/gradient-tone/internal/input"
	"github.com/iburimskiy/gradient-tone/internal/pixel"
)

type State int

const (
	Running State = iota
	Stopped
)

func (s State) String() string {
	if s == Stopped {
		return "stopped"
	}
	return "running"
}

// Surface is where the back buffer ends up each frame.
type Surface interface {
	ClientSize() (width, height int)
	Blit(buf *pixel.Buffer, dst image.Rectangle) error
}

// App is the whole application state. One goroutine owns it.
type App struct {
	Buffer  *pixel.Buffer
	Sound   *audio.Writer
	Pads    input.Provider
	Events  EventSource
	Surface Surface

	// ResizeBuffer recreates the back buffer on every resize event.
	// Otherwise the buffer keeps its size and is stretched on blit.
	ResizeBuffer bool
	// StatsInterval logs frame timing every N frames; 0 disables it.
	StatsInterval int
	// FrameTime paces Run; 0 runs frames back to back. Backends with their
	// own vsync drive Step directly and leave it unset.
	FrameTime time.Duration
	OnKey         func(KeyEvent)
	Log           *log.Logger
	Now           func() time.Time

	XOffset int
	YOffset int

	PadStates [input.MaxSlots]PadSlot
	Stats     Stats

	state State
}

// PadSlot is the last poll of one gamepad slot.
type PadSlot struct {
	Connected bool
	State     input.PadState
}

func (a *App) State() State { return a.state }

// Stop ends the loop at the next iteration boundary.
func (a *App) Stop() { a.state = Stopped }

func (a *App) logger() *log.Logger {
	if a.Log == nil {
		a.Log = log.New(io.Discard, "", 0)
	}
	return a.Log
}

// Step runs one loop iteration. A stop event ends the iteration right after
// the drain; nothing is rendered for it.
func (a *App) Step() error {
	if a.state == Stopped {
		return nil
	}
	for _, ev := range a.Events.Drain() {
		a.handle(ev)
	}
	if a.state == Stopped {
		return nil
	}

	a.pollPads()

	if err := a.Sound.Update(); err != nil && !errors.Is(err, audio.ErrDeviceUnavailable) {
		return fmt.Errorf("audio: %w", err)
	}

	pixel.FillFrame(a.Buffer, a.XOffset, a.YOffset)
	a.XOffset++
	a.YOffset++

	w, h := a.Surface.ClientSize()
	if err := a.Surface.Blit(a.Buffer, image.Rect(0, 0, w, h)); err != nil {
		return fmt.Errorf("blit: %w", err)
	}

	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	a.Stats.Tick(now())
	if a.StatsInterval > 0 && a.Stats.Frames%uint64(a.StatsInterval) == 0 {
		a.logger().Printf("%v, audio skipped %d", a.Stats, a.Sound.Skipped)
	}
	return nil
}

// Run steps until a stop event, ctx cancellation or maxFrames frames
// (0 means no limit).
func (a *App) Run(ctx context.Context, maxFrames int) error {
	var tick <-chan time.Time
	if a.FrameTime > 0 {
		ticker := time.NewTicker(a.FrameTime)
		defer ticker.Stop()
		tick = ticker.C
	}
	for a.state == Running {
		select {
		case <-ctx.Done():
			a.state = Stopped
			return nil
		default:
		}
		if err := a.Step(); err != nil {
			return err
		}
		if maxFrames > 0 && a.Stats.Frames >= uint64(maxFrames) {
			a.state = Stopped
		}
		if tick != nil && a.state == Running {
			select {
			case <-ctx.Done():
				a.state = Stopped
				return nil
			case <-tick:
			}
		}
	}
	return nil
}

func (a *App) handle(ev Event) {
	switch ev.Kind {
	case EventCloseRequested, EventQuit:
		a.state = Stopped
	case EventResize:
		if !a.ResizeBuffer {
			return
		}
		if err := a.Buffer.Resize(ev.Width, ev.Height); err != nil {
			a.logger().Printf("resize skipped: %v", err)
			return
		}
		a.logger().Printf("back buffer %dx%d", ev.Width, ev.Height)
	case EventKey:
		if a.OnKey != nil {
			a.OnKey(ev.Key)
		}
	}
}

func (a *App) pollPads() {
	for slot := range a.PadStates {
		state, ok := a.Pads.Poll(slot)
		a.PadStates[slot] = PadSlot{Connected: ok, State: state}
	}
}

// ConnectedPads counts slots with a controller this frame.
func (a *App) ConnectedPads() int {
	n := 0
	for _, p := range a.PadStates {
		if p.Connected {
			n++
		}
	}
	return n
}
