package game

import (
	"context"
	"errors"
	"image"
	"testing"
	"time"

	"github.com/iburimskiy/gradient-tone/internal/audio"
	"github.com/iburimskiy/gradient-tone/internal/input"
	"github.com/iburimskiy/gradient-tone/internal/pixel"
	"github.com/iburimskiy/gradient-tone/internal/tone"
)

type fakeSurface struct {
	w, h   int
	blits  []image.Rectangle
	sizes  [][2]int
	first  uint32
	failAt int
}

func (s *fakeSurface) ClientSize() (int, int) { return s.w, s.h }

func (s *fakeSurface) Blit(buf *pixel.Buffer, dst image.Rectangle) error {
	if s.failAt > 0 && len(s.blits)+1 == s.failAt {
		return errors.New("lost surface")
	}
	s.blits = append(s.blits, dst)
	s.sizes = append(s.sizes, [2]int{buf.Width, buf.Height})
	s.first = buf.At(0, 0)
	return nil
}

type onePad struct{}

func (onePad) Poll(slot int) (input.PadState, bool) {
	if slot == 1 {
		return input.PadState{Buttons: input.A, StickX: 100}, true
	}
	return input.PadState{}, false
}

func newTestApp(t *testing.T, dev audio.Device) (*App, *Queue, *fakeSurface) {
	t.Helper()
	buf, err := pixel.NewBuffer(64, 32)
	if err != nil {
		t.Fatal(err)
	}
	out := audio.NewOutput(8000, 100, 1000, 400)
	q := &Queue{}
	s := &fakeSurface{w: 640, h: 480}
	app := &App{
		Buffer:  buf,
		Sound:   audio.NewWriter(out, tone.NewSine(8000, 100, 1000), dev),
		Pads:    input.Absent{},
		Events:  q,
		Surface: s,
	}
	return app, q, s
}

func TestStepRendersAndAdvancesOffsets(t *testing.T) {
	app, _, s := newTestApp(t, audio.NewRingBuffer(32000, 0))
	for i := 0; i < 3; i++ {
		if err := app.Step(); err != nil {
			t.Fatal(err)
		}
	}
	if app.XOffset != 3 || app.YOffset != 3 {
		t.Fatalf("offsets = %d,%d", app.XOffset, app.YOffset)
	}
	if len(s.blits) != 3 || s.blits[2] != image.Rect(0, 0, 640, 480) {
		t.Fatalf("blits = %v", s.blits)
	}
	// Third frame was drawn with offset 2.
	if s.first != 0x0202 {
		t.Fatalf("pixel(0,0) = %#x", s.first)
	}
	if app.Stats.Frames != 3 {
		t.Fatalf("Frames = %d", app.Stats.Frames)
	}
}

func TestCloseStopsBeforeRendering(t *testing.T) {
	for _, kind := range []EventKind{EventCloseRequested, EventQuit} {
		t.Run(kind.String(), func(t *testing.T) {
			app, q, s := newTestApp(t, audio.NewRingBuffer(32000, 0))
			q.Push(Event{Kind: EventKey, Key: KeyEvent{Name: "A", IsDown: true}})
			q.Push(Event{Kind: kind})
			if err := app.Step(); err != nil {
				t.Fatal(err)
			}
			if app.State() != Stopped {
				t.Fatalf("state = %v", app.State())
			}
			if len(s.blits) != 0 || app.XOffset != 0 {
				t.Fatal("rendered after stop")
			}
			if err := app.Step(); err != nil || len(s.blits) != 0 {
				t.Fatal("stopped app kept running")
			}
		})
	}
}

func TestKeyEventsReachHandler(t *testing.T) {
	app, q, _ := newTestApp(t, audio.NewRingBuffer(32000, 0))
	var keys []string
	app.OnKey = func(k KeyEvent) { keys = append(keys, k.Name) }
	q.Push(Event{Kind: EventKey, Key: KeyEvent{Name: "W", IsDown: true}})
	q.Push(Event{Kind: EventKey, Key: KeyEvent{Name: "W", WasDown: true}})
	if err := app.Step(); err != nil {
		t.Fatal(err)
	}
	if len(keys) != 2 {
		t.Fatalf("keys = %v", keys)
	}
}

func TestResizeFollowsPolicy(t *testing.T) {
	app, q, s := newTestApp(t, audio.NewRingBuffer(32000, 0))

	q.Push(ResizeEvent(100, 50))
	s.w, s.h = 100, 50
	_ = app.Step()
	if app.Buffer.Width != 64 || s.blits[0] != image.Rect(0, 0, 100, 50) {
		t.Fatalf("fixed buffer resized to %dx%d, blit %v", app.Buffer.Width, app.Buffer.Height, s.blits[0])
	}

	app.ResizeBuffer = true
	q.Push(ResizeEvent(100, 50))
	_ = app.Step()
	if s.sizes[1] != [2]int{100, 50} {
		t.Fatalf("blitted buffer %v, want 100x50", s.sizes[1])
	}

	q.Push(ResizeEvent(0, 0))
	_ = app.Step()
	if s.sizes[2] != [2]int{100, 50} {
		t.Fatalf("minimized window changed buffer to %v", s.sizes[2])
	}
}

func TestAudioFailureDoesNotStopFrame(t *testing.T) {
	app, _, s := newTestApp(t, audio.Absent{})
	if err := app.Step(); err != nil {
		t.Fatalf("Step() = %v", err)
	}
	if len(s.blits) != 1 {
		t.Fatal("frame not presented")
	}
	if app.Sound.Skipped != 1 || app.Sound.Out.RunningSampleIndex != 0 {
		t.Fatalf("skipped %d, index %d", app.Sound.Skipped, app.Sound.Out.RunningSampleIndex)
	}
}

func TestAudioWrittenEachFrame(t *testing.T) {
	ring := audio.NewRingBuffer(32000, 0)
	app, _, _ := newTestApp(t, ring)
	if err := app.Sound.Start(); err != nil {
		t.Fatal(err)
	}
	_, _ = ring.Read(make([]byte, 800))
	if err := app.Step(); err != nil {
		t.Fatal(err)
	}
	if got := app.Sound.Out.RunningSampleIndex; got != 600 {
		t.Fatalf("RunningSampleIndex = %d, want 600", got)
	}
}

func TestPadsPolledEveryFrame(t *testing.T) {
	app, _, _ := newTestApp(t, audio.Absent{})
	app.Pads = onePad{}
	_ = app.Step()
	if app.ConnectedPads() != 1 || !app.PadStates[1].State.Buttons.Has(input.A) {
		t.Fatalf("pads = %+v", app.PadStates)
	}
	app.Pads = input.Absent{}
	_ = app.Step()
	if app.ConnectedPads() != 0 {
		t.Fatal("stale pad state")
	}
}

func TestBlitErrorIsReturned(t *testing.T) {
	app, _, s := newTestApp(t, audio.Absent{})
	s.failAt = 1
	if err := app.Step(); err == nil {
		t.Fatal("expected blit error")
	}
}

func TestRunStopsAtFrameLimitAndCancel(t *testing.T) {
	app, _, s := newTestApp(t, audio.Absent{})
	if err := app.Run(context.Background(), 5); err != nil {
		t.Fatal(err)
	}
	if len(s.blits) != 5 || app.State() != Stopped {
		t.Fatalf("blits %d state %v", len(s.blits), app.State())
	}

	app, _, s = newTestApp(t, audio.Absent{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := app.Run(ctx, 0); err != nil {
		t.Fatal(err)
	}
	if len(s.blits) != 0 || app.State() != Stopped {
		t.Fatal("cancelled run rendered")
	}
}

func TestRunPacedByFrameTime(t *testing.T) {
	app, _, s := newTestApp(t, audio.Absent{})
	app.FrameTime = time.Millisecond
	start := time.Now()
	if err := app.Run(context.Background(), 4); err != nil {
		t.Fatal(err)
	}
	if len(s.blits) != 4 {
		t.Fatalf("blits = %d", len(s.blits))
	}
	// Three waits between four frames.
	if elapsed := time.Since(start); elapsed < 3*time.Millisecond {
		t.Fatalf("paced run took %v", elapsed)
	}
}

func TestRunStopsOnQuitEvent(t *testing.T) {
	app, q, s := newTestApp(t, audio.Absent{})
	app.OnKey = func(k KeyEvent) {
		if k.Name == "Q" {
			q.Push(Event{Kind: EventQuit})
		}
	}
	q.Push(Event{Kind: EventKey, Key: KeyEvent{Name: "Q", IsDown: true}})
	if err := app.Run(context.Background(), 100); err != nil {
		t.Fatal(err)
	}
	if len(s.blits) != 1 {
		t.Fatalf("blits = %d, want 1", len(s.blits))
	}
}

func TestStatsTiming(t *testing.T) {
	var s Stats
	base := time.Unix(0, 0)
	s.Tick(base)
	s.Tick(base.Add(20 * time.Millisecond))
	s.Tick(base.Add(30 * time.Millisecond))
	if s.LastFrame != 10*time.Millisecond || s.FPS() != 100 {
		t.Fatalf("last %v fps %v", s.LastFrame, s.FPS())
	}
	if s.AvgFrame() != 15*time.Millisecond {
		t.Fatalf("avg = %v", s.AvgFrame())
	}
	if got := s.String(); got != "00:00 10.00ms/f 100.0f/s frame 3" {
		t.Fatalf("String() = %q", got)
	}
}

func TestKeyPressed(t *testing.T) {
	tests := []struct {
		name string
		key  KeyEvent
		want bool
	}{
		{"press", KeyEvent{Name: "S", IsDown: true}, true},
		{"other key", KeyEvent{Name: "A", IsDown: true}, false},
		{"release", KeyEvent{Name: "S", WasDown: true}, false},
		{"repeat", KeyEvent{Name: "S", WasDown: true, IsDown: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.key.Pressed("F12", "S"); got != tt.want {
				t.Fatalf("Pressed = %v, want %v", got, tt.want)
			}
		})
	}
}
