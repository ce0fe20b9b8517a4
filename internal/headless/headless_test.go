package headless

import (
	"bytes"
	"context"
	"image"
	"os"
	"testing"
	"time"

	"github.com/iburimskiy/gradient-tone/internal/audio"
	"github.com/iburimskiy/gradient-tone/internal/game"
	"github.com/iburimskiy/gradient-tone/internal/input"
	"github.com/iburimskiy/gradient-tone/internal/pixel"
	"github.com/iburimskiy/gradient-tone/internal/tone"
)

func TestTranslateByte(t *testing.T) {
	tests := []struct {
		in    byte
		kinds []game.EventKind
		name  string
	}{
		{0x03, []game.EventKind{game.EventQuit}, ""},
		{'q', []game.EventKind{game.EventCloseRequested}, ""},
		{'w', []game.EventKind{game.EventKey, game.EventKey}, "W"},
		{0x1b, []game.EventKind{game.EventKey, game.EventKey}, "Escape"},
		{0x7f, nil, ""},
	}
	for _, tt := range tests {
		got := translateByte(tt.in)
		if len(got) != len(tt.kinds) {
			t.Fatalf("translateByte(%#x) = %v", tt.in, got)
		}
		for i, ev := range got {
			if ev.Kind != tt.kinds[i] {
				t.Fatalf("translateByte(%#x)[%d] = %v", tt.in, i, ev.Kind)
			}
		}
		if tt.name != "" {
			if got[0].Key.Name != tt.name || !got[0].Key.IsDown || !got[1].Key.WasDown || got[1].Key.IsDown {
				t.Fatalf("translateByte(%#x) keys = %+v", tt.in, got)
			}
		}
	}
}

func TestOpenTerminalOnPipeIsQuiet(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	defer w.Close()

	term, err := OpenTerminal(r)
	if err != nil {
		t.Fatal(err)
	}
	if term.Interactive() {
		t.Fatal("pipe treated as a terminal")
	}
	if evs := term.Drain(); len(evs) != 0 {
		t.Fatalf("events = %v", evs)
	}
	if err := term.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestTerminalDropsEventsAfterClose(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	defer w.Close()

	term, err := OpenTerminal(r)
	if err != nil {
		t.Fatal(err)
	}
	term.Push(game.Event{Kind: game.EventQuit})
	if evs := term.Drain(); len(evs) != 1 {
		t.Fatalf("events before close = %v", evs)
	}
	if err := term.Close(); err != nil {
		t.Fatal(err)
	}
	term.Push(game.Event{Kind: game.EventQuit})
	if evs := term.Drain(); len(evs) != 0 {
		t.Fatalf("events after close = %v", evs)
	}
}

func TestHeadlessRunWithVirtualAudio(t *testing.T) {
	buf, _ := pixel.NewBuffer(320, 180)
	surface := NewSurface(1280, 720)
	now := time.Unix(0, 0)
	dev := audio.NewVirtual(48000, 192000)
	dev.Now = func() time.Time { return now }
	capture := &audio.Capture{}
	dev.SetObserver(capture)

	out := audio.NewOutput(48000, 256, 3000, 3200)
	writer := audio.NewWriter(out, tone.NewSine(48000, 256, 3000), dev)
	if err := writer.Start(); err != nil {
		t.Fatal(err)
	}

	app := &game.App{
		Buffer:  buf,
		Sound:   writer,
		Pads:    input.Absent{},
		Events:  &game.Queue{},
		Surface: surface,
		Now: func() time.Time {
			now = now.Add(16 * time.Millisecond)
			return now
		},
	}
	if err := app.Run(context.Background(), 30); err != nil {
		t.Fatal(err)
	}
	if surface.Blits != 30 || surface.LastDst != image.Rect(0, 0, 1280, 720) {
		t.Fatalf("blits %d dst %v", surface.Blits, surface.LastDst)
	}
	if surface.LastFrame() != buf || buf.At(0, 0) != 0x1d1d {
		t.Fatalf("last frame pixel = %#x", buf.At(0, 0))
	}
	// 29 clock steps of 16ms were played by the time of the last frame.
	if got := capture.Frames(); got != 29*768 {
		t.Fatalf("captured %d frames, want %d", got, 29*768)
	}
	if writer.Skipped != 0 {
		t.Fatalf("skipped %d audio frames", writer.Skipped)
	}
}

func TestRawWriterAddsCarriageReturns(t *testing.T) {
	var out bytes.Buffer
	n, err := RawWriter(&out).Write([]byte("a\nb\n"))
	if err != nil || n != 4 {
		t.Fatalf("Write = %d, %v", n, err)
	}
	if out.String() != "a\r\nb\r\n" {
		t.Fatalf("out = %q", out.String())
	}
}
