package headless

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"golang.org/x/term"

	"github.com/iburimskiy/gradient-tone/internal/game"
)

// Terminal turns stdin key presses into loop events. When stdin is not a
// terminal it delivers nothing and the loop relies on signals or a frame limit.
type Terminal struct {
	game.Queue

	fd       int
	oldState *term.State
	closed   atomic.Bool
}

// OpenTerminal puts in into raw mode and starts reading it.
func OpenTerminal(in *os.File) (*Terminal, error) {
	t := &Terminal{fd: int(in.Fd())}
	if !term.IsTerminal(t.fd) {
		return t, nil
	}
	oldState, err := term.MakeRaw(t.fd)
	if err != nil {
		return nil, fmt.Errorf("terminal: raw mode: %w", err)
	}
	t.oldState = oldState

	// The reader stays blocked in Read until the next key or process exit.
	go func() {
		buf := make([]byte, 1)
		for {
			n, err := in.Read(buf)
			if err != nil {
				return
			}
			if n == 1 {
				for _, ev := range translateByte(buf[0]) {
					t.Push(ev)
				}
			}
		}
	}()
	return t, nil
}

// Push drops events once the terminal is closed.
func (t *Terminal) Push(ev game.Event) {
	if t.closed.Load() {
		return
	}
	t.Queue.Push(ev)
}

// Interactive reports whether key presses are being read.
func (t *Terminal) Interactive() bool { return t.oldState != nil }

// Close restores the terminal mode. Keys read afterwards are discarded.
func (t *Terminal) Close() error {
	t.closed.Store(true)
	if t.oldState == nil {
		return nil
	}
	err := term.Restore(t.fd, t.oldState)
	t.oldState = nil
	return err
}

// RawWriter wraps w so log lines end in CRLF, which raw mode no longer
// adds on output.
func RawWriter(w io.Writer) io.Writer { return crlfWriter{w} }

type crlfWriter struct{ w io.Writer }

func (c crlfWriter) Write(p []byte) (int, error) {
	if _, err := c.w.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}

// translateByte maps one raw byte to events. A terminal has no key-up, so
// every key yields a press followed by a release.
func translateByte(b byte) []game.Event {
	switch b {
	case 0x03, 0x04: // Ctrl-C, Ctrl-D
		return []game.Event{{Kind: game.EventQuit}}
	case 'q', 'Q':
		return []game.Event{{Kind: game.EventCloseRequested}}
	}

	var name string
	switch {
	case b == 0x1b:
		name = "Escape"
	case b == ' ':
		name = "Space"
	case b == '\r' || b == '\n':
		name = "Enter"
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		name = strings.ToUpper(string(rune(b)))
	default:
		return nil
	}
	return []game.Event{
		{Kind: game.EventKey, Key: game.KeyEvent{Name: name, IsDown: true}},
		{Kind: game.EventKey, Key: game.KeyEvent{Name: name, WasDown: true}},
	}
}
