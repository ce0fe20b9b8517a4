package game

import (
	"fmt"
	"slices"
	"sync"
)

type EventKind int

const (
	EventResize EventKind = iota
	EventCloseRequested
	EventKey
	EventQuit
)

func (k EventKind) String() string {
	switch k {
	case EventResize:
		return "resize"
	case EventCloseRequested:
		return "close"
	case EventKey:
		return "key"
	case EventQuit:
		return "quit"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// KeyEvent is a key transition. Repeats (WasDown == IsDown) are not delivered.
type KeyEvent struct {
	Name    string
	WasDown bool
	IsDown  bool
	Alt     bool
}

// Pressed reports a key-down transition of any of names.
func (k KeyEvent) Pressed(names ...string) bool {
	if !k.IsDown || k.WasDown {
		return false
	}
	return slices.Contains(names, k.Name)
}

type Event struct {
	Kind   EventKind
	Width  int // EventResize
	Height int // EventResize
	Key    KeyEvent
}

func ResizeEvent(width, height int) Event {
	return Event{Kind: EventResize, Width: width, Height: height}
}

// EventSource hands over every pending event without blocking.
type EventSource interface {
	Drain() []Event
}

// Queue is an EventSource fed by a backend, possibly from another goroutine.
type Queue struct {
	mu     sync.Mutex
	events []Event
}

func (q *Queue) Push(ev Event) {
	q.mu.Lock()
	q.events = append(q.events, ev)
	q.mu.Unlock()
}

func (q *Queue) Drain() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	events := q.events
	q.events = nil
	return events
}
