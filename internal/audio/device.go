package audio

import (
	"errors"
	"fmt"
)

// ErrDeviceUnavailable wraps every failure reported by an audio device.
// The loop treats it as "no audio this frame", never as fatal.
var ErrDeviceUnavailable = errors.New("audio device unavailable")

// Device is a looping secondary buffer owned by an audio backend.
type Device interface {
	// PlayCursor reports the byte offset being played and the offset
	// considered safe to write from.
	PlayCursor() (play, write uint32, err error)
	// Lock grants length bytes starting at offset. region2 is non-empty
	// only when the range wraps past the end of the buffer.
	Lock(offset, length uint32) (region1, region2 []byte, err error)
	// Unlock commits regions returned by the last Lock.
	Unlock(region1, region2 []byte) error
	// Play starts looping playback.
	Play() error
	Close() error
}

// Absent is the device used when no audio hardware could be opened.
type Absent struct {
	Reason error
}

func (a Absent) err() error {
	if a.Reason != nil {
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, a.Reason)
	}
	return ErrDeviceUnavailable
}

func (a Absent) PlayCursor() (uint32, uint32, error) { return 0, 0, a.err() }

func (a Absent) Lock(uint32, uint32) ([]byte, []byte, error) { return nil, nil, a.err() }

func (a Absent) Unlock([]byte, []byte) error { return a.err() }

func (a Absent) Play() error { return a.err() }

func (Absent) Close() error { return nil }
