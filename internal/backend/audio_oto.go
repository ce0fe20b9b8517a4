// Package backend binds the loop to real hardware: an ebiten window for
// video, keyboard and gamepads, and oto or beep for sound.
package backend

import (
	"fmt"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/iburimskiy/gradient-tone/internal/audio"
)

// OtoDevice plays a RingBuffer through an oto player. The player pulls
// with Read, which is what moves the play cursor.
type OtoDevice struct {
	*audio.RingBuffer

	ctx    *oto.Context
	player *oto.Player
}

func NewOtoDevice(samplesPerSecond, sizeBytes int) (*OtoDevice, error) {
	op := &oto.NewContextOptions{
		SampleRate:   samplesPerSecond,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   10 * time.Millisecond,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("%w: oto: %v", audio.ErrDeviceUnavailable, err)
	}
	<-ready

	guard := samplesPerSecond * audio.BytesPerSample / 100
	ring := audio.NewRingBuffer(sizeBytes, guard)
	player := ctx.NewPlayer(ring)
	// Keep oto's own read-ahead small so the play cursor tracks what is heard.
	player.SetBufferSize(guard)

	return &OtoDevice{
		RingBuffer: ring,
		ctx:        ctx,
		player:     player,
	}, nil
}

func (d *OtoDevice) PlayCursor() (uint32, uint32, error) {
	if err := d.ctx.Err(); err != nil {
		return 0, 0, fmt.Errorf("%w: oto: %v", audio.ErrDeviceUnavailable, err)
	}
	return d.RingBuffer.PlayCursor()
}

func (d *OtoDevice) Play() error {
	if err := d.ctx.Err(); err != nil {
		return fmt.Errorf("%w: oto: %v", audio.ErrDeviceUnavailable, err)
	}
	if err := d.RingBuffer.Play(); err != nil {
		return err
	}
	d.player.Play()
	return nil
}

func (d *OtoDevice) Close() error {
	d.RingBuffer.Stop()
	return d.player.Close()
}
