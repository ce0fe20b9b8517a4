// Package pixel owns the back buffer the presentation loop draws into.
package pixel

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
)

// BytesPerPixel is fixed: one little-endian uint32 per pixel, 0x00RRGGBB.
const BytesPerPixel = 4

var ErrInvalidSize = errors.New("pixel: invalid buffer size")

// Buffer is a packed 32-bit image with an explicit row pitch.
type Buffer struct {
	Memory        []byte
	Width         int
	Height        int
	Pitch         int
	BytesPerPixel int
}

// NewBuffer allocates a buffer of the given size.
func NewBuffer(width, height int) (*Buffer, error) {
	b := &Buffer{}
	if err := b.Resize(width, height); err != nil {
		return nil, err
	}
	return b, nil
}

// Resize drops the old memory and allocates height*pitch fresh bytes.
// Non-positive dimensions leave the buffer untouched.
func (b *Buffer) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	b.Memory = nil
	b.Width = width
	b.Height = height
	b.BytesPerPixel = BytesPerPixel
	b.Pitch = width * BytesPerPixel
	b.Memory = make([]byte, height*b.Pitch)
	return nil
}

// FillFrame draws the scrolling gradient: blue = x+xOffset, green = y+yOffset,
// both truncated to 8 bits. Red and the top byte stay zero.
func FillFrame(b *Buffer, xOffset, yOffset int) {
	for y := 0; y < b.Height; y++ {
		row := b.Memory[y*b.Pitch : y*b.Pitch+b.Width*BytesPerPixel]
		green := uint32(uint8(y + yOffset))
		for x := 0; x < b.Width; x++ {
			blue := uint32(uint8(x + xOffset))
			binary.LittleEndian.PutUint32(row[x*BytesPerPixel:], green<<8|blue)
		}
	}
}

// At returns the packed pixel at (x, y).
func (b *Buffer) At(x, y int) uint32 {
	off := y*b.Pitch + x*BytesPerPixel
	return binary.LittleEndian.Uint32(b.Memory[off:])
}

// CopyRGBA converts the buffer into dst as opaque RGBA bytes, the layout
// image.RGBA and ebiten.Image.WritePixels expect. dst must hold Width*Height*4 bytes.
func (b *Buffer) CopyRGBA(dst []byte) {
	i := 0
	for y := 0; y < b.Height; y++ {
		row := b.Memory[y*b.Pitch:]
		for x := 0; x < b.Width; x++ {
			p := row[x*BytesPerPixel:]
			dst[i] = p[2]
			dst[i+1] = p[1]
			dst[i+2] = p[0]
			dst[i+3] = 0xff
			i += 4
		}
	}
}

// Image returns an opaque RGBA copy of the buffer.
func (b *Buffer) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))
	b.CopyRGBA(img.Pix)
	return img
}
