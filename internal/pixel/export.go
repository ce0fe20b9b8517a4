package pixel

import (
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
)

// Format selects the snapshot encoder.
type Format int

const (
	FormatPNG Format = iota
	FormatWebP
	FormatTGA
)

func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatWebP:
		return "webp"
	case FormatTGA:
		return "tga"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// FormatForPath picks an encoder from the file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG, nil
	case ".webp":
		return FormatWebP, nil
	case ".tga":
		return FormatTGA, nil
	default:
		return 0, fmt.Errorf("pixel: unsupported snapshot type %q", filepath.Ext(path))
	}
}

// Encode writes the buffer as an image.
func Encode(w io.Writer, b *Buffer, f Format) error {
	img := b.Image()
	switch f {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatWebP:
		if err := nativewebp.Encode(w, img, nil); err != nil {
			return fmt.Errorf("WebP encode: %w", err)
		}
		return nil
	case FormatTGA:
		return tga.Encode(w, img)
	default:
		return fmt.Errorf("pixel: unknown format %v", f)
	}
}

// Save writes a snapshot to path, choosing the format from its extension.
func Save(path string, b *Buffer) error {
	f, err := FormatForPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(out, b, f); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
