package gtk

import (
	"fmt"

	coreglib "github.com/diamondburned/gotk4/pkg/core/glib"
	"github.com/diamondburned/gotk4/pkg/gdkpixbuf/v2"

	"github.com/jmylchreest/popstack/internal/model"
	"github.com/jmylchreest/popstack/internal/render"
)

// pixbufImage is a decoded icon held as a gdk pixbuf.
type pixbufImage struct {
	pixbuf *gdkpixbuf.Pixbuf
}

func (i *pixbufImage) Width() int  { return i.pixbuf.Width() }
func (i *pixbufImage) Height() int { return i.pixbuf.Height() }

// ImageDecoder decodes icon files and raw image-data buffers into pixbufs.
type ImageDecoder struct{}

// NewImageDecoder creates an ImageDecoder.
func NewImageDecoder() *ImageDecoder {
	return &ImageDecoder{}
}

// DecodeFile loads an image file; SVG and PNG come through the pixbuf
// loaders.
func (ImageDecoder) DecodeFile(path string) (render.Image, error) {
	pixbuf, err := gdkpixbuf.NewPixbufFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load image %s: %w", path, err)
	}
	return &pixbufImage{pixbuf: pixbuf}, nil
}

// DecodeRaw wraps an image-data pixel buffer without copying the pixels.
func (ImageDecoder) DecodeRaw(raw *model.RawImage) (render.Image, error) {
	if !raw.Valid() {
		return nil, fmt.Errorf("invalid raw image buffer")
	}

	pixbuf := gdkpixbuf.NewPixbufFromBytes(
		coreglib.NewBytes(raw.Data),
		gdkpixbuf.ColorspaceRGB,
		raw.HasAlpha,
		raw.BitsPerSample,
		raw.Width,
		raw.Height,
		raw.RowStride,
	)
	if pixbuf == nil {
		return nil, fmt.Errorf("failed to wrap raw image %dx%d", raw.Width, raw.Height)
	}
	return &pixbufImage{pixbuf: pixbuf}, nil
}

// Scale resamples an image with bilinear interpolation.
func (ImageDecoder) Scale(img render.Image, w, h int) (render.Image, error) {
	src, ok := img.(*pixbufImage)
	if !ok {
		return nil, fmt.Errorf("cannot scale a foreign image")
	}

	scaled := src.pixbuf.ScaleSimple(w, h, gdkpixbuf.InterpBilinear)
	if scaled == nil {
		return nil, fmt.Errorf("failed to scale image to %dx%d", w, h)
	}
	return &pixbufImage{pixbuf: scaled}, nil
}
