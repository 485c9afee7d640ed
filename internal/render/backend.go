// Package render implements the stacked-notification rendering pipeline:
// per-entry layout building, stack geometry resolution and compositing onto
// an off-screen buffer.
//
// Text shaping, markup parsing, image decoding and the on-screen surface are
// external collaborators consumed through the narrow interfaces in this file;
// the GTK-backed implementations live in internal/backend/gtk and tests use
// in-memory fakes.
package render

import (
	"github.com/jmylchreest/popstack/internal/color"
	"github.com/jmylchreest/popstack/internal/config"
	"github.com/jmylchreest/popstack/internal/model"
)

// Rect is a pixel rectangle.
type Rect struct {
	X, Y, W, H int
}

// Screen describes the active output.
type Screen struct {
	Geometry Rect
	DPI      float64
}

// Dimension is the resolved size of the whole stack. X and Y double as the
// compositor's "next entry starts here" cursor.
type Dimension struct {
	W, H int
	X, Y int
}

// TextStyle is the full shaping configuration for one layout.
type TextStyle struct {
	// WrapWidth is the pixel width at which lines break; -1 disables
	// wrapping entirely.
	WrapWidth   int
	Font        string
	LineSpacing int
	Align       config.Alignment
	WordWrap    bool
	// Ellipsize is set only when WordWrap is false; a wrapping layout
	// must not ellipsize or the shaping engine collapses paragraphs to
	// single lines instead of wrapping them.
	Ellipsize config.EllipsizeMode
}

// TextLayout is a text-shaping handle bound to the output's drawing context.
// It is reconfigured in place as the geometry resolver renegotiates wrap
// widths.
type TextLayout interface {
	// Setup (re)applies the shaping configuration. Called again with a new
	// wrap width whenever the stack width changes during resolution.
	Setup(style TextStyle)

	// SetText replaces the content with plain text.
	SetText(text string)

	// SetStyled replaces the content with plain text plus an opaque
	// attribute handle previously produced by the markup parser.
	SetStyled(text string, attrs any)

	// PixelSize returns the rendered extent at the current configuration.
	PixelSize() (w, h int)
}

// MarkupParser converts a markup string into plain text and an opaque
// styled-attribute handle, or fails so the caller can fall back to a
// stripped plain rendering.
type MarkupParser interface {
	Parse(text string) (plain string, attrs any, err error)
}

// Image is a decoded, renderable icon image.
type Image interface {
	Width() int
	Height() int
}

// ImageDecoder decodes icon references into renderable images and scales
// them preserving aspect ratio.
type ImageDecoder interface {
	DecodeFile(path string) (Image, error)
	DecodeRaw(raw *model.RawImage) (Image, error)
	// Scale resamples img to exactly w x h with a smooth filter.
	Scale(img Image, w, h int) (Image, error)
}

// Buffer is an off-screen pixel buffer the compositor draws into.
type Buffer interface {
	FillRect(c color.Color, x, y, w, h int)
	DrawText(l TextLayout, c color.Color, x, y int)
	DrawImage(img Image, x, y int)
	// Release frees the buffer's pixel storage. Called unconditionally at
	// the end of each pass.
	Release()
}

// Output is the display-system provider: it owns the on-screen surface,
// reports the active screen and creates the shaping handles and buffers
// bound to it.
type Output interface {
	Screen() Screen
	NewTextLayout() TextLayout
	NewBuffer(w, h int) (Buffer, error)
	// Resize adjusts the on-screen surface to the resolved stack size.
	Resize(w, h int)
	// Blit copies a fully composited buffer onto the surface in one paint
	// and flushes it.
	Blit(buf Buffer)
	// Close releases the surface and drawing context.
	Close()
}

// Source is the externally-owned notification stack: the pipeline renders
// whatever it reports visible and never decides visibility or order itself.
type Source interface {
	// Visible returns the entries to render, in display order.
	Visible() []*model.Entry
	// HiddenCount is the number of queued entries not currently visible.
	HiddenCount() int
}
