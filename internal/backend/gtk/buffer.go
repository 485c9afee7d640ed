package gtk

import (
	"github.com/diamondburned/gotk4/pkg/cairo"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/pangocairo"

	"github.com/jmylchreest/popstack/internal/color"
	"github.com/jmylchreest/popstack/internal/render"
)

// buffer is an ARGB image surface with a cairo context for compositing one
// frame.
type buffer struct {
	surface *cairo.Surface
	cr      *cairo.Context
}

func newBuffer(w, h int) *buffer {
	surface := cairo.CreateImageSurface(cairo.FormatARGB32, w, h)
	return &buffer{
		surface: surface,
		cr:      cairo.Create(surface),
	}
}

// FillRect paints an axis-aligned rectangle.
func (b *buffer) FillRect(c color.Color, x, y, w, h int) {
	b.cr.SetSourceRGB(c.R, c.G, c.B)
	b.cr.Rectangle(float64(x), float64(y), float64(w), float64(h))
	b.cr.Fill()
}

// DrawText renders a shaped layout at the given origin.
func (b *buffer) DrawText(l render.TextLayout, c color.Color, x, y int) {
	tl, ok := l.(*textLayout)
	if !ok {
		return
	}
	b.cr.SetSourceRGB(c.R, c.G, c.B)
	b.cr.MoveTo(float64(x), float64(y))
	// The layout was measured on a scratch context; rebind it to this
	// buffer's context before showing it.
	pangocairo.UpdateLayout(b.cr, tl.layout)
	pangocairo.ShowLayout(b.cr, tl.layout)
}

// DrawImage paints a decoded icon at the given origin.
func (b *buffer) DrawImage(img render.Image, x, y int) {
	pi, ok := img.(*pixbufImage)
	if !ok {
		return
	}
	gdk.CairoSetSourcePixbuf(b.cr, pi.pixbuf, float64(x), float64(y))
	b.cr.Paint()
}

// Release is a no-op: the surface stays alive while the window paints from
// it; the garbage collector reclaims it after the next frame replaces it.
func (b *buffer) Release() {}
