package gtk

import (
	"github.com/diamondburned/gotk4/pkg/cairo"
	"github.com/diamondburned/gotk4/pkg/pango"
	"github.com/diamondburned/gotk4/pkg/pangocairo"

	"github.com/jmylchreest/popstack/internal/config"
	"github.com/jmylchreest/popstack/internal/render"
)

// pangoScale is PANGO_SCALE: pango units per device unit.
const pangoScale = 1024

// textLayout wraps a pango layout. Measurement needs a cairo context, so
// each layout carries a 1x1 scratch surface; drawing re-renders the layout
// on the target buffer's context.
type textLayout struct {
	layout *pango.Layout
}

func newTextLayout() *textLayout {
	scratch := cairo.CreateImageSurface(cairo.FormatARGB32, 1, 1)
	cr := cairo.Create(scratch)
	return &textLayout{layout: pangocairo.CreateLayout(cr)}
}

// Setup applies the shaping style. A negative wrap width disables wrapping.
func (t *textLayout) Setup(style render.TextStyle) {
	if style.Font != "" {
		desc := pango.NewFontDescriptionFromString(style.Font)
		t.layout.SetFontDescription(desc)
	}

	if style.WrapWidth < 0 {
		t.layout.SetWidth(-1)
	} else {
		t.layout.SetWidth(style.WrapWidth * pangoScale)
	}

	// Ellipsization and wrapping are mutually exclusive in pango: any
	// non-none ellipsize mode at the default height collapses paragraphs
	// to single lines, so a wrapping layout must clear it.
	if style.WordWrap {
		t.layout.SetWrap(pango.WrapWordChar)
		t.layout.SetEllipsize(pango.EllipsizeNone)
	} else {
		t.layout.SetHeight(-1)
		switch style.Ellipsize {
		case config.EllipsizeStart:
			t.layout.SetEllipsize(pango.EllipsizeStart)
		case config.EllipsizeMiddle:
			t.layout.SetEllipsize(pango.EllipsizeMiddle)
		default:
			t.layout.SetEllipsize(pango.EllipsizeEnd)
		}
	}

	switch style.Align {
	case config.AlignCenter:
		t.layout.SetAlignment(pango.AlignCenter)
	case config.AlignRight:
		t.layout.SetAlignment(pango.AlignRight)
	default:
		t.layout.SetAlignment(pango.AlignLeft)
	}

	if style.LineSpacing > 0 {
		t.layout.SetSpacing(style.LineSpacing * pangoScale)
	}
}

// SetText renders plain text with no attributes.
func (t *textLayout) SetText(text string) {
	t.layout.SetAttributes(nil)
	t.layout.SetText(text)
}

// SetStyled renders text with the attribute list produced by markup parsing.
func (t *textLayout) SetStyled(text string, attrs any) {
	if list, ok := attrs.(*pango.AttrList); ok && list != nil {
		t.layout.SetAttributes(list)
	} else {
		t.layout.SetAttributes(nil)
	}
	t.layout.SetText(text)
}

// PixelSize returns the wrapped extent in device pixels.
func (t *textLayout) PixelSize() (int, int) {
	return t.layout.PixelSize()
}
