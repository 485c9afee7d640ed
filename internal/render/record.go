package render

import (
	"github.com/jmylchreest/popstack/internal/color"
	"github.com/jmylchreest/popstack/internal/model"
)

// record is the transient per-entry render state for one pass: the shaping
// handle, resolved colors, fallback text and decoded icon. Records are
// created by the layout builder, re-wrapped in place by the geometry
// resolver, read by the compositor and dropped as a batch at pass end.
type record struct {
	layout TextLayout
	fg     color.Color
	bg     color.Color
	frame  color.Color

	// text is what is actually shown, after any markup fallback.
	text string
	// attrs is the styled-attribute handle, nil when falling back.
	attrs any

	// icon is already decoded and size-capped, nil when absent.
	icon Image

	// entry is a read-only back-reference; the record does not own it.
	entry *model.Entry
}

// iconWidth returns the icon width or 0 when there is no icon.
func (r *record) iconWidth() int {
	if r.icon == nil {
		return 0
	}
	return r.icon.Width()
}

// iconHeight returns the icon height or 0 when there is no icon.
func (r *record) iconHeight() int {
	if r.icon == nil {
		return 0
	}
	return r.icon.Height()
}

// contentSize measures the entry's current wrapped text size including the
// icon contribution: height is the larger of icon and text, width gains the
// icon plus one horizontal padding.
func (r *record) contentSize(hPadding int) (w, h int) {
	w, h = r.layout.PixelSize()
	if r.icon != nil {
		if ih := r.icon.Height(); ih > h {
			h = ih
		}
		w += r.icon.Width() + hPadding
	}
	return w, h
}
