package render

import (
	"github.com/jmylchreest/popstack/internal/config"
)

// resolveDimensions computes the stack's width and height for the given
// records under the active geometry policy.
//
// This is a single monotonic forward scan, not a fixed-point solver: when the
// width is dynamic (or shrink-to-fit is on), each entry may move the width
// estimate and is immediately re-wrapped and re-measured against it, but
// earlier entries are never revisited. Later entries see the width decisions
// of earlier ones; the document order is load-bearing for the visual output.
func (e *Engine) resolveDimensions(records []*record) Dimension {
	var dim Dimension

	scr := e.out.Screen()
	win := e.cfg.Window
	style := e.cfg.Style
	frameWidth := e.cfg.Frame.Width

	switch win.Mode {
	case config.WidthDynamic:
		dim.W = 0
	case config.WidthFixed:
		if win.FromRight {
			dim.W = scr.Geometry.W - win.Width
		} else {
			dim.W = win.Width
		}
	default: // WidthScreen
		dim.W = scr.Geometry.W
	}

	dim.H += 2 * frameWidth
	dim.H += (len(records) - 1) * style.SeparatorHeight

	textWidth, totalWidth := 0, 0
	for _, rec := range records {
		w, h := rec.contentSize(style.HPadding)
		h += 2 * style.Padding
		if style.MinHeight > h {
			h = style.MinHeight
		}
		dim.H += h
		if w > textWidth {
			textWidth = w
		}

		if win.Mode == config.WidthDynamic || win.Shrink {
			if cand := textWidth + 2*style.HPadding; cand > totalWidth {
				totalWidth = cand
			}

			// The height above measured the provisionally wrapped
			// text; take it back out and re-measure below.
			dim.H -= h

			if totalWidth > scr.Geometry.W {
				dim.W = scr.Geometry.W - win.OffsetX*2
			} else if win.Mode == config.WidthDynamic || (totalWidth < win.Width && win.Shrink) {
				dim.W = totalWidth + 2*frameWidth
			}

			wrap := dim.W
			wrap -= 2 * style.HPadding
			wrap -= 2 * frameWidth
			if rec.icon != nil {
				wrap -= rec.icon.Width() + style.HPadding
			}
			e.setupLayout(rec.layout, wrap)

			w, h = rec.contentSize(style.HPadding)
			h += 2 * style.Padding
			if style.MinHeight > h {
				h = style.MinHeight
			}
			dim.H += h
			if w > textWidth {
				textWidth = w
			}
		}
	}

	// Can still be unresolved when no records exist, e.g. during the
	// layout builder's provisional sizing call.
	if dim.W <= 0 {
		dim.W = textWidth + 2*style.HPadding + 2*frameWidth
	}

	// With no records the frame and separator terms leave a meaningless
	// height behind.
	if len(records) == 0 {
		dim.H = 0
	}

	return dim
}
