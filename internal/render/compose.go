package render

import (
	"math"

	"github.com/jmylchreest/popstack/internal/config"
)

// composeEntry draws one entry at the dimension's cursor and returns the
// dimension with the cursor advanced past it. first and last select the
// frame-edge handling at the stack boundaries.
//
// The border is produced by painting the frame-color rectangle across the
// full stack width and then the background color inset by the frame width;
// no stroke primitive is used.
func (e *Engine) composeEntry(buf Buffer, cur, next *record, dim Dimension, first, last bool) Dimension {
	style := e.cfg.Style
	frameWidth := e.cfg.Frame.Width

	_, h := cur.layout.PixelSize()
	hText := 0
	if cur.icon != nil {
		hText = h
		if ih := cur.icon.Height(); ih > h {
			h = ih
		}
	}

	bgX := 0
	bgY := dim.Y
	bgWidth := dim.W
	bgHeight := 2*style.Padding + h
	if style.MinHeight > bgHeight {
		bgHeight = style.MinHeight
	}
	bgHalfHeight := float64(style.MinHeight) / 2.0
	textOffset := int(math.Floor(float64(h) / 2.0))

	if first {
		bgHeight += frameWidth
	}
	if last {
		bgHeight += frameWidth
	} else {
		bgHeight += style.SeparatorHeight
	}

	buf.FillRect(cur.frame, bgX, bgY, bgWidth, bgHeight)

	// Inset past the frame.
	bgX += frameWidth
	if first {
		dim.Y += frameWidth
		bgY += frameWidth
		bgHeight -= frameWidth
		if !last {
			bgHeight -= style.SeparatorHeight
		}
	}
	bgWidth -= 2 * frameWidth
	if last {
		bgHeight -= frameWidth
	}

	buf.FillRect(cur.bg, bgX, bgY, bgWidth, bgHeight)

	// When content is taller than the minimum the fixed padding applies;
	// otherwise the content is centered within the minimum height.
	usePadding := style.MinHeight <= 2*style.Padding+h
	if usePadding {
		dim.Y += style.Padding
	} else {
		dim.Y += int(math.Ceil(bgHalfHeight)) - textOffset
	}

	var textX, textY int
	switch {
	case cur.icon != nil && e.cfg.Icons.Position == config.IconLeft:
		textX = frameWidth + cur.icon.Width() + 2*style.HPadding
		textY = bgY + style.Padding + h/2 - hText/2
	case cur.icon != nil && e.cfg.Icons.Position == config.IconRight:
		textX = frameWidth + style.HPadding
		textY = bgY + style.Padding + h/2 - hText/2
	default:
		textX = frameWidth + style.HPadding
		textY = bgY + style.Padding
	}
	buf.DrawText(cur.layout, cur.fg, textX, textY)

	if usePadding {
		dim.Y += h + style.Padding
	} else {
		dim.Y += int(math.Floor(bgHalfHeight)) + textOffset
	}

	if style.SeparatorHeight > 0 && !last {
		sepColor := e.separatorColor(cur, next)
		if e.cfg.Style.SeparatorColor == config.SeparatorFrame {
			// Paint corner to corner so the border corners keep the
			// separator color instead of the background's.
			buf.FillRect(sepColor, 0, dim.Y, dim.W, style.SeparatorHeight)
		} else {
			buf.FillRect(sepColor, frameWidth, dim.Y+frameWidth,
				dim.W-2*frameWidth, style.SeparatorHeight)
		}
		dim.Y += style.SeparatorHeight
	}

	if cur.icon != nil {
		imageWidth := cur.icon.Width()
		imageHeight := cur.icon.Height()
		imageY := bgY + style.Padding + h/2 - imageHeight/2

		var imageX int
		if e.cfg.Icons.Position == config.IconLeft {
			imageX = frameWidth + style.HPadding
		} else {
			imageX = bgWidth - style.HPadding - imageWidth + frameWidth
		}

		buf.DrawImage(cur.icon, imageX, imageY)
	}

	return dim
}
