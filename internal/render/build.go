package render

import (
	"fmt"

	"github.com/jmylchreest/popstack/internal/color"
	"github.com/jmylchreest/popstack/internal/config"
	"github.com/jmylchreest/popstack/internal/markup"
	"github.com/jmylchreest/popstack/internal/model"
)

// buildRecords turns the source's visible entries into render records in
// display order. When entries are hidden and indication is enabled, either a
// synthetic "(N more)" record is appended, or in single-entry mode the
// indicator is folded into the last visible entry's own text.
func (e *Engine) buildRecords(src Source) []*record {
	entries := src.Visible()
	hidden := src.HiddenCount()
	indicate := hidden > 0 && e.cfg.Stack.IndicateHidden

	recs := make([]*record, 0, len(entries)+1)
	var last *model.Entry
	for i, n := range entries {
		last = n
		n.UpdateTextToRender()
		if i == len(entries)-1 && indicate && e.cfg.Window.SingleEntry {
			n.TextToRender = fmt.Sprintf("%s (%d more)", n.TextToRender, hidden)
		}
		recs = append(recs, e.buildRecord(n))
	}

	if indicate && !e.cfg.Window.SingleEntry && last != nil {
		recs = append(recs, e.buildOverflowRecord(last, hidden))
	}

	return recs
}

// initRecord creates the shared part of a render record: the shaping handle
// configured to a provisional wrap width, the resolved icon and the entry's
// colors. Mirrors what every record needs before its text is known.
func (e *Engine) initRecord(n *model.Entry) *record {
	rec := &record{entry: n}
	rec.layout = e.out.NewTextLayout()

	if e.cfg.Icons.Position != config.IconOff {
		rec.icon = e.resolveIcon(n)
	}

	rec.fg = color.Parse(n.Colors.Foreground, e.logger)
	rec.bg = color.Parse(n.Colors.Background, e.logger)
	rec.frame = color.Parse(n.Colors.Frame, e.logger)

	// The provisional wrap width comes from resolving geometry with no
	// records at all; the real width is negotiated once every record
	// exists.
	width := e.resolveDimensions(nil).W
	if e.cfg.Window.Mode == config.WidthDynamic {
		e.setupLayout(rec.layout, -1)
	} else {
		width -= 2 * e.cfg.Style.HPadding
		width -= 2 * e.cfg.Frame.Width
		if rec.icon != nil {
			width -= rec.icon.Width() + e.cfg.Style.HPadding
		}
		e.setupLayout(rec.layout, width)
	}

	return rec
}

// buildRecord builds the full record for a notification entry: markup is
// parsed, falling back to a stripped plain rendering on error, and the
// entry's displayed height is written back for the stack manager.
func (e *Engine) buildRecord(n *model.Entry) *record {
	rec := e.initRecord(n)

	plain, attrs, err := e.parser.Parse(n.TextToRender)
	if err == nil {
		rec.text = plain
		rec.attrs = attrs
		rec.layout.SetStyled(plain, attrs)
	} else {
		p := markup.Fallback(n.TextToRender, err)
		rec.text = p.Text
		rec.layout.SetText(p.Text)
		if n.FirstRender {
			e.logger.Warn("error parsing markup", "app", n.AppName, "error", err)
		}
	}

	_, h := rec.layout.PixelSize()
	if ih := rec.iconHeight(); ih > h {
		h = ih
	}
	h += 2 * e.cfg.Style.Padding
	if e.cfg.Style.MinHeight > h {
		h = e.cfg.Style.MinHeight
	}
	n.DisplayedHeight = h
	n.FirstRender = false

	return rec
}

// buildOverflowRecord builds the synthetic "(N more)" record, styled like
// the last visible entry.
func (e *Engine) buildOverflowRecord(last *model.Entry, hidden int) *record {
	rec := e.initRecord(last)
	rec.text = fmt.Sprintf("(%d more)", hidden)
	rec.layout.SetText(rec.text)
	return rec
}

// setupLayout applies the configured shaping style at the given wrap width.
// Ellipsization replaces wrapping in the shaping engine, so only one of the
// two reaches the backend: a wrapping layout carries no ellipsize mode.
func (e *Engine) setupLayout(l TextLayout, width int) {
	ellipsize := e.cfg.Style.Ellipsize
	if e.cfg.Style.WordWrap {
		ellipsize = ""
	}
	l.Setup(TextStyle{
		WrapWidth:   width,
		Font:        e.cfg.Style.Font,
		LineSpacing: e.cfg.Style.LineHeight,
		Align:       e.cfg.Style.Alignment,
		WordWrap:    e.cfg.Style.WordWrap,
		Ellipsize:   ellipsize,
	})
}

// resolveIcon decodes the entry's icon: a raw pixel buffer wins unless the
// icon was overridden, otherwise the reference is resolved against the
// search path. Failures degrade to no icon and are logged, never fatal.
func (e *Engine) resolveIcon(n *model.Entry) Image {
	var (
		img Image
		err error
	)

	switch {
	case n.RawIcon.Valid() && !n.IconOverridden:
		img, err = e.decoder.DecodeRaw(n.RawIcon)
	case n.Icon != "":
		var path string
		path, err = e.icons.Resolve(n.Icon)
		if err != nil {
			e.logger.Warn("could not load icon", "icon", n.Icon)
			return nil
		}
		img, err = e.decoder.DecodeFile(path)
	default:
		return nil
	}

	if err != nil {
		e.logger.Warn("failed to decode icon", "icon", n.Icon, "error", err)
		return nil
	}
	if img == nil {
		return nil
	}

	return e.capIconSize(img)
}

// capIconSize scales an icon down so its larger edge does not exceed the
// configured maximum, preserving aspect ratio.
func (e *Engine) capIconSize(img Image) Image {
	maxSize := e.cfg.Icons.MaxSize
	w, h := img.Width(), img.Height()

	larger := w
	if h > larger {
		larger = h
	}
	if maxSize == 0 || larger <= maxSize {
		return img
	}

	var sw, sh int
	if w >= h {
		sw = maxSize
		sh = int(float64(maxSize) / float64(w) * float64(h))
	} else {
		sw = int(float64(maxSize) / float64(h) * float64(w))
		sh = maxSize
	}

	scaled, err := e.decoder.Scale(img, sw, sh)
	if err != nil {
		e.logger.Warn("failed to scale icon", "error", err)
		return img
	}
	return scaled
}
