package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jmylchreest/popstack/internal/color"
	"github.com/jmylchreest/popstack/internal/markup"
	"github.com/jmylchreest/popstack/internal/model"
)

// Deterministic metrics for the fake shaping engine: every rune is
// fakeCharWidth wide and every line fakeLineHeight tall.
const (
	fakeCharWidth  = 10
	fakeLineHeight = 20
)

type fakeLayout struct {
	style      TextStyle
	text       string
	attrs      any
	setupCalls int
}

func (l *fakeLayout) Setup(style TextStyle) {
	l.style = style
	l.setupCalls++
}

func (l *fakeLayout) SetText(text string) {
	l.text = text
	l.attrs = nil
}

func (l *fakeLayout) SetStyled(text string, attrs any) {
	l.text = text
	l.attrs = attrs
}

// PixelSize wraps whole runes at the configured width, like a monospace
// shaping engine would.
func (l *fakeLayout) PixelSize() (int, int) {
	maxWidth, lines := 0, 0
	for _, line := range strings.Split(l.text, "\n") {
		w := len([]rune(line)) * fakeCharWidth
		if l.style.WordWrap && l.style.WrapWidth >= 0 && w > l.style.WrapWidth {
			cols := l.style.WrapWidth / fakeCharWidth
			if cols < 1 {
				cols = 1
			}
			n := len([]rune(line))
			lines += (n + cols - 1) / cols
			w = cols * fakeCharWidth
		} else {
			lines++
		}
		if w > maxWidth {
			maxWidth = w
		}
	}
	if lines == 0 {
		lines = 1
	}
	return maxWidth, lines * fakeLineHeight
}

type fakeImage struct {
	w, h int
}

func (i *fakeImage) Width() int  { return i.w }
func (i *fakeImage) Height() int { return i.h }

type scaleCall struct {
	w, h int
}

type fakeDecoder struct {
	files      map[string]*fakeImage
	scaleCalls []scaleCall
	failRaw    bool
}

func (d *fakeDecoder) DecodeFile(path string) (Image, error) {
	if img, ok := d.files[path]; ok {
		return img, nil
	}
	return nil, fmt.Errorf("cannot decode %s", path)
}

func (d *fakeDecoder) DecodeRaw(raw *model.RawImage) (Image, error) {
	if d.failRaw {
		return nil, errors.New("bad pixel data")
	}
	return &fakeImage{w: raw.Width, h: raw.Height}, nil
}

func (d *fakeDecoder) Scale(img Image, w, h int) (Image, error) {
	d.scaleCalls = append(d.scaleCalls, scaleCall{w, h})
	return &fakeImage{w: w, h: h}, nil
}

type fillOp struct {
	c          color.Color
	x, y, w, h int
}

type textOp struct {
	layout TextLayout
	c      color.Color
	x, y   int
}

type imageOp struct {
	img  Image
	x, y int
}

type fakeBuffer struct {
	fills    []fillOp
	texts    []textOp
	images   []imageOp
	released bool
}

func (b *fakeBuffer) FillRect(c color.Color, x, y, w, h int) {
	b.fills = append(b.fills, fillOp{c, x, y, w, h})
}

func (b *fakeBuffer) DrawText(l TextLayout, c color.Color, x, y int) {
	b.texts = append(b.texts, textOp{l, c, x, y})
}

func (b *fakeBuffer) DrawImage(img Image, x, y int) {
	b.images = append(b.images, imageOp{img, x, y})
}

func (b *fakeBuffer) Release() { b.released = true }

type fakeOutput struct {
	screen  Screen
	layouts []*fakeLayout
	buffers []*fakeBuffer

	failBuffer bool
	// strictBuffers rejects non-positive sizes the way the real output
	// does.
	strictBuffers bool

	resizes            int
	resizedW, resizedH int
	blitted            *fakeBuffer
	closed             bool
}

func newFakeOutput() *fakeOutput {
	return &fakeOutput{
		screen: Screen{Geometry: Rect{W: 1920, H: 1080}, DPI: 96},
	}
}

func (o *fakeOutput) Screen() Screen { return o.screen }

func (o *fakeOutput) NewTextLayout() TextLayout {
	l := &fakeLayout{}
	o.layouts = append(o.layouts, l)
	return l
}

func (o *fakeOutput) NewBuffer(w, h int) (Buffer, error) {
	if o.failBuffer {
		return nil, errors.New("out of memory")
	}
	if o.strictBuffers && (w <= 0 || h <= 0) {
		return nil, fmt.Errorf("invalid buffer size %dx%d", w, h)
	}
	b := &fakeBuffer{}
	o.buffers = append(o.buffers, b)
	return b, nil
}

func (o *fakeOutput) Resize(w, h int) {
	o.resizes++
	o.resizedW, o.resizedH = w, h
}

func (o *fakeOutput) Blit(buf Buffer) {
	o.blitted = buf.(*fakeBuffer)
}

func (o *fakeOutput) Close() { o.closed = true }

// fakeParser parses any text not containing failOn, using the stripper for
// the plain form and a sentinel attribute handle.
type fakeParser struct {
	failOn string
}

var errBadMarkup = errors.New("unknown tag")

func (p *fakeParser) Parse(text string) (string, any, error) {
	if p.failOn != "" && strings.Contains(text, p.failOn) {
		return "", nil, errBadMarkup
	}
	return markup.Strip(text), "styled-attrs", nil
}

type fakeSource struct {
	entries []*model.Entry
	hidden  int
}

func (s *fakeSource) Visible() []*model.Entry { return s.entries }
func (s *fakeSource) HiddenCount() int        { return s.hidden }
