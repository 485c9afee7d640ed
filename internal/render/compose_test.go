package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/popstack/internal/config"
	"github.com/jmylchreest/popstack/internal/model"
)

func TestComposeEntry_SingleEntry(t *testing.T) {
	cfg := testConfig()
	e, _, _, _ := newTestEngine(cfg)

	recs := e.buildRecords(&fakeSource{entries: []*model.Entry{makeEntry("Hello", 1)}})
	dim := e.resolveDimensions(recs)
	require.Equal(t, Dimension{W: 300, H: 42}, dim)

	buf := &fakeBuffer{}
	dim = e.composeEntry(buf, recs[0], nil, dim, true, true)

	// The border comes from two rectangles: frame color across the full
	// extent, then the background inset by the frame width on all sides.
	require.Len(t, buf.fills, 2)
	assert.Equal(t, fillOp{recs[0].frame, 0, 0, 300, 42}, buf.fills[0])
	assert.Equal(t, fillOp{recs[0].bg, 1, 1, 298, 40}, buf.fills[1])

	require.Len(t, buf.texts, 1)
	assert.Equal(t, textOp{recs[0].layout, recs[0].fg, 11, 11}, buf.texts[0])

	// Cursor lands on the bottom frame edge.
	assert.Equal(t, dim.H-cfg.Frame.Width, dim.Y)
}

func TestComposeEntry_StackedPairWithFrameSeparator(t *testing.T) {
	cfg := testConfig()
	cfg.Style.SeparatorColor = config.SeparatorFrame
	e, _, _, _ := newTestEngine(cfg)

	low := makeEntry("one", 1)
	crit := makeEntry("two", 2)
	crit.Colors.Frame = "#ff0000"

	recs := e.buildRecords(&fakeSource{entries: []*model.Entry{low, crit}})
	dim := e.resolveDimensions(recs)
	require.Equal(t, Dimension{W: 300, H: 84}, dim)

	buf := &fakeBuffer{}
	dim = e.composeEntry(buf, recs[0], recs[1], dim, true, false)
	dim = e.composeEntry(buf, recs[1], nil, dim, false, true)

	require.Len(t, buf.fills, 5)
	// First entry: frame extends down through the separator band.
	assert.Equal(t, fillOp{recs[0].frame, 0, 0, 300, 43}, buf.fills[0])
	assert.Equal(t, fillOp{recs[0].bg, 1, 1, 298, 40}, buf.fills[1])
	// Frame-policy separator runs corner to corner at full stack width,
	// colored by the more urgent neighbor.
	assert.Equal(t, fillOp{recs[1].frame, 0, 41, 300, 2}, buf.fills[2])
	// Second entry picks up below the separator.
	assert.Equal(t, fillOp{recs[1].frame, 0, 43, 300, 41}, buf.fills[3])
	assert.Equal(t, fillOp{recs[1].bg, 1, 43, 298, 40}, buf.fills[4])

	require.Len(t, buf.texts, 2)
	assert.Equal(t, 11, buf.texts[0].y)
	assert.Equal(t, 53, buf.texts[1].y)

	assert.Equal(t, dim.H-cfg.Frame.Width, dim.Y)
}

func TestComposeEntry_InsetSeparatorForCustomPolicy(t *testing.T) {
	cfg := testConfig()
	cfg.Style.SeparatorColor = config.SeparatorCustom
	cfg.Style.SeparatorCustomColor = "#00ff00"
	e, _, _, _ := newTestEngine(cfg)

	recs := e.buildRecords(&fakeSource{entries: []*model.Entry{
		makeEntry("one", 1), makeEntry("two", 1),
	}})
	dim := e.resolveDimensions(recs)

	buf := &fakeBuffer{}
	e.composeEntry(buf, recs[0], recs[1], dim, true, false)

	require.Len(t, buf.fills, 3)
	sep := buf.fills[2]
	// Non-frame separators stay inside the border.
	assert.Equal(t, 1, sep.x)
	assert.Equal(t, 42, sep.y)
	assert.Equal(t, 298, sep.w)
	assert.Equal(t, 2, sep.h)
}

func TestComposeEntry_ZeroSeparatorHeightDrawsNone(t *testing.T) {
	cfg := testConfig()
	cfg.Style.SeparatorHeight = 0
	e, _, _, _ := newTestEngine(cfg)

	recs := e.buildRecords(&fakeSource{entries: []*model.Entry{
		makeEntry("one", 1), makeEntry("two", 1),
	}})
	dim := e.resolveDimensions(recs)

	buf := &fakeBuffer{}
	dim = e.composeEntry(buf, recs[0], recs[1], dim, true, false)
	dim = e.composeEntry(buf, recs[1], nil, dim, false, true)

	// Only frame and background fills, two per entry.
	assert.Len(t, buf.fills, 4)
	assert.Equal(t, dim.H-cfg.Frame.Width, dim.Y)
}

func TestComposeEntry_MinHeightCentersContent(t *testing.T) {
	cfg := testConfig()
	cfg.Style.MinHeight = 100
	e, _, _, _ := newTestEngine(cfg)

	recs := e.buildRecords(&fakeSource{entries: []*model.Entry{makeEntry("Hello", 1)}})
	dim := e.resolveDimensions(recs)
	require.Equal(t, 102, dim.H)

	buf := &fakeBuffer{}
	dim = e.composeEntry(buf, recs[0], nil, dim, true, true)

	// The cursor still advances by the full minimum height.
	assert.Equal(t, dim.H-cfg.Frame.Width, dim.Y)
}

func TestComposeEntry_IconLeft(t *testing.T) {
	cfg := testConfig()
	cfg.Icons.Position = config.IconLeft
	cfg.Icons.MaxSize = 64
	e, _, _, _ := newTestEngine(cfg)

	n := makeEntry("Hi", 1)
	n.RawIcon = validRawImage(32, 32)

	recs := e.buildRecords(&fakeSource{entries: []*model.Entry{n}})
	dim := e.resolveDimensions(recs)

	buf := &fakeBuffer{}
	e.composeEntry(buf, recs[0], nil, dim, true, true)

	require.Len(t, buf.images, 1)
	img := buf.images[0]
	assert.Equal(t, 1+10, img.x)
	// bgY(1) + padding(10) + h/2(16) - iconHeight/2(16)
	assert.Equal(t, 11, img.y)

	require.Len(t, buf.texts, 1)
	// frame + icon width + two horizontal paddings
	assert.Equal(t, 1+32+2*10, buf.texts[0].x)
	// Text is centered against the taller icon.
	assert.Equal(t, 1+10+32/2-20/2, buf.texts[0].y)
}

func TestComposeEntry_IconRight(t *testing.T) {
	cfg := testConfig()
	cfg.Icons.Position = config.IconRight
	cfg.Icons.MaxSize = 64
	e, _, _, _ := newTestEngine(cfg)

	n := makeEntry("Hi", 1)
	n.RawIcon = validRawImage(32, 32)

	recs := e.buildRecords(&fakeSource{entries: []*model.Entry{n}})
	dim := e.resolveDimensions(recs)

	buf := &fakeBuffer{}
	e.composeEntry(buf, recs[0], nil, dim, true, true)

	require.Len(t, buf.images, 1)
	// bgWidth(298) - hPadding(10) - iconWidth(32) + frame(1)
	assert.Equal(t, 298-10-32+1, buf.images[0].x)

	require.Len(t, buf.texts, 1)
	assert.Equal(t, 1+10, buf.texts[0].x)
}
