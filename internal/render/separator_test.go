package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jmylchreest/popstack/internal/color"
	"github.com/jmylchreest/popstack/internal/config"
	"github.com/jmylchreest/popstack/internal/model"
)

func separatorRecords(e *Engine) (cur, next *record) {
	a := makeEntry("a", model.UrgencyNormal)
	a.Colors.Frame = "#111111"
	b := makeEntry("b", model.UrgencyNormal)
	b.Colors.Frame = "#222222"
	recs := e.buildRecords(&fakeSource{entries: []*model.Entry{a, b}})
	return recs[0], recs[1]
}

func TestSeparatorColor_FramePolicy(t *testing.T) {
	cfg := testConfig()
	cfg.Style.SeparatorColor = config.SeparatorFrame
	e, _, _, _ := newTestEngine(cfg)

	cur, next := separatorRecords(e)
	assert.Equal(t, cur.frame, e.separatorColor(cur, next))

	// The more urgent neighbor's frame wins.
	next.entry.Urgency = model.UrgencyCritical
	assert.Equal(t, next.frame, e.separatorColor(cur, next))

	// Ties favor the entry above the divider.
	cur.entry.Urgency = model.UrgencyCritical
	assert.Equal(t, cur.frame, e.separatorColor(cur, next))

	// The last separator has no entry below it.
	assert.Equal(t, cur.frame, e.separatorColor(cur, nil))
}

func TestSeparatorColor_CustomPolicy(t *testing.T) {
	cfg := testConfig()
	cfg.Style.SeparatorColor = config.SeparatorCustom
	cfg.Style.SeparatorCustomColor = "#00ff00"
	e, _, _, _ := newTestEngine(cfg)

	cur, next := separatorRecords(e)
	assert.Equal(t, color.FromHex(0x00ff00), e.separatorColor(cur, next))
}

func TestSeparatorColor_ForegroundPolicy(t *testing.T) {
	cfg := testConfig()
	cfg.Style.SeparatorColor = config.SeparatorForeground
	e, _, _, _ := newTestEngine(cfg)

	cur, next := separatorRecords(e)
	assert.Equal(t, cur.fg, e.separatorColor(cur, next))
}

func TestSeparatorColor_AutoPolicy(t *testing.T) {
	cfg := testConfig()
	cfg.Style.SeparatorColor = config.SeparatorAuto
	e, _, _, _ := newTestEngine(cfg)

	cur, next := separatorRecords(e)
	assert.Equal(t, color.AutoContrast(cur.bg), e.separatorColor(cur, next))
}

func TestSeparatorColor_UnknownPolicyFallsBackToForeground(t *testing.T) {
	cfg := testConfig()
	cfg.Style.SeparatorColor = config.SeparatorColorMode("sparkly")
	e, _, _, _ := newTestEngine(cfg)

	cur, next := separatorRecords(e)
	assert.Equal(t, cur.fg, e.separatorColor(cur, next))
}
