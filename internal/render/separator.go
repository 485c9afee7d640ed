package render

import (
	"github.com/jmylchreest/popstack/internal/color"
	"github.com/jmylchreest/popstack/internal/config"
)

// separatorColor picks the divider color between cur and next per the
// configured policy. For the frame policy the entry with the higher urgency
// wins, ties favoring cur.
func (e *Engine) separatorColor(cur, next *record) color.Color {
	switch e.cfg.Style.SeparatorColor {
	case config.SeparatorFrame:
		if next != nil && next.entry.Urgency > cur.entry.Urgency {
			return next.frame
		}
		return cur.frame
	case config.SeparatorCustom:
		return color.Parse(e.cfg.Style.SeparatorCustomColor, e.logger)
	case config.SeparatorForeground:
		return cur.fg
	case config.SeparatorAuto:
		return color.AutoContrast(cur.bg)
	default:
		e.logger.Warn("unknown separator color policy, using foreground",
			"policy", e.cfg.Style.SeparatorColor)
		return cur.fg
	}
}
