package dbus

import (
	"time"

	"github.com/jmylchreest/popstack/internal/config"
	"github.com/jmylchreest/popstack/internal/model"
)

// ToEntry converts an incoming notification into a stack entry, resolving
// everything that depends on the active configuration at enqueue time:
// urgency colors (overridable per-notification by the fgcolor, bgcolor and
// frcolor hints), the expiry deadline and the icon reference.
//
// Icon precedence: the image-path hint overrides everything, including raw
// pixel data; otherwise raw data from image-data wins over app_icon.
func (n *Notification) ToEntry(cfg *config.Config, id uint32) (*model.Entry, error) {
	entry, err := model.NewEntry("dbus")
	if err != nil {
		return nil, err
	}

	entry.BusID = id
	entry.AppName = n.AppName
	entry.Summary = n.Summary
	entry.Body = n.Body
	entry.SetUrgency(n.Urgency())

	fg, bg, frame := cfg.ColorsFor(entry.Urgency)
	if c := n.ForegroundColor(); c != "" {
		fg = c
	}
	if c := n.BackgroundColor(); c != "" {
		bg = c
	}
	if c := n.FrameColor(); c != "" {
		frame = c
	}
	entry.Colors = model.ColorTriple{Foreground: fg, Background: bg, Frame: frame}

	entry.Icon = n.AppIcon
	entry.RawIcon = n.ImageData()
	if path := n.ImagePath(); path != "" {
		entry.Icon = path
		entry.IconOverridden = true
	}

	if timeout := n.timeout(cfg, entry.Urgency); timeout > 0 {
		entry.ExpiresAt = entry.Timestamp.Add(timeout)
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}
	return entry, nil
}

// timeout resolves the expire_timeout field: -1 means the per-urgency
// configured default, 0 means never, positive is milliseconds.
func (n *Notification) timeout(cfg *config.Config, urgency int) time.Duration {
	switch {
	case n.ExpireTimeout < 0:
		return cfg.TimeoutFor(urgency)
	case n.ExpireTimeout == 0:
		return 0
	default:
		return time.Duration(n.ExpireTimeout) * time.Millisecond
	}
}
