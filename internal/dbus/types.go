package dbus

import (
	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/popstack/internal/model"
)

// CloseReason is the NotificationClosed reason code from the freedesktop
// notification specification.
type CloseReason uint32

const (
	// CloseReasonExpired indicates the notification's timeout was reached.
	CloseReasonExpired CloseReason = 1
	// CloseReasonDismissed indicates the user dismissed the notification.
	CloseReasonDismissed CloseReason = 2
	// CloseReasonClosed indicates a CloseNotification request.
	CloseReasonClosed CloseReason = 3
	// CloseReasonUndefined covers closes with no listed reason.
	CloseReasonUndefined CloseReason = 4
)

// String returns the string representation of the close reason.
func (r CloseReason) String() string {
	switch r {
	case CloseReasonExpired:
		return "expired"
	case CloseReasonDismissed:
		return "dismissed"
	case CloseReasonClosed:
		return "closed"
	case CloseReasonUndefined:
		return "undefined"
	default:
		return "unknown"
	}
}

// Notification carries the raw parameters of one Notify method call.
type Notification struct {
	AppName       string
	ReplacesID    uint32
	AppIcon       string
	Summary       string
	Body          string
	Actions       []string // Alternating key, label pairs
	Hints         map[string]dbus.Variant
	ExpireTimeout int32 // -1 = server default, 0 = never expire
}

func (n *Notification) stringHint(keys ...string) string {
	for _, key := range keys {
		if v, ok := n.Hints[key]; ok {
			if s, ok := v.Value().(string); ok {
				return s
			}
		}
	}
	return ""
}

func (n *Notification) boolHint(key string) bool {
	if v, ok := n.Hints[key]; ok {
		if b, ok := v.Value().(bool); ok {
			return b
		}
	}
	return false
}

// Urgency extracts the urgency hint, defaulting to normal.
func (n *Notification) Urgency() int {
	if v, ok := n.Hints["urgency"]; ok {
		if b, ok := v.Value().(byte); ok {
			return int(b)
		}
	}
	return model.UrgencyNormal
}

// ForegroundColor extracts the fgcolor hint.
func (n *Notification) ForegroundColor() string {
	return n.stringHint("fgcolor")
}

// BackgroundColor extracts the bgcolor hint.
func (n *Notification) BackgroundColor() string {
	return n.stringHint("bgcolor")
}

// FrameColor extracts the frcolor hint.
func (n *Notification) FrameColor() string {
	return n.stringHint("frcolor")
}

// ImagePath extracts the image-path hint, checking the deprecated spelling
// too.
func (n *Notification) ImagePath() string {
	return n.stringHint("image-path", "image_path")
}

// SoundFile extracts the sound-file hint.
func (n *Notification) SoundFile() string {
	return n.stringHint("sound-file")
}

// SuppressSound reports whether the suppress-sound hint is set.
func (n *Notification) SuppressSound() bool {
	return n.boolHint("suppress-sound")
}

// Transient reports whether the transient hint is set. Transient
// notifications are dropped rather than queued when the stack is full.
func (n *Notification) Transient() bool {
	return n.boolHint("transient")
}

// imageDataKeys are checked in order: the current name, the deprecated
// underscore spelling and the pre-1.2 icon_data.
var imageDataKeys = []string{"image-data", "image_data", "icon_data"}

// ImageData extracts the raw pixel buffer hint, wire type (iiibiiay).
// Returns nil when absent or malformed.
func (n *Notification) ImageData() *model.RawImage {
	for _, key := range imageDataKeys {
		v, ok := n.Hints[key]
		if !ok {
			continue
		}
		if raw := decodeImageStruct(v.Value()); raw != nil {
			return raw
		}
	}
	return nil
}

func decodeImageStruct(value any) *model.RawImage {
	fields, ok := value.([]any)
	if !ok || len(fields) != 7 {
		return nil
	}

	width, ok0 := fields[0].(int32)
	height, ok1 := fields[1].(int32)
	rowStride, ok2 := fields[2].(int32)
	hasAlpha, ok3 := fields[3].(bool)
	bits, ok4 := fields[4].(int32)
	channels, ok5 := fields[5].(int32)
	data, ok6 := fields[6].([]byte)
	if !(ok0 && ok1 && ok2 && ok3 && ok4 && ok5 && ok6) {
		return nil
	}

	return &model.RawImage{
		Width:         int(width),
		Height:        int(height),
		RowStride:     int(rowStride),
		HasAlpha:      hasAlpha,
		BitsPerSample: int(bits),
		Channels:      int(channels),
		Data:          data,
	}
}

// ServerCapabilities lists the capabilities advertised by popstackd.
var ServerCapabilities = []string{
	"body",        // Body text is shown
	"body-markup", // Pango markup in the body
	"icon-static", // Static icons
	"sound",       // Per-urgency sounds
}

// ServerInfo is what GetServerInformation returns.
type ServerInfo struct {
	Name        string
	Vendor      string
	Version     string
	SpecVersion string
}

// DefaultServerInfo returns the default server information.
func DefaultServerInfo() ServerInfo {
	return ServerInfo{
		Name:        "popstackd",
		Vendor:      "popstack",
		Version:     "0.0.1", // Replaced by the build-time version
		SpecVersion: "1.2",
	}
}
