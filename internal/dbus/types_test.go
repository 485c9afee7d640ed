package dbus

import (
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/popstack/internal/model"
)

func hintNotification(hints map[string]dbus.Variant) *Notification {
	return &Notification{
		AppName: "test-app",
		Summary: "summary",
		Hints:   hints,
	}
}

func TestNotification_Urgency(t *testing.T) {
	tests := []struct {
		name  string
		hints map[string]dbus.Variant
		want  int
	}{
		{name: "no hints", hints: nil, want: model.UrgencyNormal},
		{
			name:  "low",
			hints: map[string]dbus.Variant{"urgency": dbus.MakeVariant(byte(0))},
			want:  model.UrgencyLow,
		},
		{
			name:  "critical",
			hints: map[string]dbus.Variant{"urgency": dbus.MakeVariant(byte(2))},
			want:  model.UrgencyCritical,
		},
		{
			name:  "wrong type falls back to normal",
			hints: map[string]dbus.Variant{"urgency": dbus.MakeVariant("high")},
			want:  model.UrgencyNormal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hintNotification(tt.hints).Urgency())
		})
	}
}

func TestNotification_ColorHints(t *testing.T) {
	n := hintNotification(map[string]dbus.Variant{
		"fgcolor": dbus.MakeVariant("#ffffff"),
		"bgcolor": dbus.MakeVariant("#000000"),
		"frcolor": dbus.MakeVariant("#ff0000"),
	})

	assert.Equal(t, "#ffffff", n.ForegroundColor())
	assert.Equal(t, "#000000", n.BackgroundColor())
	assert.Equal(t, "#ff0000", n.FrameColor())

	empty := hintNotification(nil)
	assert.Empty(t, empty.ForegroundColor())
	assert.Empty(t, empty.BackgroundColor())
	assert.Empty(t, empty.FrameColor())
}

func TestNotification_ImagePathDeprecatedSpelling(t *testing.T) {
	n := hintNotification(map[string]dbus.Variant{
		"image_path": dbus.MakeVariant("/tmp/a.png"),
	})
	assert.Equal(t, "/tmp/a.png", n.ImagePath())

	// The current spelling wins when both are present.
	n = hintNotification(map[string]dbus.Variant{
		"image-path": dbus.MakeVariant("/tmp/new.png"),
		"image_path": dbus.MakeVariant("/tmp/old.png"),
	})
	assert.Equal(t, "/tmp/new.png", n.ImagePath())
}

func TestNotification_SoundHints(t *testing.T) {
	n := hintNotification(map[string]dbus.Variant{
		"sound-file":     dbus.MakeVariant("/tmp/ding.wav"),
		"suppress-sound": dbus.MakeVariant(true),
	})

	assert.Equal(t, "/tmp/ding.wav", n.SoundFile())
	assert.True(t, n.SuppressSound())
	assert.False(t, hintNotification(nil).SuppressSound())
}

func imageDataVariant(w, h, stride int32, data []byte) dbus.Variant {
	return dbus.MakeVariant([]any{w, h, stride, true, int32(8), int32(4), data})
}

func TestNotification_ImageData(t *testing.T) {
	data := make([]byte, 2*2*4)
	n := hintNotification(map[string]dbus.Variant{
		"image-data": imageDataVariant(2, 2, 8, data),
	})

	raw := n.ImageData()
	require.NotNil(t, raw)
	assert.Equal(t, 2, raw.Width)
	assert.Equal(t, 2, raw.Height)
	assert.Equal(t, 8, raw.RowStride)
	assert.True(t, raw.HasAlpha)
	assert.Equal(t, 8, raw.BitsPerSample)
	assert.Equal(t, 4, raw.Channels)
	assert.Equal(t, data, raw.Data)
	assert.True(t, raw.Valid())
}

func TestNotification_ImageDataLegacyKey(t *testing.T) {
	n := hintNotification(map[string]dbus.Variant{
		"icon_data": imageDataVariant(1, 1, 4, make([]byte, 4)),
	})
	assert.NotNil(t, n.ImageData())
}

func TestNotification_ImageDataMalformed(t *testing.T) {
	tests := []struct {
		name  string
		hints map[string]dbus.Variant
	}{
		{name: "absent", hints: nil},
		{
			name:  "wrong outer type",
			hints: map[string]dbus.Variant{"image-data": dbus.MakeVariant("nope")},
		},
		{
			name: "wrong field count",
			hints: map[string]dbus.Variant{
				"image-data": dbus.MakeVariant([]any{int32(1), int32(1)}),
			},
		},
		{
			name: "wrong field type",
			hints: map[string]dbus.Variant{
				"image-data": dbus.MakeVariant([]any{
					"1", int32(1), int32(4), true, int32(8), int32(4), []byte{0},
				}),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, hintNotification(tt.hints).ImageData())
		})
	}
}

func TestCloseReason_String(t *testing.T) {
	assert.Equal(t, "expired", CloseReasonExpired.String())
	assert.Equal(t, "dismissed", CloseReasonDismissed.String())
	assert.Equal(t, "closed", CloseReasonClosed.String())
	assert.Equal(t, "undefined", CloseReasonUndefined.String())
	assert.Equal(t, "unknown", CloseReason(99).String())
}
