// Package config handles configuration loading for popstackd.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// WidthMode selects how the stack width is resolved.
type WidthMode string

const (
	// WidthDynamic grows the stack to fit the widest entry.
	WidthDynamic WidthMode = "dynamic"
	// WidthFixed uses the configured pixel width.
	WidthFixed WidthMode = "fixed"
	// WidthScreen spans the full width of the active screen.
	WidthScreen WidthMode = "screen"
)

// IconPosition places the icon relative to the text.
type IconPosition string

const (
	IconOff   IconPosition = "off"
	IconLeft  IconPosition = "left"
	IconRight IconPosition = "right"
)

// Alignment is the text alignment within the wrap width.
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// EllipsizeMode selects where text is elided when word wrap is off.
type EllipsizeMode string

const (
	EllipsizeStart  EllipsizeMode = "start"
	EllipsizeMiddle EllipsizeMode = "middle"
	EllipsizeEnd    EllipsizeMode = "end"
)

// SeparatorColorMode selects the divider color between adjacent entries.
type SeparatorColorMode string

const (
	SeparatorFrame      SeparatorColorMode = "frame"
	SeparatorCustom     SeparatorColorMode = "custom"
	SeparatorForeground SeparatorColorMode = "foreground"
	SeparatorAuto       SeparatorColorMode = "auto"
)

// Duration is a time.Duration that unmarshals from human-readable strings
// like "5s" or "1m30s", or from integer milliseconds.
// A value of "0" or 0 means never expire.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)

	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: must be like '5s', '1m30s' or milliseconds: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML output.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Config is the popstackd configuration, loaded from
// ~/.config/popstack/popstackd.toml.
type Config struct {
	Window  WindowConfig  `toml:"window"`
	Frame   FrameConfig   `toml:"frame"`
	Style   StyleConfig   `toml:"style"`
	Icons   IconConfig    `toml:"icons"`
	Stack   StackConfig   `toml:"stack"`
	Urgency UrgencyConfig `toml:"urgency"`
	Audio   AudioConfig   `toml:"audio"`
	Theme   ThemeConfig   `toml:"theme"`
}

// WindowConfig is the geometry policy for the popup window.
type WindowConfig struct {
	Mode WidthMode `toml:"mode"` // "dynamic", "fixed" or "screen"
	// Width is the stack width in pixels for fixed mode, or the shrink
	// ceiling when shrink is enabled.
	Width int `toml:"width"`
	// FromRight measures the fixed width from the screen's right edge
	// instead of using it directly.
	FromRight bool `toml:"from_right"`
	// Shrink reduces the width below Width when all entries are narrower.
	Shrink bool `toml:"shrink"`
	// SingleEntry renders only one entry and appends the hidden-count
	// indicator to its text instead of adding an extra entry.
	SingleEntry bool `toml:"single_entry"`
	// OffsetX/OffsetY are the margins from the anchored screen edge.
	// OffsetX doubles as the horizontal screen margin that bounds a
	// dynamically grown stack.
	OffsetX int `toml:"offset_x"`
	OffsetY int `toml:"offset_y"`
	// Anchor is the screen corner the stack grows from.
	Anchor string `toml:"anchor"` // "top-left", "top-right", "bottom-left", "bottom-right"
}

// FrameConfig styles the border around the stack.
type FrameConfig struct {
	Width int    `toml:"width"`
	Color string `toml:"color"`
}

// StyleConfig holds text and spacing settings.
type StyleConfig struct {
	Font            string        `toml:"font"`
	Padding         int           `toml:"padding"`   // vertical, inside each entry
	HPadding        int           `toml:"h_padding"` // horizontal, inside each entry
	MinHeight       int           `toml:"min_height"`
	LineHeight      int           `toml:"line_height"`
	Alignment       Alignment     `toml:"alignment"`
	WordWrap        bool          `toml:"word_wrap"`
	Ellipsize       EllipsizeMode `toml:"ellipsize"` // used when word_wrap is off
	SeparatorHeight int           `toml:"separator_height"`

	SeparatorColor       SeparatorColorMode `toml:"separator_color"`
	SeparatorCustomColor string             `toml:"separator_custom_color"`
}

// IconConfig controls icon resolution and placement.
type IconConfig struct {
	Position   IconPosition `toml:"position"`
	MaxSize    int          `toml:"max_size"` // cap on the larger icon edge, 0 = uncapped
	SearchPath string       `toml:"search_path"`
}

// StackConfig bounds what is shown at once.
type StackConfig struct {
	MaxVisible     int  `toml:"max_visible"`
	IndicateHidden bool `toml:"indicate_hidden"`
}

// UrgencyConfig holds per-urgency appearance and timeouts.
type UrgencyConfig struct {
	Low      UrgencyLevelConfig `toml:"low"`
	Normal   UrgencyLevelConfig `toml:"normal"`
	Critical UrgencyLevelConfig `toml:"critical"`
}

// UrgencyLevelConfig styles one urgency level. An empty Frame falls back to
// the global frame color.
type UrgencyLevelConfig struct {
	Foreground string   `toml:"foreground"`
	Background string   `toml:"background"`
	Frame      string   `toml:"frame"`
	Timeout    Duration `toml:"timeout"`
}

// AudioConfig enables per-urgency notification sounds.
type AudioConfig struct {
	Enabled bool        `toml:"enabled"`
	Volume  int         `toml:"volume"` // 0-100
	Sounds  SoundConfig `toml:"sounds"`
}

// SoundConfig holds per-urgency sound file paths.
type SoundConfig struct {
	Low      string `toml:"low"`
	Normal   string `toml:"normal"`
	Critical string `toml:"critical"`
}

// ThemeConfig points at an optional YAML color palette.
type ThemeConfig struct {
	Palette string `toml:"palette"` // path, empty = use urgency colors as-is
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Mode:    WidthFixed,
			Width:   300,
			OffsetX: 10,
			OffsetY: 10,
			Anchor:  "top-right",
		},
		Frame: FrameConfig{
			Width: 1,
			Color: "#888888",
		},
		Style: StyleConfig{
			Font:            "Sans 10",
			Padding:         8,
			HPadding:        8,
			MinHeight:       0,
			LineHeight:      0,
			Alignment:       AlignLeft,
			WordWrap:        true,
			Ellipsize:       EllipsizeEnd,
			SeparatorHeight: 2,
			SeparatorColor:  SeparatorFrame,
		},
		Icons: IconConfig{
			Position:   IconLeft,
			MaxSize:    32,
			SearchPath: "/usr/share/icons/hicolor/32x32/apps:/usr/share/pixmaps",
		},
		Stack: StackConfig{
			MaxVisible:     5,
			IndicateHidden: true,
		},
		Urgency: UrgencyConfig{
			Low: UrgencyLevelConfig{
				Foreground: "#888888",
				Background: "#1d1f21",
				Timeout:    Duration(5 * time.Second),
			},
			Normal: UrgencyLevelConfig{
				Foreground: "#c5c8c6",
				Background: "#1d1f21",
				Timeout:    Duration(10 * time.Second),
			},
			Critical: UrgencyLevelConfig{
				Foreground: "#ffffff",
				Background: "#900000",
				Frame:      "#ff0000",
				Timeout:    Duration(0), // never expires
			},
		},
		Audio: AudioConfig{
			Enabled: false,
			Volume:  80,
		},
	}
}

// Path returns the path to the daemon config file.
func Path() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "popstack", "popstackd.toml"), nil
}

// Load reads the configuration from path, or from the default location when
// path is empty. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = Path()
		if err != nil {
			return nil, fmt.Errorf("failed to get config path: %w", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, then overlay with file contents.
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is consistent.
func (c *Config) Validate() error {
	switch c.Window.Mode {
	case WidthDynamic, WidthFixed, WidthScreen:
	default:
		return fmt.Errorf("invalid window mode %q", c.Window.Mode)
	}
	if c.Window.Mode == WidthFixed && c.Window.Width <= 0 {
		return fmt.Errorf("fixed window mode requires a positive width, got %d", c.Window.Width)
	}

	switch c.Icons.Position {
	case IconOff, IconLeft, IconRight:
	default:
		return fmt.Errorf("invalid icon position %q", c.Icons.Position)
	}
	if c.Icons.MaxSize < 0 {
		return fmt.Errorf("icon max_size cannot be negative, got %d", c.Icons.MaxSize)
	}

	switch c.Style.Alignment {
	case AlignLeft, AlignCenter, AlignRight:
	default:
		return fmt.Errorf("invalid alignment %q", c.Style.Alignment)
	}

	if !c.Style.WordWrap {
		switch c.Style.Ellipsize {
		case EllipsizeStart, EllipsizeMiddle, EllipsizeEnd:
		default:
			return fmt.Errorf("invalid ellipsize mode %q", c.Style.Ellipsize)
		}
	}

	if c.Frame.Width < 0 || c.Style.Padding < 0 || c.Style.HPadding < 0 || c.Style.SeparatorHeight < 0 {
		return fmt.Errorf("frame width, paddings and separator height cannot be negative")
	}

	if c.Stack.MaxVisible < 1 {
		return fmt.Errorf("max_visible must be at least 1, got %d", c.Stack.MaxVisible)
	}

	if c.Audio.Volume < 0 || c.Audio.Volume > 100 {
		return fmt.Errorf("volume must be between 0 and 100, got %d", c.Audio.Volume)
	}

	validAnchors := map[string]bool{
		"top-left": true, "top-right": true, "bottom-left": true, "bottom-right": true,
	}
	if !validAnchors[c.Window.Anchor] {
		return fmt.Errorf("invalid anchor %q", c.Window.Anchor)
	}

	return nil
}

// ColorsFor resolves the color triple for an urgency level, applying the
// frame-color fallback.
func (c *Config) ColorsFor(urgency int) (fg, bg, frame string) {
	var lvl UrgencyLevelConfig
	switch urgency {
	case 0:
		lvl = c.Urgency.Low
	case 2:
		lvl = c.Urgency.Critical
	default:
		lvl = c.Urgency.Normal
	}

	frame = lvl.Frame
	if frame == "" {
		frame = c.Frame.Color
	}
	return lvl.Foreground, lvl.Background, frame
}

// TimeoutFor returns the display timeout for an urgency level.
// Zero means never expire.
func (c *Config) TimeoutFor(urgency int) time.Duration {
	switch urgency {
	case 0:
		return c.Urgency.Low.Timeout.Duration()
	case 2:
		return c.Urgency.Critical.Timeout.Duration()
	default:
		return c.Urgency.Normal.Timeout.Duration()
	}
}

// SoundFor returns the sound file path for an urgency level, with ~ expanded.
func (c *Config) SoundFor(urgency int) string {
	var path string
	switch urgency {
	case 0:
		path = c.Audio.Sounds.Low
	case 2:
		path = c.Audio.Sounds.Critical
	default:
		path = c.Audio.Sounds.Normal
	}
	return ExpandPath(path)
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
