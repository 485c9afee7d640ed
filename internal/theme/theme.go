// Package theme loads optional YAML color palettes that overlay the
// per-urgency colors from the daemon config. A palette file only needs to
// name the colors it wants to change; everything else keeps its configured
// value.
package theme

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/popstack/internal/config"
)

// PaletteColors is one urgency level's color overrides. Empty fields leave
// the configured color untouched.
type PaletteColors struct {
	Foreground string `yaml:"foreground"`
	Background string `yaml:"background"`
	Frame      string `yaml:"frame"`
}

// Palette is a full palette file.
type Palette struct {
	Low      PaletteColors `yaml:"low"`
	Normal   PaletteColors `yaml:"normal"`
	Critical PaletteColors `yaml:"critical"`
}

// LoadPalette reads and parses a palette file. Unknown keys are rejected so
// a typoed urgency name does not silently apply nothing.
func LoadPalette(path string) (*Palette, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read palette: %w", err)
	}

	var p Palette
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse palette %s: %w", path, err)
	}
	return &p, nil
}

// Apply overlays the palette's non-empty colors onto the config's urgency
// levels.
func (p *Palette) Apply(cfg *config.Config) {
	applyLevel(&cfg.Urgency.Low, p.Low)
	applyLevel(&cfg.Urgency.Normal, p.Normal)
	applyLevel(&cfg.Urgency.Critical, p.Critical)
}

func applyLevel(lvl *config.UrgencyLevelConfig, colors PaletteColors) {
	if colors.Foreground != "" {
		lvl.Foreground = colors.Foreground
	}
	if colors.Background != "" {
		lvl.Background = colors.Background
	}
	if colors.Frame != "" {
		lvl.Frame = colors.Frame
	}
}
