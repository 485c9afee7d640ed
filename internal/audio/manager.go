package audio

import (
	"log/slog"
	"os"
	"sync"

	"github.com/jmylchreest/popstack/internal/config"
)

// Manager plays per-urgency notification cues. Sound selection honors the
// notification's own sound-file hint before falling back to the configured
// per-urgency file.
type Manager struct {
	mu     sync.RWMutex
	logger *slog.Logger
	player *Player
	cfg    *config.Config
}

// NewManager creates a Manager. Sounds configured but missing on disk are
// reported once at startup rather than per notification.
func NewManager(cfg *config.Config, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	m := &Manager{
		logger: logger,
		player: NewPlayer(logger),
		cfg:    cfg,
	}
	m.applyConfig()
	return m
}

// applyConfig sets the volume and preloads the configured sounds.
func (m *Manager) applyConfig() {
	m.mu.RLock()
	cfg := m.cfg
	m.mu.RUnlock()

	if !cfg.Audio.Enabled {
		return
	}

	m.player.SetVolume(float64(cfg.Audio.Volume) / 100.0)

	for urgency := 0; urgency <= 2; urgency++ {
		path := cfg.SoundFor(urgency)
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			m.logger.Warn("sound file not found", "urgency", urgency, "path", path)
			continue
		}
		if err := m.player.Preload(path); err != nil {
			m.logger.Warn("failed to preload sound", "path", path, "error", err)
		}
	}
}

// PlayFor plays the cue for one notification. soundFile is the per-entry
// hint, empty to use the urgency default; suppress skips playback entirely.
func (m *Manager) PlayFor(urgency int, soundFile string, suppress bool) {
	m.mu.RLock()
	cfg := m.cfg
	m.mu.RUnlock()

	if !cfg.Audio.Enabled || suppress {
		return
	}

	path := soundFile
	if path == "" {
		path = cfg.SoundFor(urgency)
	}
	if path == "" {
		return
	}

	if err := m.player.Play(path); err != nil {
		m.logger.Warn("failed to play sound", "path", path, "error", err)
	}
}

// UpdateConfig swaps the configuration, drops stale decoded buffers and
// preloads the new sounds.
func (m *Manager) UpdateConfig(cfg *config.Config) {
	m.mu.Lock()
	m.cfg = cfg
	m.mu.Unlock()

	m.player.ClearCache()
	m.applyConfig()
}

// SetVolume sets the playback volume in [0, 1].
func (m *Manager) SetVolume(volume float64) {
	m.player.SetVolume(volume)
}

// Close releases the speaker.
func (m *Manager) Close() {
	m.player.Close()
}
