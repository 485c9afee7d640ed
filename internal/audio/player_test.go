package audio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/popstack/internal/config"
)

func TestPlayer_SetVolumeClamps(t *testing.T) {
	p := NewPlayer(nil)

	p.SetVolume(1.5)
	assert.Equal(t, 1.0, p.Volume())

	p.SetVolume(-0.2)
	assert.Equal(t, 0.0, p.Volume())

	p.SetVolume(0.5)
	assert.Equal(t, 0.5, p.Volume())
}

func TestVolumeToDecibels(t *testing.T) {
	assert.Equal(t, 0.0, volumeToDecibels(1.0))
	assert.InDelta(t, -6.02, volumeToDecibels(0.5), 0.01)
	assert.InDelta(t, -20.0, volumeToDecibels(0.1), 0.01)
	assert.Equal(t, -100.0, volumeToDecibels(0))
	assert.Equal(t, -100.0, volumeToDecibels(-1))
}

func TestPlayer_PlayEmptyPathIsNoop(t *testing.T) {
	p := NewPlayer(nil)
	assert.NoError(t, p.Play(""))
}

func TestPlayer_UnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sound.flac")
	require.NoError(t, os.WriteFile(path, []byte("not audio"), 0o644))

	p := NewPlayer(nil)
	assert.Error(t, p.Play(path))
}

func TestPlayer_MissingFile(t *testing.T) {
	p := NewPlayer(nil)
	assert.Error(t, p.Play(filepath.Join(t.TempDir(), "nope.wav")))
}

func TestManager_PlayForDisabledAudio(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Audio.Sounds.Normal = "/nonexistent.wav"

	m := NewManager(cfg, nil)
	defer m.Close()

	// Disabled audio never touches the player.
	m.PlayFor(1, "", false)
	m.PlayFor(1, "/some/hint.wav", false)
}

func TestManager_PlayForSuppressed(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Audio.Enabled = true

	m := NewManager(cfg, nil)
	defer m.Close()

	// Suppressed or unconfigured urgencies are silent no-ops.
	m.PlayFor(1, "/some/hint.wav", true)
	m.PlayFor(1, "", false)
}
