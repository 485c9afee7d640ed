package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/popstack/internal/config"
)

func TestWatcherSetRebindFollowsPaletteChanges(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "popstackd.toml")
	require.NoError(t, os.WriteFile(configPath, []byte("[stack]\n"), 0o644))

	ws := &watcherSet{configPath: configPath, onChange: func() {}, logger: slog.Default()}
	defer ws.Stop()

	cfg := config.DefaultConfig()
	cfg.Theme.Palette = filepath.Join(dir, "a.yaml")
	ws.Rebind(cfg)
	require.Len(t, ws.watchers, 2)
	first := ws.watchers[0]

	// Same path set leaves the running watchers alone.
	ws.Rebind(cfg)
	assert.Same(t, first, ws.watchers[0])

	// A reload that names a different palette rebuilds the set.
	next := config.DefaultConfig()
	next.Theme.Palette = filepath.Join(dir, "b.yaml")
	ws.Rebind(next)
	require.Len(t, ws.watchers, 2)
	assert.NotSame(t, first, ws.watchers[0])
}

func TestWatcherSetStop(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "popstackd.toml")
	require.NoError(t, os.WriteFile(configPath, []byte("[stack]\n"), 0o644))

	ws := &watcherSet{configPath: configPath, onChange: func() {}, logger: slog.Default()}
	ws.Rebind(config.DefaultConfig())
	require.NotEmpty(t, ws.watchers)

	ws.Stop()
	assert.Empty(t, ws.watchers)
}
