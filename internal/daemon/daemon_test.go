package daemon

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	godbus "github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/popstack/internal/audio"
	"github.com/jmylchreest/popstack/internal/config"
	"github.com/jmylchreest/popstack/internal/dbus"
	"github.com/jmylchreest/popstack/internal/stack"
)

// testDaemon builds a daemon with a collecting scheduler and no bus
// connection. Scheduled closures are recorded, not run, so the render
// engine is never touched.
func testDaemon(t *testing.T, maxVisible int) (*Daemon, *[]func()) {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Stack.MaxVisible = maxVisible

	var scheduled []func()
	d := New(Options{
		Config: cfg,
		Stack:  stack.NewManager(maxVisible, nil),
		Server: dbus.NewServer(nil),
		Audio:  audio.NewManager(cfg, nil),
		Schedule: func(fn func()) {
			scheduled = append(scheduled, fn)
		},
	})
	return d, &scheduled
}

func notification(summary string) *dbus.Notification {
	return &dbus.Notification{
		AppName:       "test-app",
		Summary:       summary,
		ExpireTimeout: -1,
		Hints:         map[string]godbus.Variant{},
	}
}

func TestHandleNotifyPushesEntry(t *testing.T) {
	d, _ := testDaemon(t, 3)

	d.handleNotify(notification("hello"), 1)

	visible := d.stack.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, uint32(1), visible[0].BusID)
	assert.Equal(t, "hello", visible[0].Summary)
}

func TestHandleNotifyRejectsInvalid(t *testing.T) {
	d, _ := testDaemon(t, 3)

	d.handleNotify(notification(""), 1)

	assert.Empty(t, d.stack.Visible())
}

func TestHandleNotifyDropsTransientWhenFull(t *testing.T) {
	d, _ := testDaemon(t, 1)

	d.handleNotify(notification("first"), 1)

	n := notification("transient")
	n.Hints["transient"] = godbus.MakeVariant(true)
	d.handleNotify(n, 2)

	visible := d.stack.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, uint32(1), visible[0].BusID)
	assert.Equal(t, 0, d.stack.HiddenCount())
}

func TestHandleNotifyQueuesNonTransientWhenFull(t *testing.T) {
	d, _ := testDaemon(t, 1)

	d.handleNotify(notification("first"), 1)
	d.handleNotify(notification("second"), 2)

	assert.Len(t, d.stack.Visible(), 1)
	assert.Equal(t, 1, d.stack.HiddenCount())
}

func TestHandleClosePromotesWaiting(t *testing.T) {
	d, _ := testDaemon(t, 1)

	d.handleNotify(notification("first"), 1)
	d.handleNotify(notification("second"), 2)

	d.handleClose(1)

	visible := d.stack.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, uint32(2), visible[0].BusID)
}

func TestStatus(t *testing.T) {
	d, _ := testDaemon(t, 1)

	d.handleNotify(notification("first"), 1)
	d.handleNotify(notification("second"), 2)
	d.SetPaused(true)

	visible, hidden, paused := d.Status()
	assert.Equal(t, 1, visible)
	assert.Equal(t, 1, hidden)
	assert.True(t, paused)
}

func TestCloseAll(t *testing.T) {
	d, _ := testDaemon(t, 2)

	d.handleNotify(notification("a"), 1)
	d.handleNotify(notification("b"), 2)
	d.handleNotify(notification("c"), 3)

	assert.Equal(t, 3, d.CloseAll())
	assert.Empty(t, d.stack.Visible())
	assert.Equal(t, 0, d.stack.HiddenCount())
}

func TestStartRendersOnStackChange(t *testing.T) {
	d, scheduled := testDaemon(t, 3)

	d.Start()
	defer d.Stop()

	d.handleNotify(notification("hello"), 1)

	assert.Eventually(t, func() bool {
		return len(*scheduled) > 0
	}, time.Second, 10*time.Millisecond)
}

func TestReloadAppliesNewConfig(t *testing.T) {
	d, scheduled := testDaemon(t, 1)

	path := filepath.Join(t.TempDir(), "popstackd.toml")
	require.NoError(t, os.WriteFile(path, []byte("[stack]\nmax_visible = 5\n"), 0o644))

	d.Reload(path)

	assert.Equal(t, 5, d.Config().Stack.MaxVisible)
	assert.Len(t, *scheduled, 1)

	// Room for five now.
	for i := uint32(1); i <= 5; i++ {
		d.handleNotify(notification("n"), i)
	}
	assert.Len(t, d.stack.Visible(), 5)
}

func TestReloadKeepsConfigOnError(t *testing.T) {
	d, scheduled := testDaemon(t, 1)

	path := filepath.Join(t.TempDir(), "popstackd.toml")
	require.NoError(t, os.WriteFile(path, []byte("[window\nbroken"), 0o644))

	before := d.Config()
	d.Reload(path)

	assert.Same(t, before, d.Config())
	assert.Empty(t, *scheduled)
}

func TestReloadErrorPostsNotification(t *testing.T) {
	cfg := config.DefaultConfig()
	st := stack.NewManager(3, nil)
	server := dbus.NewServer(nil)
	d := New(Options{
		Config:   cfg,
		Stack:    st,
		Server:   server,
		Audio:    audio.NewManager(cfg, nil),
		Schedule: func(func()) {},
	})

	path := filepath.Join(t.TempDir(), "popstackd.toml")
	require.NoError(t, os.WriteFile(path, []byte("not toml at all ["), 0o644))

	d.Reload(path)

	visible := st.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "Configuration error", visible[0].Summary)
	assert.Equal(t, 2, visible[0].Urgency)
}

func TestLoadConfigAppliesPalette(t *testing.T) {
	dir := t.TempDir()

	palettePath := filepath.Join(dir, "palette.yaml")
	require.NoError(t, os.WriteFile(palettePath, []byte("critical:\n  frame: \"#ff0000\"\n"), 0o644))

	configPath := filepath.Join(dir, "popstackd.toml")
	require.NoError(t, os.WriteFile(configPath, []byte("[theme]\npalette = \""+palettePath+"\"\n"), 0o644))

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, "#ff0000", cfg.Urgency.Critical.Frame)
	// Untouched levels keep their defaults.
	assert.Equal(t, config.DefaultConfig().Urgency.Normal.Frame, cfg.Urgency.Normal.Frame)
}

func TestLoadConfigBadPalette(t *testing.T) {
	dir := t.TempDir()

	configPath := filepath.Join(dir, "popstackd.toml")
	require.NoError(t, os.WriteFile(configPath, []byte("[theme]\npalette = \""+filepath.Join(dir, "nope.yaml")+"\"\n"), 0o644))

	_, err := LoadConfig(configPath)
	assert.Error(t, err)
}
