// Package main is the entry point for the popstackd notification daemon.
package main

import (
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/glib/v2"

	"github.com/jmylchreest/popstack/internal/audio"
	backendgtk "github.com/jmylchreest/popstack/internal/backend/gtk"
	"github.com/jmylchreest/popstack/internal/config"
	"github.com/jmylchreest/popstack/internal/daemon"
	"github.com/jmylchreest/popstack/internal/dbus"
	"github.com/jmylchreest/popstack/internal/render"
	"github.com/jmylchreest/popstack/internal/stack"
)

const (
	appID   = "com.github.jmylchreest.popstackd"
	appName = "popstackd"
)

var (
	// Build-time variables
	version = "dev"
)

func main() {
	configPath := flag.String("config", "", "Path to the config file (default: $XDG_CONFIG_HOME/popstack/popstackd.toml)")
	showVersion := flag.Bool("version", false, "Show version and exit")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	if *showVersion {
		println("popstackd version", version)
		os.Exit(0)
	}

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	logger.Info("starting popstackd", "version", version)

	cfg, err := daemon.LoadConfig(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	app := adw.NewApplication(appID, 0)

	// Shared state between GTK main loop and signal handlers
	var (
		output        *backendgtk.Output
		engine        *render.Engine
		stackManager  *stack.Manager
		audioManager  *audio.Manager
		dbusServer    *dbus.Server
		controlServer *dbus.ControlServer
		d             *daemon.Daemon
		watchers      *watcherSet
		running       atomic.Bool
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)
		glib.IdleAdd(func() {
			if running.Load() {
				app.Quit()
			}
		})
	}()

	app.ConnectActivate(func() {
		if running.Load() {
			logger.Warn("application already running")
			return
		}
		running.Store(true)

		output = backendgtk.NewOutput(&app.Application, cfg, logger)

		engine = render.New(cfg, output, backendgtk.NewMarkupParser(), backendgtk.NewImageDecoder(), logger)
		if err := engine.Setup(); err != nil {
			logger.Error("failed to set up renderer", "error", err)
			app.Quit()
			return
		}

		stackManager = stack.NewManager(cfg.Stack.MaxVisible, logger)
		audioManager = audio.NewManager(cfg, logger)

		dbusServer = dbus.NewServer(logger)
		dbusServer.SetServerInfo(dbus.ServerInfo{
			Name:        appName,
			Vendor:      "popstack",
			Version:     version,
			SpecVersion: "1.2",
		})

		d = daemon.New(daemon.Options{
			Config:   cfg,
			Stack:    stackManager,
			Engine:   engine,
			Server:   dbusServer,
			Audio:    audioManager,
			Output:   output,
			Schedule: func(fn func()) { glib.IdleAdd(fn) },
			Logger:   logger,
		})

		if err := dbusServer.Start(); err != nil {
			logger.Error("failed to start D-Bus server", "error", err)
			app.Quit()
			return
		}

		controlServer = dbus.NewControlServer(dbusServer.Connection(), d, logger)
		if err := controlServer.Start(); err != nil {
			logger.Warn("failed to start control interface", "error", err)
		}

		d.Start()

		watchers = newWatcherSet(*configPath, d, logger)
		if watchers != nil {
			watchers.Rebind(cfg)
		}

		logger.Info("popstackd ready", "dbus_interface", dbus.Interface)
	})

	app.ConnectShutdown(func() {
		logger.Info("application shutting down")
		if watchers != nil {
			watchers.Stop()
		}
		if d != nil {
			d.Stop()
		}
		if controlServer != nil {
			_ = controlServer.Stop()
		}
		if dbusServer != nil {
			_ = dbusServer.Stop()
		}
		if audioManager != nil {
			audioManager.Close()
		}
		if stackManager != nil {
			stackManager.Close()
		}
		if engine != nil {
			engine.Teardown()
		}
		running.Store(false)
	})

	status := app.Run(os.Args[:1])

	if status != 0 {
		logger.Error("application exited with error", "status", status)
		os.Exit(status)
	}

	logger.Info("popstackd stopped")
}

// watcherSet keeps file watchers on the config file and the palette file it
// names. A reload can change which palette is named, so the set is rebound
// after every reload.
type watcherSet struct {
	configPath string
	onChange   func()
	logger     *slog.Logger

	mu       sync.Mutex
	paths    []string
	watchers []*daemon.FileWatcher
}

func newWatcherSet(configPath string, d *daemon.Daemon, logger *slog.Logger) *watcherSet {
	if configPath == "" {
		var err error
		configPath, err = config.Path()
		if err != nil {
			logger.Warn("failed to resolve config path, hot-reload disabled", "error", err)
			return nil
		}
	}

	ws := &watcherSet{configPath: configPath, logger: logger}
	ws.onChange = func() {
		d.Reload(configPath)
		ws.Rebind(d.Config())
	}
	return ws
}

// Rebind points the watchers at the config file plus whatever palette the
// given config names. A no-op when the path set is unchanged.
func (ws *watcherSet) Rebind(cfg *config.Config) {
	paths := []string{ws.configPath}
	if palettePath := config.ExpandPath(cfg.Theme.Palette); palettePath != "" {
		paths = append(paths, palettePath)
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()

	if slices.Equal(paths, ws.paths) {
		return
	}

	for _, fw := range ws.watchers {
		_ = fw.Stop()
	}
	ws.watchers = nil
	ws.paths = paths

	for _, path := range paths {
		fw, err := daemon.NewFileWatcher(path, ws.onChange, ws.logger)
		if err != nil {
			ws.logger.Warn("failed to create file watcher", "path", path, "error", err)
			continue
		}
		if err := fw.Start(); err != nil {
			ws.logger.Warn("failed to start file watcher", "path", path, "error", err)
			continue
		}
		ws.logger.Debug("watching for changes", "path", path)
		ws.watchers = append(ws.watchers, fw)
	}
}

func (ws *watcherSet) Stop() {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	for _, fw := range ws.watchers {
		_ = fw.Stop()
	}
	ws.watchers = nil
	ws.paths = nil
}
