// Package daemon wires the notification bus, the stack manager and the
// render pipeline into popstackd.
package daemon

import (
	"log/slog"
	"sync"
	"time"

	"github.com/jmylchreest/popstack/internal/audio"
	"github.com/jmylchreest/popstack/internal/config"
	"github.com/jmylchreest/popstack/internal/dbus"
	"github.com/jmylchreest/popstack/internal/render"
	"github.com/jmylchreest/popstack/internal/stack"
	"github.com/jmylchreest/popstack/internal/theme"
)

// expiryInterval is how often displayed entries are checked against their
// deadlines.
const expiryInterval = 500 * time.Millisecond

// Daemon owns the long-running pieces and the event loop between them.
//
// Rendering happens on the GTK main loop; everything else runs on the
// daemon's own goroutine. The schedule function marshals a closure onto the
// GTK loop, normally glib.IdleAdd.
type Daemon struct {
	mu  sync.Mutex
	cfg *config.Config

	logger   *slog.Logger
	stack    *stack.Manager
	engine   *render.Engine
	server   *dbus.Server
	audio    *audio.Manager
	notifier *Notifier
	schedule func(func())

	output interface {
		ApplyConfig(cfg *config.Config)
	}

	stopCh  chan struct{}
	stopped sync.Once
	wg      sync.WaitGroup
}

// Options carries the daemon's collaborators.
type Options struct {
	Config   *config.Config
	Stack    *stack.Manager
	Engine   *render.Engine
	Server   *dbus.Server
	Audio    *audio.Manager
	Schedule func(func())
	// Output is re-anchored on config reload; optional.
	Output interface {
		ApplyConfig(cfg *config.Config)
	}
	Logger *slog.Logger
}

// New creates a Daemon and registers its bus handlers.
func New(opts Options) *Daemon {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	d := &Daemon{
		cfg:      opts.Config,
		logger:   logger,
		stack:    opts.Stack,
		engine:   opts.Engine,
		server:   opts.Server,
		audio:    opts.Audio,
		schedule: opts.Schedule,
		output:   opts.Output,
		stopCh:   make(chan struct{}),
	}

	d.notifier = NewNotifier(d.server.NotifyInternal, logger)
	d.server.SetNotifyHandler(d.handleNotify)
	d.server.SetCloseHandler(d.handleClose)

	return d
}

// Start runs the daemon's event loop until Stop.
func (d *Daemon) Start() {
	d.wg.Add(1)
	go d.run()
}

// Stop shuts the event loop down and waits for it.
func (d *Daemon) Stop() {
	d.stopped.Do(func() { close(d.stopCh) })
	d.wg.Wait()
}

// Notifier returns the internal message poster.
func (d *Daemon) Notifier() *Notifier {
	return d.notifier
}

// Config returns the active configuration.
func (d *Daemon) Config() *config.Config {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg
}

func (d *Daemon) run() {
	defer d.wg.Done()

	events := d.stack.Subscribe()
	ticker := time.NewTicker(expiryInterval)
	defer ticker.Stop()

	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
			d.requestRender()

		case <-ticker.C:
			for _, id := range d.stack.ExpireDue(time.Now()) {
				if err := d.server.CloseWithReason(id, dbus.CloseReasonExpired); err != nil {
					d.logger.Warn("failed to signal expiry", "id", id, "error", err)
				}
			}

		case <-d.stopCh:
			return
		}
	}
}

// requestRender queues a render pass on the GTK loop.
func (d *Daemon) requestRender() {
	d.schedule(func() {
		if err := d.engine.RenderFrame(d.stack); err != nil {
			d.logger.Error("render pass failed", "error", err)
		}
	})
}

// handleNotify converts and enqueues one incoming notification.
func (d *Daemon) handleNotify(n *dbus.Notification, id uint32) {
	cfg := d.Config()

	entry, err := n.ToEntry(cfg, id)
	if err != nil {
		d.logger.Warn("rejecting notification", "app", n.AppName, "error", err)
		return
	}

	// Transient notifications are display-or-drop; they never wait.
	if n.Transient() && !d.stack.HasRoom() {
		d.logger.Debug("dropping transient notification, no room", "app", n.AppName)
		if err := d.server.CloseWithReason(id, dbus.CloseReasonUndefined); err != nil {
			d.logger.Warn("failed to signal drop", "id", id, "error", err)
		}
		return
	}

	if err := d.stack.Push(entry); err != nil {
		d.logger.Warn("failed to enqueue notification", "app", n.AppName, "error", err)
		return
	}

	d.audio.PlayFor(entry.Urgency, n.SoundFile(), n.SuppressSound())
}

// handleClose serves CloseNotification requests; the server emits the
// signal.
func (d *Daemon) handleClose(id uint32) {
	d.stack.CloseByBusID(id)
}

// Status implements the control interface.
func (d *Daemon) Status() (int, int, bool) {
	return len(d.stack.Visible()), d.stack.HiddenCount(), d.stack.Paused()
}

// SetPaused implements the control interface.
func (d *Daemon) SetPaused(paused bool) {
	d.stack.SetPaused(paused)
}

// CloseAll implements the control interface, signalling dismissal for every
// dropped entry.
func (d *Daemon) CloseAll() int {
	ids := d.stack.CloseAll()
	for _, id := range ids {
		if err := d.server.CloseWithReason(id, dbus.CloseReasonDismissed); err != nil {
			d.logger.Warn("failed to signal dismissal", "id", id, "error", err)
		}
	}
	return len(ids)
}

// Reload re-reads the config and palette and applies them across the
// daemon. A broken config keeps the previous one and surfaces the error as
// a notification.
func (d *Daemon) Reload(path string) {
	cfg, err := LoadConfig(path)
	if err != nil {
		d.logger.Error("config reload failed", "error", err)
		d.notifier.Error("Configuration error", err.Error())
		return
	}

	d.mu.Lock()
	d.cfg = cfg
	d.mu.Unlock()

	d.stack.SetMaxVisible(cfg.Stack.MaxVisible)
	d.audio.UpdateConfig(cfg)

	d.schedule(func() {
		d.engine.UpdateConfig(cfg)
		if d.output != nil {
			d.output.ApplyConfig(cfg)
		}
		if err := d.engine.RenderFrame(d.stack); err != nil {
			d.logger.Error("render pass failed", "error", err)
		}
	})

	d.logger.Info("configuration reloaded", "path", path)
}

// LoadConfig loads the daemon config and overlays the theme palette it
// names, if any.
func LoadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if palettePath := config.ExpandPath(cfg.Theme.Palette); palettePath != "" {
		palette, err := theme.LoadPalette(palettePath)
		if err != nil {
			return nil, err
		}
		palette.Apply(cfg)
	}

	return cfg, nil
}
