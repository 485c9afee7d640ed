// Package gtk backs the render pipeline with GTK4: a layer-shell popup
// window for the surface, pango for text shaping, gdk-pixbuf for icons and
// cairo for compositing.
//
// Everything in this package must run on the GTK main loop; callers off the
// loop marshal through glib.IdleAdd.
package gtk

import (
	"fmt"
	"log/slog"
	"unsafe"

	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	"github.com/diamondburned/gotk4/pkg/cairo"
	coreglib "github.com/diamondburned/gotk4/pkg/core/glib"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/popstack/internal/config"
	"github.com/jmylchreest/popstack/internal/render"
)

// Output owns the popup window and the surface the stack is drawn onto.
type Output struct {
	window *gtk.Window
	area   *gtk.DrawingArea
	logger *slog.Logger

	// current is the last blitted surface, painted by the draw func.
	current *cairo.Surface

	visible bool
}

// NewOutput creates the popup window on the given application, configured as
// a non-focusable top-layer surface anchored per the window config.
func NewOutput(app *gtk.Application, cfg *config.Config, logger *slog.Logger) *Output {
	if logger == nil {
		logger = slog.Default()
	}

	o := &Output{logger: logger}

	o.window = gtk.NewWindow()
	o.window.SetApplication(app)
	o.window.SetDecorated(false)
	o.window.SetResizable(false)

	layershell.InitForWindow(o.window)
	layershell.SetLayer(o.window, layershell.LayerShellLayerTop)
	layershell.SetExclusiveZone(o.window, 0)
	layershell.SetKeyboardMode(o.window, layershell.LayerShellKeyboardModeNone)
	layershell.SetNamespace(o.window, "popstack")

	o.applyAnchor(cfg)

	o.area = gtk.NewDrawingArea()
	o.area.SetDrawFunc(func(_ *gtk.DrawingArea, cr *cairo.Context, w, h int) {
		if o.current == nil {
			return
		}
		cr.SetSourceSurface(o.current, 0, 0)
		cr.Paint()
	})
	o.window.SetChild(o.area)

	return o
}

// ApplyConfig re-anchors the window after a config reload.
func (o *Output) ApplyConfig(cfg *config.Config) {
	o.applyAnchor(cfg)
}

// applyAnchor maps the configured corner onto layer-shell anchors and
// margins.
func (o *Output) applyAnchor(cfg *config.Config) {
	win := o.window

	layershell.SetAnchor(win, layershell.LayerShellEdgeTop, false)
	layershell.SetAnchor(win, layershell.LayerShellEdgeBottom, false)
	layershell.SetAnchor(win, layershell.LayerShellEdgeLeft, false)
	layershell.SetAnchor(win, layershell.LayerShellEdgeRight, false)

	offsetX := cfg.Window.OffsetX
	offsetY := cfg.Window.OffsetY

	switch cfg.Window.Anchor {
	case "top-left":
		layershell.SetAnchor(win, layershell.LayerShellEdgeTop, true)
		layershell.SetAnchor(win, layershell.LayerShellEdgeLeft, true)
		layershell.SetMargin(win, layershell.LayerShellEdgeTop, offsetY)
		layershell.SetMargin(win, layershell.LayerShellEdgeLeft, offsetX)
	case "bottom-left":
		layershell.SetAnchor(win, layershell.LayerShellEdgeBottom, true)
		layershell.SetAnchor(win, layershell.LayerShellEdgeLeft, true)
		layershell.SetMargin(win, layershell.LayerShellEdgeBottom, offsetY)
		layershell.SetMargin(win, layershell.LayerShellEdgeLeft, offsetX)
	case "bottom-right":
		layershell.SetAnchor(win, layershell.LayerShellEdgeBottom, true)
		layershell.SetAnchor(win, layershell.LayerShellEdgeRight, true)
		layershell.SetMargin(win, layershell.LayerShellEdgeBottom, offsetY)
		layershell.SetMargin(win, layershell.LayerShellEdgeRight, offsetX)
	default: // top-right
		layershell.SetAnchor(win, layershell.LayerShellEdgeTop, true)
		layershell.SetAnchor(win, layershell.LayerShellEdgeRight, true)
		layershell.SetMargin(win, layershell.LayerShellEdgeTop, offsetY)
		layershell.SetMargin(win, layershell.LayerShellEdgeRight, offsetX)
	}
}

// Screen returns the active monitor's geometry. Falls back to a 1920x1080
// estimate when no display is available yet.
func (o *Output) Screen() render.Screen {
	fallback := render.Screen{Geometry: render.Rect{W: 1920, H: 1080}, DPI: 96}

	display := gdk.DisplayGetDefault()
	if display == nil {
		return fallback
	}

	monitors := display.Monitors()
	if monitors == nil || monitors.NItems() == 0 {
		return fallback
	}
	monitor := wrapMonitor(monitors.Item(0))
	if monitor == nil {
		return fallback
	}

	geo := monitor.Geometry()
	return render.Screen{
		Geometry: render.Rect{
			X: geo.X(),
			Y: geo.Y(),
			W: geo.Width(),
			H: geo.Height(),
		},
		DPI: 96 * monitor.ScaleFactor(),
	}
}

// wrapMonitor casts a list-model object back into a gdk.Monitor; gotk4 does
// not expose a public wrapper for monitor list items.
func wrapMonitor(obj *coreglib.Object) *gdk.Monitor {
	if obj == nil {
		return nil
	}
	type monitor struct {
		_ [0]func()
		*coreglib.Object
	}
	m := &monitor{Object: obj}
	return (*gdk.Monitor)(unsafe.Pointer(m))
}

// NewTextLayout creates a pango layout bound to a scratch surface's cairo
// context.
func (o *Output) NewTextLayout() render.TextLayout {
	return newTextLayout()
}

// NewBuffer allocates an ARGB image surface of the given size.
func (o *Output) NewBuffer(w, h int) (render.Buffer, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid buffer size %dx%d", w, h)
	}
	return newBuffer(w, h), nil
}

// Resize adjusts the window to the stack extent and shows or hides it.
func (o *Output) Resize(w, h int) {
	if w <= 0 || h <= 0 {
		if o.visible {
			o.window.SetVisible(false)
			o.visible = false
		}
		return
	}

	o.area.SetContentWidth(w)
	o.area.SetContentHeight(h)
	o.window.SetDefaultSize(w, h)

	if !o.visible {
		o.window.SetVisible(true)
		o.visible = true
	}
}

// Blit presents a finished buffer and schedules a repaint.
func (o *Output) Blit(buf render.Buffer) {
	b, ok := buf.(*buffer)
	if !ok {
		o.logger.Warn("blit of a foreign buffer ignored")
		return
	}
	b.surface.Flush()
	o.current = b.surface
	o.area.QueueDraw()
}

// Close destroys the window.
func (o *Output) Close() {
	o.current = nil
	o.window.Destroy()
}
