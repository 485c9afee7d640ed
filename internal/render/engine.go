package render

import (
	"fmt"
	"log/slog"

	"github.com/jmylchreest/popstack/internal/config"
	"github.com/jmylchreest/popstack/internal/icon"
)

// Engine runs the rendering pipeline. It is single-threaded and not
// reentrant: a render pass runs to completion before the next may start, and
// the caller decides the render cadence.
type Engine struct {
	cfg     *config.Config
	out     Output
	parser  MarkupParser
	decoder ImageDecoder
	icons   *icon.Resolver
	logger  *slog.Logger

	dim Dimension
}

// New creates an Engine over the given collaborators.
func New(cfg *config.Config, out Output, parser MarkupParser, decoder ImageDecoder, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		cfg:     cfg,
		out:     out,
		parser:  parser,
		decoder: decoder,
		icons:   icon.NewResolver(cfg.Icons.SearchPath),
		logger:  logger,
	}
}

// Setup prepares the engine for rendering. The output is expected to be
// ready; Setup only derives the state kept across passes.
func (e *Engine) Setup() error {
	scr := e.out.Screen()
	if scr.Geometry.W <= 0 || scr.Geometry.H <= 0 {
		return fmt.Errorf("output reported an empty screen geometry")
	}
	e.logger.Debug("render engine ready",
		"screen_w", scr.Geometry.W, "screen_h", scr.Geometry.H, "dpi", scr.DPI)
	return nil
}

// UpdateConfig swaps the active configuration. Must not be called while a
// render pass is in flight.
func (e *Engine) UpdateConfig(cfg *config.Config) {
	e.cfg = cfg
	e.icons = icon.NewResolver(cfg.Icons.SearchPath)
}

// RenderFrame runs one full layout and composite pass over the source's
// current contents. Content-level failures inside entries degrade and never
// abort the pass; only buffer allocation failure is returned to the caller.
func (e *Engine) RenderFrame(src Source) error {
	records := e.buildRecords(src)

	dim := e.resolveDimensions(records)
	e.dim = dim

	// An empty stack has no pixels to composite; resize to zero height so
	// the output hides the window. Outputs reject zero-sized buffers, so
	// none is allocated.
	if len(records) == 0 {
		e.out.Resize(dim.W, 0)
		return nil
	}

	buf, err := e.out.NewBuffer(dim.W, dim.H)
	if err != nil {
		return fmt.Errorf("failed to allocate render buffer %dx%d: %w", dim.W, dim.H, err)
	}
	defer buf.Release()

	e.out.Resize(dim.W, dim.H)

	for i, rec := range records {
		var next *record
		if i+1 < len(records) {
			next = records[i+1]
		}
		dim = e.composeEntry(buf, rec, next, dim, i == 0, next == nil)
	}

	e.out.Blit(buf)
	return nil
}

// Teardown releases the output's surface and drawing context.
func (e *Engine) Teardown() {
	e.out.Close()
}

// Dimension returns the stack size computed by the last render pass, used by
// window placement logic.
func (e *Engine) Dimension() Dimension {
	return e.dim
}
