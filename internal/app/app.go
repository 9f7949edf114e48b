// Package app wires the chat transcript, the input line and the terminal
// renderer into the interactive chat client.
package app

import (
	"fmt"
	"io"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/chatterm/internal/chat"
	"github.com/dshills/chatterm/internal/config"
	"github.com/dshills/chatterm/internal/config/watcher"
	"github.com/dshills/chatterm/internal/renderer"
	"github.com/dshills/chatterm/internal/renderer/backend"
	"github.com/dshills/chatterm/internal/renderer/core"
	"github.com/dshills/chatterm/internal/renderer/glyph"
	"github.com/dshills/chatterm/internal/renderer/layout"
	"github.com/dshills/chatterm/internal/widget"
)

// Attribute tags drawn by the application itself.
const (
	TagTitle   core.Tag = "title"
	TagCaption core.Tag = "caption"
	TagInput   core.Tag = "input"
)

// InputCaption prefixes the input line.
const InputCaption = "> "

// Application is the interactive chat client. All state below mu is
// guarded by it; the event loop, message posting and config reloads
// serialize on it.
type Application struct {
	mu sync.Mutex

	opts    Options
	cfg     *config.Config
	logger  *Logger
	metrics *Metrics

	classifier glyph.Classifier
	cache      *layout.Cache
	view       *chat.View
	input      *widget.Edit
	palette    renderer.Palette

	messages []chat.Message
	scroll   int

	backend  backend.Backend
	renderer *renderer.Renderer
	watcher  *watcher.Watcher

	running atomic.Bool
	quit    atomic.Bool
	now     func() time.Time
}

// Options configures the application. Empty string fields leave the
// configured value in place.
type Options struct {
	// ConfigPath is the TOML or YAML configuration file.
	ConfigPath string

	// TranscriptPath is a transcript file loaded on startup.
	TranscriptPath string

	// Overrides applied after the file and the environment.
	Wrap     string
	Align    string
	LogLevel string
	Username string

	// WatchConfig reloads ConfigPath while Run is active.
	WatchConfig bool

	// LogOutput receives log records; nil selects stderr.
	LogOutput io.Writer

	// Logger replaces the logger built from LogOutput.
	Logger *Logger

	// Now is the clock used to stamp messages.
	Now func() time.Time
}

// New creates an application and loads its configuration and transcript.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts:    opts,
		metrics: NewMetrics(),
		now:     opts.Now,
	}
	if app.now == nil {
		app.now = time.Now
	}
	if err := newBootstrapper(app).bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

// Config returns a copy of the active configuration.
func (app *Application) Config() *config.Config {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.cfg.Clone()
}

// Logger returns the application logger.
func (app *Application) Logger() *Logger {
	return app.logger
}

// Metrics returns a snapshot of loop and layout metrics.
func (app *Application) Metrics() MetricsSnapshot {
	app.mu.Lock()
	cache := app.cache
	app.mu.Unlock()
	return app.metrics.Snapshot(cache)
}

// Messages returns a copy of the transcript.
func (app *Application) Messages() []chat.Message {
	app.mu.Lock()
	defer app.mu.Unlock()
	return slices.Clone(app.messages)
}

// AddMessage appends m to the transcript and schedules a redraw.
// It is safe to call from any goroutine.
func (app *Application) AddMessage(m chat.Message) {
	app.mu.Lock()
	app.appendMessage(m)
	app.mu.Unlock()
	app.wake()
}

// appendMessage adds m and follows the bottom of the transcript
// (must hold lock).
func (app *Application) appendMessage(m chat.Message) {
	app.messages = append(app.messages, m)
	app.scroll = 0
	app.metrics.RecordMessage()
	app.logger.WithComponent("chat").Debug("message %s", m.Short())
}

// ApplyConfig replaces the active configuration. The input line keeps its
// text and cursor.
func (app *Application) ApplyConfig(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return NewOperationError("apply config", app.opts.ConfigPath, err)
	}
	app.mu.Lock()
	err := app.applyConfig(cfg.Clone())
	app.mu.Unlock()
	if err != nil {
		return err
	}
	app.wake()
	return nil
}

// applyConfig rebuilds every component derived from cfg (must hold lock).
func (app *Application) applyConfig(cfg *config.Config) error {
	palette, err := buildPalette(cfg)
	if err != nil {
		return NewOperationError("apply config", app.opts.ConfigPath, err)
	}

	cls := cfg.Classifier()
	cache := app.cache
	if cache == nil || cache.Stats().MaxSize != cfg.CacheSize {
		cache = layout.NewCache(layout.NewEngine(cls), cfg.CacheSize)
	} else {
		cache.SetEngine(layout.NewEngine(cls))
	}
	view := chat.NewView(cache, cfg.WrapMode())
	view.SetPadding(cfg.SidePadding)
	input := widget.NewEdit(cache, InputCaption, TagCaption, TagInput)
	input.SetWrap(cfg.WrapMode())
	if app.input != nil {
		input.SetText(app.input.Text())
		input.SetPos(app.input.Pos())
	}

	app.cfg = cfg
	app.classifier = cls
	app.cache = cache
	app.view = view
	app.input = input
	app.palette = palette
	if app.logger != nil {
		app.logger.SetLevel(ParseLogLevel(cfg.LogLevel))
	}
	if app.backend != nil && app.renderer != nil {
		app.renderer = renderer.New(app.backend, cls)
		app.renderer.SetPalette(palette)
	}
	return nil
}

// buildPalette converts the configured colors into renderer styles.
func buildPalette(cfg *config.Config) (renderer.Palette, error) {
	p := make(renderer.Palette, len(cfg.Palette))
	for tag, e := range cfg.Palette {
		s, err := renderer.ParseStyle(e.Fg, e.Bg, e.Attributes())
		if err != nil {
			return nil, fmt.Errorf("palette %q: %w", tag, err)
		}
		p[core.Tag(tag)] = s
	}
	return p, nil
}

// RenderPlain writes the transcript as text, width columns wide. Widths
// below the configured minimum are raised to it.
func (app *Application) RenderPlain(w io.Writer, width int) error {
	app.mu.Lock()
	width = max(width, app.cfg.MinWidth)
	c, err := app.view.Transcript(app.messages, width)
	app.mu.Unlock()
	if err != nil {
		return NewOperationError("render", "transcript", err)
	}
	return renderer.WritePlain(w, c)
}

// SetBackend sets the terminal backend. It must be called before Run.
func (app *Application) SetBackend(b backend.Backend) error {
	if app.running.Load() {
		return ErrAlreadyRunning
	}
	app.mu.Lock()
	app.backend = b
	app.mu.Unlock()
	return nil
}

// Quit asks the event loop to return. Once called, Run returns after its
// first frame.
func (app *Application) Quit() {
	app.quit.Store(true)
	app.wake()
}

// IsRunning reports whether Run is active.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// wake interrupts PollEvent so the loop redraws.
func (app *Application) wake() {
	app.mu.Lock()
	be := app.backend
	app.mu.Unlock()
	if be != nil && app.running.Load() {
		be.PostEvent(backend.Event{Type: backend.EventInterrupt})
	}
}
