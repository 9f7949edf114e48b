package app

import (
	"os"
	"strings"

	"github.com/dshills/chatterm/internal/chat"
	"github.com/dshills/chatterm/internal/config"
)

// bootstrapper initializes components in dependency order.
type bootstrapper struct {
	app       *Application
	opts      Options
	initOrder []string
}

func newBootstrapper(app *Application) *bootstrapper {
	return &bootstrapper{app: app, opts: app.opts}
}

func (b *bootstrapper) bootstrap() error {
	var cfg *config.Config
	steps := []struct {
		name string
		run  func() error
	}{
		{"config", func() (err error) { cfg, err = b.initConfig(); return err }},
		{"logger", func() error { return b.initLogger(cfg) }},
		{"layout", func() error { return b.app.applyConfig(cfg) }},
		{"transcript", b.initTranscript},
	}
	for _, step := range steps {
		if err := step.run(); err != nil {
			return err
		}
		b.initOrder = append(b.initOrder, step.name)
	}
	b.app.logger.WithComponent("app").Debug("initialized %s", strings.Join(b.initOrder, ", "))
	return nil
}

// initConfig layers file, environment and option overrides, then
// validates the result.
func (b *bootstrapper) initConfig() (*config.Config, error) {
	cfg, err := config.Load(b.opts.ConfigPath)
	if err != nil {
		return nil, NewOperationError("load config", b.opts.ConfigPath, err)
	}
	cfg.ApplyEnv()
	applyOverrides(cfg, b.opts)
	if err := cfg.Validate(); err != nil {
		return nil, NewOperationError("validate config", b.opts.ConfigPath, err)
	}
	return cfg, nil
}

func applyOverrides(cfg *config.Config, opts Options) {
	for _, o := range []struct {
		val string
		dst *string
	}{
		{opts.Wrap, &cfg.Wrap},
		{opts.Align, &cfg.Align},
		{opts.LogLevel, &cfg.LogLevel},
		{opts.Username, &cfg.Username},
	} {
		if o.val != "" {
			*o.dst = o.val
		}
	}
}

func (b *bootstrapper) initLogger(cfg *config.Config) error {
	if b.opts.Logger != nil {
		b.app.logger = b.opts.Logger
		return nil
	}
	lc := DefaultLoggerConfig()
	lc.Level = ParseLogLevel(cfg.LogLevel)
	if b.opts.LogOutput != nil {
		lc.Output = b.opts.LogOutput
	}
	b.app.logger = NewLogger(lc)
	return nil
}

func (b *bootstrapper) initTranscript() error {
	path := b.opts.TranscriptPath
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return NewOperationError("read transcript", path, err)
	}
	defer f.Close()

	msgs, err := chat.ParseTranscript(f, b.app.cfg.Username, b.app.now())
	if err != nil {
		return NewOperationError("read transcript", path, err)
	}
	b.app.messages = msgs
	b.app.logger.WithComponent("chat").Info("loaded %d messages from %s", len(msgs), path)
	return nil
}
