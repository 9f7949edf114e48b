package app

import (
	"github.com/dshills/chatterm/internal/config"
)

// startWatcher reloads the configuration file while the loop runs. It is
// a no-op unless Options.WatchConfig is set and a config path is given.
func (app *Application) startWatcher() error {
	path := app.opts.ConfigPath
	if !app.opts.WatchConfig || path == "" {
		return nil
	}
	log := app.logger.WithComponent("config").WithField("path", path)
	w, err := config.Watch(path, func(cfg *config.Config, err error) {
		if err != nil {
			log.Warn("reload failed: %v", err)
			return
		}
		applyOverrides(cfg, app.opts)
		if err := app.ApplyConfig(cfg); err != nil {
			log.Warn("reload rejected: %v", err)
			return
		}
		log.Info("reloaded")
	})
	if err != nil {
		return NewOperationError("watch config", path, err)
	}
	app.mu.Lock()
	app.watcher = w
	app.mu.Unlock()
	return nil
}

func (app *Application) stopWatcher() {
	app.mu.Lock()
	w := app.watcher
	app.watcher = nil
	app.mu.Unlock()
	if w != nil {
		w.Stop()
	}
}
