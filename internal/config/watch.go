package config

import (
	"github.com/dshills/chatterm/internal/config/watcher"
)

// ReloadFunc receives a freshly loaded and validated configuration, or the
// error that prevented loading it.
type ReloadFunc func(cfg *Config, err error)

// Watch reloads path whenever it is written or recreated and passes the
// result to onReload. Environment overrides are reapplied on each reload.
// The returned watcher is running; call Stop to release it.
func Watch(path string, onReload ReloadFunc, opts ...watcher.Option) (*watcher.Watcher, error) {
	w, err := watcher.New(opts...)
	if err != nil {
		return nil, err
	}
	if err := w.Watch(path); err != nil {
		w.Stop()
		return nil, err
	}
	w.OnChange(func(ev watcher.Event) {
		if ev.Op == watcher.OpRemove || ev.Op == watcher.OpRename {
			return
		}
		onReload(Reload(path))
	})
	w.OnError(func(err error) {
		onReload(nil, err)
	})
	w.Start()
	return w, nil
}

// Reload loads path, applies environment overrides and validates the
// result.
func Reload(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
