package config

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/dshills/chatterm/internal/config/loader"
	"github.com/dshills/chatterm/internal/renderer/core"
	"github.com/dshills/chatterm/internal/renderer/glyph"
	"github.com/dshills/chatterm/internal/renderer/layout"
)

// Width table names.
const (
	WidthTableBuiltin   = "builtin"
	WidthTableRuneWidth = "runewidth"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CHATTERM_"

var logLevels = []string{"debug", "info", "warn", "error"}

// PaletteEntry styles one attribute tag. Colors are hex strings; an empty
// color keeps the terminal default.
type PaletteEntry struct {
	Fg        string `toml:"fg" yaml:"fg"`
	Bg        string `toml:"bg" yaml:"bg"`
	Bold      bool   `toml:"bold" yaml:"bold"`
	Italic    bool   `toml:"italic" yaml:"italic"`
	Underline bool   `toml:"underline" yaml:"underline"`
	Reverse   bool   `toml:"reverse" yaml:"reverse"`
}

// Attributes returns the text attributes selected by the entry.
func (p PaletteEntry) Attributes() core.Attribute {
	var a core.Attribute
	if p.Bold {
		a = a.With(core.AttrBold)
	}
	if p.Italic {
		a = a.With(core.AttrItalic)
	}
	if p.Underline {
		a = a.With(core.AttrUnderline)
	}
	if p.Reverse {
		a = a.With(core.AttrReverse)
	}
	return a
}

// Config holds every chatterm setting.
type Config struct {
	Wrap          string                  `toml:"wrap" yaml:"wrap"`
	Align         string                  `toml:"align" yaml:"align"`
	WidthTable    string                  `toml:"width_table" yaml:"width_table"`
	EastAsian     bool                    `toml:"east_asian" yaml:"east_asian"`
	MinWidth      int                     `toml:"min_width" yaml:"min_width"`
	SidePadding   bool                    `toml:"side_padding" yaml:"side_padding"`
	UserListWidth int                     `toml:"user_list_width" yaml:"user_list_width"`
	CacheSize     int                     `toml:"cache_size" yaml:"cache_size"`
	LogLevel      string                  `toml:"log_level" yaml:"log_level"`
	Username      string                  `toml:"username" yaml:"username"`
	Palette       map[string]PaletteEntry `toml:"palette" yaml:"palette"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Wrap:        layout.WrapSpace.String(),
		Align:       layout.AlignLeft.String(),
		WidthTable:  WidthTableBuiltin,
		MinWidth:    10,
		SidePadding: true,
		CacheSize:   1000,
		LogLevel:    "info",
		Username:    "me",
		Palette: map[string]PaletteEntry{
			"title":      {Fg: "#000", Bg: "#717"},
			"username":   {Fg: "#000", Bg: "#fcc"},
			"separator":  {Fg: "#000", Bg: "#fcb"},
			"msg_self":   {Fg: "#000", Bg: "#5c6"},
			"msg_other":  {Fg: "#fff", Bg: "#717"},
			"msg_server": {Fg: "#000", Bg: "#717"},
			"user_list":  {Fg: "#000", Bg: "#717"},
			"caption":    {Bold: true},
			"input":      {},
		},
	}
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Palette = maps.Clone(c.Palette)
	return &out
}

// Load reads path over the defaults. The format follows the extension
// (.toml, .yaml or .yml). A missing file yields the defaults. Palette
// entries in the file replace the default entry of the same tag; other
// tags keep their defaults.
func Load(path string) (*Config, error) {
	return LoadFS(loader.DefaultFS(), path)
}

// LoadFS is Load on a custom file system.
func LoadFS(fsys loader.FileSystem, path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	palette := cfg.Palette
	cfg.Palette = nil
	if _, err := loader.LoadFile(fsys, path, cfg); err != nil {
		return nil, err
	}
	maps.Copy(palette, cfg.Palette)
	cfg.Palette = palette
	return cfg, nil
}

// EnvKeys lists the settings that environment variables may override.
var EnvKeys = []string{"wrap", "align", "width_table", "log_level", "username"}

// EnvVars returns the names of the environment variables read by ApplyEnv.
func EnvVars() []string {
	return loader.NewEnvLoader(EnvPrefix, EnvKeys...).Vars()
}

// ApplyEnv overrides settings from CHATTERM_* environment variables.
func (c *Config) ApplyEnv() {
	c.applyEnv(loader.NewEnvLoader(EnvPrefix, EnvKeys...))
}

func (c *Config) applyEnv(l *loader.EnvLoader) {
	for key, val := range l.Load() {
		switch key {
		case "wrap":
			c.Wrap = val
		case "align":
			c.Align = val
		case "width_table":
			c.WidthTable = val
		case "log_level":
			c.LogLevel = val
		case "username":
			c.Username = val
		}
	}
}

// Validate reports every unusable setting. The result wraps
// ErrInvalidConfig and each failure is a *ValidationError.
func (c *Config) Validate() error {
	var errs []error
	fail := func(path, msg string, value any, code ValidationErrorCode) {
		errs = append(errs, &ValidationError{Path: path, Message: msg, Value: value, Code: code})
	}

	if _, err := layout.ParseWrapMode(c.Wrap); err != nil {
		fail("wrap", "must be space, any, clip or ellipsis", c.Wrap, ErrCodeInvalidEnum)
	}
	if _, err := layout.ParseAlign(c.Align); err != nil {
		fail("align", "must be left, center or right", c.Align, ErrCodeInvalidEnum)
	}
	switch strings.ToLower(c.WidthTable) {
	case WidthTableBuiltin, WidthTableRuneWidth:
	default:
		fail("width_table", "must be builtin or runewidth", c.WidthTable, ErrCodeInvalidEnum)
	}
	if c.MinWidth < 1 {
		fail("min_width", "must be at least 1", c.MinWidth, ErrCodeOutOfRange)
	}
	if c.UserListWidth < 0 {
		fail("user_list_width", "must not be negative", c.UserListWidth, ErrCodeOutOfRange)
	}
	if c.CacheSize < 0 {
		fail("cache_size", "must not be negative", c.CacheSize, ErrCodeOutOfRange)
	}
	if !validLogLevel(c.LogLevel) {
		fail("log_level", "must be one of "+strings.Join(logLevels, ", "), c.LogLevel, ErrCodeInvalidEnum)
	}
	if strings.TrimSpace(c.Username) == "" {
		fail("username", "must not be empty", c.Username, ErrCodeRequiredMissing)
	}
	for _, tag := range slices.Sorted(maps.Keys(c.Palette)) {
		p := c.Palette[tag]
		if _, err := core.ColorFromHex(p.Fg); err != nil {
			fail("palette."+tag+".fg", "not a hex color", p.Fg, ErrCodePatternMismatch)
		}
		if _, err := core.ColorFromHex(p.Bg); err != nil {
			fail("palette."+tag+".bg", "not a hex color", p.Bg, ErrCodePatternMismatch)
		}
	}
	return errors.Join(errs...)
}

func validLogLevel(s string) bool {
	for _, l := range logLevels {
		if strings.EqualFold(s, l) {
			return true
		}
	}
	return false
}

// WrapMode returns the parsed wrap setting, WrapSpace if invalid.
func (c *Config) WrapMode() layout.WrapMode {
	w, err := layout.ParseWrapMode(c.Wrap)
	if err != nil {
		return layout.WrapSpace
	}
	return w
}

// AlignMode returns the parsed align setting, AlignLeft if invalid.
func (c *Config) AlignMode() layout.Align {
	a, err := layout.ParseAlign(c.Align)
	if err != nil {
		return layout.AlignLeft
	}
	return a
}

// Classifier returns the width classifier named by WidthTable.
func (c *Config) Classifier() glyph.Classifier {
	if strings.EqualFold(c.WidthTable, WidthTableRuneWidth) {
		return glyph.NewRuneWidthClassifier(c.EastAsian)
	}
	return glyph.DefaultTable
}

// String summarizes the effective settings on one line.
func (c *Config) String() string {
	return fmt.Sprintf("wrap=%s align=%s width_table=%s min_width=%d cache_size=%d log_level=%s",
		c.Wrap, c.Align, c.WidthTable, c.MinWidth, c.CacheSize, c.LogLevel)
}
