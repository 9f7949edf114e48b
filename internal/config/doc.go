// Package config provides the configuration for chatterm.
//
// Configuration is organized in layers with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Command Line Flags      │  ← Highest priority (applied by main)
//	├─────────────────────────────┤
//	│  3. Environment Variables   │  ← CHATTERM_*
//	├─────────────────────────────┤
//	│  2. Config File             │  ← TOML or YAML, chosen by extension
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// # Sub-packages
//
//   - loader: File decoding (TOML, YAML) and environment variables
//   - watcher: File watching for live reload
//
// # Configuration Files
//
//	# ~/.config/chatterm/config.toml
//	wrap = "space"
//	align = "left"
//	username = "alice"
//
//	[palette.msg_self]
//	fg = "#000"
//	bg = "#5c6"
//
// # Error Handling
//
//   - ParseError: the file could not be decoded
//   - ValidationError: a setting holds an unusable value (wraps ErrInvalidConfig)
package config
