package loader

import (
	"os"
	"sort"
	"strings"
)

// EnvLoader reads configuration overrides from environment variables.
type EnvLoader struct {
	prefix  string            // Environment variable prefix (e.g., "CHATTERM_")
	mapping map[string]string // Env var -> config key
	lookup  func(string) (string, bool)
}

// NewEnvLoader creates a loader mapping PREFIX_KEY variables to the given
// config keys. The prefix should include the trailing underscore.
func NewEnvLoader(prefix string, keys ...string) *EnvLoader {
	mapping := make(map[string]string, len(keys))
	for _, k := range keys {
		mapping[prefix+strings.ToUpper(k)] = k
	}
	return &EnvLoader{prefix: prefix, mapping: mapping, lookup: os.LookupEnv}
}

// WithLookup replaces os.LookupEnv, mainly for tests.
func (l *EnvLoader) WithLookup(lookup func(string) (string, bool)) *EnvLoader {
	l.lookup = lookup
	return l
}

// Vars returns the mapped environment variable names in sorted order.
func (l *EnvLoader) Vars() []string {
	vars := make([]string, 0, len(l.mapping))
	for env := range l.mapping {
		vars = append(vars, env)
	}
	sort.Strings(vars)
	return vars
}

// Load returns the set variables keyed by config key.
// Note: Empty string values are treated as valid values, not as unset.
func (l *EnvLoader) Load() map[string]string {
	out := make(map[string]string)
	for env, key := range l.mapping {
		if val, ok := l.lookup(env); ok {
			out[key] = val
		}
	}
	return out
}
