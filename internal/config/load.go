package config

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

type fieldSetter func(c *Config, key string, value gjson.Result) (warning string)

var fieldSetters = map[string]fieldSetter{
	"enable":               boolField(func(c *Config) *bool { return &c.Enable }),
	"path_prefix_fallback": boolField(func(c *Config) *bool { return &c.PathPrefixFallback }),
	"context_gating":       enumField(contextGatingNames, func(c *Config) *ContextGating { return &c.ContextGating }),

	"base_dir":                enumField(baseDirNames, func(c *Config) *BaseDir { return &c.BaseDir }),
	"workspace_root_strategy": enumField(workspaceRootStrategyNames, func(c *Config) *WorkspaceRootStrategy { return &c.WorkspaceRootStrategy }),

	"max_results":              intField(func(c *Config) *int { return &c.MaxResults }),
	"show_hidden":              boolField(func(c *Config) *bool { return &c.ShowHidden }),
	"include_files":            boolField(func(c *Config) *bool { return &c.IncludeFiles }),
	"include_directories":      boolField(func(c *Config) *bool { return &c.IncludeDirectories }),
	"directory_trailing_slash": boolField(func(c *Config) *bool { return &c.DirectoryTrailingSlash }),
	"ignore_globs":             setIgnoreGlobs,

	"prefer_forward_slashes":      boolField(func(c *Config) *bool { return &c.PreferForwardSlashes }),
	"expand_tilde":                boolField(func(c *Config) *bool { return &c.ExpandTilde }),
	"windows_enable_drive_prefix": boolField(func(c *Config) *bool { return &c.WindowsEnableDrivePrefix }),
	"windows_enable_unc":          boolField(func(c *Config) *bool { return &c.WindowsEnableUnc }),

	"cache_ttl_ms":   setCacheTTL,
	"cache_max_dirs": intField(func(c *Config) *int { return &c.CacheMaxDirs }),
	"stat_strategy":  enumField(statStrategyNames, func(c *Config) *StatStrategy { return &c.StatStrategy }),
}

// SelectRoot returns the object holding the settings: an optional "settings" wrapper is
// unwrapped, then lsp.pathy.settings, lsp.pathy and pathy are tried before the object itself.
func SelectRoot(value gjson.Result) gjson.Result {
	current := value
	if settings := current.Get("settings"); settings.Exists() {
		current = settings
	}

	if server := current.Get("lsp.pathy"); server.Exists() {
		if settings := server.Get("settings"); settings.Exists() {
			return settings
		}
		return server
	}

	if server := current.Get(APP_NAME); server.Exists() {
		return server
	}
	return current
}

// Load overlays the settings found in raw (JSON) onto base. Each invalid or unknown field produces
// a warning and leaves the corresponding value of base unchanged, other fields are not affected.
func Load(raw []byte, base Config) (Config, []string) {
	config := base.Clone()

	if len(raw) == 0 {
		return config, nil
	}

	if !gjson.ValidBytes(raw) {
		return config, []string{"settings are not valid JSON"}
	}

	root := SelectRoot(gjson.ParseBytes(raw))
	if !root.IsObject() {
		if root.Type == gjson.Null {
			return config, nil
		}
		return config, []string{"settings should be an object"}
	}

	var warnings []string

	root.ForEach(func(key, value gjson.Result) bool {
		name := normalizeKey(key.String())
		setter, ok := fieldSetters[name]
		if !ok {
			warnings = append(warnings, "unknown setting: "+key.String())
			return true
		}
		if warning := setter(&config, key.String(), value); warning != "" {
			warnings = append(warnings, warning)
		}
		return true
	})

	return config, warnings
}

// normalizeKey converts camelCase keys (maxResults) to their snake_case form (max_results).
func normalizeKey(key string) string {
	if strings.IndexFunc(key, isUpperASCII) < 0 {
		return key
	}
	var b strings.Builder
	for _, r := range key {
		if isUpperASCII(r) {
			b.WriteByte('_')
			b.WriteRune(r + ('a' - 'A'))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isUpperASCII(r rune) bool {
	return r >= 'A' && r <= 'Z'
}

func boolField(field func(c *Config) *bool) fieldSetter {
	return func(c *Config, key string, value gjson.Result) string {
		if value.Type != gjson.True && value.Type != gjson.False {
			return fmt.Sprintf("invalid %s type, a boolean is expected", key)
		}
		*field(c) = value.Bool()
		return ""
	}
}

func intField(field func(c *Config) *int) fieldSetter {
	return func(c *Config, key string, value gjson.Result) string {
		n, ok := nonNegativeInteger(value)
		if !ok {
			return fmt.Sprintf("invalid %s: %s, a non-negative integer is expected", key, value.Raw)
		}
		*field(c) = n
		return ""
	}
}

func enumField[T comparable](names map[string]T, field func(c *Config) *T) fieldSetter {
	return func(c *Config, key string, value gjson.Result) string {
		if value.Type != gjson.String {
			return fmt.Sprintf("invalid %s type, a string is expected", key)
		}
		v, ok := names[value.Str]
		if !ok {
			return fmt.Sprintf("invalid %s: %s", key, value.Str)
		}
		*field(c) = v
		return ""
	}
}

func setCacheTTL(c *Config, key string, value gjson.Result) string {
	ms, ok := nonNegativeInteger(value)
	if !ok {
		return fmt.Sprintf("invalid %s: %s, a non-negative integer is expected", key, value.Raw)
	}
	c.CacheTTL = time.Duration(ms) * time.Millisecond
	return ""
}

func setIgnoreGlobs(c *Config, key string, value gjson.Result) string {
	if !value.IsArray() {
		return fmt.Sprintf("invalid %s type, an array is expected", key)
	}

	var (
		globs    []string
		warnings []string
	)

	for _, entry := range value.Array() {
		if entry.Type != gjson.String {
			warnings = append(warnings, fmt.Sprintf("invalid %s entry: %s", key, entry.Raw))
			continue
		}
		if !doublestar.ValidatePattern(entry.Str) {
			warnings = append(warnings, fmt.Sprintf("invalid %s pattern: %s", key, entry.Str))
			continue
		}
		globs = append(globs, entry.Str)
	}

	if len(globs) > 0 {
		c.IgnoreGlobs = globs
	}
	return strings.Join(warnings, "; ")
}

func nonNegativeInteger(value gjson.Result) (int, bool) {
	if value.Type != gjson.Number {
		return 0, false
	}
	if value.Num < 0 || value.Num != math.Trunc(value.Num) || value.Num > math.MaxInt32 {
		return 0, false
	}
	return int(value.Int()), true
}

// A Loader loads settings and reports the warnings of the first load having warnings,
// later warnings are not logged.
type Loader struct {
	logger zerolog.Logger

	lock   sync.Mutex
	warned bool
}

func NewLoader(logger zerolog.Logger) *Loader {
	return &Loader{logger: logger}
}

func (l *Loader) Load(raw []byte, base Config) Config {
	config, warnings := Load(raw, base)
	l.Report(warnings)
	return config
}

// Report logs warnings if no warnings were logged before.
func (l *Loader) Report(warnings []string) {
	if len(warnings) == 0 {
		return
	}

	l.lock.Lock()
	defer l.lock.Unlock()

	if !l.warned {
		l.warned = true
		l.logger.Warn().Strs("warnings", warnings).Msg("invalid settings were ignored")
	}
}
