// Package config defines the completion settings and loads them from client-provided JSON
// or from a user settings file.
package config

import (
	"time"
)

const (
	APP_NAME = "pathy"

	DEFAULT_MAX_RESULTS    = 80
	DEFAULT_CACHE_TTL      = 500 * time.Millisecond
	DEFAULT_CACHE_MAX_DIRS = 64
)

type ContextGating int

const (
	GatingOff ContextGating = iota
	GatingSmart
	GatingStrict
)

type BaseDir int

const (
	BaseDirFileDir BaseDir = iota
	BaseDirWorkspaceRoot
	BaseDirBoth
)

type WorkspaceRootStrategy int

const (
	WorkspaceRootLspRootUri WorkspaceRootStrategy = iota
	WorkspaceRootDisabled
)

type StatStrategy int

const (
	StatNone StatStrategy = iota
	StatLazy
	StatEager
)

var (
	contextGatingNames = map[string]ContextGating{
		"off":    GatingOff,
		"smart":  GatingSmart,
		"strict": GatingStrict,
	}
	baseDirNames = map[string]BaseDir{
		"file_dir":       BaseDirFileDir,
		"workspace_root": BaseDirWorkspaceRoot,
		"both":           BaseDirBoth,
	}
	workspaceRootStrategyNames = map[string]WorkspaceRootStrategy{
		"lsp_root_uri": WorkspaceRootLspRootUri,
		"disabled":     WorkspaceRootDisabled,
	}
	statStrategyNames = map[string]StatStrategy{
		"none":  StatNone,
		"lazy":  StatLazy,
		"eager": StatEager,
	}
)

func (g ContextGating) String() string {
	return nameOf(contextGatingNames, g)
}

func (b BaseDir) String() string {
	return nameOf(baseDirNames, b)
}

func (s WorkspaceRootStrategy) String() string {
	return nameOf(workspaceRootStrategyNames, s)
}

func (s StatStrategy) String() string {
	return nameOf(statStrategyNames, s)
}

// Config is an immutable snapshot of the settings, it is replaced as a whole when the settings change.
type Config struct {
	Enable             bool
	PathPrefixFallback bool //complete strings without a path prefix (./, /, ~, ...)
	ContextGating      ContextGating

	BaseDir               BaseDir
	WorkspaceRootStrategy WorkspaceRootStrategy

	MaxResults             int
	ShowHidden             bool
	IncludeFiles           bool
	IncludeDirectories     bool
	DirectoryTrailingSlash bool
	IgnoreGlobs            []string

	PreferForwardSlashes     bool
	ExpandTilde              bool
	WindowsEnableDrivePrefix bool
	WindowsEnableUnc         bool

	CacheTTL     time.Duration
	CacheMaxDirs int
	StatStrategy StatStrategy
}

func Default() Config {
	return Config{
		Enable:             true,
		PathPrefixFallback: true,
		ContextGating:      GatingSmart,

		BaseDir:               BaseDirFileDir,
		WorkspaceRootStrategy: WorkspaceRootLspRootUri,

		MaxResults:             DEFAULT_MAX_RESULTS,
		ShowHidden:             false,
		IncludeFiles:           true,
		IncludeDirectories:     true,
		DirectoryTrailingSlash: true,
		IgnoreGlobs:            DefaultIgnoreGlobs(),

		PreferForwardSlashes:     true,
		ExpandTilde:              true,
		WindowsEnableDrivePrefix: true,
		WindowsEnableUnc:         true,

		CacheTTL:     DEFAULT_CACHE_TTL,
		CacheMaxDirs: DEFAULT_CACHE_MAX_DIRS,
		StatStrategy: StatLazy,
	}
}

func DefaultIgnoreGlobs() []string {
	return []string{
		"**/.git/**",
		"**/.venv/**",
		"**/venv/**",
		"**/__pycache__/**",
		"**/.pytest_cache/**",
		"**/.mypy_cache/**",
		"**/.ruff_cache/**",
		"**/node_modules/**",
	}
}

// Clone returns a copy of the config that does not share the ignore glob list.
func (c Config) Clone() Config {
	c.IgnoreGlobs = append([]string(nil), c.IgnoreGlobs...)
	return c
}

func nameOf[T comparable](names map[string]T, v T) string {
	for name, value := range names {
		if value == v {
			return name
		}
	}
	return "unknown"
}
