package pathcompletion

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/gokulp01/pathy/internal/config"
	"github.com/gokulp01/pathy/internal/pathquery"
	"github.com/gokulp01/pathy/internal/utils"
)

// ResolveDirs returns the absolute directories to list for the query q. fileDir is the directory of the
// document and workspaceRoot the root of the workspace, both are optional (empty).
// The filesystem is never accessed.
func ResolveDirs(q pathquery.Query, fileDir, workspaceRoot string, cfg config.Config) []string {
	switch q.Kind {
	case pathquery.Home:
		if !cfg.ExpandTilde {
			return nil
		}
		home, ok := HomeDir()
		if !ok {
			return nil
		}
		return []string{applyComponents(home, strings.TrimPrefix(q.DirPart, "~"))}
	case pathquery.Absolute, pathquery.WindowsDrive, pathquery.WindowsUnc:
		if q.DirPart == "" {
			return nil
		}
		return []string{q.DirPart}
	}

	var bases []string

	switch cfg.BaseDir {
	case config.BaseDirFileDir:
		bases = append(bases, fileDir)
	case config.BaseDirWorkspaceRoot:
		bases = append(bases, workspaceRootIfEnabled(workspaceRoot, cfg))
	case config.BaseDirBoth:
		bases = append(bases, fileDir, workspaceRootIfEnabled(workspaceRoot, cfg))
	}

	var dirs []string
	for _, base := range bases {
		if base == "" {
			continue
		}
		dirs = append(dirs, applyComponents(base, q.DirPart))
	}
	return utils.Dedup(dirs)
}

func workspaceRootIfEnabled(workspaceRoot string, cfg config.Config) string {
	if cfg.WorkspaceRootStrategy == config.WorkspaceRootDisabled {
		return ""
	}
	return workspaceRoot
}

// HomeDir returns the home directory from $HOME, %USERPROFILE% or the XDG lookup.
func HomeDir() (string, bool) {
	for _, name := range []string{"HOME", "USERPROFILE"} {
		if home := os.Getenv(name); home != "" {
			return home, true
		}
	}
	if xdg.Home != "" {
		return xdg.Home, true
	}
	return "", false
}

// applyComponents applies each component of relativeDir to base: '..' goes to the parent directory,
// '.' and empty components are skipped.
func applyComponents(base string, relativeDir string) string {
	dir := base

	components := strings.FieldsFunc(relativeDir, func(r rune) bool {
		return r == '/' || r == '\\'
	})

	for _, component := range components {
		switch component {
		case ".":
		case "..":
			dir = filepath.Dir(dir)
		default:
			dir = filepath.Join(dir, component)
		}
	}
	return dir
}
