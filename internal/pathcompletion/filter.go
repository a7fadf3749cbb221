package pathcompletion

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/gokulp01/pathy/internal/dircache"
	"github.com/gokulp01/pathy/internal/globmatch"
)

type FilterOptions struct {
	SegmentPrefix      string
	ShowHidden         bool
	IncludeFiles       bool
	IncludeDirectories bool
	Ignore             *globmatch.Set
}

// FilterAndSort returns the entries of dir accepted by opts, directories come first, then entries are
// sorted by name. The entries slice is not modified.
func FilterAndSort(dir string, entries []dircache.Entry, opts FilterOptions) []dircache.Entry {
	var filtered []dircache.Entry

	for _, e := range entries {
		if !opts.ShowHidden && strings.HasPrefix(e.Name, ".") {
			continue
		}
		if e.IsDir && !opts.IncludeDirectories || !e.IsDir && !opts.IncludeFiles {
			continue
		}
		if !strings.HasPrefix(e.Name, opts.SegmentPrefix) {
			continue
		}
		if isIgnored(dir, e, opts.Ignore) {
			continue
		}
		filtered = append(filtered, e)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		a, b := filtered[i], filtered[j]
		if a.IsDir != b.IsDir {
			return a.IsDir
		}
		return a.Name < b.Name
	})

	return filtered
}

func isIgnored(dir string, e dircache.Entry, ignore *globmatch.Set) bool {
	if ignore.Len() == 0 {
		return false
	}

	path := globmatch.NormalizePath(filepath.Join(dir, e.Name))
	if ignore.MatchAny(path) {
		return true
	}
	//**/.git/** should also exclude the .git directory.
	return e.IsDir && ignore.MatchAny(path+"/")
}
