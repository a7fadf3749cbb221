package pathcompletion

import (
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/gokulp01/pathy/internal/dircache"
)

var (
	_ Lister = OSLister{}
	_ Lister = BillyLister{}
)

// A Lister lists at most limit entries of a directory. If stat is false the kind of the entries
// is not computed and all entries are reported as files.
type Lister interface {
	List(dir string, limit int, stat bool) ([]dircache.Entry, error)
}

// OSLister reads directories of the operating system's filesystem, only the first limit entries are read.
type OSLister struct{}

func (OSLister) List(dir string, limit int, stat bool) ([]dircache.Entry, error) {
	if limit <= 0 {
		return nil, nil
	}

	f, err := os.Open(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dirEntries, err := f.ReadDir(limit)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	entries := make([]dircache.Entry, 0, len(dirEntries))
	for _, e := range dirEntries {
		entries = append(entries, dircache.Entry{
			Name:  e.Name(),
			IsDir: stat && e.IsDir(),
		})
	}
	return entries, nil
}

// BillyLister lists directories of a billy filesystem.
type BillyLister struct {
	FS billy.Filesystem
}

func (l BillyLister) List(dir string, limit int, stat bool) ([]dircache.Entry, error) {
	if limit <= 0 {
		return nil, nil
	}

	infos, err := l.FS.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	if len(infos) > limit {
		infos = infos[:limit]
	}

	entries := make([]dircache.Entry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, dircache.Entry{
			Name:  info.Name(),
			IsDir: stat && info.Mode().Type()&fs.ModeDir != 0,
		})
	}
	return entries, nil
}
