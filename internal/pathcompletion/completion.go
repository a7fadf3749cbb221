// Package pathcompletion computes filesystem path completions for the string literal under a cursor.
package pathcompletion

import (
	"os"
	"strings"

	"github.com/gokulp01/pathy/internal/callctx"
	"github.com/gokulp01/pathy/internal/config"
	"github.com/gokulp01/pathy/internal/dircache"
	"github.com/gokulp01/pathy/internal/globmatch"
	"github.com/gokulp01/pathy/internal/pathquery"
	"github.com/rs/zerolog"
)

const (
	COMPLETION_LOG_SRC = "/completion"

	// maximum number of entries read per directory, relative to the maximum number of results.
	LISTING_LIMIT_FACTOR = 2
)

type Request struct {
	Text   string //whole document
	Line   int    //zero-based
	Column int    //UTF-16 code units

	FileDir       string //directory of the document, empty if unknown
	WorkspaceRoot string //empty if unknown
}

// A Range is a range on a single line, columns are in UTF-16 code units.
type Range struct {
	Line        int
	StartColumn int
	EndColumn   int
}

type Item struct {
	Label      string
	IsDir      bool
	InsertText string
	EditRange  Range
}

// A Completer assembles completions, the directory cache it owns is shared by all requests.
type Completer struct {
	cache  *dircache.Cache
	lister Lister
	logger zerolog.Logger
}

func NewCompleter(cache *dircache.Cache, lister Lister, logger zerolog.Logger) *Completer {
	if lister == nil {
		lister = OSLister{}
	}
	return &Completer{
		cache:  cache,
		lister: lister,
		logger: logger.With().Str("src", COMPLETION_LOG_SRC).Logger(),
	}
}

func (c *Completer) Cache() *dircache.Cache {
	return c.cache
}

// Complete returns the completions for req, the result is empty if the cursor is not in a position where a path
// is expected. Errors are never returned: a directory that cannot be read contributes no entries.
func (c *Completer) Complete(req Request, cfg config.Config) []Item {
	if !cfg.Enable || cfg.MaxResults <= 0 {
		return nil
	}

	line, lineStart, ok := LineAt(req.Text, req.Line)
	if !ok {
		return nil
	}

	cursor, ok := pathquery.UTF16ColumnToByte(line, req.Column)
	if !ok {
		return nil
	}

	str, ok := pathquery.FindString(line, cursor)
	if !ok {
		return nil
	}
	content := str.ContentBeforeCursor

	query, hasPrefix := pathquery.Find(content, pathquery.Options{
		WindowsDrivePrefix: cfg.WindowsEnableDrivePrefix,
		WindowsUncPrefix:   cfg.WindowsEnableUnc,
	})
	if !hasPrefix {
		if !cfg.PathPrefixFallback {
			return nil
		}
		query = pathquery.FromText(content)
	}

	if !isAllowed(cfg.ContextGating, hasPrefix, req.Text, lineStart+str.StartByte) {
		c.logger.Debug().Str("content", content).Msg("completion rejected by context gating")
		return nil
	}

	dirs := ResolveDirs(query, req.FileDir, req.WorkspaceRoot, cfg)
	if len(dirs) == 0 {
		return nil
	}

	entries := c.collectEntries(dirs, query, cfg)
	if len(entries) == 0 {
		return nil
	}

	//edit range and prefix of the inserted text
	replaceFrom := len(content) - len(query.SegmentPrefix)
	insertPrefix := ""
	if !strings.HasPrefix(query.RawPath, query.DirPart) {
		//bare ~
		replaceFrom = len(content) - len(query.RawPath)
		insertPrefix = query.DirPart
	}

	editRange := Range{
		Line:        req.Line,
		StartColumn: str.ContentStartUTF16 + pathquery.UTF16Len(content[:replaceFrom]),
		EndColumn:   req.Column,
	}

	separator := chooseSeparator(query, cfg)

	items := make([]Item, 0, len(entries))
	for _, e := range entries {
		insertText := insertPrefix + e.Name
		if e.IsDir && cfg.DirectoryTrailingSlash {
			insertText += string(separator)
		}
		items = append(items, Item{
			Label:      e.Name,
			IsDir:      e.IsDir,
			InsertText: insertText,
			EditRange:  editRange,
		})
	}
	return items
}

// collectEntries lists, filters and sorts the entries of each directory, the result is deduplicated by name
// and truncated to cfg.MaxResults.
func (c *Completer) collectEntries(dirs []string, query pathquery.Query, cfg config.Config) []dircache.Entry {
	filterOpts := FilterOptions{
		SegmentPrefix:      query.SegmentPrefix,
		ShowHidden:         cfg.ShowHidden,
		IncludeFiles:       cfg.IncludeFiles,
		IncludeDirectories: cfg.IncludeDirectories,
		Ignore:             globmatch.NewSet(cfg.IgnoreGlobs),
	}

	var result []dircache.Entry
	seen := map[string]struct{}{}

	for _, dir := range dirs {
		listing, ok := c.listDir(dir, cfg)
		if !ok {
			continue
		}

		for _, e := range FilterAndSort(dir, listing, filterOpts) {
			if _, ok := seen[e.Name]; ok {
				continue
			}
			seen[e.Name] = struct{}{}
			result = append(result, e)
		}
	}

	if len(result) > cfg.MaxResults {
		result = result[:cfg.MaxResults]
	}
	return result
}

func (c *Completer) listDir(dir string, cfg config.Config) ([]dircache.Entry, bool) {
	limit := LISTING_LIMIT_FACTOR * cfg.MaxResults
	stat := cfg.StatStrategy != config.StatNone

	//a listing read with a smaller limit or another stat strategy is read again.
	if listing, info, ok := c.cache.Lookup(dir); ok && info.Covers(len(listing), limit, stat) {
		return listing, true
	}

	listing, err := c.lister.List(dir, limit, stat)
	if err != nil {
		c.logger.Debug().Err(err).Str("dir", dir).Msg("failed to list directory")
		return nil, false
	}

	c.cache.InsertListing(dir, listing, dircache.ListingInfo{Limit: limit, Stat: stat})
	return listing, true
}

func isAllowed(gating config.ContextGating, hasPrefix bool, text string, quoteOffset int) bool {
	switch gating {
	case config.GatingOff:
		return true
	case config.GatingStrict:
		return callctx.IsPathShaped(text, quoteOffset)
	default:
		return hasPrefix || callctx.IsPathShaped(text, quoteOffset)
	}
}

func chooseSeparator(query pathquery.Query, cfg config.Config) byte {
	if cfg.PreferForwardSlashes {
		return '/'
	}
	if sep := query.Separator(); sep != 0 {
		return sep
	}
	return os.PathSeparator
}

// LineAt returns the line at the zero-based index lineIndex of text, without its line terminator, and the
// byte offset of its start.
func LineAt(text string, lineIndex int) (line string, start int, ok bool) {
	if lineIndex < 0 {
		return "", 0, false
	}

	for i := 0; i < lineIndex; i++ {
		newline := strings.IndexByte(text[start:], '\n')
		if newline < 0 {
			return "", 0, false
		}
		start += newline + 1
	}

	line = text[start:]
	if end := strings.IndexByte(line, '\n'); end >= 0 {
		line = line[:end]
	}
	return strings.TrimSuffix(line, "\r"), start, true
}
