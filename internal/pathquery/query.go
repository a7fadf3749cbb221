// Package pathquery finds the string literal enclosing a cursor and classifies the text typed inside it
// as a path query.
package pathquery

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type Kind int

const (
	Relative Kind = iota
	Absolute
	Home
	WindowsDrive
	WindowsUnc
)

func (k Kind) String() string {
	switch k {
	case Relative:
		return "relative"
	case Absolute:
		return "absolute"
	case Home:
		return "home"
	case WindowsDrive:
		return "windows-drive"
	case WindowsUnc:
		return "windows-unc"
	}
	return "unknown"
}

// A Query is a path being typed, split at its last separator.
// DirPart + SegmentPrefix == RawPath, except for a bare "~" whose DirPart is "~/".
type Query struct {
	DirPart       string
	SegmentPrefix string
	RawPath       string
	Kind          Kind
}

type Options struct {
	WindowsDrivePrefix bool
	WindowsUncPrefix   bool
}

// Find returns the query starting at the right-most path prefix of content. A prefix is only recognized at the
// start of content or after a whitespace character. The recognized prefixes are ../, ./, /, ~ and if enabled
// \\ (UNC) and <letter>:<separator> (drive).
func Find(content string, opts Options) (Query, bool) {
	start := -1

	for i := 0; i < len(content); i++ {
		if i > 0 {
			prev, _ := utf8.DecodeLastRuneInString(content[:i])
			if !unicode.IsSpace(prev) {
				continue
			}
		}
		if _, ok := prefixKind(content[i:], opts); ok {
			start = i
		}
	}

	if start < 0 {
		return Query{}, false
	}

	raw := content[start:]
	kind, _ := prefixKind(raw, opts)
	return Split(raw, kind), true
}

// FromText returns a relative query made of the whole text, it is used when no path prefix is present.
func FromText(text string) Query {
	return Split(text, Relative)
}

// Split splits raw at its last separator ('/' or '\').
func Split(raw string, kind Kind) Query {
	if kind == Home && raw == "~" {
		return Query{
			DirPart: "~/",
			RawPath: raw,
			Kind:    Home,
		}
	}

	lastSep := strings.LastIndexAny(raw, `/\`)
	return Query{
		DirPart:       raw[:lastSep+1],
		SegmentPrefix: raw[lastSep+1:],
		RawPath:       raw,
		Kind:          kind,
	}
}

func prefixKind(s string, opts Options) (Kind, bool) {
	switch {
	case strings.HasPrefix(s, "../"), strings.HasPrefix(s, "./"):
		return Relative, true
	case strings.HasPrefix(s, "/"):
		return Absolute, true
	case strings.HasPrefix(s, "~"):
		return Home, true
	case opts.WindowsUncPrefix && strings.HasPrefix(s, `\\`):
		return WindowsUnc, true
	case opts.WindowsDrivePrefix && IsWindowsDrivePrefix(s):
		return WindowsDrive, true
	}
	return 0, false
}

// IsWindowsDrivePrefix reports whether s starts with an ASCII letter followed by ':' and a separator.
func IsWindowsDrivePrefix(s string) bool {
	return len(s) >= 3 && isASCIILetter(s[0]) && s[1] == ':' && (s[2] == '\\' || s[2] == '/')
}

// Separator returns the last separator present in the query, 0 if there is none.
func (q Query) Separator() byte {
	i := strings.LastIndexAny(q.RawPath, `/\`)
	if i < 0 {
		return 0
	}
	return q.RawPath[i]
}
