// Package globmatch implements the ignore patterns used to filter directory entries.
// A pattern is made of literal bytes, '*' that matches any sequence of bytes except '/',
// and '**' that matches any sequence of bytes, '/' included.
package globmatch

import (
	"strings"
)

type tokenKind uint8

const (
	literalToken tokenKind = iota
	starToken
	doubleStarToken
)

type token struct {
	kind tokenKind
	char byte
}

// A Pattern is a tokenized glob pattern.
type Pattern struct {
	source string
	tokens []token
}

// Compile tokenizes pattern, separators are normalized to '/'. Compile never fails:
// any byte that is not part of a wildcard is a literal.
func Compile(pattern string) Pattern {
	pattern = NormalizePath(pattern)

	var tokens []token
	for i := 0; i < len(pattern); i++ {
		if pattern[i] != '*' {
			tokens = append(tokens, token{kind: literalToken, char: pattern[i]})
			continue
		}
		if i+1 < len(pattern) && pattern[i+1] == '*' {
			//three or more consecutive stars are equivalent to '**'.
			for i+1 < len(pattern) && pattern[i+1] == '*' {
				i++
			}
			tokens = append(tokens, token{kind: doubleStarToken})
		} else {
			tokens = append(tokens, token{kind: starToken})
		}
	}

	return Pattern{source: pattern, tokens: tokens}
}

func (p Pattern) String() string {
	return p.source
}

// Match reports whether the whole path matches the pattern. Separators in path are normalized to '/'.
func (p Pattern) Match(path string) bool {
	m := matcher{
		tokens: p.tokens,
		text:   NormalizePath(path),
	}
	m.memo = make([]matchState, (len(m.tokens)+1)*(len(m.text)+1))
	return m.match(0, 0)
}

// Match compiles pattern and matches it against path.
func Match(pattern, path string) bool {
	return Compile(pattern).Match(path)
}

// NormalizePath replaces backslashes with forward slashes.
func NormalizePath(path string) string {
	return strings.ReplaceAll(path, "\\", "/")
}

type matchState uint8

const (
	unknown matchState = iota
	matched
	notMatched
)

// matcher memoizes the result for each (token index, text index) pair, so a match takes at most
// O(tokens * text) steps whatever the number of wildcards.
type matcher struct {
	tokens []token
	text   string
	memo   []matchState
}

func (m *matcher) match(tokenIndex, textIndex int) bool {
	key := tokenIndex*(len(m.text)+1) + textIndex

	switch m.memo[key] {
	case matched:
		return true
	case notMatched:
		return false
	}

	result := m.matchUncached(tokenIndex, textIndex)
	if result {
		m.memo[key] = matched
	} else {
		m.memo[key] = notMatched
	}
	return result
}

func (m *matcher) matchUncached(tokenIndex, textIndex int) bool {
	if tokenIndex == len(m.tokens) {
		return textIndex == len(m.text)
	}

	tok := m.tokens[tokenIndex]

	switch tok.kind {
	case literalToken:
		if textIndex < len(m.text) && m.text[textIndex] == tok.char {
			return m.match(tokenIndex+1, textIndex+1)
		}
		return false
	case starToken:
		//zero bytes, or one more non-separator byte.
		if m.match(tokenIndex+1, textIndex) {
			return true
		}
		if textIndex < len(m.text) && m.text[textIndex] != '/' {
			return m.match(tokenIndex, textIndex+1)
		}
		return false
	default:
		if m.match(tokenIndex+1, textIndex) {
			return true
		}
		if textIndex < len(m.text) {
			return m.match(tokenIndex, textIndex+1)
		}
		return false
	}
}

// A Set is a list of compiled patterns.
type Set struct {
	patterns []Pattern
}

func NewSet(patterns []string) *Set {
	set := &Set{}
	for _, p := range patterns {
		set.patterns = append(set.patterns, Compile(p))
	}
	return set
}

// MatchAny reports whether at least one pattern of the set matches path.
func (s *Set) MatchAny(path string) bool {
	if s == nil {
		return false
	}
	for _, p := range s.patterns {
		if p.Match(path) {
			return true
		}
	}
	return false
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.patterns)
}
