package pathquery

import "unicode/utf8"

// StringInfo describes the string literal enclosing a cursor.
type StringInfo struct {
	// text between the opening delimiter and the cursor.
	ContentBeforeCursor string

	IsRaw          bool
	IsInterpolated bool

	PrefixStartByte   int //offset of the first prefix letter, equal to StartByte if the literal has no prefix.
	StartByte         int //offset of the first byte of the opening delimiter.
	ContentStartByte  int
	ContentStartUTF16 int //position of the first content character in UTF-16 code units.
}

type openString struct {
	quote          byte
	delimLen       int
	isRaw          bool
	isInterpolated bool
	prefixStart    int
	start          int
}

// FindString scans line from the start and returns the string literal containing the byte offset cursor.
// Nothing is returned if the cursor is not inside a string literal, if a comment starts before the cursor,
// or if the cursor is inside an interpolated expression ({...}) of an interpolated string.
func FindString(line string, cursor int) (StringInfo, bool) {
	if cursor < 0 || cursor > len(line) {
		return StringInfo{}, false
	}

	var current *openString
	i := 0

	for i < len(line) {
		if current == nil {
			if i >= cursor {
				return StringInfo{}, false
			}

			c := line[i]
			switch c {
			case '#':
				return StringInfo{}, false
			case '\'', '"':
				current = openStringAt(line, i)
				i += current.delimLen
				if cursor < i {
					//the cursor is inside the opening delimiter.
					return StringInfo{}, false
				}
			default:
				i++
			}
			continue
		}

		if i == cursor {
			return extract(line, current, cursor)
		}

		c := line[i]

		switch {
		case c == '\\' && !current.isRaw:
			i++
			if i < len(line) {
				_, size := utf8.DecodeRuneInString(line[i:])
				i += size
			}
			if i > cursor {
				//the cursor is between the backslash and the escaped character.
				return extract(line, current, cursor)
			}
		case c == current.quote && isClosingDelimiter(line, i, current):
			i += current.delimLen
			current = nil
		default:
			i++
		}
	}

	if current != nil && cursor == len(line) {
		return extract(line, current, cursor)
	}
	return StringInfo{}, false
}

func openStringAt(line string, quoteIndex int) *openString {
	quote := line[quoteIndex]
	s := &openString{
		quote:       quote,
		delimLen:    1,
		prefixStart: quoteIndex,
		start:       quoteIndex,
	}

	if quoteIndex+2 < len(line) && line[quoteIndex+1] == quote && line[quoteIndex+2] == quote {
		s.delimLen = 3
	}

	//prefix letters
	prefixStart := quoteIndex
	for prefixStart > 0 && quoteIndex-prefixStart < 2 && isASCIILetter(line[prefixStart-1]) {
		prefixStart--
	}

	if prefixStart == quoteIndex || (prefixStart > 0 && isIdentifierByte(line[prefixStart-1])) {
		return s
	}

	for _, letter := range line[prefixStart:quoteIndex] {
		switch letter {
		case 'r', 'R':
			s.isRaw = true
		case 'f', 'F':
			s.isInterpolated = true
		case 'b', 'B', 'u', 'U':
		default:
			//not a string prefix
			return s
		}
	}
	s.prefixStart = prefixStart
	return s
}

func isClosingDelimiter(line string, i int, s *openString) bool {
	if s.delimLen == 1 {
		return true
	}
	return i+2 < len(line) && line[i+1] == s.quote && line[i+2] == s.quote
}

func extract(line string, s *openString, cursor int) (StringInfo, bool) {
	contentStart := s.start + s.delimLen
	content := line[contentStart:cursor]

	if s.isInterpolated && isInsideInterpolation(content) {
		return StringInfo{}, false
	}

	return StringInfo{
		ContentBeforeCursor: content,
		IsRaw:               s.isRaw,
		IsInterpolated:      s.isInterpolated,
		PrefixStartByte:     s.prefixStart,
		StartByte:           s.start,
		ContentStartByte:    contentStart,
		ContentStartUTF16:   UTF16Len(line[:contentStart]),
	}, true
}

// isInsideInterpolation reports whether the end of content is inside a replacement field,
// doubled braces are literal.
func isInsideInterpolation(content string) bool {
	depth := 0

	for i := 0; i < len(content); i++ {
		switch content[i] {
		case '{':
			if depth == 0 && i+1 < len(content) && content[i+1] == '{' {
				i++
				continue
			}
			depth++
		case '}':
			if depth == 0 && i+1 < len(content) && content[i+1] == '}' {
				i++
				continue
			}
			if depth > 0 {
				depth--
			}
		}
	}

	return depth > 0
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentifierByte(c byte) bool {
	return isASCIILetter(c) || (c >= '0' && c <= '9') || c == '_'
}
