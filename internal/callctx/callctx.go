// Package callctx guesses whether a string literal is a path argument by scanning the source text that
// precedes it. The scans are bounded and do not parse the text.
package callctx

import (
	"strings"
)

const (
	// number of bytes scanned backward from the opening quote to find the enclosing call.
	CALL_LOOKBACK = 300

	// number of bytes scanned backward from the opening quote to find a Path(...) / "..." expression.
	PATH_JOIN_LOOKBACK = 120
)

var (
	pathFunctions = map[string]struct{}{
		"open":         {},
		"Path":         {},
		"read_csv":     {},
		"read_parquet": {},
		"read_json":    {},
		"read_excel":   {},
		"read_table":   {},
	}

	pathArgNames = map[string]struct{}{
		"path":     {},
		"filepath": {},
		"filename": {},
		"file":     {},
		"fname":    {},
	}
)

// A CallContext describes the call whose argument list contains a string literal.
type CallContext struct {
	FullName string //possibly dotted, e.g. pd.read_csv
	BaseName string //last segment of FullName

	IsFirstPositionalArg bool
	NamedArg             string //empty if the literal is not the value of a named argument
}

// Detect finds the innermost call whose opening parenthesis precedes the byte offset quoteOffset in text.
// Only the CALL_LOOKBACK bytes before quoteOffset are scanned.
func Detect(text string, quoteOffset int) (CallContext, bool) {
	window := lookbackWindow(text, quoteOffset, CALL_LOOKBACK)

	openParen := -1
	depth := 0

loop:
	for i := len(window) - 1; i >= 0; i-- {
		switch window[i] {
		case ')':
			depth++
		case '(':
			if depth == 0 {
				openParen = i
				break loop
			}
			depth--
		}
	}

	if openParen < 0 {
		return CallContext{}, false
	}

	before := strings.TrimRight(window[:openParen], " \t\r\n")
	nameStart := len(before)
	for nameStart > 0 && isNameByte(before[nameStart-1]) {
		nameStart--
	}

	fullName := before[nameStart:]
	if fullName == "" {
		return CallContext{}, false
	}

	baseName := fullName
	if i := strings.LastIndexByte(fullName, '.'); i >= 0 {
		baseName = fullName[i+1:]
	}

	ctx := CallContext{
		FullName: fullName,
		BaseName: baseName,
	}
	ctx.IsFirstPositionalArg, ctx.NamedArg = analyzeArgText(window[openParen+1:])
	return ctx, true
}

// analyzeArgText analyzes the text between the opening parenthesis and the string literal.
func analyzeArgText(argText string) (isFirst bool, namedArg string) {
	trimmed := strings.TrimSpace(argText)

	switch {
	case strings.Contains(trimmed, ","):
		return false, ""
	case strings.Contains(trimmed, "="):
		name := strings.TrimSpace(trimmed[:strings.LastIndexByte(trimmed, '=')])
		return false, name
	default:
		return true, ""
	}
}

// IsPathShaped reports whether the string literal starting at quoteOffset is likely a path:
// the first or a named argument of a known path-accepting function (open, Path, read_csv, ...),
// the value of a path-like named argument (path=, file=, ...), or an operand of a Path(...) / "..." expression.
func IsPathShaped(text string, quoteOffset int) bool {
	if ctx, ok := Detect(text, quoteOffset); ok && (ctx.IsFirstPositionalArg || ctx.NamedArg != "") {
		if ctx.IsKnownPathFunction() || ctx.IsPathArgName() {
			return true
		}
	}

	return IsPathJoin(text, quoteOffset)
}

func (ctx CallContext) IsKnownPathFunction() bool {
	_, ok := pathFunctions[ctx.BaseName]
	return ok
}

func (ctx CallContext) IsPathArgName() bool {
	if ctx.NamedArg == "" {
		return false
	}
	_, ok := pathArgNames[ctx.NamedArg]
	return ok
}

// IsPathJoin reports whether a Path( call, optionally module-qualified, followed by a '/' is present
// in the PATH_JOIN_LOOKBACK bytes before quoteOffset.
func IsPathJoin(text string, quoteOffset int) bool {
	window := lookbackWindow(text, quoteOffset, PATH_JOIN_LOOKBACK)

	end := len(window)
	for {
		i := strings.LastIndex(window[:end], "Path(")
		if i < 0 {
			return false
		}
		if i == 0 || !isIdentifierByte(window[i-1]) {
			return strings.Contains(window[i:], "/")
		}
		end = i
	}
}

func lookbackWindow(text string, offset int, size int) string {
	offset = min(max(offset, 0), len(text))
	start := max(offset-size, 0)
	return text[start:offset]
}

func isNameByte(c byte) bool {
	return isIdentifierByte(c) || c == '.'
}

func isIdentifierByte(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_'
}
