package pathquery

import (
	"unicode/utf8"
)

// UTF16Len returns the number of UTF-16 code units needed to encode s. Invalid bytes count as one unit.
func UTF16Len(s string) int {
	n := 0
	for _, r := range s {
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	return n
}

// UTF16ColumnToByte converts a column expressed in UTF-16 code units to a byte offset in line.
// A column pointing inside a surrogate pair is moved to the start of the character.
// The boolean result is false if the column is beyond the end of the line.
func UTF16ColumnToByte(line string, column int) (int, bool) {
	if column < 0 {
		return 0, false
	}

	units := 0
	for i := 0; i < len(line); {
		r, size := utf8.DecodeRuneInString(line[i:])
		next := units + 1
		if r >= 0x10000 {
			next++
		}
		if next > column {
			return i, true
		}
		units = next
		i += size
	}

	if units == column {
		return len(line), true
	}
	return 0, false
}
