package position

import (
	"sort"
	"unicode/utf16"
	"unicode/utf8"
)

// UTF16ToByteOffset converts a UTF-16 code unit offset within a line to a byte offset.
// Editor positions use UTF-16 code units, but Go strings are UTF-8 byte sequences.
// Surrogate pairs count as 2 units; a target inside a pair clamps to the rune start.
func UTF16ToByteOffset(s string, utf16Col int) int {
	if utf16Col <= 0 {
		return 0
	}

	units := 0
	byteOffset := 0

	for byteOffset < len(s) && units < utf16Col {
		r, size := utf8.DecodeRuneInString(s[byteOffset:])
		if r == utf8.RuneError && size == 1 {
			byteOffset++
			units++
			continue
		}

		runeUTF16Len := utf16.RuneLen(r)
		if runeUTF16Len == 2 && units+1 == utf16Col {
			break
		}

		units += runeUTF16Len
		byteOffset += size
	}

	return byteOffset
}

// ByteOffsetToUTF16 converts a byte offset within a line to a UTF-16 code unit offset.
func ByteOffsetToUTF16(s string, byteOffset int) int {
	if byteOffset <= 0 {
		return 0
	}
	if byteOffset > len(s) {
		byteOffset = len(s)
	}

	utf16Count := 0
	currentOffset := 0
	for currentOffset < byteOffset {
		r, size := utf8.DecodeRuneInString(s[currentOffset:])
		if size == 0 || currentOffset+size > byteOffset {
			break
		}
		if r == utf8.RuneError && size == 1 {
			utf16Count++
		} else {
			utf16Count += utf16.RuneLen(r)
		}
		currentOffset += size
	}
	return utf16Count
}

// LineIndex maps byte offsets of a document to zero-based line and UTF-16
// column pairs. Only '\n' terminates a line; a preceding '\r' stays part of
// the line text, matching how editors count columns.
type LineIndex struct {
	source string
	starts []int
}

// NewLineIndex scans source once for line starts
func NewLineIndex(source string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(source); i++ {
		if source[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{source: source, starts: starts}
}

// LineCount returns the number of lines, counting a trailing empty line
func (li *LineIndex) LineCount() int {
	return len(li.starts)
}

// Position returns the zero-based line and UTF-16 column of a byte offset
func (li *LineIndex) Position(offset int) (line, character uint32) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(li.source) {
		offset = len(li.source)
	}
	l := sort.Search(len(li.starts), func(i int) bool { return li.starts[i] > offset }) - 1
	start := li.starts[l]
	col := ByteOffsetToUTF16(li.source[start:offset], offset-start)
	return uint32(l), uint32(col) //nolint:gosec // G115: bounded by document size
}

// Offset converts a zero-based line and UTF-16 column back to a byte offset.
// Out-of-range positions clamp to the nearest valid offset.
func (li *LineIndex) Offset(line, character uint32) int {
	if int(line) >= len(li.starts) {
		return len(li.source)
	}
	start := li.starts[line]
	end := len(li.source)
	if int(line)+1 < len(li.starts) {
		end = li.starts[line+1] - 1
	}
	return start + UTF16ToByteOffset(li.source[start:end], int(character))
}

// Line returns the text of a zero-based line without its terminator
func (li *LineIndex) Line(line int) string {
	if line < 0 || line >= len(li.starts) {
		return ""
	}
	start := li.starts[line]
	end := len(li.source)
	if line+1 < len(li.starts) {
		end = li.starts[line+1] - 1
	}
	return li.source[start:end]
}
