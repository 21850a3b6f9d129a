// Package preprocess turns documents that embed styles (script template
// literals, HTML style elements) into stylesheet text with the same line
// geometry, so one parser can index every dialect.
package preprocess

import (
	"bennypowers.dev/cssvar/internal/dialect"
)

// PlaceholderText stands in for a script expression whose value is unknown
const PlaceholderText = "jsblock"

// Placeholder is the byte span of one PlaceholderText insertion in Source.Text
type Placeholder struct {
	Start int
	End   int
}

// Source is stylesheet-shaped text ready for parsing
type Source struct {
	Text string

	// Dialect is the stylesheet grammar Text should be parsed with
	Dialect dialect.Dialect

	// Placeholders lists every inserted placeholder, in order
	Placeholders []Placeholder
}

// IsPlaceholder reports whether the span [start, end) is exactly one
// inserted placeholder, after trimming surrounding whitespace
func (s Source) IsPlaceholder(start, end int) bool {
	if start < 0 || end > len(s.Text) || start >= end {
		return false
	}
	for start < end && isSpace(s.Text[start]) {
		start++
	}
	for end > start && isSpace(s.Text[end-1]) {
		end--
	}
	for _, p := range s.Placeholders {
		if p.Start == start && p.End == end {
			return true
		}
	}
	return false
}

// Process prepares content for the stylesheet parser according to its
// dialect. Stylesheet dialects pass through unchanged.
func Process(content string, d dialect.Dialect) Source {
	switch d {
	case dialect.Script:
		return TemplateLiterals(content)
	case dialect.HTML:
		return HTML(content)
	case dialect.Unknown:
		return Source{Text: content, Dialect: dialect.CSS}
	default:
		return Source{Text: content, Dialect: d}
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}
