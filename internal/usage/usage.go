// Package usage finds var() references in documents of every supported dialect
package usage

import (
	"strings"

	"bennypowers.dev/cssvar/internal/dialect"
	"bennypowers.dev/cssvar/internal/position"
	"bennypowers.dev/cssvar/internal/preprocess"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Reference is one var() call
type Reference struct {
	// Name is the referenced custom property
	Name string

	// Fallback is the text after the first comma, trimmed
	Fallback    string
	HasFallback bool

	// Range spans the name inside the call
	Range protocol.Range

	// Call spans the whole var(...) expression
	Call protocol.Range
}

// span is a var() call found in some text, by byte offsets into that text
type span struct {
	nameStart, nameEnd int
	callStart, callEnd int
	fallback           string
	hasFallback        bool
	text               string
}

// Scan returns the var() references of a document in source order
func Scan(d dialect.Dialect, content string) []Reference {
	var spans []span
	lines := position.NewLineIndex(content)

	switch d {
	case dialect.Script:
		spans = scanScript(content)
	case dialect.HTML:
		// blanked markup keeps lines and UTF-16 columns but not byte offsets
		text := preprocess.HTML(content).Text
		lines = position.NewLineIndex(text)
		spans = scanCSS(text, 0, 0)
	default:
		spans = scanCSS(content, 0, 0)
	}

	refs := make([]Reference, 0, len(spans))
	for _, s := range spans {
		refs = append(refs, Reference{
			Name:        s.text,
			Fallback:    s.fallback,
			HasFallback: s.hasFallback,
			Range:       rangeOf(lines, s.nameStart, s.nameEnd),
			Call:        rangeOf(lines, s.callStart, s.callEnd),
		})
	}
	return refs
}

// ReferenceAt returns the reference whose var() call encloses a position.
// For a call nested in another's fallback the innermost call wins.
func ReferenceAt(d dialect.Dialect, content string, line, character uint32) (Reference, bool) {
	pos := protocol.Position{Line: line, Character: character}
	var best Reference
	found := false
	for _, ref := range Scan(d, content) {
		if !contains(ref.Call, pos) {
			continue
		}
		// calls come outer first, so an enclosed call refines the match
		if !found || contains(best.Call, ref.Call.Start) {
			best, found = ref, true
		}
	}
	return best, found
}

func contains(r protocol.Range, p protocol.Position) bool {
	return !before(p, r.Start) && !before(r.End, p)
}

func before(a, b protocol.Position) bool {
	return a.Line < b.Line || (a.Line == b.Line && a.Character < b.Character)
}

func rangeOf(lines *position.LineIndex, start, end int) protocol.Range {
	sl, sc := lines.Position(start)
	el, ec := lines.Position(end)
	return protocol.Range{
		Start: protocol.Position{Line: sl, Character: sc},
		End:   protocol.Position{Line: el, Character: ec},
	}
}

func validName(name string) bool {
	return strings.HasPrefix(name, "--") && len(name) > 2 && !strings.ContainsAny(name, " \t\n(),")
}
