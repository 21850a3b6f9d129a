package preprocess

import (
	"fmt"
	"sync"
	"unicode/utf8"

	"bennypowers.dev/cssvar/internal/dialect"
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_html "github.com/tree-sitter/tree-sitter-html/bindings/go"
)

var htmlLang = sitter.NewLanguage(tree_sitter_html.Language())

type htmlParser struct {
	parser     *sitter.Parser
	styleQuery *sitter.Query
}

var htmlPool = sync.Pool{
	New: func() any {
		parser := sitter.NewParser()
		if err := parser.SetLanguage(htmlLang); err != nil {
			panic(fmt.Sprintf("failed to set HTML language: %v", err))
		}
		styleQuery, qerr := sitter.NewQuery(htmlLang, `(style_element (raw_text) @css)`)
		if qerr != nil {
			panic(fmt.Sprintf("failed to compile style query: %v", qerr))
		}
		return &htmlParser{parser: parser, styleQuery: styleQuery}
	},
}

// HTML keeps the contents of <style> elements in place and blanks the rest
// of the document. Line breaks are preserved, and every other character
// outside a style element becomes as many spaces as it has UTF-16 units, so
// both lines and columns line up with the original.
func HTML(content string) Source {
	p := htmlPool.Get().(*htmlParser)
	defer htmlPool.Put(p)
	p.parser.Reset()

	source := []byte(content)
	tree := p.parser.Parse(source, nil)
	if tree == nil {
		return Source{Text: blank(content), Dialect: dialect.CSS}
	}
	defer tree.Close()

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()

	out := make([]byte, 0, len(content))
	last := 0
	matches := cursor.Matches(p.styleQuery, tree.RootNode(), source)
	for match := matches.Next(); match != nil; match = matches.Next() {
		for _, capture := range match.Captures {
			start, end := int(capture.Node.StartByte()), int(capture.Node.EndByte())
			if start < last || end > len(source) {
				continue
			}
			out = append(out, blank(content[last:start])...)
			out = append(out, source[start:end]...)
			last = end
		}
	}
	out = append(out, blank(content[last:])...)

	return Source{Text: string(out), Dialect: dialect.CSS}
}

func blank(s string) string {
	buf := make([]byte, 0, len(s))
	for _, r := range s {
		switch {
		case r == '\n' || r == '\r':
			buf = append(buf, byte(r))
		case r == utf8.RuneError:
			buf = append(buf, ' ')
		case r > 0xFFFF:
			buf = append(buf, ' ', ' ')
		default:
			buf = append(buf, ' ')
		}
	}
	return string(buf)
}
