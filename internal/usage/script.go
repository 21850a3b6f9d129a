package usage

import (
	"fmt"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
)

var jsLang = sitter.NewLanguage(tree_sitter_javascript.Language())

type scriptParser struct {
	parser        *sitter.Parser
	templateQuery *sitter.Query
}

var scriptPool = sync.Pool{
	New: func() any {
		parser := sitter.NewParser()
		if err := parser.SetLanguage(jsLang); err != nil {
			panic(fmt.Sprintf("failed to set JS language: %v", err))
		}
		templateQuery, qerr := sitter.NewQuery(jsLang, `(template_string) @template`)
		if qerr != nil {
			panic(fmt.Sprintf("failed to compile template query: %v", qerr))
		}
		return &scriptParser{parser: parser, templateQuery: templateQuery}
	},
}

// ruleWrap turns template text into a rule so bare declarations parse
const ruleWrap = "x{"

// scanScript finds var() calls in the text of every template string.
// Substitutions are masked with filler of the same byte length so offsets
// map straight back; calls whose name overlaps a substitution are dropped.
func scanScript(content string) []span {
	p := scriptPool.Get().(*scriptParser)
	defer scriptPool.Put(p)
	p.parser.Reset()

	source := []byte(content)
	tree := p.parser.Parse(source, nil)
	if tree == nil {
		return nil
	}
	defer tree.Close()

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()

	var spans []span
	matches := cursor.Matches(p.templateQuery, tree.RootNode(), source)
	for match := matches.Next(); match != nil; match = matches.Next() {
		for _, capture := range match.Captures {
			node := capture.Node
			start, end := int(node.StartByte())+1, int(node.EndByte())-1
			if end <= start {
				continue
			}

			text := []byte(content[start:end])
			var masked [][2]int
			for i := uint(0); i < node.ChildCount(); i++ {
				child := node.Child(i)
				if child.Kind() != "template_substitution" {
					continue
				}
				from, to := int(child.StartByte())-start, int(child.EndByte())-start
				for j := from; j < to; j++ {
					text[j] = 'x'
				}
				masked = append(masked, [2]int{from + start, to + start})
			}

			wrapped := ruleWrap + string(text) + "}"
			for _, s := range scanCSS(wrapped, start, len(ruleWrap)) {
				if !overlaps(masked, s.nameStart, s.nameEnd) {
					spans = append(spans, s)
				}
			}
		}
	}
	return spans
}

func overlaps(ranges [][2]int, start, end int) bool {
	for _, r := range ranges {
		if start < r[1] && r[0] < end {
			return true
		}
	}
	return false
}
