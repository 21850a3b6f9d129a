package usage

import (
	"fmt"
	"strings"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_css "github.com/tree-sitter/tree-sitter-css/bindings/go"
)

var cssLang = sitter.NewLanguage(tree_sitter_css.Language())

var cssPool = sync.Pool{
	New: func() any {
		parser := sitter.NewParser()
		if err := parser.SetLanguage(cssLang); err != nil {
			panic(fmt.Sprintf("failed to set CSS language: %v", err))
		}
		return parser
	},
}

// scanCSS finds var() calls in text. Offsets of the result are shifted by
// base, after dropping the first skip bytes of text, which callers use to
// wrap fragments in a synthetic rule.
func scanCSS(text string, base, skip int) []span {
	parser := cssPool.Get().(*sitter.Parser)
	defer cssPool.Put(parser)
	parser.Reset()

	source := []byte(text)
	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil
	}
	defer tree.Close()

	var spans []span
	walkTree(tree.RootNode(), source, func(s span) {
		shift := base - skip
		s.nameStart += shift
		s.nameEnd += shift
		s.callStart += shift
		s.callEnd += shift
		spans = append(spans, s)
	})
	return spans
}

// walkTree visits every var() call below node, outer calls first
func walkTree(node *sitter.Node, source []byte, fn func(span)) {
	if node == nil {
		return
	}
	if node.Kind() == "call_expression" {
		if s, ok := handleCallExpression(node, source); ok {
			fn(s)
		}
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		walkTree(node.Child(i), source, fn)
	}
}

// handleCallExpression turns a var() call_expression into a span
func handleCallExpression(node *sitter.Node, source []byte) (span, bool) {
	var functionNameNode, argumentsNode *sitter.Node
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "function_name":
			functionNameNode = child
		case "arguments":
			argumentsNode = child
		}
	}
	if functionNameNode == nil || argumentsNode == nil {
		return span{}, false
	}
	if !strings.EqualFold(nodeText(functionNameNode, source), "var") {
		return span{}, false
	}

	s := span{
		callStart: int(node.StartByte()),
		callEnd:   int(node.EndByte()),
	}
	found := false
	for i := uint(0); i < argumentsNode.ChildCount(); i++ {
		child := argumentsNode.Child(i)
		switch kind := child.Kind(); {
		case kind == "(" || kind == ")":
			continue
		case kind == ",":
			if found && !s.hasFallback {
				s.hasFallback = true
				end := int(argumentsNode.EndByte())
				if end > 0 && source[end-1] == ')' {
					end--
				}
				s.fallback = strings.TrimSpace(string(source[child.EndByte():end]))
			}
		case !found:
			s.text = strings.TrimSpace(nodeText(child, source))
			s.nameStart, s.nameEnd = int(child.StartByte()), int(child.EndByte())
			found = true
		}
	}
	if !found || !validName(s.text) {
		return span{}, false
	}
	return s, true
}

func nodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}
