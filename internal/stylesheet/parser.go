// Package stylesheet parses CSS, SCSS and Less into a small tree of rules,
// at-rules and declarations. Parsing never fails: malformed stretches are
// absorbed according to a RecoveryPolicy and simply produce no nodes.
package stylesheet

import (
	"strings"

	"bennypowers.dev/cssvar/internal/log"
)

// Parse builds the tree for src. The returned root is never nil.
func Parse(src string, opts Options) (root *Root) {
	p := &parser{
		src:  src,
		tok:  newTokenizer(src, opts),
		opts: opts,
		root: &Root{Offsets: Offsets{Start: 0, End: len(src)}},
	}
	p.current = p.root

	defer func() {
		if r := recover(); r != nil {
			log.Error("stylesheet parser recovered from %v", r)
			root = p.root
		}
	}()

	p.parse()
	return p.root
}

type parser struct {
	src     string
	tok     *tokenizer
	opts    Options
	root    *Root
	current Container
	parents []Container
}

func (p *parser) parse() {
	for !p.tok.endOfFile() {
		tok, ok := p.tok.next()
		if !ok {
			break
		}
		switch tok.Kind {
		case TokenSpace, TokenSemicolon:
		case TokenCloseCurly:
			p.end(tok)
		case TokenComment:
			p.comment(tok)
		case TokenAtWord:
			p.atRule(tok)
		case TokenOpenCurly:
			p.open(&Rule{Offsets: Offsets{Start: tok.Start}})
		default:
			p.other(tok)
		}
	}
	p.endFile()
}

func (p *parser) open(c Container) {
	p.current.appendChild(c)
	p.parents = append(p.parents, p.current)
	p.current = c
}

func (p *parser) end(tok Token) {
	if len(p.parents) == 0 {
		if p.opts.Recovery.UnexpectedClose != nil {
			p.opts.Recovery.UnexpectedClose(p.root, tok)
		}
		return
	}
	p.current.setEnd(tok.End)
	p.current = p.parents[len(p.parents)-1]
	p.parents = p.parents[:len(p.parents)-1]
}

// endFile closes every block left open at the end of input
func (p *parser) endFile() {
	for len(p.parents) > 0 {
		p.current.setEnd(len(p.src))
		p.current = p.parents[len(p.parents)-1]
		p.parents = p.parents[:len(p.parents)-1]
	}
}

func (p *parser) comment(tok Token) {
	text := tok.Text
	if tok.Inline {
		text = strings.TrimPrefix(text, "//")
	} else {
		text = strings.TrimSuffix(strings.TrimPrefix(text, "/*"), "*/")
	}
	p.current.appendChild(&Comment{
		Offsets: Offsets{Start: tok.Start, End: tok.End},
		Text:    strings.TrimSpace(text),
		Inline:  tok.Inline,
	})
}

func (p *parser) atRule(tok Token) {
	name := tok.Text[1:]
	if p.opts.LessVariables && strings.HasSuffix(name, ":") && len(name) > 1 {
		if p.lessVariable(tok, strings.TrimSuffix(name, ":")) {
			return
		}
	}

	node := &AtRule{Offsets: Offsets{Start: tok.Start, End: tok.End}, Name: name}
	if name == "" && p.opts.Recovery.UnnamedAtRule != nil {
		p.opts.Recovery.UnnamedAtRule(node)
	}

	var params []Token
	var brackets []TokenKind
	open := false
	for {
		t, ok := p.tok.next()
		if !ok {
			break
		}
		if len(brackets) > 0 {
			switch {
			case t.Kind == brackets[len(brackets)-1]:
				brackets = brackets[:len(brackets)-1]
			case t.Kind == TokenOpenParen:
				brackets = append(brackets, TokenCloseParen)
			case t.Kind == TokenOpenSquare:
				brackets = append(brackets, TokenCloseSquare)
			case t.Kind == TokenOpenCurly:
				brackets = append(brackets, TokenCloseCurly)
			}
			params = append(params, t)
			continue
		}
		if t.Kind == TokenSemicolon {
			node.End = t.End
			break
		}
		if t.Kind == TokenOpenCurly {
			open = true
			break
		}
		if t.Kind == TokenCloseCurly {
			// closes the enclosing block, which the main loop handles
			p.tok.back(t)
			break
		}
		switch t.Kind {
		case TokenOpenParen:
			brackets = append(brackets, TokenCloseParen)
		case TokenOpenSquare:
			brackets = append(brackets, TokenCloseSquare)
		}
		params = append(params, t)
		node.End = t.End
	}

	node.Params = strings.TrimSpace(rawText(params, false))
	if open {
		node.HasBlock = true
		p.open(node)
		return
	}
	p.current.appendChild(node)
}

// lessVariable turns `@name: value;` into a declaration of @name. A
// detached ruleset `@name: { ... }` is left to the at-rule path.
func (p *parser) lessVariable(start Token, name string) bool {
	var tokens []Token
	depth := 0
	for {
		t, ok := p.tok.next()
		if !ok {
			break
		}
		switch t.Kind {
		case TokenOpenParen, TokenOpenSquare:
			depth++
		case TokenCloseParen, TokenCloseSquare:
			if depth > 0 {
				depth--
			}
		case TokenOpenCurly:
			if depth == 0 {
				p.tok.back(t)
				for i := len(tokens) - 1; i >= 0; i-- {
					p.tok.back(tokens[i])
				}
				return false
			}
		case TokenCloseCurly:
			if depth == 0 {
				p.tok.back(t)
				p.addLessVariable(start, name, tokens)
				return true
			}
		case TokenSemicolon:
			if depth == 0 {
				tokens = append(tokens, t)
				p.addLessVariable(start, name, tokens)
				return true
			}
		}
		tokens = append(tokens, t)
	}
	p.addLessVariable(start, name, tokens)
	return true
}

func (p *parser) addLessVariable(start Token, name string, tokens []Token) {
	decl := &Declaration{
		Offsets: Offsets{Start: start.Start, End: start.End},
		Prop:    "@" + name,
	}
	if n := len(tokens); n > 0 {
		decl.End = tokens[n-1].End
		if tokens[n-1].Kind == TokenSemicolon {
			tokens = tokens[:n-1]
		}
	}
	p.fillValue(decl, tokens)
	p.current.appendChild(decl)
}

// other handles a run of tokens that is either a rule prelude or a
// declaration, decided by what ends it
func (p *parser) other(start Token) {
	tokens := []Token{start}
	colon := false
	custom := strings.HasPrefix(start.Text, "--")
	var brackets []TokenKind
	end := false

	for {
		t := tokens[len(tokens)-1]
		switch {
		case t.Kind == TokenOpenParen:
			brackets = append(brackets, TokenCloseParen)
		case t.Kind == TokenOpenSquare:
			brackets = append(brackets, TokenCloseSquare)
		case custom && colon && t.Kind == TokenOpenCurly:
			brackets = append(brackets, TokenCloseCurly)
		case len(brackets) == 0:
			switch t.Kind {
			case TokenSemicolon:
				if colon {
					p.decl(tokens, custom)
					return
				}
				p.unknownWord(tokens)
				return
			case TokenOpenCurly:
				p.rule(tokens)
				return
			case TokenCloseCurly:
				p.tok.back(t)
				tokens = tokens[:len(tokens)-1]
				end = true
			case TokenColon:
				colon = true
			}
		case t.Kind == brackets[len(brackets)-1]:
			brackets = brackets[:len(brackets)-1]
		}
		if end {
			break
		}
		next, ok := p.tok.next()
		if !ok {
			end = true
			break
		}
		tokens = append(tokens, next)
	}

	if end && colon {
		if !custom {
			for len(tokens) > 0 {
				k := tokens[len(tokens)-1].Kind
				if k != TokenSpace && k != TokenComment {
					break
				}
				p.tok.back(tokens[len(tokens)-1])
				tokens = tokens[:len(tokens)-1]
			}
		}
		p.decl(tokens, custom)
		return
	}
	p.unknownWord(tokens)
}

func (p *parser) unknownWord(tokens []Token) {
	if p.opts.Recovery.UnknownWord != nil {
		p.opts.Recovery.UnknownWord(tokens)
	}
}

// rule receives the prelude tokens including the opening brace
func (p *parser) rule(tokens []Token) {
	if p.opts.Recovery.NestedDeclaration != nil && p.opts.Recovery.NestedDeclaration(tokens) {
		p.nestedDecl(tokens)
		return
	}
	prelude := tokens[:len(tokens)-1]
	p.open(&Rule{
		Offsets:  Offsets{Start: tokens[0].Start},
		Selector: strings.TrimSpace(rawText(prelude, false)),
	})
}

func (p *parser) nestedDecl(tokens []Token) {
	prelude := tokens[:len(tokens)-1]
	node := &NestedDeclaration{Offsets: Offsets{Start: tokens[0].Start}}

	i := 0
	for i < len(prelude) && prelude[i].Kind != TokenColon && prelude[i].Kind != TokenSpace && prelude[i].Kind != TokenComment {
		node.Prop += prelude[i].Text
		i++
	}
	for i < len(prelude) {
		i++
		if prelude[i-1].Kind == TokenColon {
			break
		}
	}
	value := trimTrivia(prelude[i:])
	node.Value = strings.TrimSpace(rawText(value, false))
	if len(value) > 0 {
		node.ValueStart = value[0].Start
		node.ValueEnd = value[len(value)-1].End
	}
	p.open(node)
}

// decl builds a declaration from tokens that start at the property and may
// end with a semicolon
func (p *parser) decl(tokens []Token, custom bool) {
	decl := &Declaration{Offsets: Offsets{Start: tokens[0].Start}}
	p.current.appendChild(decl)
	last := tokens[len(tokens)-1]
	decl.End = last.End
	if last.Kind == TokenSemicolon {
		tokens = tokens[:len(tokens)-1]
	}

	i := 0
	for i < len(tokens) {
		k := tokens[i].Kind
		if k == TokenColon || k == TokenSpace || k == TokenComment {
			break
		}
		decl.Prop += tokens[i].Text
		i++
	}
	for i < len(tokens) {
		i++
		if tokens[i-1].Kind == TokenColon {
			break
		}
	}
	if strings.HasPrefix(decl.Prop, "_") || strings.HasPrefix(decl.Prop, "*") {
		decl.Prop = decl.Prop[1:]
	}

	value := tokens[i:]
	if p.opts.Recovery.SplitMissedSemicolon {
		var split bool
		if value, split = p.splitMissedSemicolon(value, custom); split {
			decl.End = value[len(value)-1].End
		}
	}
	value = trimTrivia(value)

	if n := len(value); n > 0 && !custom {
		if j := importantIndex(value); j >= 0 {
			decl.Important = true
			value = trimTrivia(value[:j])
		}
	}

	if len(value) > 0 {
		decl.ValueStart = value[0].Start
		decl.ValueEnd = value[len(value)-1].End
	}
	decl.Value = strings.TrimSpace(rawText(value, custom))
}

func (p *parser) fillValue(decl *Declaration, tokens []Token) {
	for len(tokens) > 0 && tokens[0].Kind == TokenColon {
		tokens = tokens[1:]
	}
	tokens = trimTrivia(tokens)
	if len(tokens) > 0 {
		decl.ValueStart = tokens[0].Start
		decl.ValueEnd = tokens[len(tokens)-1].End
	}
	decl.Value = strings.TrimSpace(rawText(tokens, false))
}

// splitMissedSemicolon finds `a: b c: d` where the semicolon after b was
// forgotten before a line break. The tail `c: d` becomes its own declaration
// and the head is returned as the value.
func (p *parser) splitMissedSemicolon(value []Token, custom bool) ([]Token, bool) {
	colon := -1
	depth := 0
	for i, t := range value {
		switch t.Kind {
		case TokenOpenParen, TokenOpenSquare:
			depth++
		case TokenCloseParen, TokenCloseSquare:
			depth--
		case TokenOpenCurly:
			if custom {
				depth++
			}
		case TokenCloseCurly:
			if custom {
				depth--
			}
		case TokenColon:
			if depth == 0 {
				colon = i
			}
		}
		if colon >= 0 {
			break
		}
	}
	if colon < 0 {
		return value, false
	}

	next := colon - 1
	for next >= 0 && value[next].Kind != TokenWord {
		next--
	}
	if next <= 0 {
		return value, false
	}
	prevEnd := next
	for prevEnd > 0 && value[prevEnd-1].Kind == TokenSpace {
		prevEnd--
	}
	if prevEnd == 0 || !strings.Contains(rawText(value[prevEnd:next], false), "\n") {
		return value, false
	}

	tail := value[next:]
	p.decl(append([]Token(nil), tail...), strings.HasPrefix(tail[0].Text, "--"))
	return value[:prevEnd], true
}

func importantIndex(tokens []Token) int {
	for i := len(tokens) - 1; i >= 0; i-- {
		t := tokens[i]
		if t.Kind == TokenSpace || t.Kind == TokenComment {
			continue
		}
		if strings.EqualFold(t.Text, "!important") {
			return i
		}
		return -1
	}
	return -1
}

func trimTrivia(tokens []Token) []Token {
	for len(tokens) > 0 && (tokens[0].Kind == TokenSpace || tokens[0].Kind == TokenComment) {
		tokens = tokens[1:]
	}
	for len(tokens) > 0 && (tokens[len(tokens)-1].Kind == TokenSpace || tokens[len(tokens)-1].Kind == TokenComment) {
		tokens = tokens[:len(tokens)-1]
	}
	return tokens
}

// rawText joins token text. Comments are dropped unless keepComments is set.
func rawText(tokens []Token, keepComments bool) string {
	var b strings.Builder
	for _, t := range tokens {
		if t.Kind == TokenComment && !keepComments {
			continue
		}
		b.WriteString(t.Text)
	}
	return b.String()
}
