package stylesheet

import "strings"

// TokenKind classifies a token
type TokenKind int

const (
	TokenSpace TokenKind = iota
	TokenWord
	TokenString
	TokenAtWord
	TokenBrackets
	TokenComment
	TokenOpenParen
	TokenCloseParen
	TokenOpenSquare
	TokenCloseSquare
	TokenOpenCurly
	TokenCloseCurly
	TokenColon
	TokenSemicolon
)

var tokenKindNames = [...]string{
	"space", "word", "string", "at-word", "brackets", "comment",
	"(", ")", "[", "]", "{", "}", ":", ";",
}

func (k TokenKind) String() string {
	if int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return "unknown"
}

// Token is a lexical unit. Start and End are byte offsets, End exclusive.
type Token struct {
	Kind  TokenKind
	Text  string
	Start int
	End   int

	// Inline marks // comments
	Inline bool
}

type tokenizer struct {
	src  string
	pos  int
	opts Options

	returned []Token
	prev     *Token
}

func newTokenizer(src string, opts Options) *tokenizer {
	return &tokenizer{src: src, opts: opts}
}

func (t *tokenizer) endOfFile() bool {
	return len(t.returned) == 0 && t.pos >= len(t.src)
}

func (t *tokenizer) back(tok Token) {
	t.returned = append(t.returned, tok)
}

func (t *tokenizer) next() (Token, bool) {
	if n := len(t.returned); n > 0 {
		tok := t.returned[n-1]
		t.returned = t.returned[:n-1]
		return tok, true
	}
	if t.pos >= len(t.src) {
		return Token{}, false
	}
	tok := t.scan()
	t.prev = &tok
	return tok, true
}

func (t *tokenizer) emit(kind TokenKind, start, end int) Token {
	t.pos = end
	return Token{Kind: kind, Text: t.src[start:end], Start: start, End: end}
}

func (t *tokenizer) scan() Token {
	src := t.src
	start := t.pos
	c := src[start]

	switch c {
	case ' ', '\n', '\t', '\r', '\f':
		end := start + 1
		for end < len(src) && isSpaceByte(src[end]) {
			end++
		}
		return t.emit(TokenSpace, start, end)
	case '[':
		return t.emit(TokenOpenSquare, start, start+1)
	case ']':
		return t.emit(TokenCloseSquare, start, start+1)
	case '{':
		return t.emit(TokenOpenCurly, start, start+1)
	case '}':
		return t.emit(TokenCloseCurly, start, start+1)
	case ':':
		return t.emit(TokenColon, start, start+1)
	case ';':
		return t.emit(TokenSemicolon, start, start+1)
	case ')':
		return t.emit(TokenCloseParen, start, start+1)
	case '(':
		if t.prev != nil && t.prev.Kind == TokenWord && strings.EqualFold(t.prev.Text, "url") && t.prev.End == start {
			if end, ok := t.unquotedURL(start); ok {
				return t.emit(TokenBrackets, start, end)
			}
		}
		return t.emit(TokenOpenParen, start, start+1)
	case '"', '\'':
		return t.emit(TokenString, start, t.stringEnd(start))
	case '@':
		end := start + 1
		for end < len(src) && !isAtEnd(src[end]) {
			end++
		}
		return t.emit(TokenAtWord, start, end)
	case '/':
		if start+1 < len(src) && src[start+1] == '*' {
			end := strings.Index(src[start+2:], "*/")
			if end < 0 {
				return t.emit(TokenComment, start, len(src))
			}
			return t.emit(TokenComment, start, start+2+end+2)
		}
		if t.opts.InlineComments && start+1 < len(src) && src[start+1] == '/' {
			end := strings.IndexByte(src[start:], '\n')
			if end < 0 {
				end = len(src) - start
			}
			tok := t.emit(TokenComment, start, start+end)
			tok.Inline = true
			return tok
		}
	}
	return t.emit(TokenWord, start, t.wordEnd(start))
}

// unquotedURL finds the end of url(...) when its argument is not quoted
func (t *tokenizer) unquotedURL(open int) (int, bool) {
	i := open + 1
	for i < len(t.src) && isSpaceByte(t.src[i]) {
		i++
	}
	if i < len(t.src) && (t.src[i] == '"' || t.src[i] == '\'') {
		return 0, false
	}
	for ; i < len(t.src); i++ {
		switch t.src[i] {
		case '\\':
			i++
		case ')':
			return i + 1, true
		case '\n':
			return 0, false
		}
	}
	return 0, false
}

// stringEnd returns the exclusive end of the string starting at start. An
// unclosed quote is a one-character string so the rest of the input still
// tokenizes normally.
func (t *tokenizer) stringEnd(start int) int {
	quote := t.src[start]
	for i := start + 1; i < len(t.src); i++ {
		switch t.src[i] {
		case '\\':
			i++
		case quote:
			return i + 1
		}
	}
	return start + 1
}

func (t *tokenizer) wordEnd(start int) int {
	src := t.src
	i := start
	for i < len(src) {
		c := src[i]
		switch {
		case c == '\\':
			i += 2
			continue
		case c == '#' && t.opts.Interpolation && i+1 < len(src) && src[i+1] == '{':
			i = interpolationEnd(src, i+1)
			continue
		case i == start:
		case c == '/' && i+1 < len(src) && (src[i+1] == '*' || (t.opts.InlineComments && src[i+1] == '/')):
			return i
		case isWordEnd(c):
			return i
		}
		i++
	}
	return min(i, len(src))
}

// interpolationEnd returns the offset just past the brace closing the one at open
func interpolationEnd(src string, open int) int {
	depth := 0
	for i := open; i < len(src); i++ {
		switch src[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return len(src)
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\n' || c == '\t' || c == '\r' || c == '\f'
}

func isWordEnd(c byte) bool {
	switch c {
	case ' ', '\n', '\t', '\r', '\f', '!', '"', '#', '\'', '(', ')', ':', ';', '@', '[', '\\', ']', '{', '}':
		return true
	}
	return false
}

func isAtEnd(c byte) bool {
	switch c {
	case ' ', '\n', '\t', '\r', '\f', '"', '#', '\'', '(', ')', '/', ';', '[', '\\', ']', '{', '}':
		return true
	}
	return false
}

// Tokenize splits src into tokens using the lexical rules of opts
func Tokenize(src string, opts Options) []Token {
	t := newTokenizer(src, opts)
	var tokens []Token
	for {
		tok, ok := t.next()
		if !ok {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}
