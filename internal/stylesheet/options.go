package stylesheet

import (
	"regexp"
	"strings"

	"bennypowers.dev/cssvar/internal/dialect"
)

// RecoveryPolicy decides what the parser does at points where a strict CSS
// parser would give up. The parser itself always continues; the hooks
// observe or adjust the nodes involved.
type RecoveryPolicy struct {
	// UnknownWord receives tokens that form neither a rule nor a
	// declaration. They never reach the tree.
	UnknownWord func(tokens []Token)

	// UnexpectedClose receives a closing brace that has no open block
	UnexpectedClose func(root *Root, tok Token)

	// UnnamedAtRule may name an at-rule written as a bare @
	UnnamedAtRule func(node *AtRule)

	// NestedDeclaration reports whether a rule prelude, including its
	// opening brace, is really a nested property declaration
	NestedDeclaration func(tokens []Token) bool

	// SplitMissedSemicolon recovers `a: b` + newline + `c: d` written
	// without the semicolon as two declarations
	SplitMissedSemicolon bool
}

// SafeRecovery absorbs every error: unknown words become trivia, stray
// closing braces are kept as raw text on the root and unnamed at-rules get
// an empty name.
func SafeRecovery() RecoveryPolicy {
	return RecoveryPolicy{
		UnexpectedClose: func(root *Root, tok Token) {
			root.After += tok.Text
		},
		UnnamedAtRule: func(node *AtRule) {
			node.Name = ""
		},
		SplitMissedSemicolon: true,
	}
}

// SCSSRecovery is SafeRecovery plus nested property declarations
func SCSSRecovery() RecoveryPolicy {
	policy := SafeRecovery()
	policy.NestedDeclaration = IsNestedDeclaration
	return policy
}

var selectorLike = regexp.MustCompile(`^[#:A-Za-z-]`)

// IsNestedDeclaration looks for a colon at bracket depth 0 before the first
// line break of a rule prelude. `font: 12px {` is a nested declaration;
// `a:hover {` and `font: {` are rules.
func IsNestedDeclaration(tokens []Token) bool {
	withColon := false
	depth := 0
	var value strings.Builder
	for _, t := range tokens {
		if withColon {
			if t.Kind != TokenComment && t.Kind != TokenOpenCurly {
				value.WriteString(t.Text)
			}
			continue
		}
		switch {
		case t.Kind == TokenSpace && strings.Contains(t.Text, "\n"):
			return false
		case t.Kind == TokenOpenParen:
			depth++
		case t.Kind == TokenCloseParen:
			depth--
		case depth == 0 && t.Kind == TokenColon:
			withColon = true
		}
	}
	v := value.String()
	return withColon && strings.TrimSpace(v) != "" && !selectorLike.MatchString(v)
}

// Options selects the grammar extensions and recovery behavior of a parse
type Options struct {
	// InlineComments enables // comments
	InlineComments bool

	// Interpolation keeps #{...} inside words
	Interpolation bool

	// LessVariables reads `@name: value;` as a declaration of @name
	LessVariables bool

	Recovery RecoveryPolicy
}

// Parser parses the text of one dialect
type Parser func(src string) *Root

var factories = map[dialect.Dialect]func() Options{
	dialect.CSS: func() Options {
		return Options{Recovery: SafeRecovery()}
	},
	dialect.SCSS: scssOptions,
	dialect.Sass: scssOptions,
	dialect.Less: func() Options {
		return Options{InlineComments: true, LessVariables: true, Recovery: SafeRecovery()}
	},
}

func scssOptions() Options {
	return Options{InlineComments: true, Interpolation: true, Recovery: SCSSRecovery()}
}

// OptionsFor returns the parse options of a stylesheet dialect. Dialects
// without their own grammar parse as SCSS, a superset of CSS.
func OptionsFor(d dialect.Dialect) Options {
	if f, ok := factories[d]; ok {
		return f()
	}
	return scssOptions()
}

// ForDialect returns a parser for d. A non-empty syntax naming a stylesheet
// dialect (css, scss, sass, less) overrides d.
func ForDialect(d dialect.Dialect, syntax string) Parser {
	if syntax != "" {
		if s := dialect.FromExtension(strings.ToLower(syntax)); s.IsStylesheet() {
			d = s
		}
	}
	opts := OptionsFor(d)
	return func(src string) *Root {
		return Parse(src, opts)
	}
}
