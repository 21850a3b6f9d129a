package stylesheet_test

import (
	"strings"
	"testing"

	"bennypowers.dev/cssvar/internal/dialect"
	"bennypowers.dev/cssvar/internal/stylesheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// declarations collects every declaration below root as prop=value
func declarations(root *stylesheet.Root) []string {
	var out []string
	stylesheet.Walk(root, func(n stylesheet.Node) bool {
		if d, ok := n.(*stylesheet.Declaration); ok {
			out = append(out, d.Prop+"="+d.Value)
		}
		return true
	})
	return out
}

func parse(d dialect.Dialect, src string) *stylesheet.Root {
	return stylesheet.ForDialect(d, "")(src)
}

func TestParseRule(t *testing.T) {
	src := ":root {\n  --brand: tomato;\n  color: var(--brand) !important\n}\n"
	root := parse(dialect.CSS, src)

	require.Len(t, root.Nodes, 1)
	rule, ok := root.Nodes[0].(*stylesheet.Rule)
	require.True(t, ok)
	assert.Equal(t, ":root", rule.Selector)
	start, end := rule.Bounds()
	assert.Equal(t, 0, start)
	assert.Equal(t, strings.LastIndex(src, "}")+1, end)

	require.Len(t, rule.Nodes, 2)
	brand := rule.Nodes[0].(*stylesheet.Declaration)
	assert.Equal(t, "--brand", brand.Prop)
	assert.Equal(t, "tomato", brand.Value)
	assert.Equal(t, "tomato", src[brand.ValueStart:brand.ValueEnd])
	assert.Equal(t, "--brand: tomato;", src[brand.Start:brand.End])

	colorDecl := rule.Nodes[1].(*stylesheet.Declaration)
	assert.Equal(t, "color", colorDecl.Prop)
	assert.Equal(t, "var(--brand)", colorDecl.Value)
	assert.True(t, colorDecl.Important)
}

func TestParseCustomPropertyValues(t *testing.T) {
	src := `:root {
  --empty:;
  --block: { a: b; };
  --url: url(http://example.com/a;b.png);
  --commented: a /* note */ b;
  --spaced : 1px;
}`
	got := declarations(parse(dialect.CSS, src))
	assert.Equal(t, []string{
		"--empty=",
		"--block={ a: b; }",
		"--url=url(http://example.com/a;b.png)",
		"--commented=a /* note */ b",
		"--spaced=1px",
	}, got)
}

func TestParseAtRules(t *testing.T) {
	src := `@import "a.css";
@import url(b.css) screen;
@media (min-width: 10px) {
  :root { --wide: 1; }
}
@font-face { font-family: x; }
@`
	root := parse(dialect.CSS, src)
	require.Len(t, root.Nodes, 5)

	imp := root.Nodes[0].(*stylesheet.AtRule)
	assert.Equal(t, "import", imp.Name)
	assert.Equal(t, `"a.css"`, imp.Params)
	assert.False(t, imp.HasBlock)

	imp2 := root.Nodes[1].(*stylesheet.AtRule)
	assert.Equal(t, "url(b.css) screen", imp2.Params)

	media := root.Nodes[2].(*stylesheet.AtRule)
	assert.Equal(t, "media", media.Name)
	assert.Equal(t, "(min-width: 10px)", media.Params)
	assert.True(t, media.HasBlock)
	assert.Equal(t, []string{"--wide=1"}, declarations(&stylesheet.Root{Block: media.Block}))

	unnamed := root.Nodes[4].(*stylesheet.AtRule)
	assert.Equal(t, "", unnamed.Name)
}

func TestParseRecovery(t *testing.T) {
	t.Run("unknown words are absorbed", func(t *testing.T) {
		got := declarations(parse(dialect.CSS, ":root { garbage; --a: 1; }"))
		assert.Equal(t, []string{"--a=1"}, got)
	})

	t.Run("stray closing brace", func(t *testing.T) {
		root := parse(dialect.CSS, "}} :root { --a: 1; }")
		assert.Equal(t, "}}", root.After)
		assert.Equal(t, []string{"--a=1"}, declarations(root))
	})

	t.Run("unclosed block", func(t *testing.T) {
		src := ":root { --a: 1; .x { --b: 2"
		root := parse(dialect.CSS, src)
		assert.Equal(t, []string{"--a=1", "--b=2"}, declarations(root))
		_, end := root.Nodes[0].Bounds()
		assert.Equal(t, len(src), end)
	})

	t.Run("missed semicolon", func(t *testing.T) {
		got := declarations(parse(dialect.CSS, ":root {\n  --a: red\n  --b: blue;\n  --c: green\n}"))
		assert.Equal(t, []string{"--a=red", "--b=blue", "--c=green"}, got)
	})

	t.Run("unclosed string", func(t *testing.T) {
		got := declarations(parse(dialect.CSS, ":root { --q: \"oops; --a: 1; }"))
		assert.Contains(t, got, "--a=1")
	})

	t.Run("unknown word hook", func(t *testing.T) {
		var seen []string
		opts := stylesheet.OptionsFor(dialect.CSS)
		opts.Recovery.UnknownWord = func(tokens []stylesheet.Token) {
			for _, tok := range tokens {
				seen = append(seen, tok.Text)
			}
		}
		stylesheet.Parse(":root { what; }", opts)
		assert.Equal(t, []string{"what", ";"}, seen)
	})
}

func TestParseSCSS(t *testing.T) {
	src := `// comment with { brace
$brand: #f00;
.a {
  &:hover { --hover: 1; }
  font: 12px {
    family: serif;
  }
  #{$sel} { --interp: 2; }
}`
	root := parse(dialect.SCSS, src)

	var nested *stylesheet.NestedDeclaration
	stylesheet.Walk(root, func(n stylesheet.Node) bool {
		if nd, ok := n.(*stylesheet.NestedDeclaration); ok {
			nested = nd
		}
		return true
	})
	require.NotNil(t, nested)
	assert.Equal(t, "font", nested.Prop)
	assert.Equal(t, "12px", nested.Value)

	assert.Equal(t, []string{"$brand=#f00", "--hover=1", "family=serif", "--interp=2"}, declarations(root))

	comment, ok := root.Nodes[0].(*stylesheet.Comment)
	require.True(t, ok)
	assert.True(t, comment.Inline)
	assert.Equal(t, "comment with { brace", comment.Text)
}

func TestIsNestedDeclaration(t *testing.T) {
	tests := []struct {
		prelude string
		want    bool
	}{
		{"font: 12px {", true},
		{"margin: 0 {", true},
		{"a:hover {", false},
		{"font: {", false},
		{".a {", false},
		{"a\n:b 1 {", false},
		{"a:not(.b:c) {", false},
	}
	for _, tt := range tests {
		t.Run(tt.prelude, func(t *testing.T) {
			tokens := stylesheet.Tokenize(tt.prelude, stylesheet.OptionsFor(dialect.SCSS))
			assert.Equal(t, tt.want, stylesheet.IsNestedDeclaration(tokens))
		})
	}
}

func TestParseLess(t *testing.T) {
	src := `@brand: #f00;
@detached: { --inner: 1; };
.a { @nested: 2px; --c: @brand; }
// line comment
`
	got := declarations(parse(dialect.Less, src))
	assert.Equal(t, []string{"@brand=#f00", "--inner=1", "@nested=2px", "--c=@brand"}, got)
}

func TestForDialectSyntaxOverride(t *testing.T) {
	src := "@brand: red;"
	assert.Empty(t, declarations(stylesheet.ForDialect(dialect.CSS, "")(src)))
	assert.Equal(t, []string{"@brand=red"}, declarations(stylesheet.ForDialect(dialect.CSS, "less")(src)))
}

func TestTokenize(t *testing.T) {
	tokens := stylesheet.Tokenize(`a{b:url( x.png );c:"s"}`, stylesheet.OptionsFor(dialect.CSS))
	var kinds []string
	for _, tok := range tokens {
		kinds = append(kinds, tok.Kind.String())
	}
	assert.Equal(t, []string{"word", "{", "word", ":", "word", "brackets", ";", "word", ":", "string", "}"}, kinds)
	assert.Equal(t, "url", tokens[4].Text)
	assert.Equal(t, "( x.png )", tokens[5].Text)
}

// The parser must produce a tree for any input
func TestParseNeverPanics(t *testing.T) {
	inputs := []string{
		"", "{", "}", "@", "@;", "(", ")", "[", "]", ":", ";", "\"", "'", "/*", "//", "\\",
		"a{b:c", "a{{{{", "}}}}", "@media {", "@media (", "--x: ((", "$:", "@:", "@a:",
		"a:b{c:d}e", "#{", "url(", "url(\"", "--x: {", "a { b: c; } } } {",
		"\x00\xff\xfe", "a\\", "--a: red\n--b", "font: 1 {", ":root { --a: 1px\n :",
	}
	for _, d := range []dialect.Dialect{dialect.CSS, dialect.SCSS, dialect.Less} {
		for _, in := range inputs {
			assert.NotPanics(t, func() {
				root := parse(d, in)
				require.NotNil(t, root)
			}, "%s: %q", d, in)
		}
	}
}
