package preprocess

import (
	"strings"

	"bennypowers.dev/cssvar/internal/dialect"
)

// TemplateLiterals renders every template literal of a script as a :root
// rule and drops the surrounding code, keeping line breaks so positions
// inside literals survive. Embedded ${...} expressions become a
// placeholder; line breaks inside them are kept behind an empty comment.
// Malformed input is approximated, never rejected.
func TemplateLiterals(content string) Source {
	var b strings.Builder
	b.Grow(len(content))
	src := Source{Dialect: dialect.SCSS}

	inLiteral := false
	inExpr := false
	depth := 0

	for i := 0; i < len(content); i++ {
		c := content[i]
		switch {
		case inLiteral && inExpr:
			switch c {
			case '{':
				depth++
			case '}':
				if depth == 0 {
					start := b.Len()
					b.WriteString(PlaceholderText)
					src.Placeholders = append(src.Placeholders, Placeholder{Start: start, End: b.Len()})
					inExpr = false
				} else {
					depth--
				}
			case '\n':
				b.WriteString("/* */\n")
			case '`':
				// the expression never closed; end the literal here
				b.WriteByte('}')
				inLiteral = false
				inExpr = false
				depth = 0
			}

		case inLiteral:
			switch {
			case c == '\\':
				if i+1 < len(content) {
					i++
					b.WriteByte(content[i])
				}
			case c == '$' && i+1 < len(content) && content[i+1] == '{':
				inExpr = true
				depth = 0
				i++
			case c == '`':
				b.WriteByte('}')
				inLiteral = false
			default:
				b.WriteByte(c)
			}

		case c == '`':
			b.WriteString(":root {")
			inLiteral = true

		case c == '\n':
			b.WriteByte('\n')
		}
	}

	src.Text = b.String()
	return src
}
