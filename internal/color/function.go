package color

import (
	"regexp"
	"strings"

	"bennypowers.dev/cssvar/internal/dialect"
)

var functionPattern = regexp.MustCompile(`(?i)^(rgba?|hsla?|hwb|lab|lch)\(`)

// Function is a color function call split into its positional arguments
type Function struct {
	Name string
	Args []string

	// Alpha is the optional fourth channel, "" when absent
	Alpha string

	// Legacy is true for comma-delimited argument lists
	Legacy bool
}

// IsFunction reports whether value is a call to one of the supported color functions
func IsFunction(value string) bool {
	_, ok := SplitFunction(value)
	return ok
}

// SplitFunction splits a color function call into its arguments. Nested
// calls such as var(--x, red) stay intact as single arguments.
func SplitFunction(value string) (Function, bool) {
	value = strings.TrimSpace(value)
	loc := functionPattern.FindStringSubmatchIndex(value)
	if loc == nil {
		return Function{}, false
	}
	open := loc[1] - 1
	if dialect.MatchingParen(value, open) != len(value)-1 {
		return Function{}, false
	}

	fn := Function{Name: strings.ToLower(value[loc[2]:loc[3]])}
	inner := strings.TrimSpace(value[open+1 : len(value)-1])
	if inner == "" {
		return Function{}, false
	}

	if parts := splitTopLevel(inner, func(r byte) bool { return r == ',' }); len(parts) > 1 {
		fn.Legacy = true
		for _, p := range parts {
			fn.Args = append(fn.Args, strings.TrimSpace(p))
		}
		if len(fn.Args) == 4 {
			fn.Alpha = fn.Args[3]
			fn.Args = fn.Args[:3]
		}
		return fn, true
	}

	channels := inner
	if i := topLevelSlash(inner); i >= 0 {
		channels = inner[:i]
		fn.Alpha = strings.TrimSpace(inner[i+1:])
	}
	fn.Args = splitTopLevel(channels, isSpace)
	return fn, true
}

// String reassembles the call
func (f Function) String() string {
	var b strings.Builder
	b.WriteString(f.Name)
	b.WriteByte('(')
	if f.Legacy {
		b.WriteString(strings.Join(f.Args, ", "))
		if f.Alpha != "" {
			b.WriteString(", ")
			b.WriteString(f.Alpha)
		}
	} else {
		b.WriteString(strings.Join(f.Args, " "))
		if f.Alpha != "" {
			b.WriteString(" / ")
			b.WriteString(f.Alpha)
		}
	}
	b.WriteByte(')')
	return b.String()
}

func isSpace(r byte) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f'
}

func topLevelSlash(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		case '/':
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// splitTopLevel splits s on separator bytes outside parentheses and quotes,
// dropping empty fields
func splitTopLevel(s string, sep func(byte) bool) []string {
	var parts []string
	depth := 0
	var quote byte
	start := 0
	flush := func(end int) {
		if field := strings.TrimSpace(s[start:end]); field != "" {
			parts = append(parts, field)
		}
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			if depth > 0 {
				depth--
			}
		case depth == 0 && sep(c):
			flush(i)
			start = i + 1
		}
	}
	flush(len(s))
	return parts
}
