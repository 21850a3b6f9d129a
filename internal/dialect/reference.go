package dialect

import (
	"regexp"
	"strings"
)

// sassReferenceRegexp matches a whole-value Sass variable reference: $brand
var sassReferenceRegexp = regexp.MustCompile(`^\$[\w-]+$`)

// lessReferenceRegexp matches a whole-value Less variable reference: @brand
var lessReferenceRegexp = regexp.MustCompile(`^@[\w-]+$`)

// sassFlagsRegexp matches trailing Sass assignment flags: $a !default
var sassFlagsRegexp = regexp.MustCompile(`(?i)(\s*!(default|global))+\s*$`)

// TrimFlags drops trailing !default and !global flags from a Sass value
func TrimFlags(value string) string {
	return strings.TrimSpace(sassFlagsRegexp.ReplaceAllString(value, ""))
}

// Reference is a bare variable reference that makes up a whole value
type Reference struct {
	// Name is the referenced variable including its sigil (--a, $a, @a)
	Name string
	// Fallback is the var() fallback, when present
	Fallback string
	// HasFallback distinguishes var(--a,) from var(--a)
	HasFallback bool
}

// ParseReference recognizes a value that is nothing but a variable reference:
// var(--x), var(--x, fallback), $x or @x. Function-wrapped references such as
// rgb(var(--x)) are not bare references.
func ParseReference(value string) (Reference, bool) {
	v := TrimFlags(value)
	switch {
	case sassReferenceRegexp.MatchString(v):
		return Reference{Name: v}, true
	case lessReferenceRegexp.MatchString(v):
		return Reference{Name: v}, true
	}
	return parseVarFunction(v)
}

// parseVarFunction accepts var( ... ) only when its closing paren ends the value
func parseVarFunction(v string) (Reference, bool) {
	if len(v) < 6 || !strings.EqualFold(v[:4], "var(") {
		return Reference{}, false
	}
	end := MatchingParen(v, 3)
	if end != len(v)-1 {
		return Reference{}, false
	}

	inner := v[4:end]
	name, fallback, hasFallback := strings.Cut(inner, ",")
	name = strings.TrimSpace(name)
	if !strings.HasPrefix(name, "--") || len(name) < 3 || strings.ContainsAny(name, " \t\n()") {
		return Reference{}, false
	}
	return Reference{
		Name:        name,
		Fallback:    strings.TrimSpace(fallback),
		HasFallback: hasFallback,
	}, true
}

// MatchingParen returns the index of the paren that closes the one at open,
// or -1 when the parens are unbalanced. Quoted strings are skipped.
func MatchingParen(s string, open int) int {
	if open < 0 || open >= len(s) || s[open] != '(' {
		return -1
	}
	depth := 0
	var quote byte
	for i := open; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// ContainsReference reports whether a value mentions var(), anywhere
func ContainsReference(value string) bool {
	return strings.Contains(strings.ToLower(value), "var(")
}
