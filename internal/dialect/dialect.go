// Package dialect enumerates the stylesheet source syntaxes the indexer
// understands and the per-dialect rules for declaring and referencing
// variables.
package dialect

import (
	"path/filepath"
	"strings"
)

// Dialect is a supported source syntax
type Dialect int

const (
	// Unknown is any extension the indexer does not handle
	Unknown Dialect = iota
	// CSS is plain CSS with custom properties
	CSS
	// SCSS is the brace-delimited Sass syntax
	SCSS
	// Sass is the indented Sass syntax; it is parsed with the SCSS grammar
	Sass
	// Less is the Less syntax with @variables
	Less
	// Script is JavaScript/TypeScript (including JSX/TSX) with CSS in template literals
	Script
	// HTML is markup whose <style> elements hold CSS
	HTML
)

var names = map[Dialect]string{
	Unknown: "unknown",
	CSS:     "css",
	SCSS:    "scss",
	Sass:    "sass",
	Less:    "less",
	Script:  "script",
	HTML:    "html",
}

func (d Dialect) String() string {
	if name, ok := names[d]; ok {
		return name
	}
	return "unknown"
}

// extensions maps file extensions and editor language ids to dialects
var extensions = map[string]Dialect{
	"css":             CSS,
	"pcss":            CSS,
	"postcss":         CSS,
	"scss":            SCSS,
	"sass":            Sass,
	"less":            Less,
	"js":              Script,
	"jsx":             Script,
	"mjs":             Script,
	"cjs":             Script,
	"ts":              Script,
	"tsx":             Script,
	"mts":             Script,
	"cts":             Script,
	"javascript":      Script,
	"javascriptreact": Script,
	"typescript":      Script,
	"typescriptreact": Script,
	"html":            HTML,
	"htm":             HTML,
	"vue":             HTML,
	"svelte":          HTML,
}

// FromExtension resolves an extension ("css", ".tsx") or language id
// ("typescriptreact") to a dialect
func FromExtension(ext string) Dialect {
	key := strings.ToLower(strings.TrimPrefix(ext, "."))
	if d, ok := extensions[key]; ok {
		return d
	}
	return Unknown
}

// FromPath resolves the dialect of a file by its extension
func FromPath(path string) Dialect {
	return FromExtension(filepath.Ext(path))
}

// IsScript reports whether sources of this dialect need the template-literal pre-processor
func (d Dialect) IsScript() bool {
	return d == Script
}

// IsStylesheet reports whether the dialect is parsed directly, without pre-processing
func (d Dialect) IsStylesheet() bool {
	switch d {
	case CSS, SCSS, Sass, Less:
		return true
	}
	return false
}

// Sigils returns the declaration prefixes that mark a variable in this dialect.
// Native custom properties are recognized everywhere.
func (d Dialect) Sigils() []string {
	switch d {
	case SCSS, Sass:
		return []string{"--", "$"}
	case Less:
		return []string{"--", "@"}
	default:
		return []string{"--"}
	}
}

// IsVariable reports whether a declaration property is a variable in this dialect
func (d Dialect) IsVariable(prop string) bool {
	for _, sigil := range d.Sigils() {
		if strings.HasPrefix(prop, sigil) && len(prop) > len(sigil) {
			return true
		}
	}
	return false
}
