// Package config describes what a workspace root indexes and how.
package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"bennypowers.dev/cssvar/internal/collections"
	"bennypowers.dev/cssvar/internal/dialect"
	"github.com/bmatcuk/doublestar/v4"
)

// ImportAtRules are the at-rules whose target is indexed along with the importing file
var ImportAtRules = collections.NewSet("import", "use", "forward")

// EvaluatingAtRules are the at-rules whose blocks contribute declarations.
// Blocks of every other at-rule (keyframes, font-face, ...) are skipped.
var EvaluatingAtRules = collections.NewSet(
	"media", "supports", "layer", "page", "container", "scope", "document",
	"starting-style", "nest", "include", "mixin", "each", "if", "else",
	"for", "while", "at-root",
)

// Config is the per-root indexing configuration
type Config struct {
	// Files are the entry points: paths or doublestar globs relative to the
	// root, or http(s) URLs
	Files StringList `json:"files" yaml:"files"`

	// Ignore globs remove matches from Files
	Ignore StringList `json:"ignore" yaml:"ignore"`

	// Extensions limit which entry files are indexed
	Extensions StringList `json:"extensions" yaml:"extensions"`

	// Themes are patterns matched against rule selectors. Declarations under
	// a matching rule are tagged with the first matching pattern.
	Themes StringList `json:"themes" yaml:"themes"`

	// ExcludeThemedVariables drops themed declarations entirely
	ExcludeThemedVariables bool `json:"excludeThemedVariables" yaml:"excludeThemedVariables"`

	// Syntax maps a file extension to the stylesheet grammar to parse it
	// with, e.g. {"pcss": "scss"}
	Syntax map[string]string `json:"postcssSyntax" yaml:"postcssSyntax"`

	// PostcssPlugins is carried for compatibility and not interpreted
	PostcssPlugins StringList `json:"postcssPlugins" yaml:"postcssPlugins"`

	// Mode controls diagnostics for references to undeclared variables
	Mode Mode `json:"mode" yaml:"mode"`
}

// Default returns the configuration used when a root has none
func Default() *Config {
	return &Config{
		Files:      StringList{"index.css"},
		Extensions: StringList{"css", "scss", "sass", "less"},
		Themes:     StringList{},
		Mode:       Mode{Level: ModeWarn},
	}
}

// Clone returns a deep copy
func (c *Config) Clone() *Config {
	out := *c
	out.Files = slices.Clone(c.Files)
	out.Ignore = slices.Clone(c.Ignore)
	out.Extensions = slices.Clone(c.Extensions)
	out.Themes = slices.Clone(c.Themes)
	out.PostcssPlugins = slices.Clone(c.PostcssPlugins)
	out.Mode.Ignore = slices.Clone(c.Mode.Ignore)
	if c.Syntax != nil {
		out.Syntax = make(map[string]string, len(c.Syntax))
		for k, v := range c.Syntax {
			out.Syntax[k] = v
		}
	}
	return &out
}

// ThemeMatcher tags selectors with the theme they belong to
type ThemeMatcher struct {
	themes   []string
	patterns []*regexp.Regexp
}

// CompileThemes compiles the theme patterns
func (c *Config) CompileThemes() (*ThemeMatcher, error) {
	m := &ThemeMatcher{}
	for _, theme := range c.Themes {
		re, err := regexp.Compile(theme)
		if err != nil {
			return nil, fmt.Errorf("invalid theme pattern %q: %w", theme, err)
		}
		m.themes = append(m.themes, theme)
		m.patterns = append(m.patterns, re)
	}
	return m, nil
}

// Match returns the first theme whose pattern matches selector
func (m *ThemeMatcher) Match(selector string) (string, bool) {
	if m == nil {
		return "", false
	}
	for i, re := range m.patterns {
		if re.MatchString(selector) {
			return m.themes[i], true
		}
	}
	return "", false
}

// SyntaxFor returns the configured grammar override for path, if any
func (c *Config) SyntaxFor(path string) string {
	if len(c.Syntax) == 0 {
		return ""
	}
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	return c.Syntax[ext]
}

// AllowsExtension reports whether path has one of the configured extensions.
// An empty list allows everything.
func (c *Config) AllowsExtension(path string) bool {
	if len(c.Extensions) == 0 {
		return true
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	for _, allowed := range c.Extensions {
		allowed = strings.ToLower(strings.TrimPrefix(allowed, "."))
		if allowed == ext {
			return true
		}
		// language ids such as typescriptreact stand for their extensions
		if d := dialect.FromExtension(allowed); d != dialect.Unknown && d == dialect.FromExtension(ext) && d.IsScript() {
			return true
		}
	}
	return false
}

// Ignored reports whether a path relative to the root matches an ignore glob
func (c *Config) Ignored(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, pattern := range c.Ignore {
		if matched, err := doublestar.Match(filepath.ToSlash(pattern), rel); err == nil && matched {
			return true
		}
	}
	return false
}
