package extract

import (
	"path/filepath"
	"strings"

	"bennypowers.dev/cssvar/internal/uriutil"
)

// resolveImports returns the existing targets of an import at-rule in from.
// Targets that cannot be found are dropped without error.
func (e *Extractor) resolveImports(from, params string) []string {
	var out []string
	for _, target := range ImportTargets(params) {
		if uriutil.IsRemote(target) {
			out = append(out, target)
			continue
		}
		if path, ok := e.locate(from, target); ok {
			out = append(out, path)
		}
	}
	return out
}

// locate finds target relative to the importing file. A target without an
// extension takes the importer's; a missing file is retried as a partial
// (_name).
func (e *Extractor) locate(from, target string) (string, bool) {
	if strings.Contains(target, ":") && !filepath.IsAbs(target) {
		// built-in modules (sass:math) and other schemes
		return "", false
	}
	if filepath.Ext(target) == "" {
		target += filepath.Ext(from)
	}
	path := target
	if !filepath.IsAbs(path) {
		path = filepath.Join(filepath.Dir(from), filepath.FromSlash(target))
	}
	candidates := []string{
		path,
		filepath.Join(filepath.Dir(path), "_"+filepath.Base(path)),
	}
	for _, c := range candidates {
		if info, err := e.stat(c); err == nil && !info.IsDir() {
			return c, true
		}
	}
	return "", false
}

// ImportTargets extracts the targets of import at-rule params: a quoted
// string or url(), optionally preceded by Less import options and followed
// by further comma-separated targets.
//
//	"a.css" screen          -> a.css
//	url(b.css)              -> b.css
//	(reference) "c"         -> c
//	"d", 'e'                -> d, e
func ImportTargets(params string) []string {
	var out []string
	s := strings.TrimSpace(params)
	if strings.HasPrefix(s, "(") {
		if end := strings.IndexByte(s, ')'); end >= 0 {
			s = strings.TrimSpace(s[end+1:])
		}
	}
	for s != "" {
		var target string
		switch {
		case s[0] == '"' || s[0] == '\'':
			end := strings.IndexByte(s[1:], s[0])
			if end < 0 {
				return out
			}
			target, s = s[1:end+1], s[end+2:]
		case len(s) > 4 && strings.EqualFold(s[:4], "url("):
			end := strings.IndexByte(s, ')')
			if end < 0 {
				return out
			}
			target = strings.Trim(strings.TrimSpace(s[4:end]), `"'`)
			s = s[end+1:]
		default:
			return out
		}
		if target = strings.TrimSpace(target); target != "" {
			out = append(out, target)
		}
		s = strings.TrimSpace(s)
		if !strings.HasPrefix(s, ",") {
			return out
		}
		s = strings.TrimSpace(s[1:])
	}
	return out
}
