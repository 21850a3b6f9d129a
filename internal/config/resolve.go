package config

import (
	"fmt"
	"os"
	"path/filepath"

	"bennypowers.dev/cssvar/internal/collections"
	"bennypowers.dev/cssvar/internal/uriutil"
	"github.com/bmatcuk/doublestar/v4"
)

// Resolve expands the configured entry files of root into absolute paths.
// Globs expand against the file system and drop directories, ignored paths
// and disallowed extensions. Literal paths are kept even when missing so
// the indexer can report them; remote URLs pass through untouched.
func Resolve(root string, cfg *Config) ([]string, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root %s: %w", root, err)
	}
	fsys := os.DirFS(root)

	seen := collections.NewSet[string]()
	var out []string
	add := func(p string) {
		if !seen.Has(p) {
			seen.Add(p)
			out = append(out, p)
		}
	}

	for _, entry := range cfg.Files {
		if uriutil.IsRemote(entry) {
			add(entry)
			continue
		}

		if filepath.IsAbs(entry) {
			rel, err := filepath.Rel(root, entry)
			if err != nil || !filepath.IsLocal(rel) {
				add(filepath.Clean(entry))
				continue
			}
			entry = rel
		}
		pattern := filepath.ToSlash(filepath.Clean(entry))

		if !hasMeta(pattern) {
			if !cfg.Ignored(pattern) {
				add(filepath.Join(root, filepath.FromSlash(pattern)))
			}
			continue
		}

		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expanding %q: %w", entry, err)
		}
		for _, m := range matches {
			if cfg.Ignored(m) || !cfg.AllowsExtension(m) || inSkippedDir(m) {
				continue
			}
			add(filepath.Join(root, filepath.FromSlash(m)))
		}
	}
	return out, nil
}

func hasMeta(pattern string) bool {
	for i := 0; i < len(pattern); i++ {
		switch pattern[i] {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}

// inSkippedDir keeps globs out of dependency and build output directories
func inSkippedDir(rel string) bool {
	for dir := filepath.Dir(rel); dir != "." && dir != "/"; dir = filepath.Dir(dir) {
		switch filepath.Base(dir) {
		case "node_modules", "dist", "build":
			return true
		}
	}
	return false
}
