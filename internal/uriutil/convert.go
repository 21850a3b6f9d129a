package uriutil

import (
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
)

// PathToURI converts a file system path to a file:// URI, percent-encoding
// each path segment.
//
//   - /home/user/a b.css -> file:///home/user/a%20b.css
//   - C:\proj\index.css -> file:///C:/proj/index.css
//   - \\server\share\x.css -> file://server/share/x.css
func PathToURI(path string) string {
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	if runtime.GOOS == "windows" && strings.HasPrefix(absPath, `\\`) {
		uncPath := filepath.ToSlash(strings.TrimPrefix(absPath, `\\`))
		return "file://" + escapeSegments(uncPath)
	}

	absPath = filepath.ToSlash(absPath)
	if !strings.HasPrefix(absPath, "/") {
		absPath = "/" + absPath
	}

	return "file://" + escapeSegments(absPath)
}

func escapeSegments(p string) string {
	segments := strings.Split(p, "/")
	for i, seg := range segments {
		if seg == "" {
			continue
		}
		// Keep Windows drive letters readable (C:)
		if i == 1 && len(seg) == 2 && seg[1] == ':' {
			continue
		}
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

// URIToPath converts a file:// URI back to a file system path.
// Non-file URIs and unparsable input are handled leniently.
func URIToPath(uri string) string {
	parsed, err := url.Parse(uri)
	if err != nil || parsed.Scheme != "file" {
		return uriFallback(uri)
	}

	path := parsed.Path
	if parsed.Host != "" {
		if runtime.GOOS == "windows" {
			return `\\` + parsed.Host + strings.ReplaceAll(path, "/", `\`)
		}
		return parsed.Host + path
	}

	// /C:/proj -> C:/proj
	if len(path) >= 3 && path[0] == '/' && path[2] == ':' {
		path = path[1:]
	}

	return filepath.FromSlash(path)
}

func uriFallback(uri string) string {
	path := strings.TrimPrefix(uri, "file://")
	if len(path) >= 3 && path[0] == '/' && path[2] == ':' {
		path = path[1:]
	}
	return filepath.FromSlash(path)
}

// IsRemote reports whether a configured file entry points to an http(s) asset
func IsRemote(entry string) bool {
	lower := strings.ToLower(entry)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
