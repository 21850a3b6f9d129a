package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"bennypowers.dev/cssvar/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
	assert.Equal(t, config.StringList{"index.css"}, cfg.Files)
	assert.False(t, cfg.ExcludeThemedVariables)
}

func TestLoadRCJSON(t *testing.T) {
	root := t.TempDir()
	write(t, root, ".cssvarrc.json", `{
		// comments are allowed
		"files": "src/vars.css",
		"themes": ["dark", "light"],
		"excludeThemedVariables": true,
	}`)

	cfg, err := config.Load(root)
	require.NoError(t, err)
	assert.Equal(t, config.StringList{"src/vars.css"}, cfg.Files)
	assert.Equal(t, config.StringList{"dark", "light"}, cfg.Themes)
	assert.True(t, cfg.ExcludeThemedVariables)
	// untouched fields keep defaults
	assert.Equal(t, config.StringList{"css", "scss", "sass", "less"}, cfg.Extensions)
}

func TestLoadRCYAML(t *testing.T) {
	root := t.TempDir()
	write(t, root, ".cssvarrc.yaml", "files:\n  - a.scss\n  - b.less\nignore: legacy/**\npostcssSyntax:\n  pcss: scss\n")

	cfg, err := config.Load(root)
	require.NoError(t, err)
	assert.Equal(t, config.StringList{"a.scss", "b.less"}, cfg.Files)
	assert.Equal(t, config.StringList{"legacy/**"}, cfg.Ignore)
	assert.Equal(t, "scss", cfg.SyntaxFor("x/y.pcss"))
	assert.Equal(t, "", cfg.SyntaxFor("x/y.css"))
}

func TestLoadPackageJSON(t *testing.T) {
	t.Run("with config", func(t *testing.T) {
		root := t.TempDir()
		write(t, root, "package.json", `{"name": "x", "cssvar": {"files": ["tokens/*.css"]}}`)
		cfg, err := config.Load(root)
		require.NoError(t, err)
		assert.Equal(t, config.StringList{"tokens/*.css"}, cfg.Files)
	})

	t.Run("without config", func(t *testing.T) {
		root := t.TempDir()
		write(t, root, "package.json", `{"name": "x"}`)
		cfg, err := config.Load(root)
		require.NoError(t, err)
		assert.Equal(t, config.Default(), cfg)
	})

	t.Run("not an object", func(t *testing.T) {
		root := t.TempDir()
		write(t, root, "package.json", `{"cssvar": ["a.css"]}`)
		_, err := config.Load(root)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be an object")
	})

	t.Run("invalid json", func(t *testing.T) {
		root := t.TempDir()
		write(t, root, "package.json", `{"cssvar": `)
		_, err := config.Load(root)
		require.Error(t, err)
	})

	t.Run("rc file wins", func(t *testing.T) {
		root := t.TempDir()
		write(t, root, "package.json", `{"cssvar": {"files": ["pkg.css"]}}`)
		write(t, root, ".cssvarrc.json", `{"files": ["rc.css"]}`)
		cfg, err := config.Load(root)
		require.NoError(t, err)
		assert.Equal(t, config.StringList{"rc.css"}, cfg.Files)
	})
}

func TestLoadWrongFieldType(t *testing.T) {
	root := t.TempDir()
	write(t, root, ".cssvarrc.json", `{"files": 42}`)
	_, err := config.Load(root)
	require.Error(t, err)
}

func TestResolve(t *testing.T) {
	root := t.TempDir()
	write(t, root, "index.css", ":root{}")
	write(t, root, "src/a.css", ":root{}")
	write(t, root, "src/b.scss", ":root{}")
	write(t, root, "src/c.txt", "")
	write(t, root, "src/legacy/d.css", ":root{}")
	write(t, root, "node_modules/pkg/e.css", ":root{}")

	cfg := config.Default()
	cfg.Files = config.StringList{
		"index.css",
		"src/**/*",
		"missing.css",
		"https://example.com/vars.css",
	}
	cfg.Ignore = config.StringList{"src/legacy/**"}

	files, err := config.Resolve(root, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "index.css"),
		filepath.Join(root, "src", "a.css"),
		filepath.Join(root, "src", "b.scss"),
		filepath.Join(root, "missing.css"),
		"https://example.com/vars.css",
	}, files)
}

func TestResolveSkipsDependencies(t *testing.T) {
	root := t.TempDir()
	write(t, root, "node_modules/pkg/e.css", ":root{}")
	write(t, root, "styles/e.css", ":root{}")

	cfg := config.Default()
	cfg.Files = config.StringList{"**/*.css"}

	files, err := config.Resolve(root, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "styles", "e.css")}, files)
}

func TestResolveDeduplicates(t *testing.T) {
	root := t.TempDir()
	write(t, root, "a.css", "")

	cfg := config.Default()
	cfg.Files = config.StringList{"a.css", "*.css", filepath.Join(root, "a.css")}

	files, err := config.Resolve(root, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "a.css")}, files)
}

func TestThemes(t *testing.T) {
	cfg := config.Default()
	cfg.Themes = config.StringList{"dark", `\.light\b`}

	m, err := cfg.CompileThemes()
	require.NoError(t, err)

	tests := []struct {
		selector string
		theme    string
		ok       bool
	}{
		{":root", "", false},
		{`[data-theme="dark"]`, "dark", true},
		{".light", `\.light\b`, true},
		{".lighter", "", false},
		{".dark.light", "dark", true},
	}
	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			theme, ok := m.Match(tt.selector)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.theme, theme)
		})
	}

	cfg.Themes = config.StringList{"("}
	_, err = cfg.CompileThemes()
	assert.Error(t, err)
}

func TestAllowsExtension(t *testing.T) {
	cfg := config.Default()
	assert.True(t, cfg.AllowsExtension("a.css"))
	assert.True(t, cfg.AllowsExtension("a.LESS"))
	assert.False(t, cfg.AllowsExtension("a.tsx"))

	cfg.Extensions = config.StringList{"typescriptreact"}
	assert.True(t, cfg.AllowsExtension("a.tsx"))
	assert.True(t, cfg.AllowsExtension("a.js"))

	cfg.Extensions = nil
	assert.True(t, cfg.AllowsExtension("a.anything"))
}

func TestClone(t *testing.T) {
	cfg := config.Default()
	cfg.Syntax = map[string]string{"pcss": "scss"}
	clone := cfg.Clone()
	clone.Files[0] = "changed.css"
	clone.Syntax["pcss"] = "less"
	assert.Equal(t, "index.css", cfg.Files[0])
	assert.Equal(t, "scss", cfg.Syntax["pcss"])
}

func TestEvaluatingAtRules(t *testing.T) {
	assert.True(t, config.EvaluatingAtRules.Has("media"))
	assert.False(t, config.EvaluatingAtRules.Has("keyframes"))
	assert.True(t, config.ImportAtRules.Has("use"))
}

func TestMode(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		assert.Equal(t, config.ModeWarn, config.Default().Mode.Level)
	})

	t.Run("json level", func(t *testing.T) {
		root := t.TempDir()
		write(t, root, ".cssvarrc.json", `{"mode": "error"}`)
		cfg, err := config.Load(root)
		require.NoError(t, err)
		assert.Equal(t, config.ModeError, cfg.Mode.Level)
		assert.Empty(t, cfg.Mode.Ignore)
	})

	t.Run("json tuple", func(t *testing.T) {
		root := t.TempDir()
		write(t, root, ".cssvarrc.json", `{"mode": ["off", {"ignore": ["^--x-", "legacy"]}]}`)
		cfg, err := config.Load(root)
		require.NoError(t, err)
		assert.Equal(t, config.ModeOff, cfg.Mode.Level)
		assert.Equal(t, config.StringList{"^--x-", "legacy"}, cfg.Mode.Ignore)
	})

	t.Run("yaml tuple", func(t *testing.T) {
		root := t.TempDir()
		write(t, root, ".cssvarrc.yml", "mode:\n  - warn\n  - ignore: ^--x-\n")
		cfg, err := config.Load(root)
		require.NoError(t, err)
		assert.Equal(t, config.ModeWarn, cfg.Mode.Level)
		assert.Equal(t, config.StringList{"^--x-"}, cfg.Mode.Ignore)
	})

	t.Run("unknown level", func(t *testing.T) {
		root := t.TempDir()
		write(t, root, ".cssvarrc.json", `{"mode": "loud"}`)
		_, err := config.Load(root)
		assert.Error(t, err)
	})

	t.Run("ignore matcher", func(t *testing.T) {
		m, err := config.Mode{Level: config.ModeWarn, Ignore: config.StringList{"^--x-"}}.CompileIgnore()
		require.NoError(t, err)
		assert.True(t, m.Match("--x-brand"))
		assert.False(t, m.Match("--brand"))

		_, err = config.Mode{Ignore: config.StringList{"("}}.CompileIgnore()
		assert.Error(t, err)
	})
}
