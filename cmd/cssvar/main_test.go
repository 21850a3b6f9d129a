package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { asJSON = false })
	err := rootCmd.Execute()
	return out.String(), err
}

func fixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"index.css":      ":root {\n  --brand: #ff0000;\n  --accent: var(--brand);\n}\n",
		"page.css":       ".a { color: var(--accent); margin: var(--nope); }\n",
		".cssvarrc.json": `{"files": ["index.css"], "mode": "error"}`,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte(content), 0o644))
	}
	return root
}

func TestColorCommand(t *testing.T) {
	out, err := execute(t, "color", "hsl(0, 100%, 50%)")
	require.NoError(t, err)
	assert.Equal(t, "rgb(255, 0, 0)\n#ff0000\n", out)

	_, err = execute(t, "color", "notacolor")
	assert.Error(t, err)
}

func TestIndexCommand(t *testing.T) {
	root := fixture(t)

	out, err := execute(t, "index", "--offline", "--json", root)
	require.NoError(t, err)

	var results []indexJSON
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	require.Len(t, results[0].Variables, 2)
	assert.Equal(t, "--accent", results[0].Variables[1].Name)
	assert.Equal(t, "rgb(255, 0, 0)", results[0].Variables[1].Color)
}

func TestIndexCommandFailingRoot(t *testing.T) {
	good := fixture(t)
	bad := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(bad, ".cssvarrc.json"), []byte(`{"files": `), 0o644))

	out, err := execute(t, "index", "--offline", good, bad)
	require.NoError(t, err)
	assert.Contains(t, out, "warning: configuration error in "+bad)
	assert.Contains(t, out, good+": 2 variable(s) in 1 file(s)")
	assert.Contains(t, out, "--accent: var(--brand)")
	assert.Equal(t, 1, strings.Count(out, "variable(s)"))

	_, err = execute(t, "index", "--offline", bad)
	assert.ErrorContains(t, err, "failed to parse .cssvarrc.json")
}

func TestLookupCommand(t *testing.T) {
	root := fixture(t)

	out, err := execute(t, "lookup", "--offline", "--root", root, "--", "--brand")
	require.NoError(t, err)
	assert.Contains(t, out, "index.css:2:3")
	assert.Contains(t, out, "used by: --accent")

	_, err = execute(t, "lookup", "--offline", "--root", root, "--", "--missing")
	assert.Error(t, err)
}

func TestCheckCommand(t *testing.T) {
	root := fixture(t)

	out, err := execute(t, "check", "--offline", "--root", root, filepath.Join(root, "page.css"))
	assert.Error(t, err)
	assert.Contains(t, out, "page.css:1:40: error: Cannot find cssvar --nope.")
	assert.NotContains(t, out, "--accent")
}
