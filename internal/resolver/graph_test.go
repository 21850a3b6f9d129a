package resolver_test

import (
	"testing"

	"bennypowers.dev/cssvar/internal/resolver"
	"bennypowers.dev/cssvar/internal/variables"
	"github.com/stretchr/testify/assert"
)

func TestReferences(t *testing.T) {
	tests := []struct {
		value string
		want  []string
	}{
		{"red", nil},
		{"var(--a)", []string{"--a"}},
		{"var( --a , var(--b))", []string{"--a", "--b"}},
		{"calc(var(--a) + var(--a))", []string{"--a"}},
		{"$base * 2", []string{"$base"}},
		{"darken(@brand, 10%)", []string{"@brand"}},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, resolver.References(tt.value))
		})
	}
}

func TestBuildDependencyGraph(t *testing.T) {
	t.Run("chained dependencies", func(t *testing.T) {
		graph := resolver.BuildDependencyGraph([]*variables.Declaration{
			decl("/w/a.css", 0, "--a", "red"),
			decl("/w/a.css", 1, "--b", "var(--a)"),
			decl("/w/a.css", 2, "--c", "color-mix(in srgb, var(--a), var(--b))"),
		})

		assert.Empty(t, graph.GetDependencies("--a"))
		assert.Equal(t, []string{"--a"}, graph.GetDependencies("--b"))
		assert.Equal(t, []string{"--a", "--b"}, graph.GetDependencies("--c"))
		assert.Equal(t, []string{"--b", "--c"}, graph.GetDependents("--a"))
		assert.Empty(t, graph.GetDependents("--c"))
		assert.False(t, graph.HasCycle())
		assert.Nil(t, graph.FindCycle())
	})

	t.Run("detect circular dependencies", func(t *testing.T) {
		graph := resolver.BuildDependencyGraph([]*variables.Declaration{
			decl("/w/a.css", 0, "--ok", "1px"),
			decl("/w/a.css", 1, "--a", "var(--b)"),
			decl("/w/a.css", 2, "--b", "var(--c)"),
			decl("/w/a.css", 3, "--c", "var(--a)"),
		})

		assert.True(t, graph.HasCycle())
		assert.Equal(t, []string{"--a", "--b", "--c", "--a"}, graph.FindCycle())
	})

	t.Run("duplicate declarations share a node", func(t *testing.T) {
		graph := resolver.BuildDependencyGraph([]*variables.Declaration{
			decl("/w/a.css", 0, "--a", "var(--x)"),
			decl("/w/b.css", 0, "--a", "var(--x)"),
		})
		assert.Equal(t, []string{"--x"}, graph.GetDependencies("--a"))
		assert.Equal(t, []string{"--a"}, graph.GetDependents("--x"))
	})
}
