package resolver

import (
	"regexp"
	"slices"

	"bennypowers.dev/cssvar/internal/variables"
)

// referencePattern finds every variable mentioned in a value: var(--x), $x, @x
var referencePattern = regexp.MustCompile(`(?i)var\(\s*(--[\w-]+)|([$@][\w-]+)`)

// References returns the variable names a value mentions, in order, without repeats
func References(value string) []string {
	var refs []string
	for _, m := range referencePattern.FindAllStringSubmatch(value, -1) {
		name := m[1]
		if name == "" {
			name = m[2]
		}
		if !slices.Contains(refs, name) {
			refs = append(refs, name)
		}
	}
	return refs
}

// DependencyGraph is the directed graph of references between variables
type DependencyGraph struct {
	// adjacency list: name -> names it references
	dependencies map[string][]string
	// reverse lookup: name -> names referencing it
	dependents map[string][]string
	// every declared name, in first-declaration order
	nodes []string
}

// BuildDependencyGraph builds the reference graph of a list of declarations
func BuildDependencyGraph(decls []*variables.Declaration) *DependencyGraph {
	graph := &DependencyGraph{
		dependencies: make(map[string][]string),
		dependents:   make(map[string][]string),
	}

	seen := make(map[string]bool, len(decls))
	for _, d := range decls {
		if !seen[d.Name] {
			seen[d.Name] = true
			graph.nodes = append(graph.nodes, d.Name)
		}
		for _, dep := range References(d.RawValue) {
			if slices.Contains(graph.dependencies[d.Name], dep) {
				continue
			}
			graph.dependencies[d.Name] = append(graph.dependencies[d.Name], dep)
			graph.dependents[dep] = append(graph.dependents[dep], d.Name)
		}
	}

	return graph
}

// GetDependencies returns the names the given variable references
func (g *DependencyGraph) GetDependencies(name string) []string {
	if deps, ok := g.dependencies[name]; ok {
		return deps
	}
	return []string{}
}

// GetDependents returns the names of the variables referencing the given one
func (g *DependencyGraph) GetDependents(name string) []string {
	if deps, ok := g.dependents[name]; ok {
		return deps
	}
	return []string{}
}

// HasCycle returns true if any variable references itself through a chain
func (g *DependencyGraph) HasCycle() bool {
	return g.FindCycle() != nil
}

// FindCycle returns the first reference cycle, starting and ending with the
// same name, or nil if there is none
func (g *DependencyGraph) FindCycle() []string {
	visited := make(map[string]bool)
	recStack := make(map[string]bool)

	for _, node := range g.nodes {
		if cycle := g.findCycleDFS(node, visited, recStack, nil); cycle != nil {
			return cycle
		}
	}

	return nil
}

func (g *DependencyGraph) findCycleDFS(node string, visited, recStack map[string]bool, path []string) []string {
	if recStack[node] {
		start := slices.Index(path, node)
		return append(slices.Clone(path[start:]), node)
	}
	if visited[node] {
		return nil
	}

	visited[node] = true
	recStack[node] = true
	path = append(path, node)

	for _, dep := range g.dependencies[node] {
		if cycle := g.findCycleDFS(dep, visited, recStack, path); cycle != nil {
			return cycle
		}
	}

	recStack[node] = false
	return nil
}
