// Package resolver follows variable references to terminal values, derives
// colors and builds the lookup indices of a root.
package resolver

import (
	"strings"

	"bennypowers.dev/cssvar/internal/color"
	"bennypowers.dev/cssvar/internal/dialect"
	"bennypowers.dev/cssvar/internal/log"
	"bennypowers.dev/cssvar/internal/variables"
)

// Indices are the lookup tables of one root
type Indices struct {
	// Properties holds one declaration per name, the last one declared
	Properties variables.PropertyIndex
	// Locations holds every declaration site per name
	Locations variables.LocationIndex
	// Graph holds the references between variables
	Graph *DependencyGraph
}

// Resolve sets ResolvedValue and Color on every declaration of rec and
// builds the root's indices in the same pass.
func Resolve(rec *variables.Record) *Indices {
	r := newResolver(rec.Flatten())
	idx := &Indices{
		Properties: make(variables.PropertyIndex),
		Locations:  make(variables.LocationIndex),
	}

	var sites []*variables.Declaration
	for _, path := range rec.Paths() {
		fd, _ := rec.Get(path)
		shadowed := make(map[*variables.Declaration]bool, len(fd.Shadowed))
		for _, d := range fd.Shadowed {
			shadowed[d] = true
		}
		for _, d := range fd.Sites() {
			r.declaration(d)
			sites = append(sites, d)
			idx.Locations[d.Name] = append(idx.Locations[d.Name], d.Location())
			if !shadowed[d] {
				idx.Properties[d.Name] = d
			}
		}
	}

	idx.Graph = BuildDependencyGraph(sites)
	if cycle := idx.Graph.FindCycle(); cycle != nil {
		log.Debug("reference cycle: %s", strings.Join(cycle, " -> "))
	}
	return idx
}

type result struct {
	value string
	ok    bool
}

type resolver struct {
	// targets maps a name to the declaration references to it resolve against
	targets map[string]*variables.Declaration
	memo    map[string]result
	active  map[string]bool
}

// newResolver picks the reference target of each name: its first
// declaration outside any theme, else its first declaration.
func newResolver(decls []*variables.Declaration) *resolver {
	r := &resolver{
		targets: make(map[string]*variables.Declaration, len(decls)),
		memo:    make(map[string]result),
		active:  make(map[string]bool),
	}
	for _, d := range decls {
		current, ok := r.targets[d.Name]
		if !ok || (current.Theme != "" && d.Theme == "") {
			r.targets[d.Name] = d
		}
	}
	return r
}

func (r *resolver) declaration(d *variables.Declaration) {
	d.ResolvedValue = ""
	d.Color = ""
	if _, isRef := dialect.ParseReference(d.RawValue); isRef {
		if v, ok := r.value(d.RawValue); ok {
			d.ResolvedValue = v
		}
	}
	if c, ok := r.color(d.Value()); ok {
		d.Color = c
	}
}

// terminal resolves a variable name. ok is false for names that are not
// declared or sit on a reference cycle.
func (r *resolver) terminal(name string) (string, bool) {
	if res, ok := r.memo[name]; ok {
		return res.value, res.ok
	}
	if r.active[name] {
		return "", false
	}
	d, ok := r.targets[name]
	if !ok {
		return "", false
	}

	r.active[name] = true
	v, ok := r.value(d.RawValue)
	delete(r.active, name)

	r.memo[name] = result{v, ok}
	return v, ok
}

// value resolves a value that may be a bare reference
func (r *resolver) value(raw string) (string, bool) {
	ref, isRef := dialect.ParseReference(raw)
	if !isRef {
		return dialect.TrimFlags(raw), true
	}
	if v, ok := r.terminal(ref.Name); ok {
		return v, true
	}
	if ref.HasFallback && ref.Fallback != "" {
		return r.value(ref.Fallback)
	}
	return "", false
}

// color normalizes a value, resolving references in color function arguments first
func (r *resolver) color(value string) (string, bool) {
	value = dialect.TrimFlags(value)
	if fn, ok := color.SplitFunction(value); ok {
		for i, arg := range fn.Args {
			fn.Args[i] = r.argument(arg)
		}
		if fn.Alpha != "" {
			fn.Alpha = r.argument(fn.Alpha)
		}
		value = fn.String()
	}
	res := color.Normalize(value)
	return res.Value, res.IsColor
}

// argument resolves a color function argument. A bare reference resolves to
// its terminal value, and var() calls left in the result are expanded in turn.
func (r *resolver) argument(arg string) string {
	if v, ok := r.value(arg); ok {
		arg = v
	}
	return r.expand(arg)
}

// expand substitutes every resolvable var() call in text. Calls that cannot
// be resolved, including those on a reference cycle, are kept verbatim.
func (r *resolver) expand(text string) string {
	var b strings.Builder
	for {
		i := indexVar(text)
		if i < 0 {
			break
		}
		end := dialect.MatchingParen(text, i+3)
		if end < 0 {
			break
		}
		b.WriteString(text[:i])
		call := text[i : end+1]
		if v, ok := r.call(call); ok {
			b.WriteString(v)
		} else {
			b.WriteString(call)
		}
		text = text[end+1:]
	}
	b.WriteString(text)
	return b.String()
}

func (r *resolver) call(call string) (string, bool) {
	ref, ok := dialect.ParseReference(call)
	if !ok {
		return "", false
	}
	if v, ok := r.expanded(ref.Name); ok {
		return v, true
	}
	if ref.HasFallback && ref.Fallback != "" {
		return r.expand(ref.Fallback), true
	}
	return "", false
}

// expanded is the terminal value of name with its own var() calls expanded
func (r *resolver) expanded(name string) (string, bool) {
	if r.active[name] {
		return "", false
	}
	d, ok := r.targets[name]
	if !ok {
		return "", false
	}
	r.active[name] = true
	defer delete(r.active, name)

	v, ok := r.value(d.RawValue)
	if !ok {
		return "", false
	}
	return r.expand(v), true
}

// indexVar finds the first var( that starts an identifier
func indexVar(text string) int {
	for i := 0; i+4 <= len(text); i++ {
		if !strings.EqualFold(text[i:i+4], "var(") {
			continue
		}
		if i > 0 && isIdent(text[i-1]) {
			continue
		}
		return i
	}
	return -1
}

func isIdent(c byte) bool {
	return c == '-' || c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// Value resolves a value against the declarations of a root without
// modifying them
func Value(decls []*variables.Declaration, raw string) (string, bool) {
	return newResolver(decls).value(raw)
}

// Color resolves and normalizes a value against the declarations of a root
func Color(decls []*variables.Declaration, raw string) (string, bool) {
	r := newResolver(decls)
	if v, ok := r.value(raw); ok {
		raw = v
	}
	return r.color(raw)
}
