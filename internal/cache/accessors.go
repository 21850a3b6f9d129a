package cache

import (
	"cmp"
	"slices"

	"bennypowers.dev/cssvar/internal/collections"
	"bennypowers.dev/cssvar/internal/dialect"
	"bennypowers.dev/cssvar/internal/usage"
	"bennypowers.dev/cssvar/internal/variables"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// The accessors below return shared data. Callers must treat it as read-only.

// ResolveDeclarationsForRoot returns the declaration per variable name of a
// root, the last declared one winning. It is nil for unknown roots.
func (idx *Index) ResolveDeclarationsForRoot(root string) variables.PropertyIndex {
	st := idx.state(root)
	if st == nil {
		return nil
	}
	return st.indices.Properties
}

// LocationsForRoot returns every declaration site per variable name of a root
func (idx *Index) LocationsForRoot(root string) variables.LocationIndex {
	st := idx.state(root)
	if st == nil {
		return nil
	}
	return st.indices.Locations
}

// Record returns the current record of a root
func (idx *Index) Record(root string) *variables.Record {
	st := idx.state(root)
	if st == nil {
		return nil
	}
	return st.record
}

// FileMeta returns what the index knows about a tracked file
func (idx *Index) FileMeta(root, path string) (variables.FileMeta, bool) {
	st := idx.state(root)
	if st == nil {
		return variables.FileMeta{}, false
	}
	meta, ok := st.metas[path]
	return meta, ok
}

// WatchSet returns every file the root's index depends on, imports included
func (idx *Index) WatchSet(root string) []string {
	st := idx.state(root)
	if st == nil {
		return nil
	}
	return collections.Sorted(st.watch)
}

// Roots returns the indexed roots
func (idx *Index) Roots() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	roots := make([]string, 0, len(idx.roots))
	for root := range idx.roots {
		roots = append(roots, root)
	}
	slices.Sort(roots)
	return roots
}

// Variables lists the declarations of a root for completion, ordered by
// file and then by position
func (idx *Index) Variables(root string) []*variables.Declaration {
	st := idx.state(root)
	if st == nil {
		return nil
	}
	vars := st.record.Flatten()
	slices.SortStableFunc(vars, func(a, b *variables.Declaration) int {
		if c := cmp.Compare(a.SourceFile, b.SourceFile); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Range.Start.Line, b.Range.Start.Line); c != 0 {
			return c
		}
		return cmp.Compare(a.Range.Start.Character, b.Range.Start.Character)
	})
	return vars
}

// Lookup returns the effective declaration of a variable
func (idx *Index) Lookup(root, name string) (*variables.Declaration, bool) {
	d, ok := idx.ResolveDeclarationsForRoot(root)[name]
	return d, ok
}

// Definitions returns every declaration site of a variable
func (idx *Index) Definitions(root, name string) []protocol.Location {
	return idx.LocationsForRoot(root)[name]
}

// DefinitionAt returns the declaration sites of the variable referenced by
// the var() call at a position of a document
func (idx *Index) DefinitionAt(root string, d dialect.Dialect, content string, line, character uint32) []protocol.Location {
	ref, ok := usage.ReferenceAt(d, content, line, character)
	if !ok {
		return nil
	}
	return idx.Definitions(root, ref.Name)
}

// Dependents returns the names of the variables that reference name
func (idx *Index) Dependents(root, name string) []string {
	st := idx.state(root)
	if st == nil {
		return nil
	}
	return st.indices.Graph.GetDependents(name)
}
