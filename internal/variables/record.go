package variables

import (
	"cmp"
	"slices"
)

// FileDeclarations holds the declarations extracted from one file.
//
// Declarations is deduplicated by name with the first occurrence winning.
// Shadowed keeps the later occurrences so every site can still be offered
// as a definition.
type FileDeclarations struct {
	Path         string
	Declarations []*Declaration
	Shadowed     []*Declaration
}

// NewFileDeclarations splits extracted declarations into first occurrences
// and shadowed duplicates
func NewFileDeclarations(path string, decls []*Declaration) *FileDeclarations {
	fd := &FileDeclarations{
		Path:         path,
		Declarations: make([]*Declaration, 0, len(decls)),
	}
	seen := make(map[string]bool, len(decls))
	for _, d := range decls {
		if seen[d.Name] {
			fd.Shadowed = append(fd.Shadowed, d)
			continue
		}
		seen[d.Name] = true
		fd.Declarations = append(fd.Declarations, d)
	}
	return fd
}

// Sites returns every declaration of the file, shadowed included, in source order
func (fd *FileDeclarations) Sites() []*Declaration {
	all := make([]*Declaration, 0, len(fd.Declarations)+len(fd.Shadowed))
	all = append(all, fd.Declarations...)
	all = append(all, fd.Shadowed...)
	slices.SortStableFunc(all, func(a, b *Declaration) int {
		if c := cmp.Compare(a.SourceFile, b.SourceFile); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Range.Start.Line, b.Range.Start.Line); c != 0 {
			return c
		}
		return cmp.Compare(a.Range.Start.Character, b.Range.Start.Character)
	})
	return all
}

// Record maps file paths to their declarations for one workspace root.
//
// A Record is treated as immutable once published: the cache swaps in a new
// Record when any file changes, so callers can detect change by pointer
// comparison. Keys keep insertion order.
type Record struct {
	files map[string]*FileDeclarations
	order []string
}

// NewRecord returns an empty record
func NewRecord() *Record {
	return &Record{files: make(map[string]*FileDeclarations)}
}

// Clone returns a shallow copy that can be modified without touching r
func (r *Record) Clone() *Record {
	c := &Record{
		files: make(map[string]*FileDeclarations, len(r.files)),
		order: slices.Clone(r.order),
	}
	for k, v := range r.files {
		c.files[k] = v
	}
	return c
}

// Set stores the declarations of a file, keeping its original position if it was known
func (r *Record) Set(fd *FileDeclarations) {
	if _, ok := r.files[fd.Path]; !ok {
		r.order = append(r.order, fd.Path)
	}
	r.files[fd.Path] = fd
}

// Delete forgets a file
func (r *Record) Delete(path string) {
	if _, ok := r.files[path]; !ok {
		return
	}
	delete(r.files, path)
	r.order = slices.DeleteFunc(r.order, func(p string) bool { return p == path })
}

// Get returns the declarations of a file
func (r *Record) Get(path string) (*FileDeclarations, bool) {
	fd, ok := r.files[path]
	return fd, ok
}

// Has reports whether a file is part of the record
func (r *Record) Has(path string) bool {
	_, ok := r.files[path]
	return ok
}

// Paths returns the file paths in insertion order
func (r *Record) Paths() []string {
	return slices.Clone(r.order)
}

// Len returns the number of files
func (r *Record) Len() int {
	return len(r.files)
}

// Flatten concatenates the deduplicated declarations of every file in insertion order
func (r *Record) Flatten() []*Declaration {
	var all []*Declaration
	for _, path := range r.order {
		all = append(all, r.files[path].Declarations...)
	}
	return all
}

// Sites concatenates every declaration site of every file in insertion order
func (r *Record) Sites() []*Declaration {
	var all []*Declaration
	for _, path := range r.order {
		all = append(all, r.files[path].Sites()...)
	}
	return all
}
