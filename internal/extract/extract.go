// Package extract walks parsed stylesheets for variable declarations and
// the imports that pull further files into the index.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"bennypowers.dev/cssvar/internal/config"
	"bennypowers.dev/cssvar/internal/dialect"
	"bennypowers.dev/cssvar/internal/log"
	"bennypowers.dev/cssvar/internal/position"
	"bennypowers.dev/cssvar/internal/preprocess"
	"bennypowers.dev/cssvar/internal/stylesheet"
	"bennypowers.dev/cssvar/internal/variables"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// ErrNotText is returned for files that cannot be stylesheet source
var ErrNotText = errors.New("not a text file")

// Options configures an Extractor
type Options struct {
	// ReadFile defaults to os.ReadFile
	ReadFile func(path string) ([]byte, error)
	// Stat defaults to os.Stat and decides whether an import target exists
	Stat func(path string) (os.FileInfo, error)
}

// Extractor extracts declarations according to one root's configuration
type Extractor struct {
	cfg      *config.Config
	themes   *config.ThemeMatcher
	readFile func(string) ([]byte, error)
	stat     func(string) (os.FileInfo, error)
}

// New prepares an extractor for cfg. It fails only when the configuration
// itself is unusable.
func New(cfg *config.Config, opts Options) (*Extractor, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	themes, err := cfg.CompileThemes()
	if err != nil {
		return nil, err
	}
	e := &Extractor{
		cfg:      cfg,
		themes:   themes,
		readFile: opts.ReadFile,
		stat:     opts.Stat,
	}
	if e.readFile == nil {
		e.readFile = os.ReadFile
	}
	if e.stat == nil {
		e.stat = os.Stat
	}
	return e, nil
}

// File is what one source file contributes to the index
type File struct {
	Declarations *variables.FileDeclarations

	// Imports are the import targets found in the file: existing local
	// paths and remote URLs, in source order
	Imports []string
}

// File reads and extracts path
func (e *Extractor) File(path string) (*File, error) {
	data, err := e.readFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if !isText(data) {
		return nil, fmt.Errorf("%s: %w", path, ErrNotText)
	}
	return e.Source(path, string(data)), nil
}

// Source extracts already-read content, using path for its dialect and
// for resolving relative imports
func (e *Extractor) Source(path, content string) *File {
	d := dialect.FromPath(path)
	src := preprocess.Process(content, d)
	parse := stylesheet.ForDialect(src.Dialect, e.cfg.SyntaxFor(path))

	w := &walker{
		ex:    e,
		src:   src,
		lines: position.NewLineIndex(src.Text),
		// sigils follow the file, not the grammar it was parsed with
		dialect: d,
	}
	if d == dialect.Unknown {
		w.dialect = dialect.CSS
	}
	w.walk(parse(src.Text).Children(), walkContext{path: path})

	log.Debug("extracted %d declarations and %d imports from %s", len(w.decls), len(w.imports), path)
	return &File{
		Declarations: variables.NewFileDeclarations(path, w.decls),
		Imports:      w.imports,
	}
}

// walkContext is passed down by value while walking
type walkContext struct {
	path  string
	theme string
}

type walker struct {
	ex      *Extractor
	src     preprocess.Source
	lines   *position.LineIndex
	dialect dialect.Dialect
	decls   []*variables.Declaration
	imports []string
}

func (w *walker) walk(nodes []stylesheet.Node, ctx walkContext) {
	for _, node := range nodes {
		switch n := node.(type) {
		case *stylesheet.Declaration:
			w.declaration(n.Prop, n.Value, n.Start, n.End, n.ValueStart, n.ValueEnd, ctx)
		case *stylesheet.NestedDeclaration:
			w.declaration(n.Prop, n.Value, n.Start, n.End, n.ValueStart, n.ValueEnd, ctx)
		case *stylesheet.Rule:
			child := ctx
			if theme, ok := w.ex.themes.Match(n.Selector); ok {
				if w.ex.cfg.ExcludeThemedVariables {
					continue
				}
				child.theme = theme
			}
			w.walk(n.Children(), child)
		case *stylesheet.AtRule:
			name := strings.ToLower(n.Name)
			switch {
			case config.ImportAtRules.Has(name):
				w.imports = append(w.imports, w.ex.resolveImports(ctx.path, n.Params)...)
			case config.EvaluatingAtRules.Has(name):
				w.walk(n.Children(), ctx)
			}
		}
	}
}

func (w *walker) declaration(prop, value string, start, end, valueStart, valueEnd int, ctx walkContext) {
	if !w.dialect.IsVariable(prop) {
		return
	}
	value = strings.TrimSpace(value)
	if value == "" || w.src.IsPlaceholder(valueStart, valueEnd) {
		return
	}
	w.decls = append(w.decls, &variables.Declaration{
		Kind:       variables.KindOf(prop),
		Name:       prop,
		RawValue:   value,
		Theme:      ctx.theme,
		SourceFile: ctx.path,
		Range:      w.span(start, end),
	})
}

func (w *walker) span(start, end int) protocol.Range {
	sl, sc := w.lines.Position(start)
	el, ec := w.lines.Position(end)
	return protocol.Range{
		Start: protocol.Position{Line: sl, Character: sc},
		End:   protocol.Position{Line: el, Character: ec},
	}
}

// isText rejects content no stylesheet can be made of
func isText(data []byte) bool {
	return utf8.Valid(data) && bytes.IndexByte(data, 0) < 0
}
