// Package cache keeps the variable index of every workspace root fresh.
//
// An Index holds one record per root. Each indexing pass re-parses only the
// files whose modification time changed, forgets files that disappeared and
// rebuilds the lookup indices only when the record changed. A pass that
// finds nothing to do leaves the record, and its identity, untouched.
package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"bennypowers.dev/cssvar/internal/collections"
	"bennypowers.dev/cssvar/internal/config"
	"bennypowers.dev/cssvar/internal/extract"
	"bennypowers.dev/cssvar/internal/log"
	"bennypowers.dev/cssvar/internal/remote"
	"bennypowers.dev/cssvar/internal/resolver"
	"bennypowers.dev/cssvar/internal/uriutil"
	"bennypowers.dev/cssvar/internal/variables"
	"golang.org/x/sync/errgroup"
)

// Options injects how content is acquired
type Options struct {
	// Fetcher acquires remote entries and imports; without one they fail
	Fetcher remote.Fetcher
	// ReadFile defaults to os.ReadFile
	ReadFile func(path string) ([]byte, error)
	// Stat defaults to os.Stat
	Stat func(path string) (os.FileInfo, error)
}

// IndexOptions selects the roots of an indexing pass
type IndexOptions struct {
	// ParseAll indexes every configured root
	ParseAll bool
	// ActiveRoot is indexed when ParseAll is false. When empty, the first
	// configured root in lexical order is used.
	ActiveRoot string
}

// Index is the variable index of a set of workspace roots. It is safe for
// concurrent use; passes over the same root are serialized.
type Index struct {
	opts Options

	mu    sync.RWMutex
	roots map[string]*rootState

	passes sync.Map // root -> *sync.Mutex
}

// rootState is replaced, never modified, once published
type rootState struct {
	config  *config.Config
	ignore  config.IgnoreMatcher
	record  *variables.Record
	metas   map[string]variables.FileMeta
	imports map[string][]string
	watch   collections.Set[string]
	indices *resolver.Indices
}

// New creates an empty index
func New(opts Options) *Index {
	if opts.ReadFile == nil {
		opts.ReadFile = os.ReadFile
	}
	if opts.Stat == nil {
		opts.Stat = os.Stat
	}
	return &Index{
		opts:  opts,
		roots: make(map[string]*rootState),
	}
}

// IndexFiles runs an indexing pass over the selected roots and returns the
// paths that failed to index. Roots are indexed concurrently and a failing
// root does not stop the others; configuration errors are joined into the
// returned error.
func (idx *Index) IndexFiles(ctx context.Context, configs map[string]*config.Config, opts IndexOptions) ([]string, error) {
	roots, err := selectRoots(configs, opts)
	if err != nil {
		return nil, err
	}

	results := make([][]string, len(roots))
	errs := make([]error, len(roots))

	var g errgroup.Group
	for i, root := range roots {
		g.Go(func() error {
			results[i], errs[i] = idx.indexRoot(ctx, root, configs[root])
			return nil
		})
	}
	_ = g.Wait()

	var errorPaths []string
	for _, paths := range results {
		errorPaths = append(errorPaths, paths...)
	}
	if len(errorPaths) > 0 {
		log.Warn("failed to index %d file(s): %s", len(errorPaths), strings.Join(errorPaths, ", "))
	}
	return errorPaths, errors.Join(errs...)
}

func selectRoots(configs map[string]*config.Config, opts IndexOptions) ([]string, error) {
	if len(configs) == 0 {
		return nil, &ConfigurationError{Reason: "no workspace root configured", Err: ErrNoWorkspaceRoot}
	}
	roots := make([]string, 0, len(configs))
	for root := range configs {
		roots = append(roots, root)
	}
	slices.Sort(roots)

	if opts.ParseAll {
		return roots, nil
	}
	active := opts.ActiveRoot
	if active == "" {
		return roots[:1], nil
	}
	if _, ok := configs[active]; !ok {
		return nil, &ConfigurationError{Root: active, Reason: "not a configured workspace root", Err: ErrNoWorkspaceRoot}
	}
	return []string{active}, nil
}

func (idx *Index) passLock(root string) *sync.Mutex {
	lock, _ := idx.passes.LoadOrStore(root, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

func (idx *Index) state(root string) *rootState {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.roots[filepath.Clean(root)]
}

func (idx *Index) indexRoot(ctx context.Context, root string, cfg *config.Config) ([]string, error) {
	key := filepath.Clean(root)
	lock := idx.passLock(key)
	lock.Lock()
	defer lock.Unlock()

	if cfg == nil {
		cfg = config.Default()
	}
	ex, err := extract.New(cfg, extract.Options{ReadFile: idx.opts.ReadFile, Stat: idx.opts.Stat})
	if err != nil {
		return nil, NewConfigurationError(root, err)
	}
	ignore, err := cfg.Mode.CompileIgnore()
	if err != nil {
		return nil, NewConfigurationError(root, err)
	}
	entries, err := config.Resolve(root, cfg)
	if err != nil {
		return nil, NewConfigurationError(root, err)
	}

	p := newPass(idx, ex, idx.state(key))
	p.evict()
	p.run(ctx, entries)
	p.prune()

	if err := errors.Join(p.failures...); err != nil {
		log.Debug("%s: %v", root, err)
	}

	idx.publish(key, &rootState{
		config:  cfg,
		ignore:  ignore,
		record:  p.record,
		metas:   p.metas,
		imports: p.imports,
		watch:   p.visited,
	}, p.prev)

	log.Info("indexed %s: %d file(s), %d failed", root, p.record.Len(), len(p.errorPaths))
	return p.errorPaths, nil
}

// publish swaps in the new state, resolving the record only when it is not
// the one the previous indices were built from
func (idx *Index) publish(root string, next *rootState, prevRecord *variables.Record) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	prev := idx.roots[root]
	if prev != nil && prev.indices != nil && next.record == prevRecord {
		next.indices = prev.indices
	} else {
		next.indices = resolver.Resolve(next.record)
	}
	idx.roots[root] = next
}

// pass is one indexing pass over one root
type pass struct {
	idx *Index
	ex  *extract.Extractor

	prev    *variables.Record
	record  *variables.Record
	metas   map[string]variables.FileMeta
	imports map[string][]string

	// visited holds every local path touched; it becomes the watch set
	visited    collections.Set[string]
	errorPaths []string
	failures   []error
}

func newPass(idx *Index, ex *extract.Extractor, prev *rootState) *pass {
	p := &pass{
		idx:     idx,
		ex:      ex,
		metas:   make(map[string]variables.FileMeta),
		imports: make(map[string][]string),
		visited: collections.NewSet[string](),
	}
	if prev == nil {
		p.prev = variables.NewRecord()
	} else {
		p.prev = prev.record
		for k, v := range prev.metas {
			p.metas[k] = v
		}
		for k, v := range prev.imports {
			p.imports[k] = v
		}
	}
	p.record = p.prev
	return p
}

// mutable returns a record that may be modified, cloning the published one
// on first use
func (p *pass) mutable() *variables.Record {
	if p.record == p.prev {
		p.record = p.prev.Clone()
	}
	return p.record
}

func (p *pass) forget(path string) {
	if p.record.Has(path) {
		p.mutable().Delete(path)
	}
	delete(p.metas, path)
	delete(p.imports, path)
}

// evict forgets files that no longer exist
func (p *pass) evict() {
	for _, path := range p.record.Paths() {
		if _, err := p.idx.opts.Stat(path); errors.Is(err, os.ErrNotExist) {
			log.Debug("%s was deleted", path)
			p.forget(path)
		}
	}
}

// prune forgets files no longer reachable from the entries
func (p *pass) prune() {
	for _, path := range p.record.Paths() {
		if !p.visited.Has(path) {
			log.Debug("%s is no longer referenced", path)
			p.forget(path)
		}
	}
}

// outcome is the result of visiting one target
type outcome struct {
	target  string
	path    string
	meta    variables.FileMeta
	file    *extract.File
	imports []string
	err     error
}

// run visits the entries and, wave by wave, everything they import. The
// targets of a wave are visited concurrently and merged in order.
func (p *pass) run(ctx context.Context, entries []string) {
	queued := collections.NewSet[string]()
	var wave []string
	enqueue := func(targets []string) {
		for _, t := range targets {
			if !queued.Has(t) {
				queued.Add(t)
				wave = append(wave, t)
			}
		}
	}
	enqueue(entries)

	for len(wave) > 0 {
		current := wave
		wave = nil

		outcomes := make([]outcome, len(current))
		var g errgroup.Group
		for i, target := range current {
			g.Go(func() error {
				outcomes[i] = p.visit(ctx, target)
				return nil
			})
		}
		_ = g.Wait()

		for _, o := range outcomes {
			p.merge(o)
			enqueue(o.imports)
		}
	}
}

// visit stats and, when changed, extracts one target. It only reads pass state.
func (p *pass) visit(ctx context.Context, target string) outcome {
	o := outcome{target: target, path: target}

	if uriutil.IsRemote(target) {
		if p.idx.opts.Fetcher == nil {
			o.path = ""
			o.err = errors.New("no fetcher configured for remote files")
			return o
		}
		local, err := p.idx.opts.Fetcher.Fetch(ctx, target)
		if err != nil {
			o.path = ""
			o.err = err
			return o
		}
		o.path = local
	}

	info, err := p.idx.opts.Stat(o.path)
	if err != nil {
		return p.failed(o, err)
	}
	if info.IsDir() {
		return p.failed(o, fmt.Errorf("%s is a directory", o.path))
	}
	o.meta = variables.FileMeta{Path: o.path, LastModified: info.ModTime()}

	if meta, ok := p.metas[o.path]; ok && p.record.Has(o.path) && meta.LastModified.Equal(o.meta.LastModified) {
		o.imports = p.imports[o.path]
		return o
	}

	file, err := p.ex.File(o.path)
	if err != nil {
		return p.failed(o, err)
	}
	o.file = file
	o.imports = file.Imports
	return o
}

// failed records err on o. A file that stays in the record keeps its
// previous imports, so what it imported is not pruned.
func (p *pass) failed(o outcome, err error) outcome {
	o.err = err
	if p.record.Has(o.path) {
		o.imports = p.imports[o.path]
	}
	return o
}

func (p *pass) merge(o outcome) {
	if o.path != "" {
		if p.visited.Has(o.path) {
			return
		}
		p.visited.Add(o.path)
	}

	if o.err != nil {
		failure := &ParseFailure{Path: o.target, Err: o.err}
		p.errorPaths = append(p.errorPaths, o.target)
		p.failures = append(p.failures, failure)
		log.Warn("%v", failure)
		if !p.record.Has(o.path) {
			p.visited.Delete(o.path)
		}
		return
	}

	if o.file != nil {
		log.Debug("parsed %s", o.path)
		p.mutable().Set(o.file.Declarations)
		p.metas[o.path] = o.meta
		p.imports[o.path] = o.file.Imports
	}
}
