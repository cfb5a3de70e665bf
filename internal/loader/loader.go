// Package loader reads the source documents of a content collection and
// turns them into validated content entries.
package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"strings"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/docsite/internal/content"
	"git.home.luguber.info/inful/docsite/internal/frontmatter"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/schema"
)

// Extensions lists the source file extensions treated as content entries.
var Extensions = []string{".md", ".mdx", ".markdown"}

// Loader holds the collaborators of a load. The zero value is not usable;
// construct one with New.
type Loader struct {
	registry *schema.Registry
	recorder metrics.Recorder
	logger   *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithRegistry overrides the schema registry (default schema.DefaultRegistry).
func WithRegistry(r *schema.Registry) Option {
	return func(l *Loader) { l.registry = r }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(l *Loader) { l.recorder = r }
}

// WithLogger sets the logger (default slog.Default()).
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// New creates a Loader.
func New(opts ...Option) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	if l.registry == nil {
		l.registry = schema.DefaultRegistry()
	}
	if l.recorder == nil {
		l.recorder = metrics.NoopRecorder{}
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	return l
}

// LoadAll loads every entry of collection ct from fsys, where the collection's
// documents live under the directory named after ct.
func LoadAll(fsys fs.FS, ct content.CollectionType, opts ...Option) ([]content.Entry, error) {
	return New(opts...).LoadAll(fsys, ct)
}

// LoadDir is LoadAll over the content directory dir on disk.
func LoadDir(dir string, ct content.CollectionType, opts ...Option) ([]content.Entry, error) {
	return LoadAll(os.DirFS(dir), ct, opts...)
}

// LoadAll loads and validates every entry of collection ct.
//
// The load stops at the first entry that fails validation and returns an
// *EntryError carrying all of that entry's field errors. Two entries with the
// same slug yield a *DuplicateSlugError. Entries are returned in lexical path
// order. A missing collection directory yields no entries.
func (l *Loader) LoadAll(fsys fs.FS, ct content.CollectionType) ([]content.Entry, error) {
	if _, ok := l.registry.Schema(ct); !ok {
		return nil, fmt.Errorf("%w: %q", schema.ErrUnknownCollection, ct)
	}

	root := ct.PathSegment()
	paths, err := listSources(fsys, root)
	if errors.Is(err, fs.ErrNotExist) {
		l.logger.Warn("Collection directory not found", logfields.Collection(string(ct)), logfields.Path(root))
		l.recorder.SetEntriesLoaded(string(ct), 0)
		return []content.Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("collection %q: enumerate sources: %w", ct, err)
	}

	entries := make([]content.Entry, 0, len(paths))
	seen := make(map[string]string, len(paths))
	for _, p := range paths {
		entry, err := l.loadEntry(fsys, ct, root, p)
		if err != nil {
			l.recordFailure(ct, err)
			return nil, err
		}
		if prev, dup := seen[entry.Slug]; dup {
			err := &DuplicateSlugError{Collection: ct, Slug: entry.Slug, Paths: []string{prev, p}}
			l.recordFailure(ct, err)
			return nil, err
		}
		seen[entry.Slug] = p
		entries = append(entries, entry)
		l.logger.Debug("Loaded entry", logfields.Collection(string(ct)), logfields.Slug(entry.Slug), logfields.Path(p))
	}

	l.recorder.SetEntriesLoaded(string(ct), len(entries))
	l.logger.Info("Collection loaded", logfields.Collection(string(ct)), logfields.Count(len(entries)))
	return entries, nil
}

func (l *Loader) loadEntry(fsys fs.FS, ct content.CollectionType, root, p string) (content.Entry, error) {
	rel := strings.TrimPrefix(p, root+"/")
	slug := Slugify(rel)
	fail := func(err error) (content.Entry, error) {
		return content.Entry{}, &EntryError{Collection: ct, Path: p, Slug: slug, Err: err}
	}
	if slug == "" {
		return fail(ErrEmptySlug)
	}

	raw, err := fs.ReadFile(fsys, p)
	if err != nil {
		return fail(err)
	}
	doc, err := frontmatter.Split(raw)
	if err != nil {
		return fail(err)
	}
	fields, err := doc.Fields()
	if err != nil {
		return fail(err)
	}

	entry, err := l.registry.Validate(ct, fields)
	if err != nil {
		return fail(err)
	}
	entry.Slug = slug
	entry.SourcePath = p
	entry.Body = doc.Body
	entry.Fingerprint = mdfp.CalculateFingerprintFromParts(string(doc.Frontmatter), string(doc.Body))
	return entry, nil
}

func (l *Loader) recordFailure(ct content.CollectionType, err error) {
	var entryErr *EntryError
	var dupErr *DuplicateSlugError
	switch {
	case errors.As(err, &dupErr):
		l.recorder.IncValidationFailure(string(ct), "duplicate_slug")
	case errors.Is(err, ErrEmptySlug):
		l.recorder.IncValidationFailure(string(ct), "empty_slug")
	case errors.As(err, &entryErr):
		fe := entryErr.FieldErrors()
		if fe == nil {
			l.recorder.IncValidationFailure(string(ct), "parse_error")
			return
		}
		for _, e := range fe {
			l.recorder.IncValidationFailure(string(ct), string(e.Kind))
		}
	}
}

// listSources returns the content files below root in lexical order. Files and
// directories whose names start with '_' or '.' are skipped.
func listSources(fsys fs.FS, root string) ([]string, error) {
	var paths []string
	err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if p != root && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() && isContentFile(name) {
			paths = append(paths, p)
		}
		return nil
	})
	return paths, err
}

func isContentFile(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}
