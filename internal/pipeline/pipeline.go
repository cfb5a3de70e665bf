// Package pipeline wires the loader, query engine and feed serializer into a
// build: load every collection, order the feed collection, render the feed and
// write it with the content manifest into the output directory.
package pipeline

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/content"
	"git.home.luguber.info/inful/docsite/internal/feed"
	derrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/loader"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/manifest"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/observability"
	"git.home.luguber.info/inful/docsite/internal/query"
	"git.home.luguber.info/inful/docsite/internal/version"
)

// Stage names used for metrics and logging.
const (
	StageLoad   = "load"
	StageQuery  = "query"
	StageRender = "render"
	StageWrite  = "write"
)

// Collections maps each collection to its validated entries in load order.
type Collections map[content.CollectionType][]content.Entry

// Result describes a finished build.
type Result struct {
	BuildID      string
	Collections  Collections
	FeedItems    []content.Entry
	FeedPath     string
	ManifestPath string
	ContentHash  string
	// Entries counts validated entries across all collections.
	Entries int
	// Unchanged is set when the output already matched and nothing was written.
	Unchanged bool
	Duration  time.Duration
}

// Builder runs the pipeline for one configuration.
type Builder struct {
	cfg      *config.Config
	fsys     fs.FS
	recorder metrics.Recorder
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Builder.
type Option func(*Builder)

// WithFS reads content from fsys instead of cfg.Content.Directory.
func WithFS(fsys fs.FS) Option {
	return func(b *Builder) { b.fsys = fsys }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(b *Builder) { b.recorder = r }
}

// WithLogger sets the logger (default slog.Default()).
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) { b.logger = logger }
}

// WithClock overrides the manifest timestamp source.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// New creates a Builder for cfg.
func New(cfg *config.Config, opts ...Option) *Builder {
	b := &Builder{cfg: cfg}
	for _, opt := range opts {
		opt(b)
	}
	if b.fsys == nil {
		b.fsys = os.DirFS(cfg.Content.Directory)
	}
	if b.recorder == nil {
		b.recorder = metrics.NoopRecorder{}
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	if b.now == nil {
		b.now = time.Now
	}
	return b
}

// Load loads and validates every known collection. It stops at the first
// collection that fails.
func (b *Builder) Load(ctx context.Context) (Collections, error) {
	out := make(Collections, len(content.Collections()))
	ctx = observability.WithStage(ctx, StageLoad)
	err := metrics.TimeStage(b.recorder, StageLoad, func() error {
		for _, ct := range content.Collections() {
			if err := ctx.Err(); err != nil {
				return err
			}
			logger := observability.Logger(observability.WithCollection(ctx, string(ct)), b.logger)
			entries, err := loader.LoadAll(b.fsys, ct,
				loader.WithRecorder(b.recorder),
				loader.WithLogger(logger),
			)
			if err != nil {
				return classifyLoadError(ct, err)
			}
			out[ct] = entries
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FeedItems selects the feed entries from loaded collections: the configured
// collection, newest first, optionally narrowed to a tag and truncated.
func (b *Builder) FeedItems(loaded Collections) []content.Entry {
	var items []content.Entry
	_ = metrics.TimeStage(b.recorder, StageQuery, func() error {
		items = query.SortByDateDescending(loaded[b.cfg.Feed.Collection])
		if b.cfg.Feed.Tag != "" {
			items = query.FilterByTag(items, b.cfg.Feed.Tag)
		}
		items = query.Limit(items, b.cfg.Feed.Limit)
		return nil
	})
	return items
}

// Channel returns the feed channel metadata for items. The last build date is
// the newest item date, so unchanged content renders an identical feed.
func (b *Builder) Channel(items []content.Entry) feed.Channel {
	ch := feed.Channel{
		Title:          b.cfg.Site.Title,
		Description:    b.cfg.Site.Description,
		BaseURL:        b.cfg.Site.BaseURL,
		Language:       b.cfg.Site.Language,
		Generator:      version.Generator(),
		IncludeContent: b.cfg.Feed.IncludeContent,
	}
	if len(items) > 0 && items[0].HasDate {
		ch.LastBuildDate = items[0].Date
	}
	return ch
}

// RenderFeed renders the RSS document for loaded collections.
func (b *Builder) RenderFeed(loaded Collections) (string, []content.Entry, error) {
	items := b.FeedItems(loaded)
	var doc string
	err := metrics.TimeStage(b.recorder, StageRender, func() error {
		var rerr error
		doc, rerr = feed.Render(b.Channel(items), items)
		return rerr
	})
	if err != nil {
		return "", nil, derrors.WrapError(err, derrors.CategoryBuild, "failed to render feed").Build()
	}
	b.recorder.SetFeedItems(len(items))
	return doc, items, nil
}

// Manifest describes loaded collections and the rendered feed.
func (b *Builder) Manifest(loaded Collections, feedItems int) *manifest.Manifest {
	m := &manifest.Manifest{
		GeneratedAt: b.now().UTC(),
		BaseURL:     b.cfg.Site.BaseURL,
		Feed: manifest.Feed{
			File:       b.cfg.Output.FeedFile,
			Collection: b.cfg.Feed.Collection,
			Items:      feedItems,
		},
	}
	link := func(e content.Entry) string { return feed.EntryLink(b.cfg.Site.BaseURL, e) }
	for _, ct := range content.Collections() {
		m.AddCollection(ct, loaded[ct], link)
	}
	return m
}

// Build runs the whole pipeline and writes the feed and manifest. Log lines of
// one build share a build.id attribute.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	start := time.Now()
	buildID := observability.NewBuildID()
	ctx = observability.WithBuildID(ctx, buildID)
	logger := observability.Logger(ctx, b.logger)

	res, err := b.build(ctx, buildID)
	b.recorder.ObserveBuildDuration(time.Since(start))
	if err != nil {
		b.recorder.IncBuildOutcome(metrics.BuildFailed)
		logger.Error("Build failed", logfields.Error(err))
		return nil, err
	}
	b.recorder.IncBuildOutcome(metrics.BuildSuccess)
	res.Duration = time.Since(start)
	logger.Info("Build completed",
		logfields.Count(len(res.FeedItems)),
		slog.Int("entries", res.Entries),
		slog.Bool("unchanged", res.Unchanged),
		logfields.Output(res.FeedPath),
		logfields.Duration(res.Duration))
	return res, nil
}

func (b *Builder) build(ctx context.Context, buildID string) (*Result, error) {
	loaded, err := b.Load(ctx)
	if err != nil {
		return nil, err
	}
	doc, items, err := b.RenderFeed(loaded)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m := b.Manifest(loaded, len(items))
	m.BuildID = buildID
	hash, err := m.Hash()
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryInternal, "failed to hash manifest").Build()
	}
	data, err := m.ToJSON()
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryInternal, "failed to encode manifest").Build()
	}

	res := &Result{
		BuildID:      buildID,
		Collections:  loaded,
		FeedItems:    items,
		FeedPath:     filepath.Join(b.cfg.Output.Directory, b.cfg.Output.FeedFile),
		ManifestPath: filepath.Join(b.cfg.Output.Directory, b.cfg.Output.ManifestFile),
		ContentHash:  hash,
		Entries:      m.EntryCount(),
	}
	if upToDate(res, doc) {
		observability.Logger(observability.WithStage(ctx, StageWrite), b.logger).
			Info("Output up to date; skipping write", logfields.Output(b.cfg.Output.Directory))
		res.Unchanged = true
		return res, nil
	}
	err = metrics.TimeStage(b.recorder, StageWrite, func() error {
		if err := writeFileAtomic(res.FeedPath, []byte(doc)); err != nil {
			return err
		}
		return writeFileAtomic(res.ManifestPath, append(data, '\n'))
	})
	if err != nil {
		return nil, derrors.FileSystemError("failed to write build output").
			WithCause(err).
			WithContext("output", b.cfg.Output.Directory).
			Build()
	}
	return res, nil
}

// upToDate reports whether the feed on disk equals doc and the manifest on disk
// describes the same content. Unreadable or missing files count as stale.
func upToDate(res *Result, doc string) bool {
	existing, err := os.ReadFile(res.FeedPath)
	if err != nil || string(existing) != doc {
		return false
	}
	data, err := os.ReadFile(res.ManifestPath)
	if err != nil {
		return false
	}
	prev, err := manifest.FromJSON(data)
	if err != nil {
		return false
	}
	hash, err := prev.Hash()
	return err == nil && hash == res.ContentHash
}
