package commands

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/docsite/internal/pipeline"
	"git.home.luguber.info/inful/docsite/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Debounce time.Duration `help:"Quiet period before rebuilding" default:"300ms"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}

	rec, flush := newRecorder(cfg)
	builder := pipeline.New(cfg, pipeline.WithRecorder(rec))
	rebuild := func(ctx context.Context) error {
		defer flush()
		_, err := builder.Build(ctx)
		return err
	}

	// A broken entry must not stop the watcher; it is reported and fixed live.
	if err := rebuild(g.ctx()); err != nil {
		slog.Error("Initial build failed", slog.String("error", err.Error()))
	}

	watcher := &watch.Watcher{
		Root:     cfg.Content.Directory,
		Debounce: w.Debounce,
		Rebuild:  rebuild,
	}
	return watcher.Run(g.ctx())
}
