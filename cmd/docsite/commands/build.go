package commands

import (
	"fmt"

	"git.home.luguber.info/inful/docsite/internal/pipeline"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output string `short:"o" help:"Output directory (overrides output.directory)"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	if b.Output != "" {
		cfg.Output.Directory = b.Output
	}

	rec, flush := newRecorder(cfg)
	defer flush()

	res, err := pipeline.New(cfg, pipeline.WithRecorder(rec)).Build(g.ctx())
	if err != nil {
		return err
	}

	out := g.stdout()
	_, _ = fmt.Fprintf(out, "Wrote %s (%d items)\n", res.FeedPath, len(res.FeedItems))
	_, _ = fmt.Fprintf(out, "Wrote %s\n", res.ManifestPath)
	return nil
}
