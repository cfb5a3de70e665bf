package commands

import (
	"fmt"

	"git.home.luguber.info/inful/docsite/internal/content"
	"git.home.luguber.info/inful/docsite/internal/pipeline"
)

// ValidateCmd implements the 'validate' command.
type ValidateCmd struct{}

func (v *ValidateCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}

	rec, flush := newRecorder(cfg)
	defer flush()

	loaded, err := pipeline.New(cfg, pipeline.WithRecorder(rec)).Load(g.ctx())
	if err != nil {
		return err
	}

	out := g.stdout()
	for _, ct := range content.Collections() {
		_, _ = fmt.Fprintf(out, "%-6s %d entries\n", ct, len(loaded[ct]))
	}
	_, _ = fmt.Fprintln(out, "All entries valid")
	return nil
}
