package commands

import (
	"fmt"

	"git.home.luguber.info/inful/docsite/internal/content"
	derrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/pipeline"
)

// FeedCmd implements the 'feed' command.
type FeedCmd struct {
	Tag   string `help:"Only include entries with this tag (overrides feed.tag)"`
	Limit int    `help:"Maximum number of items (overrides feed.limit)" default:"-1"`
	// Collection overrides feed.collection.
	Collection string `help:"Collection to publish (blog or docs)"`
}

func (f *FeedCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	if f.Tag != "" {
		cfg.Feed.Tag = f.Tag
	}
	if f.Limit >= 0 {
		cfg.Feed.Limit = f.Limit
	}
	if f.Collection != "" {
		ct, err := content.ParseCollectionType(f.Collection)
		if err != nil {
			return derrors.ValidationError("invalid --collection").WithCause(err).Build()
		}
		cfg.Feed.Collection = ct
	}

	b := pipeline.New(cfg)
	loaded, err := b.Load(g.ctx())
	if err != nil {
		return err
	}
	doc, _, err := b.RenderFeed(loaded)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(g.stdout(), doc)
	return err
}
