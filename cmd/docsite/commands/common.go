// Package commands implements the docsite command line.
package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/docsite/internal/config"
	derrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/metrics"
)

// Global carries process-wide state into subcommands.
type Global struct {
	Context context.Context
	Stdout  io.Writer
}

func (g *Global) ctx() context.Context {
	if g == nil || g.Context == nil {
		return context.Background()
	}
	return g.Context
}

func (g *Global) stdout() io.Writer {
	if g == nil || g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config          string           `short:"c" help:"Configuration file path" default:"docsite.yaml"`
	Verbose         bool             `short:"v" help:"Enable verbose logging"`
	Version         kong.VersionFlag `name:"version" help:"Show version and exit"`
	MetricsTextfile string           `name:"metrics-textfile" help:"Write Prometheus metrics to this file after the run (overrides metrics.textfile)"`

	Build    BuildCmd    `cmd:"" default:"1" help:"Load all collections and write the feed and content manifest"`
	Validate ValidateCmd `cmd:"" help:"Validate every content entry without writing output"`
	Feed     FeedCmd     `cmd:"" help:"Print the RSS feed to stdout"`
	Watch    WatchCmd    `cmd:"" help:"Build, then rebuild whenever content changes"`
	Init     InitCmd     `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// loadConfig loads the configuration and classifies failures as config errors.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, derrors.ConfigError("failed to load configuration").
			WithCause(err).
			WithContext("path", c.Config).
			Build()
	}
	if c.MetricsTextfile != "" {
		cfg.Metrics.Textfile = c.MetricsTextfile
	}
	return cfg, nil
}

// newRecorder returns a Prometheus recorder when a textfile is configured and
// a no-op recorder otherwise. flush writes the textfile.
func newRecorder(cfg *config.Config) (metrics.Recorder, func()) {
	if cfg.Metrics.Textfile == "" {
		return metrics.NoopRecorder{}, func() {}
	}
	rec := metrics.NewPrometheusRecorder(prom.NewRegistry())
	return rec, func() {
		if err := rec.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			slog.Warn("Failed to write metrics textfile", slog.String("path", cfg.Metrics.Textfile), slog.String("error", err.Error()))
		}
	}
}
