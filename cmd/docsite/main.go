package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docsite/cmd/docsite/commands"
	derrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/version"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cli := &commands.CLI{}
	global := &commands.Global{Context: ctx, Stdout: os.Stdout}

	parser := kong.Parse(cli,
		kong.Name("docsite"),
		kong.Description("Validate content collections and publish their RSS feed"),
		kong.UsageOnError(),
		kong.Vars{"version": version.Version},
	)

	err := parser.Run(global, cli)
	if err != nil {
		cancel()
		derrors.NewCLIErrorAdapter(cli.Verbose, nil).HandleError(err)
	}
}
