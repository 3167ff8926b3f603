package main

import (
	"log/slog"
	"os"

	"git.home.luguber.info/inful/docsite/cmd/docsite/commands"
	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

func main() {
	var cli commands.CLI
	g := &commands.Global{}

	parser, err := commands.NewParser(&cli, g)
	if err != nil {
		panic(err)
	}
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(ctx.Run())
}
