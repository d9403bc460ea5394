package main

import (
	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitegen/cmd/sitegen/commands"
	"git.home.luguber.info/inful/sitegen/internal/version"
)

func main() {
	cli := &commands.CLI{}
	ktx := kong.Parse(cli,
		kong.Name("sitegen"),
		kong.Description("Static site generator: renders templates and markdown pages into layouts, copies assets, and optionally rebuilds on change."),
		kong.UsageOnError(),
		kong.Vars{"version": version.Version},
	)

	err := ktx.Run(&commands.Global{}, cli)
	ktx.FatalIfErrorf(err)
}
