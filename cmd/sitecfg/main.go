package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitecfg/cmd/sitecfg/commands"
	serrors "git.home.luguber.info/inful/sitecfg/internal/errors"
	"git.home.luguber.info/inful/sitecfg/internal/version"
)

func main() {
	cli := &commands.CLI{}
	global := &commands.Global{Out: os.Stdout, Logger: slog.Default()}
	parser := kong.Parse(cli,
		kong.Name("sitecfg"),
		kong.Description("Validate and render Starlight documentation site configuration."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.Bind(global, cli),
	)

	err := parser.Run()
	serrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
