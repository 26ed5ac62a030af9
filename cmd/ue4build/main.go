package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/ue4build/cmd/ue4build/commands"
	dberrors "git.home.luguber.info/inful/ue4build/internal/foundation/errors"
	"git.home.luguber.info/inful/ue4build/internal/version"
)

func main() {
	cli := &commands.CLI{}
	global := &commands.Global{Out: os.Stdout}
	ctx := kong.Parse(cli,
		kong.Name("ue4build"),
		kong.Description("Build an Unreal Engine project and package its mod plugins as DLC."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)
	if err := ctx.Run(global, cli); err != nil {
		dberrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
