package app

import (
	"fmt"
	"os"
	"runtime"

	"github.com/FACINGS/collection-manager/cli/airdrop"
	"github.com/FACINGS/collection-manager/cli/batch"
	"github.com/FACINGS/collection-manager/cli/importer"
	"github.com/FACINGS/collection-manager/cli/sale"
	"github.com/FACINGS/collection-manager/pkg/config"
	"github.com/urfave/cli"
)

func versionPrinter(c *cli.Context) {
	_, _ = fmt.Fprintf(c.App.Writer, "collection-manager\nVersion: %s\nGoVersion: %s\n",
		config.Version,
		runtime.Version(),
	)
}

// New creates a collection-manager instance of [cli.App] with all
// commands included.
func New() *cli.App {
	cli.VersionPrinter = versionPrinter
	ctl := cli.NewApp()
	ctl.Name = "collection-manager"
	ctl.Version = config.Version
	ctl.Usage = "AtomicAssets collection management for Antelope chains"
	ctl.ErrWriter = os.Stdout

	ctl.Commands = append(ctl.Commands, importer.NewCommands()...)
	ctl.Commands = append(ctl.Commands, airdrop.NewCommands()...)
	ctl.Commands = append(ctl.Commands, sale.NewCommands()...)
	ctl.Commands = append(ctl.Commands, batch.NewCommands()...)
	return ctl
}
