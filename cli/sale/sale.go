// Package sale implements the AtomicMarket sale CLI commands.
package sale

import (
	"fmt"
	"strings"

	"github.com/FACINGS/collection-manager/cli/options"
	"github.com/FACINGS/collection-manager/pkg/atomicassets"
	"github.com/FACINGS/collection-manager/pkg/batcher"
	"github.com/FACINGS/collection-manager/pkg/market"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

var saleFlags = append([]cli.Flag{
	cli.StringFlag{
		Name:  "assets",
		Usage: "comma-separated asset IDs to list, one sale per asset",
	},
	cli.StringFlag{
		Name:  "price",
		Usage: "listing price as an asset string, e.g. '10.00000000 WAX'",
	},
	cli.StringFlag{
		Name:  "symbol",
		Value: "8,WAX",
		Usage: "settlement symbol, precision and code",
	},
	cli.StringFlag{
		Name:  "sales",
		Usage: "comma-separated sale IDs to cancel",
	},
	options.BatchSize,
	options.Timeout,
	options.Debug,
}, append(options.Network, options.Auth...)...)

// NewCommands returns the 'sale' command.
func NewCommands() []cli.Command {
	return []cli.Command{{
		Name:  "sale",
		Usage: "create or cancel AtomicMarket sales",
		Subcommands: []cli.Command{
			{
				Name:      "create",
				Usage:     "announce one sale per asset and hand the assets to the market",
				UsageText: "sale create --assets <id,id> --price <amount> --actor <account>",
				Action:    createSales,
				Flags:     saleFlags,
			},
			{
				Name:      "cancel",
				Usage:     "cancel sales by ID",
				UsageText: "sale cancel --sales <id,id> --actor <account>",
				Action:    cancelSales,
				Flags:     saleFlags,
			},
		},
	}}
}

func splitIDs(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func createSales(ctx *cli.Context) error {
	assetIDs := splitIDs(ctx.String("assets"))
	if len(assetIDs) == 0 {
		return cli.NewExitError("no assets specified, use option '--assets'", 1)
	}
	price := ctx.String("price")
	if price == "" {
		return cli.NewExitError("no listing price specified, use option '--price'", 1)
	}
	return submit(ctx, "sale", func(actor, permission string) []atomicassets.Action {
		return market.CompileAnnounce(assetIDs, market.SaleSpec{
			Seller:           actor,
			Permission:       permission,
			ListingPrice:     price,
			SettlementSymbol: ctx.String("symbol"),
		})
	})
}

func cancelSales(ctx *cli.Context) error {
	saleIDs := splitIDs(ctx.String("sales"))
	if len(saleIDs) == 0 {
		return cli.NewExitError("no sales specified, use option '--sales'", 1)
	}
	return submit(ctx, "sale", func(actor, permission string) []atomicassets.Action {
		return market.CompileCancel(actor, permission, saleIDs)
	})
}

func submit(ctx *cli.Context, tool string, compile func(actor, permission string) []atomicassets.Action) error {
	cfg, err := options.GetConfigFromContext(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	log, err := options.HandleLoggingParams(ctx.Bool("debug"), cfg)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer log.Sync()

	actor, permission, exitErr := options.GetActor(ctx)
	if exitErr != nil {
		return exitErr
	}
	actions := compile(actor, permission)

	signer, exitErr := options.GetSigner(cfg, log)
	if exitErr != nil {
		return exitErr
	}
	var (
		coord      *batcher.Coordinator
		closeStore func() error
	)
	coord, closeStore, exitErr = options.GetCoordinator(cfg, tool, signer, log)
	if exitErr != nil {
		return exitErr
	}
	defer closeStore()

	if err := coord.Prepare(tool, actions, ctx.Int("batch-size")); err != nil {
		return cli.NewExitError(err, 1)
	}
	gctx, cancel := options.GetTimeoutContext(ctx)
	defer cancel()

	report, err := coord.Run(gctx)
	if err != nil {
		log.Warn("sale run halted, remaining batches stay queued",
			zap.Int("submitted", report.Submitted),
			zap.Int("remaining", report.Remaining))
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintf(ctx.App.Writer, "done: %d batches submitted\n", report.Submitted)
	return nil
}
