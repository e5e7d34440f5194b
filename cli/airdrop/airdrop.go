// Package airdrop implements the airdrop CLI commands.
package airdrop

import (
	"context"
	"fmt"
	"strings"

	"github.com/FACINGS/collection-manager/cli/options"
	"github.com/FACINGS/collection-manager/pkg/airdrop"
	"github.com/FACINGS/collection-manager/pkg/atomicassets"
	"github.com/FACINGS/collection-manager/pkg/client"
	"github.com/FACINGS/collection-manager/pkg/config"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

var filterFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "collection",
		Usage: "collection whose holders are targeted",
	},
	cli.StringFlag{
		Name:  "template",
		Usage: "template ID for the template and not-holding-template filters",
	},
	cli.StringFlag{
		Name:  "mode",
		Value: "collection",
		Usage: "filter mode: collection, template or not-holding-template",
	},
	cli.Int64Flag{
		Name:  "min-holding",
		Usage: "keep only accounts holding at least this many qualifying assets",
	},
	cli.BoolFlag{
		Name:  "unique",
		Usage: "list each account once instead of once per qualifying asset",
	},
	cli.BoolFlag{
		Name:  "shuffle",
		Usage: "deterministically shuffle recipients with a published seed",
	},
	cli.StringFlag{
		Name:  "seed",
		Usage: "shuffle seed, fetched from the randomness service when omitted",
	},
}

var dropFlags = append([]cli.Flag{
	cli.StringFlag{
		Name:  "mint-schema",
		Usage: "schema of the minted template (mint mode)",
	},
	cli.Int64Flag{
		Name:  "mint-template",
		Usage: "template ID to mint for every recipient (mint mode)",
	},
	cli.StringFlag{
		Name:  "asset-owner",
		Usage: "account whose assets are transferred positionally (transfer mode)",
	},
	cli.StringFlag{
		Name:  "memo",
		Value: "airdrop",
		Usage: "memo for transfer actions",
	},
	options.BatchSize,
	options.Timeout,
	options.Debug,
}, append(filterFlags, append(options.Network, options.Auth...)...)...)

// NewCommands returns the 'airdrop' command.
func NewCommands() []cli.Command {
	return []cli.Command{{
		Name:  "airdrop",
		Usage: "distribute assets to holders resolved from filters",
		Subcommands: []cli.Command{
			{
				Name:      "resolve",
				Usage:     "resolve and print the recipient list without touching the chain",
				UsageText: "airdrop resolve --collection <name> [--mode <m>] [--template <id>] [--min-holding <n>] [--unique]",
				Action:    resolveAccounts,
				Flags:     dropFlags,
			},
			{
				Name:      "run",
				Usage:     "resolve recipients, compile mint or transfer actions and submit in batches",
				UsageText: "airdrop run --collection <name> --actor <account> (--mint-template <id> --mint-schema <name> | --asset-owner <account>)",
				Action:    runAirdrop,
				Flags:     dropFlags,
			},
		},
	}}
}

func parseMode(s string) (airdrop.Mode, error) {
	switch strings.ToLower(s) {
	case "collection":
		return airdrop.ByCollection, nil
	case "template":
		return airdrop.ByTemplate, nil
	case "not-holding-template":
		return airdrop.ByNotHoldingTemplate, nil
	}
	return 0, fmt.Errorf("unknown filter mode %q", s)
}

func buildFilter(ctx *cli.Context) (airdrop.Filter, error) {
	mode, err := parseMode(ctx.String("mode"))
	if err != nil {
		return airdrop.Filter{}, err
	}
	f := airdrop.Filter{
		Mode:               mode,
		Collection:         ctx.String("collection"),
		TemplateID:         ctx.String("template"),
		MinHoldingQuantity: ctx.Int64("min-holding"),
		UniqueAccountsOnly: ctx.Bool("unique"),
	}
	if f.Collection == "" {
		return airdrop.Filter{}, fmt.Errorf("no collection specified, use option '--collection'")
	}
	if (mode == airdrop.ByTemplate || mode == airdrop.ByNotHoldingTemplate) && f.TemplateID == "" {
		return airdrop.Filter{}, fmt.Errorf("filter mode %q needs option '--template'", ctx.String("mode"))
	}
	return f, nil
}

func resolveAccounts(ctx *cli.Context) error {
	cfg, err := options.GetConfigFromContext(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	log, err := options.HandleLoggingParams(ctx.Bool("debug"), cfg)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer log.Sync()

	f, err := buildFilter(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	indexer, exitErr := options.GetIndexer(cfg, log)
	if exitErr != nil {
		return exitErr
	}

	gctx, cancel := options.GetTimeoutContext(ctx)
	defer cancel()

	recipients, err := airdrop.NewResolver(indexer, log).Accounts(gctx, f)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	recipients, err = maybeShuffle(ctx, gctx, cfg, recipients)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	for _, a := range recipients {
		fmt.Fprintln(ctx.App.Writer, a)
	}
	fmt.Fprintf(ctx.App.Writer, "%d recipients\n", len(recipients))
	return nil
}

func maybeShuffle(ctx *cli.Context, gctx context.Context, cfg config.Config, recipients []string) ([]string, error) {
	if !ctx.Bool("shuffle") {
		return recipients, nil
	}
	seed := ctx.String("seed")
	if seed == "" {
		var err error
		seed, err = client.RandomSeed(gctx, cfg.RandomAPI, client.Options{})
		if err != nil {
			return nil, err
		}
	}
	fmt.Fprintf(ctx.App.Writer, "shuffle seed: %s\n", seed)
	return airdrop.Shuffle(recipients, seed), nil
}

func runAirdrop(ctx *cli.Context) error {
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
	f, err := buildFilter(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	indexer, exitErr := options.GetIndexer(cfg, log)
	if exitErr != nil {
		return exitErr
	}

	gctx, cancel := options.GetTimeoutContext(ctx)
	defer cancel()

	recipients, err := airdrop.NewResolver(indexer, log).Accounts(gctx, f)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if len(recipients) == 0 {
		return cli.NewExitError("filter resolved no recipients", 1)
	}
	recipients, err = maybeShuffle(ctx, gctx, cfg, recipients)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	var actions []atomicassets.Action
	switch {
	case ctx.Int64("mint-template") != 0:
		if ctx.String("mint-schema") == "" {
			return cli.NewExitError("mint mode needs option '--mint-schema'", 1)
		}
		actions = airdrop.CompileMint(recipients, airdrop.MintSpec{
			Minter:     actor,
			Permission: permission,
			Collection: f.Collection,
			Schema:     ctx.String("mint-schema"),
			TemplateID: ctx.Int64("mint-template"),
		})
	case ctx.String("asset-owner") != "":
		assets, err := airdrop.Assets(gctx, indexer, ctx.String("asset-owner"), f.Collection, f.TemplateID)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		var unmatched int
		actions, unmatched = airdrop.CompileTransfer(actor, permission, recipients, assets, ctx.String("memo"))
		if unmatched > 0 {
			log.Warn("not enough assets for every recipient",
				zap.Int("recipients", len(recipients)),
				zap.Int("assets", len(assets)),
				zap.Int("dropped", unmatched))
		}
	default:
		return cli.NewExitError("specify '--mint-template' for mint mode or '--asset-owner' for transfer mode", 1)
	}

	signer, exitErr := options.GetSigner(cfg, log)
	if exitErr != nil {
		return exitErr
	}
	coord, closeStore, exitErr := options.GetCoordinator(cfg, "airdrop", signer, log)
	if exitErr != nil {
		return exitErr
	}
	defer closeStore()

	if err := coord.Prepare("airdrop", actions, ctx.Int("batch-size")); err != nil {
		return cli.NewExitError(err, 1)
	}
	report, err := coord.Run(gctx)
	if err != nil {
		log.Warn("airdrop halted, remaining batches stay queued",
			zap.Int("submitted", report.Submitted),
			zap.Int("remaining", report.Remaining))
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintf(ctx.App.Writer, "airdrop complete: %d batches, %d recipients\n", report.Submitted, len(recipients))
	return nil
}
