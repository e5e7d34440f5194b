// Package batch implements the pending-queue CLI commands.
package batch

import (
	"fmt"

	"github.com/FACINGS/collection-manager/cli/options"
	"github.com/FACINGS/collection-manager/pkg/batcher"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

var batchFlags = append([]cli.Flag{
	cli.StringFlag{
		Name:  "tool",
		Value: "airdrop",
		Usage: "which pending queue to operate on (import/airdrop/sale)",
	},
	options.BatchSize,
	options.Timeout,
	options.Debug,
}, options.Network...)

// NewCommands returns the 'batch' command.
func NewCommands() []cli.Command {
	return []cli.Command{{
		Name:  "batch",
		Usage: "inspect, resume or discard interrupted submission runs",
		Subcommands: []cli.Command{
			{
				Name:      "status",
				Usage:     "show the pending queue of a tool",
				UsageText: "batch status --tool <name>",
				Action:    status,
				Flags:     batchFlags,
			},
			{
				Name:      "resume",
				Usage:     "re-batch and submit the remaining actions of an interrupted run",
				UsageText: "batch resume --tool <name> [--batch-size <n>]",
				Action:    resume,
				Flags:     batchFlags,
			},
			{
				Name:      "discard",
				Usage:     "drop the pending queue of a tool",
				UsageText: "batch discard --tool <name>",
				Action:    discard,
				Flags:     batchFlags,
			},
		},
	}}
}

func withCoordinator(ctx *cli.Context, f func(*batcher.Coordinator, *zap.Logger) error) error {
	cfg, err := options.GetConfigFromContext(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	log, err := options.HandleLoggingParams(ctx.Bool("debug"), cfg)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer log.Sync()

	signer, exitErr := options.GetSigner(cfg, log)
	if exitErr != nil {
		return exitErr
	}
	coord, closeStore, exitErr := options.GetCoordinator(cfg, ctx.String("tool"), signer, log)
	if exitErr != nil {
		return exitErr
	}
	defer closeStore()
	return f(coord, log)
}

func status(ctx *cli.Context) error {
	return withCoordinator(ctx, func(coord *batcher.Coordinator, _ *zap.Logger) error {
		run, err := coord.Pending()
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		if run == nil {
			fmt.Fprintf(ctx.App.Writer, "no pending run for tool %q\n", ctx.String("tool"))
			return nil
		}
		actions := len(batcher.Flatten(run.Batches))
		fmt.Fprintf(ctx.App.Writer, "run %s (%s): %d batches, %d actions, created %s\n",
			run.RunID, run.Tool, len(run.Batches), actions, run.Created.Format("2006-01-02 15:04:05 MST"))
		return nil
	})
}

func resume(ctx *cli.Context) error {
	return withCoordinator(ctx, func(coord *batcher.Coordinator, log *zap.Logger) error {
		if err := coord.Resume(ctx.Int("batch-size")); err != nil {
			return cli.NewExitError(err, 1)
		}
		gctx, cancel := options.GetTimeoutContext(ctx)
		defer cancel()

		report, err := coord.Run(gctx)
		if err != nil {
			log.Warn("resumed run halted again",
				zap.Int("submitted", report.Submitted),
				zap.Int("remaining", report.Remaining))
			return cli.NewExitError(err, 1)
		}
		fmt.Fprintf(ctx.App.Writer, "resumed run complete: %d batches submitted\n", report.Submitted)
		return nil
	})
}

func discard(ctx *cli.Context) error {
	return withCoordinator(ctx, func(coord *batcher.Coordinator, _ *zap.Logger) error {
		run, err := coord.Pending()
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		if run == nil {
			fmt.Fprintf(ctx.App.Writer, "no pending run for tool %q\n", ctx.String("tool"))
			return nil
		}
		if err := coord.Discard(); err != nil {
			return cli.NewExitError(err, 1)
		}
		fmt.Fprintf(ctx.App.Writer, "discarded run %s with %d batches\n", run.RunID, len(run.Batches))
		return nil
	})
}
