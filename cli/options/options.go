/*
Package options contains a set of common CLI options and helper functions to use them.
*/
package options

import (
	"context"
	"fmt"
	"time"

	"github.com/FACINGS/collection-manager/pkg/batcher"
	"github.com/FACINGS/collection-manager/pkg/client"
	"github.com/FACINGS/collection-manager/pkg/config"
	"github.com/FACINGS/collection-manager/pkg/storage"
	"github.com/urfave/cli"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultTimeout is the default timeout used for whole-command runs that
// may span many signed transactions.
const DefaultTimeout = 10 * time.Minute

// Network is a set of flags for choosing the chain to operate on.
var Network = []cli.Flag{
	cli.StringFlag{
		Name:  "chain, c",
		Value: "wax",
		Usage: "chain profile to use (wax/wax-testnet/eos/xpr)",
	},
	cli.StringFlag{
		Name:  "config-path",
		Value: "./config",
		Usage: "path to directory with per-chain configuration files",
	},
}

// Auth is a set of flags naming the account authorizing every emitted
// action.
var Auth = []cli.Flag{
	cli.StringFlag{
		Name:  "actor, a",
		Usage: "account that authorizes the emitted actions",
	},
	cli.StringFlag{
		Name:  "permission",
		Value: "active",
		Usage: "permission level to authorize with",
	},
}

// BatchSize is the flag selecting how many actions go into one signed
// transaction.
var BatchSize = cli.IntFlag{
	Name:  "batch-size, b",
	Value: 100,
	Usage: "actions per transaction (25/50/100/150/200)",
}

// Timeout is the flag bounding the whole command run.
var Timeout = cli.DurationFlag{
	Name:  "timeout, s",
	Value: DefaultTimeout,
	Usage: "timeout for the operation",
}

// Debug is a flag for commands that allow debug logging.
var Debug = cli.BoolFlag{
	Name:  "debug, d",
	Usage: "enable debug logging (overrides configuration)",
}

// GetConfigFromContext loads the chain profile selected by the flags.
func GetConfigFromContext(ctx *cli.Context) (config.Config, error) {
	return config.Load(ctx.String("config-path"), ctx.String("chain"))
}

// GetTimeoutContext returns a context.Context with the default or a
// user-set timeout.
func GetTimeoutContext(ctx *cli.Context) (context.Context, func()) {
	dur := ctx.Duration("timeout")
	if dur == 0 {
		dur = DefaultTimeout
	}
	return context.WithTimeout(context.Background(), dur)
}

// HandleLoggingParams reads logging parameters. If a user selected debug
// level, the function enables it.
func HandleLoggingParams(debug bool, cfg config.Config) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if len(cfg.LogLevel) > 0 {
		var err error
		level, err = zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("log setting: %w", err)
		}
	}
	if debug {
		level = zapcore.DebugLevel
	}

	cc := zap.NewProductionConfig()
	cc.DisableCaller = true
	cc.DisableStacktrace = true
	cc.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	cc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cc.Encoding = "console"
	cc.Level = zap.NewAtomicLevelAt(level)
	cc.Sampling = nil
	if cfg.LogPath != "" {
		cc.OutputPaths = []string{cfg.LogPath}
	}
	return cc.Build()
}

// GetIndexer returns an indexer client for the given profile.
func GetIndexer(cfg config.Config, log *zap.Logger) (*client.Indexer, cli.ExitCoder) {
	c, err := client.NewIndexer(cfg.AtomicAPI, client.Options{}, log)
	if err != nil {
		return nil, cli.NewExitError(err, 1)
	}
	return c, nil
}

// GetSigner returns a signer client for the given profile.
func GetSigner(cfg config.Config, log *zap.Logger) (*client.Signer, cli.ExitCoder) {
	s, err := client.NewSigner(cfg.SignerAPI, cfg.ChainID, client.Options{}, log)
	if err != nil {
		return nil, cli.NewExitError(err, 1)
	}
	return s, nil
}

// GetCoordinator wires the pending queue of the given tool to a fresh
// coordinator. The returned closer releases the underlying store.
func GetCoordinator(cfg config.Config, tool string, signer batcher.Submitter, log *zap.Logger) (*batcher.Coordinator, func() error, cli.ExitCoder) {
	store, err := storage.NewStore(cfg.DB)
	if err != nil {
		return nil, nil, cli.NewExitError(fmt.Errorf("could not open pending store: %w", err), 1)
	}
	queue := batcher.NewQueue(store, tool)
	coord := batcher.New(queue, signer, client.DefaultTransactOptions, log)
	return coord, store.Close, nil
}

// GetActor reads the actor/permission pair, the actor is mandatory.
func GetActor(ctx *cli.Context) (string, string, cli.ExitCoder) {
	actor := ctx.String("actor")
	if actor == "" {
		return "", "", cli.NewExitError("no actor specified, use option '--actor' or '-a'", 1)
	}
	return actor, ctx.String("permission"), nil
}
