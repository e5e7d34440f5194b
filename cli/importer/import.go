// Package importer implements the table import CLI commands.
package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/FACINGS/collection-manager/cli/options"
	"github.com/FACINGS/collection-manager/pkg/importer"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

var importFlags = append([]cli.Flag{
	cli.StringFlag{
		Name:  "file, f",
		Usage: "delimited table to import, its base name becomes the schema name",
	},
	cli.StringFlag{
		Name:  "collection",
		Usage: "collection the schema and templates belong to",
	},
	cli.StringFlag{
		Name:  "schema",
		Usage: "schema name, defaults to the file base name",
	},
	cli.BoolFlag{
		Name:  "extend",
		Usage: "extend an existing schema instead of creating one",
	},
	options.BatchSize,
	options.Timeout,
	options.Debug,
}, append(options.Network, options.Auth...)...)

// NewCommands returns the 'import' command.
func NewCommands() []cli.Command {
	return []cli.Command{{
		Name:  "import",
		Usage: "compile a delimited table into schema and template actions",
		Subcommands: []cli.Command{
			{
				Name:      "validate",
				Usage:     "parse and validate a table without touching the chain",
				UsageText: "import validate --file <path>",
				Action:    validateTable,
				Flags:     importFlags,
			},
			{
				Name:      "run",
				Usage:     "validate, compile and submit a table in batches",
				UsageText: "import run --file <path> --collection <name> --actor <account> [--batch-size <n>] [--extend]",
				Action:    runImport,
				Flags:     importFlags,
			},
		},
	}}
}

// loadTable reads and parses the sheet, returning the schema name derived
// from the file base name unless overridden.
func loadTable(ctx *cli.Context) (string, *importer.Table, error) {
	path := ctx.String("file")
	if path == "" {
		return "", nil, fmt.Errorf("no input file specified, use option '--file' or '-f'")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, err
	}
	tab, err := importer.Parse(string(data))
	if err != nil {
		return "", nil, err
	}
	schema := ctx.String("schema")
	if schema == "" {
		schema = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return schema, tab, nil
}

func printDiagnostics(ctx *cli.Context, diags importer.Diagnostics) {
	for _, d := range diags.Blocking() {
		fmt.Fprintf(ctx.App.Writer, "error: %s\n", d)
	}
	for _, d := range diags.Advisories() {
		fmt.Fprintf(ctx.App.Writer, "note: %s\n", d)
	}
}

func validateTable(ctx *cli.Context) error {
	schema, tab, err := loadTable(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	// Compile against a placeholder collection: validation only needs the
	// schema name and the table itself.
	collection := ctx.String("collection")
	if collection == "" {
		collection = "collection"
	}
	actions, diags := importer.ValidateAndCompile(schema, tab, importer.CompileConfig{
		Collection: collection,
		Actor:      "actor",
		Permission: "active",
		Extend:     ctx.Bool("extend"),
	})
	printDiagnostics(ctx, diags)
	if len(diags.Blocking()) > 0 {
		return cli.NewExitError(fmt.Errorf("%d findings block the import", len(diags.Blocking())), 1)
	}
	fmt.Fprintf(ctx.App.Writer, "ok: schema %q, %d templates, %d actions\n", schema, len(tab.Records), len(actions))
	printPreviews(ctx, tab)
	return nil
}

// defaultIPFSGateway is used when no chain profile is available, validate
// works offline.
const defaultIPFSGateway = "https://ipfs.io/ipfs"

// printPreviews renders gateway URLs for the media cells of the first
// template row so the user can eyeball the content before importing.
func printPreviews(ctx *cli.Context, tab *importer.Table) {
	if len(tab.Records) == 0 {
		return
	}
	gateway := defaultIPFSGateway
	if cfg, err := options.GetConfigFromContext(ctx); err == nil && cfg.IPFSGateway != "" {
		gateway = cfg.IPFSGateway
	}
	for _, h := range []string{"img", "video"} {
		if v := tab.Records[0][h]; v != "" {
			fmt.Fprintf(ctx.App.Writer, "preview %s: %s/%s\n", h, strings.TrimRight(gateway, "/"), v)
		}
	}
}

func runImport(ctx *cli.Context) error {
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
	collection := ctx.String("collection")
	if collection == "" {
		return cli.NewExitError("no collection specified, use option '--collection'", 1)
	}

	schema, tab, err := loadTable(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	actions, diags := importer.ValidateAndCompile(schema, tab, importer.CompileConfig{
		Collection: collection,
		Actor:      actor,
		Permission: permission,
		Extend:     ctx.Bool("extend"),
	})
	printDiagnostics(ctx, diags)
	if len(diags.Blocking()) > 0 {
		return cli.NewExitError(fmt.Errorf("%d findings block the import", len(diags.Blocking())), 1)
	}

	signer, exitErr := options.GetSigner(cfg, log)
	if exitErr != nil {
		return exitErr
	}
	coord, closeStore, exitErr := options.GetCoordinator(cfg, "import", signer, log)
	if exitErr != nil {
		return exitErr
	}
	defer closeStore()

	if err := coord.Prepare("import", actions, ctx.Int("batch-size")); err != nil {
		return cli.NewExitError(err, 1)
	}
	gctx, cancel := options.GetTimeoutContext(ctx)
	defer cancel()

	report, err := coord.Run(gctx)
	if err != nil {
		log.Warn("import halted, remaining batches stay queued",
			zap.Int("submitted", report.Submitted),
			zap.Int("remaining", report.Remaining))
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintf(ctx.App.Writer, "import complete: %d batches, %d templates\n", report.Submitted, len(tab.Records))
	return nil
}
