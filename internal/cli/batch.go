package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackprov/pkg/batch"
	"github.com/matzehuels/stackprov/pkg/config"
	"github.com/matzehuels/stackprov/pkg/errors"
	"github.com/matzehuels/stackprov/pkg/observability"
	"github.com/matzehuels/stackprov/pkg/provenance"
	"github.com/matzehuels/stackprov/pkg/report"
	"github.com/matzehuels/stackprov/pkg/store"
)

// batchOpts holds flags for the batch command.
type batchOpts struct {
	workers int
	format  string
	output  string
	store   string
	tui     bool
	refresh bool
}

// batchCommand creates the batch command for package lists.
func (c *CLI) batchCommand() *cobra.Command {
	var opts batchOpts

	cmd := &cobra.Command{
		Use:   "batch <packages-file>",
		Short: "Resolve a list of packages into a report",
		Long: `Resolve a list of packages into a report.

The input is a CSV file with ecosystem,name,version rows or a YAML
manifest with a "packages" list. Records are written in input order.
Packages that fail to resolve still produce a row with empty fields.`,
		Example: `  stackprov batch packages.csv -o provenance.csv
  stackprov batch packages.yaml --format jsonl --workers 16
  stackprov batch packages.csv --store mongo --tui`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBatch(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "concurrent resolutions (default from config)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "report format: csv, json, jsonl (default from -o extension, else csv)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "report file (default stdout)")
	cmd.Flags().StringVar(&opts.store, "store", "", `also store records; "mongo" upserts into store.mongo_uri`)
	cmd.Flags().BoolVar(&opts.tui, "tui", false, "show live progress")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass the HTTP cache")

	return cmd
}

func (c *CLI) runBatch(ctx context.Context, path string, opts batchOpts) error {
	logger := loggerFromContext(ctx)

	format, err := reportFormat(opts.format, opts.output)
	if err != nil {
		return err
	}
	ids, rejected, err := report.ReadPackagesFile(path)
	if err != nil {
		return err
	}
	for _, r := range rejected {
		logger.Warn("Skipping package", "file", path, "position", r.Position, "err", r.Err)
	}
	if len(ids) == 0 {
		logger.Warnf("No packages in %s", path)
		return nil
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	deps, err := c.newResolver(ctx, cfg, observability.Hooks{Resolution: logHooks{logger: logger}}, opts.refresh)
	if err != nil {
		return err
	}
	defer deps.Close()

	runOpts := batch.Options{
		Workers: cfg.Resolve.Workers,
		Timeout: cfg.ResolveTimeout(),
	}
	if opts.workers > 0 {
		runOpts.Workers = opts.workers
	}
	if opts.store != "" {
		sink, err := openSink(ctx, cfg, opts.store)
		if err != nil {
			return err
		}
		defer sink.Close(context.WithoutCancel(ctx))
		runOpts.Sink = sink
	}

	logger.Infof("Resolving %d packages with %d workers", len(ids), max(runOpts.Workers, 1))
	prog := newProgress(logger)

	var res *batch.Result
	if opts.tui {
		res, err = runBatchTUI(ctx, deps, ids, runOpts)
	} else {
		runOpts.OnResult = func(ev batch.Event) {
			if ev.Err != nil {
				logger.Warn("store failed", "package", ev.Record.Identity.String(), "err", ev.Err)
			}
			logger.Debug("resolved", "package", ev.Record.Identity.String(), "license", licenseOf(ev))
		}
		res, err = batch.Run(ctx, deps.reconciler, ids, runOpts)
	}
	if res == nil {
		return err
	}
	records := res.Completed()
	if werr := writeReport(opts.output, format, records); werr != nil {
		return werr
	}
	if err != nil {
		logger.Warnf("Interrupted after %d of %d packages", len(records), len(ids))
		return err
	}

	prog.done(fmt.Sprintf("Resolved %d packages", len(records)))
	printSummary(os.Stderr, res.Summarize())
	logger.Debug("run", "id", res.RunID)
	return nil
}

// runBatchTUI runs the batch while a bubbletea program renders progress.
func runBatchTUI(ctx context.Context, deps *resolverDeps, ids []provenance.PackageIdentity, opts batch.Options) (*batch.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewBatchModel(len(ids), cancel), tea.WithOutput(os.Stderr), tea.WithContext(ctx))
	opts.OnResult = func(ev batch.Event) { p.Send(resultMsg(ev)) }

	var (
		res    *batch.Result
		runErr error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		res, runErr = batch.Run(ctx, deps.reconciler, ids, opts)
		p.Send(batchDoneMsg{})
	}()

	final, err := p.Run()
	cancel()
	<-done
	if err != nil && !stderrors.Is(err, tea.ErrProgramKilled) {
		return res, err
	}
	if m, ok := final.(BatchModel); ok && m.Cancelled {
		return res, context.Canceled
	}
	return res, runErr
}

func openSink(ctx context.Context, cfg *config.Config, kind string) (store.Sink, error) {
	if kind != "mongo" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown store %q (want mongo)", kind)
	}
	return store.NewMongoSink(ctx, store.MongoConfig{
		URI:        cfg.Store.MongoURI,
		Database:   cfg.Store.Database,
		Collection: cfg.Store.Collection,
	})
}

// reportFormat picks the report format from the flag or the output file
// extension.
func reportFormat(flag, output string) (string, error) {
	f := strings.ToLower(flag)
	if f == "" {
		switch strings.ToLower(filepath.Ext(output)) {
		case ".json":
			f = report.FormatJSON
		case ".jsonl", ".ndjson":
			f = report.FormatJSONL
		default:
			f = report.FormatCSV
		}
	}
	switch f {
	case report.FormatCSV, report.FormatJSON, report.FormatJSONL:
		return f, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown report format %q (want csv, json or jsonl)", flag)
}

func writeReport(path, format string, records []*provenance.ProvenanceRecord) error {
	var w io.Writer = os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		defer f.Close()
		w = f
	}
	if err := report.Write(w, format, records); err != nil {
		return err
	}
	if path != "" {
		printFile(path)
	}
	return nil
}

func licenseOf(ev batch.Event) string {
	if ev.Record.License == nil {
		return ""
	}
	return ev.Record.License.SPDXExpression
}
