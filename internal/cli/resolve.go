package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackprov/pkg/observability"
	"github.com/matzehuels/stackprov/pkg/provenance"
)

// resolveOpts holds flags for the resolve command.
type resolveOpts struct {
	json    bool
	refresh bool
}

// resolveCommand creates the resolve command for a single package.
func (c *CLI) resolveCommand() *cobra.Command {
	var opts resolveOpts

	cmd := &cobra.Command{
		Use:   "resolve <ecosystem> <name> <version>",
		Short: "Resolve the repository, tag and license of one package",
		Long: `Resolve the repository, tag and license of one package.

Ecosystems are maven, npm, pypi and nuget. Maven names use the
groupId:artifactId form.`,
		Example: `  stackprov resolve npm lodash 4.17.21
  stackprov resolve maven org.apache.commons:commons-lang3 3.14.0 --json
  stackprov resolve pypi requests 2.31.0 -v`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := provenance.NewIdentity(args[0], args[1], args[2])
			if err != nil {
				return err
			}
			return c.runResolve(cmd, id, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "print the record as JSON")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass the HTTP cache")

	return cmd
}

func (c *CLI) runResolve(cmd *cobra.Command, id provenance.PackageIdentity, opts resolveOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	spin := newSpinner(ctx, os.Stderr, "Resolving "+id.String())
	hooks := observability.Hooks{Resolution: logHooks{logger: logger}}
	if showSpinner(logger, opts.json) {
		hooks.Resolution = observability.MultiResolution(hooks.Resolution, spin)
		spin.Start()
	}
	defer spin.Stop()

	deps, err := c.newResolver(ctx, cfg, hooks, opts.refresh)
	if err != nil {
		return err
	}
	defer deps.Close()

	ctx, cancel := context.WithTimeout(ctx, cfg.ResolveTimeout())
	defer cancel()

	prog := newProgress(logger)
	rec := deps.reconciler.Reconcile(ctx, id)
	spin.Stop()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	prog.done("Resolved " + id.String())

	if opts.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	}
	fmt.Print(renderRecord(rec))
	return nil
}

// showSpinner is false for machine output and for debug logging, whose
// lines would interleave with the animation.
func showSpinner(logger *log.Logger, jsonOut bool) bool {
	return !jsonOut && logger.GetLevel() > log.DebugLevel
}
