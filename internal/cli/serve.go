package cli

import (
	stderrors "errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackprov/pkg/api"
	"github.com/matzehuels/stackprov/pkg/observability"
	"github.com/matzehuels/stackprov/pkg/observability/prom"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve provenance resolution over HTTP",
		Long: `Serve provenance resolution over HTTP.

Endpoints:
  GET /v1/provenance?ecosystem=npm&name=lodash&version=4.17.21
  GET /healthz
  GET /metrics

Use cache.backend = "redis" to share registry responses between replicas.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Serve.Listen = listen
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			metrics := prom.New(reg)

			hooks := observability.Hooks{
				Resolution: observability.MultiResolution(logHooks{logger: logger}, metrics),
				Cache:      metrics,
				HTTP:       metrics,
			}
			deps, err := c.newResolver(ctx, cfg, hooks, false)
			if err != nil {
				return err
			}
			defer deps.Close()

			srv := api.New(deps.reconciler, api.Options{
				Timeout:  cfg.ResolveTimeout(),
				Gatherer: reg,
				Logger:   logger,
			})
			logger.Info("Listening", "addr", cfg.Serve.Listen, "cache", cfg.Cache.Backend, "clearinghouse", cfg.Clearinghouse.Mode)
			if err := srv.ListenAndServe(ctx, cfg.Serve.Listen); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
				return err
			}
			logger.Info("Server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default from config, :8080)")

	return cmd
}
