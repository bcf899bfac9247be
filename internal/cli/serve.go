package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/refit/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
		jobs    int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the remap engine over HTTP",
		Long: `Serve the remap engine over HTTP.

Routes:
  GET  /healthz         liveness probe
  POST /v1/remap        remap one request document
  POST /v1/remap/batch  remap {"requests": [...]} in parallel

The cache backend is taken from the config file; use the redis backend to
share payloads between instances.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			runner, err := c.newRunner(ctx, cfg, noCache)
			if err != nil {
				return fmt.Errorf("init cache: %w", err)
			}
			defer runner.Close()

			srv := server.New(runner, loggerFromContext(ctx))
			if jobs > 0 {
				srv.BatchLimit = jobs
			}

			printKeyValue("address", cfg.Server.Addr)
			printKeyValue("cache", cfg.Cache.Backend)
			return srv.ListenAndServe(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the payload cache")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "passes run in parallel per batch call")

	return cmd
}
