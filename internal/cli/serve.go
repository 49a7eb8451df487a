package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sortstage/internal/server"
	"github.com/matzehuels/sortstage/pkg/cache"
)

// serveCommand creates the serve command for the HTTP trace API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		redisAddr string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve trace computation over HTTP",
		Long: `Serve trace computation over HTTP.

Exposes the headless engine as a small JSON API:

  GET  /healthz     liveness probe
  GET  /algorithms  supported algorithms
  POST /trace       compute a step trace

Computed traces are cached: file-backed by default, Redis-backed with
--redis (useful when several instances should share results). Exactly one
run executes at a time; overlapping requests get 409 ALREADY_RUNNING.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var (
				store cache.Cache
				err   error
			)
			switch {
			case noCache:
				store = cache.NewNullCache()
			case redisAddr != "":
				store, err = cache.NewRedisCache(ctx, cache.RedisConfig{Addr: redisAddr})
			default:
				store, err = newCache(false)
			}
			if err != nil {
				return fmt.Errorf("initialize cache: %w", err)
			}
			defer store.Close()

			return server.New(store, c.Logger).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "redis address for a shared trace cache (host:port)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
