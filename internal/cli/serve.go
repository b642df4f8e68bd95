package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/matzehuels/obscura/internal/server"
	"github.com/matzehuels/obscura/pkg/session"
)

// serveCommand runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve playback sessions over HTTP",
		Long: `Serve the HTTP API. Clients create a session from lyric text or LRC and poll
grid frames for it. Sessions live in memory, or in redis when
server.sessions = "redis" so that several instances can share them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.config()
			if addr == "" {
				addr = cfg.Server.Addr
			}

			store, closeStore, err := c.openSessionStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			lookup, closeCache, err := c.newLookup(ctx, noCache)
			if err != nil {
				return err
			}
			defer closeCache()

			srv := server.New(store, lookup, loggerFromContext(ctx), server.Options{
				SessionTTL:      cfg.Server.SessionTTL.Duration,
				RefreshInterval: cfg.Playback.RefreshInterval.Duration,
			})
			err = srv.ListenAndServe(ctx, addr)
			if stderrors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the lookup cache")

	return cmd
}

// openSessionStore creates the configured session store.
func (c *CLI) openSessionStore(ctx context.Context) (session.Store, func(), error) {
	cfg := c.config()
	if cfg.Server.Sessions != "redis" {
		return session.NewMemoryStore(), func() {}, nil
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.Cache.RedisAddr, DB: cfg.Cache.RedisDB})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("connect to redis %s: %w", cfg.Cache.RedisAddr, err)
	}
	return session.NewRedisStore(client, ""), func() { _ = client.Close() }, nil
}
