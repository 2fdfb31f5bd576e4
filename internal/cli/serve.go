package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/ballotblock/internal/config"
	"github.com/example/ballotblock/internal/wire"
)

func (e *env) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long:  "Serve the HTTP API until interrupted, then shut down gracefully",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := e.load(cmd)
			if err != nil {
				return err
			}

			a, err := wire.New(cfg, logger, e.clock)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger.Info().Str("database", cfg.Database.Path).Msg("starting server")
			return a.HTTPServer().ListenAndServe(ctx, cfg.Server.Listen)
		},
	}

	cmd.Flags().String("listen", "", "listen address (default 0.0.0.0:8080)")
	e.bind(cmd.Flags(), map[string]string{"listen": config.KeyServerListen})
	return cmd
}
