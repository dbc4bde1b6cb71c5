package main

import (
	"context"
	"espn-ffl/internal/config"
	"espn-ffl/internal/constants"
	fxmodules "espn-ffl/internal/fx"
	"espn-ffl/internal/server"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func newServeCmd(g *globalFlags) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve bias-corrected projections over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fx.New(
				fxmodules.Module,
				fx.NopLogger,
				fx.Decorate(g.decorateLogger),
				fx.Decorate(func(cfg *config.Config) *config.Config {
					if port != "" {
						cfg.ServerPort = port
					}
					return cfg
				}),
				fx.Invoke(runServer),
			)
			if err := app.Err(); err != nil {
				return err
			}

			startCtx, cancel := context.WithTimeout(cmd.Context(), constants.ShutdownTimeout)
			defer cancel()
			if err := app.Start(startCtx); err != nil {
				return err
			}

			<-cmd.Context().Done()

			stopCtx, stopCancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer stopCancel()
			return app.Stop(stopCtx)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (defaults to SERVER_PORT or 8080)")
	return cmd
}

func runServer(
	lc fx.Lifecycle,
	projections *server.ProjectionServer,
	cfg *config.Config,
	logger zerolog.Logger,
) {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: projections.Handler(),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info().Str("addr", srv.Addr).Msg("server starting")
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Fatal().Err(err).Msg("server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("shutting down server")
			if err := srv.Shutdown(ctx); err != nil {
				logger.Error().Err(err).Msg("server shutdown failed")
				return err
			}
			logger.Info().Msg("server stopped gracefully")
			return nil
		},
	})
}
