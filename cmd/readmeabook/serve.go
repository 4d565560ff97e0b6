package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/readmeabook/readmeabook/internal/api"
	"github.com/readmeabook/readmeabook/internal/config"
	"github.com/readmeabook/readmeabook/internal/indexer/search"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the ranking API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			log, err := ctx.newLogger(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer log.Close()
			appLog := log.WithComponent("serve")

			appLog.Info().
				Str("version", config.Version).
				Str("logLevel", cfg.Logging.Level).
				Msg("starting readmeabook")

			searchService := search.NewService(cfg.Ranking.Policy(), log.Logger)
			server := api.NewServer(cfg, searchService, log.Logger)

			sigCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.Start(cfg.Server.Address())
			}()

			select {
			case err := <-errCh:
				return err
			case <-sigCtx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				appLog.Error().Err(err).Msg("server shutdown failed")
				return err
			}
			appLog.Info().Msg("server stopped")
			return nil
		},
	}
}
