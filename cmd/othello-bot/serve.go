package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/park285/Othello-Nostr-bot/internal/httpapi"
	"github.com/park285/Othello-Nostr-bot/internal/obslog"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Answer inbound events over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := wireApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			logger := obslog.L()
			srv := httpapi.New(a.responder,
				httpapi.WithLogger(logger),
				httpapi.WithRequestTimeout(a.cfg.RequestTimeout),
			)
			errCh := make(chan error, 1)
			go func() { errCh <- srv.ListenAndServe(a.cfg.ListenAddr) }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}
			logger.Info("shutdown_requested")
			sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(sctx); err != nil {
				logger.Warn("shutdown_failed", zap.Error(err))
			}
			return nil
		},
	}
}
