package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tinoosan/hacc/internal/config"
	"github.com/tinoosan/hacc/internal/dictionary"
	"github.com/tinoosan/hacc/internal/httpapi"
	"github.com/tinoosan/hacc/internal/notify"
	"github.com/tinoosan/hacc/internal/storage/memory"
	pgstore "github.com/tinoosan/hacc/internal/storage/postgres"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := cfg.NewLogger()
			slog.SetDefault(logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger)
		},
	}
}

// backend is the store the API runs on plus whatever must be closed with it.
// A nil publisher drops change notifications.
type backend struct {
	store     httpapi.Store
	publisher notify.Publisher
	ready     []httpapi.ReadyChecker
	closers   []func()
}

func (b *backend) close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

func openBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*backend, error) {
	b := &backend{}
	if cfg.DatabaseURL != "" {
		pg, err := pgstore.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		b.closers = append(b.closers, pg.Close)
		b.store, b.publisher = pg, pg
		if cfg.DevSeed {
			if err := seedIfEmpty(ctx, pg, logger); err != nil {
				b.close()
				return nil, err
			}
		}
		logger.Info("storage backend: postgres")
	} else {
		store := memory.New()
		if err := dictionary.Install(ctx, store, dictionary.Build()); err != nil {
			return nil, fmt.Errorf("seed memory store: %w", err)
		}
		b.store = store
		logger.Info("storage backend: memory")
	}

	if cfg.RedisURL != "" {
		client, err := notify.Dial(ctx, cfg.RedisURL)
		if err != nil {
			b.close()
			return nil, err
		}
		r := notify.NewRedis(client)
		b.closers = append(b.closers, func() { _ = r.Close() })
		b.publisher = r
		b.ready = append(b.ready, r)
		logger.Info("notifications: redis")
	}
	return b, nil
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	b, err := openBackend(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "err", err)
		return err
	}
	defer b.close()

	n := notify.New(b.publisher, cfg.NotifyChannel, logger)
	api := httpapi.New(b.store, n, httpapi.Options{
		Currency:           cfg.Currency,
		Channel:            cfg.NotifyChannel,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		RequestTimeout:     cfg.RequestTimeout,
		Production:         cfg.IsProduction(),
		Ready:              b.ready,
	}, logger)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Handler(),
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("hacc listening", "addr", srv.Addr, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", "err", err)
			return err
		}
		logger.Info("server stopped")
		return nil
	case err := <-errCh:
		logger.Error("server error", "err", err)
		return err
	}
}
