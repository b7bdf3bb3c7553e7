package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/mjaros/listkeeper/internal/auth"
	"github.com/mjaros/listkeeper/internal/config"
	"github.com/mjaros/listkeeper/internal/docstore"
	fsstore "github.com/mjaros/listkeeper/internal/docstore/fs"
	gcsstore "github.com/mjaros/listkeeper/internal/docstore/gcs"
	"github.com/mjaros/listkeeper/internal/docstore/memory"
	pgstore "github.com/mjaros/listkeeper/internal/docstore/postgres"
	lkhttp "github.com/mjaros/listkeeper/internal/http"
	"github.com/mjaros/listkeeper/internal/http/handler"
	mw "github.com/mjaros/listkeeper/internal/http/middleware"
	"github.com/mjaros/listkeeper/internal/migrate"
	"github.com/mjaros/listkeeper/internal/workspace"
	"github.com/mjaros/listkeeper/pkg/observability"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to run: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadServerConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Root context for all normal operations, cancelled on SIGTERM/SIGINT.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	providers, err := observability.Init(ctx, cfg.Observability.ServiceName, cfg.Observability.OTelEnabled)
	if err != nil {
		return fmt.Errorf("failed to init observability: %w", err)
	}
	defer func() {
		// A timeout keeps shutdown from hanging when the collector is unreachable.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "failed to shutdown observability", "error", err)
		}
	}()
	slog.SetDefault(providers.Logger)

	slog.InfoContext(ctx, "starting listkeeper", "storage", cfg.Storage.Type)

	store, closeStore, err := newStore(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}
	defer closeStore()

	if cfg.Legacy.SQLitePath != "" {
		result, err := migrate.Import(ctx, store, cfg.Legacy.SQLitePath, cfg.Legacy.Owner)
		if err != nil {
			return fmt.Errorf("legacy import failed: %w", err)
		}
		slog.InfoContext(ctx, "legacy import done", "skipped", result.Skipped, "imported", result.Imported)
	}

	registry := workspace.NewRegistry(store, workspace.LogNotifier{})
	defer registry.Close()

	authenticator := auth.NewAuthenticator(store)
	router := lkhttp.NewRouter(
		handler.NewServer(ctx, registry),
		mw.NewAuth(authenticator),
	)

	server := &http.Server{
		Addr:              net.JoinHostPort(cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           otelhttp.NewHandler(http.MaxBytesHandler(router, cfg.HTTP.MaxBodyBytes), "listkeeper"),
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
	}

	errResult := make(chan error, 1)
	go func() {
		slog.InfoContext(ctx, "HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errResult <- fmt.Errorf("failed to serve HTTP: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.InfoContext(ctx, "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
		return nil
	case err := <-errResult:
		return err
	}
}

// newStore builds the configured document store backend. The returned
// close func is safe to call once serving has stopped.
func newStore(ctx context.Context, cfg config.StorageConfig) (docstore.Store, func(), error) {
	switch cfg.Type {
	case "memory":
		return memory.NewStore(), func() {}, nil
	case "fs":
		store, err := fsstore.NewStore(cfg.FSDir, fsstore.WithPollInterval(cfg.PollInterval))
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	case "postgres":
		store, err := pgstore.NewStore(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case "gcs":
		store, err := gcsstore.NewStore(ctx, cfg.GCSBucket, gcsstore.WithPollInterval(cfg.PollInterval))
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				slog.Warn("failed to close GCS store", "error", err)
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
