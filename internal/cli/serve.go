package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/msomdec/auction-house/internal/cache"
	"github.com/msomdec/auction-house/internal/config"
	"github.com/msomdec/auction-house/internal/domain"
	"github.com/msomdec/auction-house/internal/handler"
	"github.com/msomdec/auction-house/internal/repository/sqlite"
	"github.com/msomdec/auction-house/internal/service"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.config()
			if err != nil {
				return err
			}
			// Graceful shutdown on SIGINT/SIGTERM.
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config) error {
	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	slog.Info("database migrations applied")

	categories, closeCache := categoryRepository(ctx, cfg, db)
	defer closeCache()

	auth, auction := newServices(cfg, db, categories)
	limiter := service.NewTokenBucket(ctx, cfg.LoginRate, cfg.LoginBurst)

	srv := newServer(cfg, auth, auction, limiter)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	slog.Info("server stopped")
	return nil
}

func newServer(cfg *config.Config, auth *service.AuthService, auction *service.AuctionService, limiter *service.TokenBucket) *http.Server {
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, auth, auction, limiter, cfg.CookieSecure)

	return &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.RequestLogger(handler.SecurityHeaders(mux)),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}
}

// categoryRepository returns the category repository to serve from. When
// REDIS_ADDR is set the list is cached in Redis; an unreachable server is
// logged and the cache degrades to the database on each miss.
func categoryRepository(ctx context.Context, cfg *config.Config, db *sqlite.DB) (domain.CategoryRepository, func()) {
	if cfg.RedisAddr == "" {
		return db.Categories(), func() {}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		slog.Warn("redis unavailable, category cache will miss", "addr", cfg.RedisAddr, "error", err)
	} else {
		slog.Info("category cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.CategoryCacheTTL)
	}

	repo := cache.NewCategoryRepository(rdb, cfg.CategoryCacheTTL, db.Categories(), "")
	return repo, func() { rdb.Close() }
}
