package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/memecached/memecached-web/internal/adapter/postgres"
	memerepo "github.com/memecached/memecached-web/internal/adapter/postgres/meme"
	tagrepo "github.com/memecached/memecached-web/internal/adapter/postgres/tag"
	userrepo "github.com/memecached/memecached-web/internal/adapter/postgres/user"
	"github.com/memecached/memecached-web/internal/adapter/s3store"
	"github.com/memecached/memecached-web/internal/auth"
	"github.com/memecached/memecached-web/internal/config"
	memesvc "github.com/memecached/memecached-web/internal/service/meme"
	tagsvc "github.com/memecached/memecached-web/internal/service/tag"
	uploadsvc "github.com/memecached/memecached-web/internal/service/upload"
	"github.com/memecached/memecached-web/internal/transport/middleware"
	"github.com/memecached/memecached-web/internal/transport/rest"
)

// requestsPerMinute caps requests per client IP. Generous for a personal
// catalog; mostly guards against runaway reconciliation loops in clients.
const requestsPerMinute = 300

// Run is the application entry point. It loads configuration, connects to
// PostgreSQL and S3, wires the services behind the REST router, and serves
// until the context is cancelled or a shutdown signal arrives.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Database.MigrateOnStart {
		if err := postgres.Migrate(ctx, cfg.Database.DSN); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
		logger.Info("migrations applied")
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	store, err := s3store.New(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("init object storage: %w", err)
	}

	memes := memerepo.New(pool)
	tags := tagrepo.New(pool)
	users := userrepo.New(pool)
	txManager := postgres.NewTxManager(pool)

	tokens := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTTL)
	gate := auth.NewGate(tokens, users)

	memeService := memesvc.NewService(logger, memes, tags, store, txManager)
	tagService := tagsvc.NewService(logger, tags)
	uploadService := uploadsvc.NewService(logger, store)

	limiter := middleware.NewRateLimiter(5 * time.Minute)
	defer limiter.Stop()

	router := rest.NewRouter(
		rest.NewMemeHandler(memeService, logger),
		rest.NewTagHandler(tagService, logger),
		rest.NewUploadHandler(uploadService, logger),
		rest.NewHealthHandler(pool, BuildVersion()),
	)

	handler := middleware.Chain(
		middleware.RequestID,
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
		middleware.Auth(gate),
		limiter.Limit(requestsPerMinute),
	)(router)

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	logger.Info("shutdown complete")
	return nil
}
