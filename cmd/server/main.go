// Command recipes-server starts the recipe sharing HTTP API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/recipebox/internal/config"
	"github.com/and161185/recipebox/internal/migrate"
	"github.com/and161185/recipebox/internal/repository/postgres"
	"github.com/and161185/recipebox/internal/server/health"
	httpserver "github.com/and161185/recipebox/internal/server/http"
	"github.com/and161185/recipebox/internal/service"
	"github.com/and161185/recipebox/internal/token"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

const healthInterval = 10 * time.Second

// main parses configuration, runs migrations, and serves the API until signalled.
func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", cfg.Addr),
	)

	if err := run(cfg, logger); err != nil {
		logger.Error("server error", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	lc := zap.NewProductionConfig()
	if cfg.Dev {
		lc = zap.NewDevelopmentConfig()
	}
	lvl, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	lc.Level = lvl
	return lc.Build()
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := migrate.Up(ctx, cfg.DSN); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}

	db, err := postgres.New(ctx, cfg.DSN)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer db.Close()

	tokens, err := token.New([]byte(cfg.JWTKey), cfg.TokenTTL, token.WithPreviousKeys(cfg.PreviousKeys()...))
	if err != nil {
		return fmt.Errorf("token: %w", err)
	}

	// Repositories
	userRepo := postgres.NewUserRepo(db)
	recipeRepo := postgres.NewRecipeRepo(db)
	reviewRepo := postgres.NewReviewRepo(db)

	// Services
	authSvc := service.NewAuthService(userRepo, tokens)
	recipeSvc := service.NewRecipeService(recipeRepo)
	reviewSvc := service.NewReviewService(recipeRepo, reviewRepo)
	rankingSvc := service.NewRankingService(recipeRepo)

	api := httpserver.New(authSvc, recipeSvc, reviewSvc, rankingSvc,
		httpserver.WithLogger(logger),
		httpserver.WithCookiePolicy(httpserver.CookiePolicy{AlwaysSecure: cfg.CookieSecure}),
	)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          zap.NewStdLog(logger),
	}

	errCh := make(chan error, 2)

	var hs *health.Server
	if cfg.HealthAddr != "" {
		hs = health.New(logger, cfg.Dev)
		lis, err := net.Listen("tcp", cfg.HealthAddr)
		if err != nil {
			return fmt.Errorf("health listen: %w", err)
		}
		if err := hs.Probe(ctx, db, healthInterval); err != nil {
			logger.Warn("initial storage ping failed", zap.Error(err))
		}
		go hs.Watch(ctx, db, healthInterval)
		go func() {
			logger.Info("health listening", zap.String("addr", cfg.HealthAddr))
			if err := hs.Serve(lis); err != nil {
				errCh <- fmt.Errorf("health: %w", err)
			}
		}()
	}

	go func() {
		var err error
		if cfg.TLSCert != "" {
			logger.Info("listening (TLS)", zap.String("addr", cfg.Addr))
			err = srv.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
		} else {
			logger.Info("listening", zap.String("addr", cfg.Addr))
			err = srv.ListenAndServe()
		}
		if !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}

	if hs != nil {
		hs.Stop()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown timed out", zap.Error(err))
		_ = srv.Close()
	}
	return runErr
}
