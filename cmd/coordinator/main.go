package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/securecookie"
	"github.com/jackc/pgx/v5/pgxpool"
	coordinator "github.com/tenantflow/coordinator"
	"github.com/tenantflow/coordinator/internal/config"
	"github.com/tenantflow/coordinator/oidc"
	"github.com/tenantflow/coordinator/sessionstorage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	storage := sessionstorage.NewPostgres(pool)

	sc := securecookie.New([]byte(cfg.CookieHashKey), []byte(cfg.CookieBlockKey))

	var oidcOpts []oidc.Option
	if cfg.InsecureCookies {
		oidcOpts = append(oidcOpts, oidc.WithInsecureCookies())
	}
	auth, err := oidc.New(ctx, sc, cfg.OIDCIssuer, cfg.OIDCClientID, cfg.OIDCClientSecret, cfg.OIDCRedirectURL, cfg.SigninURL, oidcOpts...)
	if err != nil {
		slog.Error("failed to initialize OIDC authenticator", "error", err)
		os.Exit(1)
	}

	c := coordinator.New(storage, auth, sc, coordinatorOptions(cfg)...)

	router := chi.NewRouter()
	c.Routes(router)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting session coordinator", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutting down server", "signal", sig.String())
	case err := <-serverErr:
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

func coordinatorOptions(cfg *config.Config) []coordinator.Option {
	opts := []coordinator.Option{
		coordinator.WithSessionTimeout(cfg.SessionTimeout),
		coordinator.WithBridgeWindow(cfg.BridgeWindow),
		coordinator.WithSigninURL(cfg.SigninURL),
		coordinator.WithOnboardingURL(cfg.OnboardingURL),
	}
	if len(cfg.AllowedRedirects) > 0 {
		opts = append(opts, coordinator.WithAllowedRedirects(cfg.AllowedRedirects...))
	}
	if cfg.AdminToken != "" {
		opts = append(opts, coordinator.WithAdminToken(cfg.AdminToken))
	}
	if cfg.CookieDomain != "" {
		opts = append(opts, coordinator.WithCookieDomain(cfg.CookieDomain))
	}
	if cfg.InsecureCookies {
		opts = append(opts, coordinator.WithInsecureCookies())
	}

	return opts
}

func setupLogger(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}
