package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/dindin/internal/config"
	"github.com/MrJamesThe3rd/dindin/internal/dashboard"
	dindinHttp "github.com/MrJamesThe3rd/dindin/internal/http"
	accountHandler "github.com/MrJamesThe3rd/dindin/internal/http/account"
	authHandler "github.com/MrJamesThe3rd/dindin/internal/http/auth"
	txHandler "github.com/MrJamesThe3rd/dindin/internal/http/transaction"
	userHandler "github.com/MrJamesThe3rd/dindin/internal/http/user"
	"github.com/MrJamesThe3rd/dindin/internal/remote"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger(os.Stdout)
	slog.SetDefault(logger)

	var (
		client       = remote.New(cfg.API.BaseURL, cfg.API.Timeout, remote.WithLogger(logger))
		dashboardSvc = dashboard.NewRemoteService(client)
	)

	var (
		authH        = authHandler.NewHandler(dashboardSvc)
		accountH     = accountHandler.NewHandler(dashboardSvc)
		transactionH = txHandler.NewHandler(dashboardSvc)
		userH        = userHandler.NewHandler(dashboardSvc)
	)

	router := dindinHttp.New(cfg.Server.AllowedOrigins, authH, accountH, transactionH, userH)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stopped := make(chan struct{})

	go func() {
		defer close(stopped)

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shut down server", "error", err)
		}
	}()

	slog.Info("starting server", "app", cfg.App.Name, "port", srv.Addr, "api", cfg.API.BaseURL)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}

	<-stopped
	slog.Info("server stopped")
}
