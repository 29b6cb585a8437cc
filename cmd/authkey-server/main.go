// @title        Authenticity Key API
// @version      1.0
// @description  Registers product verification keys on the ARK blockchain and verifies product signatures.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/AlexZinkM/authenticity-key/docs"
	"github.com/AlexZinkM/authenticity-key/internal/api"
	"github.com/AlexZinkM/authenticity-key/internal/client"
	"github.com/AlexZinkM/authenticity-key/internal/config"
	"github.com/AlexZinkM/authenticity-key/internal/issuer"
	"github.com/AlexZinkM/authenticity-key/internal/logging"
	"github.com/AlexZinkM/authenticity-key/verification"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	envErr := godotenv.Load()

	if err := config.Init(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg := config.Get()

	logger := logging.New(logging.ParseLevel(cfg.LogLevel), cfg.LogFile, cfg.LogJSON)
	defer func() { _ = logger.Sync() }()
	if envErr != nil {
		logger.Debug("no .env file found, reading from environment")
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("server failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gateway, err := client.NewArkClient(client.Options{
		Timeout:        cfg.RequestTimeout,
		MaxRetries:     cfg.MaxRetries,
		RetryBackoff:   cfg.RetryBackoff,
		BroadcastPeers: cfg.BroadcastPeers,
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	opts := []verification.Option{verification.WithLogger(logger)}
	registry, err := issuer.Open(ctx, cfg.IssuerRedisURL, cfg.IssuerRedisKey, cfg.TrustedIssuers)
	if err != nil {
		return fmt.Errorf("failed to open issuer registry: %w", err)
	}
	if registry != nil {
		defer registry.Close()
		opts = append(opts, verification.WithIssuerRegistry(registry))
	} else {
		logger.Warn("no trusted issuers configured, every client will be reported as not verified")
	}

	engine := verification.NewEngine(gateway, opts...)
	conn, err := engine.Connect(ctx, cfg.Network, cfg.Node)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", cfg.Network, err)
	}
	logger.Info("connected to blockchain",
		zap.String("network", conn.Network),
		zap.String("node", conn.Node),
		zap.String("nethash", conn.Nethash),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      api.SetupRouter(cfg, engine, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * cfg.RequestTimeout * time.Duration(cfg.MaxRetries+1),
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	if err := gateway.Wait(shutdownCtx); err != nil {
		logger.Warn("rebroadcasts still running at shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
	return nil
}
