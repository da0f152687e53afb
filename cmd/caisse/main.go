package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"caisse/internal/amqp"
	"caisse/internal/auth"
	"caisse/internal/backend"
	"caisse/internal/cli"
	apphttp "caisse/internal/http"
	"caisse/internal/ledger"
	"caisse/internal/lookup"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	res, err := backend.Create(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize ledger backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	lists := lookup.NewFromFiles(cfg.DataDir)

	passwordHash := cfg.AdminPasswordHash
	if passwordHash == "" && cfg.AdminPassword != "" {
		passwordHash, err = auth.HashPassword(cfg.AdminPassword)
		if err != nil {
			logger.Error("Failed to hash admin password", "error", err)
			os.Exit(1)
		}
	}
	if passwordHash == "" {
		logger.Warn("No admin password configured, admin area disabled")
	}
	sessions := auth.New(cfg.AdminUsername, passwordHash, cfg.SessionTTL)

	// Event mirroring is optional: without a broker the ledger still
	// works, it just has no durable archive.
	var events ledger.EventPublisher
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		events = amqpClient
		logger.Info("Event mirroring enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("Event mirroring disabled - no AMQP_URL provided")
	}

	srv := apphttp.NewServer(":"+cfg.Port, res.Store, lists, sessions, events)

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				logger.Error("AMQP close error", "error", err)
			}
		}
		if res.Cleanup != nil {
			if err := res.Cleanup(); err != nil {
				logger.Error("Backend cleanup error", "error", err)
			}
		}
		cancel()
	}()

	logger.Info("Starting caisse server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
