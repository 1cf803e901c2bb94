package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"billbook/internal/amqp"
	"billbook/internal/config"
	"billbook/internal/export"
	gsheet "billbook/internal/export/google"
	mem "billbook/internal/export/memory"
	applog "billbook/internal/log"
	"billbook/internal/store"
	"billbook/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentWorker)
	slog.SetDefault(logger.Logger)

	logger.Info("Starting billbook-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	st, err := store.Open(cfg.StoreBackend, cfg.StorePath())
	if err != nil {
		logger.Error("Failed to open bill store", "error", err, "backend", cfg.StoreBackend)
		os.Exit(1)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error("Failed to close bill store", "error", err)
		}
	}()

	var writer export.BillWriter
	if cfg.SheetsSpreadsheetID != "" {
		client, err := gsheet.NewFromEnv(context.Background(), cfg.SheetsSpreadsheetID, cfg.SheetsName)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		writer = client
		logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.SheetsSpreadsheetID)
	} else {
		writer = mem.New()
		logger.Info("Google Sheets disabled - mirroring to memory only")
	}

	syncWorker := worker.NewSyncWorker(st, writer, 4)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	// AMQP consumption is optional; without it the worker only reconciles.
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()

		g.Go(func() error {
			return amqpClient.ConsumeBillEvents(ctx, syncWorker.HandleBillEvent)
		})
	} else {
		logger.Info("AMQP disabled - relying on periodic reconciliation only")
	}

	g.Go(func() error {
		return syncWorker.Run(ctx, cfg.SyncInterval)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
