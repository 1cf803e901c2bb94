package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"billbook/internal/amqp"
	"billbook/internal/assistant"
	"billbook/internal/chat"
	"billbook/internal/config"
	apphttp "billbook/internal/http"
	applog "billbook/internal/log"
	"billbook/internal/services"
	"billbook/internal/store"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	slog.SetDefault(logger.Logger)

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

	transcript, err := chat.NewMessageStore(cfg.ChatStorePath)
	if err != nil {
		logger.Error("Failed to open chat store", "error", err, "path", cfg.ChatStorePath)
		os.Exit(1)
	}

	// AMQP is optional: without a URL, bill events stay local.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	bills := services.NewBillService(st, amqpClient)
	defer func() {
		if err := bills.Close(); err != nil {
			logger.Error("Failed to close bill service", "error", err)
		}
	}()

	// The assistant is optional too; the chat endpoint answers 503 without it.
	var assist *assistant.Assistant
	if cfg.AssistantAPIKey != "" || cfg.AssistantBaseURL != "" {
		completer := assistant.NewOpenAIClient(assistant.ClientConfig{
			APIKey:      cfg.AssistantAPIKey,
			BaseURL:     cfg.AssistantBaseURL,
			Model:       cfg.AssistantModel,
			Temperature: float32(cfg.AssistantTemperature),
			MaxTokens:   cfg.AssistantMaxTokens,
		})
		assist = assistant.New(completer, bills, transcript)
		logger.Info("Assistant initialized", "model", cfg.AssistantModel)
	} else {
		logger.Info("Assistant disabled - no API key or base URL provided")
	}

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Bills:                 bills,
		Transcript:            transcript,
		Assistant:             assist,
		StatsCacheTTL:         cfg.StatsCacheTTL,
		ChatRequestsPerMinute: cfg.ChatRequestsPerMinute,
	})

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
		cancel()
	}()

	logger.Info("Starting billbook server", "port", cfg.Port, "backend", cfg.StoreBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
