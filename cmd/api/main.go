package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"jared-gpt/config"
	_ "jared-gpt/docs" // Swagger docs
	tgDelivery "jared-gpt/internal/chat/delivery/telegram"
	"jared-gpt/internal/chat/repository/memory"
	"jared-gpt/internal/chat/usecase"
	"jared-gpt/internal/httpserver"
	"jared-gpt/internal/observability/metrics"
	"jared-gpt/internal/webhook"
	"jared-gpt/pkg/log"
	"jared-gpt/pkg/openai"
	"jared-gpt/pkg/telegram"
)

const webhookPath = "/webhook/telegram"

// @title       Jared GPT API
// @description Telegram bot that answers /ask questions through an OpenAI-compatible chat completion API.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		os.Exit(1)
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting Jared GPT...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)
	logger.Infof(ctx, "Completion service: %s (model %s)", cfg.OpenAI.BaseURL, cfg.OpenAI.Model)

	// 3. Completion client
	llm, err := openai.New(openai.Config{
		APIKey:  cfg.OpenAI.APIKey,
		Model:   cfg.OpenAI.Model,
		BaseURL: cfg.OpenAI.BaseURL,
		Timeout: cfg.OpenAI.Timeout,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize OpenAI client: ", err)
		os.Exit(1)
	}

	// 4. Chat domain
	chatMetrics := metrics.NewChatMetrics(nil)
	historyRepo := memory.New(cfg.Conversation.MaxHistory)
	bot := telegram.NewBot(cfg.Telegram.BotToken)

	chatUC := usecase.New(logger, historyRepo, llm, tgDelivery.NewMessenger(bot), chatMetrics, usecase.Config{
		Model:         cfg.OpenAI.Model,
		Preamble:      cfg.OpenAI.Preamble,
		RecordReplies: cfg.Conversation.RecordReplies,
	})

	telegramHandler := tgDelivery.New(logger, chatUC, chatMetrics, tgDelivery.Config{
		RequestTimeout: cfg.Conversation.RequestTimeout,
		Security: webhook.SecurityConfig{
			SecretToken:     cfg.Telegram.SecretToken,
			AllowedIPs:      cfg.Webhook.AllowedIPs,
			RateLimitPerMin: cfg.Webhook.RateLimitPerMin,
		},
	})

	// 5. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:          logger,
		Port:            cfg.HTTPServer.Port,
		Mode:            cfg.HTTPServer.Mode,
		Environment:     cfg.Environment.Name,
		TrustedProxies:  cfg.Webhook.TrustedProxies,
		TelegramHandler: telegramHandler,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		os.Exit(1)
	}

	// 6. Run
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpServer.Run(gctx)
	})
	g.Go(func() error {
		registerWebhook(gctx, logger, bot, cfg.Telegram)
		return nil
	})

	runErr := g.Wait()

	// Let accepted /ask messages finish and reply before exiting.
	drainCtx, cancel := context.WithTimeout(context.Background(), cfg.Conversation.RequestTimeout)
	defer cancel()
	if err := telegramHandler.Wait(drainCtx); err != nil {
		logger.Warnf(drainCtx, "Gave up waiting for in-flight messages: %v", err)
	}

	if runErr != nil {
		logger.Error(ctx, "Server stopped with error: ", runErr)
		os.Exit(1)
	}

	logger.Info(ctx, "Server stopped gracefully")
}

// registerWebhook points Telegram at this service. A failure is logged
// only: the webhook may already be registered from a previous run.
func registerWebhook(ctx context.Context, logger log.Logger, bot *telegram.Bot, cfg config.TelegramConfig) {
	webhookURL := cfg.WebhookURL
	if webhookURL == "" && cfg.NgrokAPIURL != "" {
		publicURL, err := detectNgrokURL(ctx, cfg.NgrokAPIURL)
		if err != nil {
			logger.Warnf(ctx, "Could not detect ngrok URL: %v", err)
			return
		}
		webhookURL = publicURL + webhookPath
		logger.Infof(ctx, "Auto-detected ngrok URL: %s", webhookURL)
	}

	if webhookURL == "" {
		logger.Warn(ctx, "telegram.webhook_url not set, assuming the webhook is registered elsewhere")
		return
	}

	if err := bot.SetWebhook(ctx, webhookURL, cfg.SecretToken); err != nil {
		logger.Warnf(ctx, "Failed to set Telegram webhook: %v", err)
		return
	}
	logger.Infof(ctx, "Telegram webhook registered at %s", webhookURL)
}
