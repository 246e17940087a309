package telegram

import (
	"context"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"jared-gpt/internal/chat"
	"jared-gpt/internal/observability/metrics"
	"jared-gpt/internal/webhook"
	pkgLog "jared-gpt/pkg/log"
)

// DefaultRequestTimeout bounds the background handling of one message.
const DefaultRequestTimeout = 90 * time.Second

// Handler is the interface for the Telegram delivery handler.
type Handler interface {
	HandleWebhook(c *gin.Context)

	// Wait drains messages still being handled in the background.
	Wait(ctx context.Context) error
}

// Config holds the delivery settings.
type Config struct {
	RequestTimeout time.Duration
	Security       webhook.SecurityConfig
	Dedup          webhook.DedupConfig
}

type handler struct {
	l        pkgLog.Logger
	uc       chat.UseCase
	metrics  *metrics.ChatMetrics
	security *webhook.SecurityValidator
	dedup    *webhook.Deduplicator
	timeout  time.Duration
	inflight sync.WaitGroup
}

// New creates a new Telegram delivery handler. metrics may be nil.
func New(l pkgLog.Logger, uc chat.UseCase, m *metrics.ChatMetrics, cfg Config) Handler {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	return &handler{
		l:        l,
		uc:       uc,
		metrics:  m,
		security: webhook.NewSecurityValidator(cfg.Security),
		dedup:    webhook.NewDeduplicator(cfg.Dedup),
		timeout:  timeout,
	}
}
