package httpserver

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	tgDelivery "jared-gpt/internal/chat/delivery/telegram"
	"jared-gpt/pkg/log"
)

const defaultShutdownTimeout = 10 * time.Second

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	// Server
	gin             *gin.Engine
	l               log.Logger
	port            int
	mode            string
	environment     string
	shutdownTimeout time.Duration

	// Metrics
	gatherer prometheus.Gatherer

	// Chat domain
	telegramHandler tgDelivery.Handler
}

// Config is the dependency bag passed to New().
type Config struct {
	Logger          log.Logger
	Port            int
	Mode            string
	Environment     string
	ShutdownTimeout time.Duration

	// TrustedProxies lists the peers whose X-Forwarded-For is believed.
	// Empty trusts none and the client IP is the socket peer.
	TrustedProxies []string

	// Gatherer backs /metrics; nil means the default registry.
	Gatherer prometheus.Gatherer

	// Chat domain
	TelegramHandler tgDelivery.Handler
}

// New creates a new HTTPServer instance.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	srv := &HTTPServer{
		l:               logger,
		gin:             gin.New(),
		port:            cfg.Port,
		mode:            cfg.Mode,
		environment:     cfg.Environment,
		shutdownTimeout: cfg.ShutdownTimeout,
		gatherer:        cfg.Gatherer,
		telegramHandler: cfg.TelegramHandler,
	}

	if srv.shutdownTimeout <= 0 {
		srv.shutdownTimeout = defaultShutdownTimeout
	}
	if srv.gatherer == nil {
		srv.gatherer = prometheus.DefaultGatherer
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	if err := srv.gin.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	srv.mapHandlers()
	return srv, nil
}

func (srv HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	return nil
}
