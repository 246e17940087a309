package httpserver

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"jared-gpt/internal/middleware"
	"jared-gpt/internal/model"
)

func (srv HTTPServer) mapHandlers() {
	srv.registerMiddlewares()
	srv.registerSystemRoutes()
	srv.registerDomainRoutes()
}

func (srv HTTPServer) registerMiddlewares() {
	srv.gin.Use(gin.Recovery())
	srv.gin.Use(middleware.New(srv.l).Logging())

	ctx := context.Background()
	if srv.environment == string(model.EnvironmentProduction) {
		srv.l.Infof(ctx, "HTTP server mode: production")
	} else {
		srv.l.Infof(ctx, "HTTP server mode: %s", srv.environment)
	}
}

func (srv HTTPServer) registerSystemRoutes() {
	srv.gin.GET("/health", srv.healthCheck)
	srv.gin.GET("/ready", srv.readyCheck)
	srv.gin.GET("/live", srv.liveCheck)

	srv.gin.GET("/metrics", gin.WrapH(promhttp.HandlerFor(srv.gatherer, promhttp.HandlerOpts{})))

	srv.gin.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))
}

// registerDomainRoutes registers all domain routes.
func (srv HTTPServer) registerDomainRoutes() {
	ctx := context.Background()

	if srv.telegramHandler != nil {
		srv.gin.POST("/webhook/telegram", srv.telegramHandler.HandleWebhook)
		srv.l.Infof(ctx, "Telegram webhook route registered at POST /webhook/telegram")
	} else {
		srv.l.Infof(ctx, "Telegram handler not configured, skipping webhook route")
	}
}
