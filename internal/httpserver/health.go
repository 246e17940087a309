package httpserver

import (
	"time"

	"github.com/gin-gonic/gin"

	"jared-gpt/pkg/response"
)

// Health response constants (single source for version and service identity).
const (
	HealthMessage = "Misaka is listening"
	HealthVersion = "1.0.0"
	ServiceName   = "jared-gpt"
)

func (srv HTTPServer) healthBody(status string) gin.H {
	return gin.H{
		"status":  status,
		"message": HealthMessage,
		"version": HealthVersion,
		"service": ServiceName,
		"time":    response.DateTime(time.Now()),
	}
}

// healthCheck handles health check requests
// @Summary Health Check
// @Description Check if the API is healthy
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} response.Resp "API is healthy"
// @Router /health [get]
func (srv HTTPServer) healthCheck(c *gin.Context) {
	response.OK(c, srv.healthBody("healthy"))
}

// readyCheck reports ready once the Telegram webhook route is mounted.
// @Summary Readiness Check
// @Description Check if the API is ready to receive Telegram updates
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} response.Resp "API is ready"
// @Failure 503 {object} response.Resp "Telegram handler not configured"
// @Router /ready [get]
func (srv HTTPServer) readyCheck(c *gin.Context) {
	if srv.telegramHandler == nil {
		response.ServiceUnavailable(c, srv.healthBody("not_ready"))
		return
	}
	response.OK(c, srv.healthBody("ready"))
}

// liveCheck handles liveness check requests
// @Summary Liveness Check
// @Description Check if the API is alive
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} response.Resp "API is alive"
// @Router /live [get]
func (srv HTTPServer) liveCheck(c *gin.Context) {
	response.OK(c, srv.healthBody("alive"))
}
