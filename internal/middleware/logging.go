package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"jared-gpt/pkg/log"
)

// Logging writes one access log line per request. Probe and metrics
// endpoints are logged at debug level.
func (m Middleware) Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		ctx := c.Request.Context()
		if id := c.Writer.Header().Get("X-Request-ID"); id != "" {
			ctx = log.WithRequestID(ctx, id)
		}

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		switch {
		case status >= 500:
			m.l.Errorf(ctx, "%s %s %d %s", c.Request.Method, path, status, time.Since(start))
		case status >= 400:
			m.l.Warnf(ctx, "%s %s %d %s", c.Request.Method, path, status, time.Since(start))
		case isQuiet(path):
			m.l.Debugf(ctx, "%s %s %d %s", c.Request.Method, path, status, time.Since(start))
		default:
			m.l.Infof(ctx, "%s %s %d %s", c.Request.Method, path, status, time.Since(start))
		}
	}
}

func isQuiet(path string) bool {
	switch path {
	case "/health", "/ready", "/live", "/metrics":
		return true
	}
	return false
}
