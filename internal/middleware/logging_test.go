package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
)

// recordingLogger keeps the level and text of every entry.
type recordingLogger struct {
	mu      sync.Mutex
	entries []string
}

func (r *recordingLogger) add(level, format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, level+" "+fmt.Sprintf(format, args...))
}

func (r *recordingLogger) Debug(ctx context.Context, args ...any)                 {}
func (r *recordingLogger) Debugf(ctx context.Context, format string, args ...any) { r.add("debug", format, args...) }
func (r *recordingLogger) Info(ctx context.Context, args ...any)                  {}
func (r *recordingLogger) Infof(ctx context.Context, format string, args ...any)  { r.add("info", format, args...) }
func (r *recordingLogger) Warn(ctx context.Context, args ...any)                  {}
func (r *recordingLogger) Warnf(ctx context.Context, format string, args ...any)  { r.add("warn", format, args...) }
func (r *recordingLogger) Error(ctx context.Context, args ...any)                 {}
func (r *recordingLogger) Errorf(ctx context.Context, format string, args ...any) { r.add("error", format, args...) }
func (r *recordingLogger) DPanic(ctx context.Context, args ...any)                {}
func (r *recordingLogger) DPanicf(ctx context.Context, format string, args ...any) {}
func (r *recordingLogger) Panic(ctx context.Context, args ...any)                  {}
func (r *recordingLogger) Panicf(ctx context.Context, format string, args ...any)  {}
func (r *recordingLogger) Fatal(ctx context.Context, args ...any)                  {}
func (r *recordingLogger) Fatalf(ctx context.Context, format string, args ...any)  {}

func TestLogging(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		path   string
		status int
		level  string
	}{
		{path: "/webhook/telegram", status: http.StatusOK, level: "info"},
		{path: "/health", status: http.StatusOK, level: "debug"},
		{path: "/webhook/telegram", status: http.StatusUnauthorized, level: "warn"},
		{path: "/webhook/telegram", status: http.StatusInternalServerError, level: "error"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s %d", tt.path, tt.status), func(t *testing.T) {
			l := &recordingLogger{}
			r := gin.New()
			r.Use(New(l).Logging())
			r.Any(tt.path, func(c *gin.Context) { c.Status(tt.status) })

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if len(l.entries) != 1 {
				t.Fatalf("expected 1 entry, got %v", l.entries)
			}
			want := fmt.Sprintf("%s GET %s %d", tt.level, tt.path, tt.status)
			if got := l.entries[0]; len(got) < len(want) || got[:len(want)] != want {
				t.Errorf("expected entry starting with %q, got %q", want, got)
			}
		})
	}
}
