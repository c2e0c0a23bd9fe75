package transport

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	portidem "github.com/alanyang/stlc-manager/internal/port/idempotency"
)

// noisyPaths are high-frequency read paths that are not logged.
var noisyPaths = map[string]bool{
	"/api/processes": true,
	"/api/ws":        true,
	"/healthz":       true,
}

const (
	headerIdempotencyKey = "Idempotency-Key"
	headerReplayed       = "Idempotent-Replayed"
)

func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if c.Request.Method == http.MethodOptions {
			return
		}
		if c.Request.Method == http.MethodGet && noisyPaths[c.Request.URL.Path] {
			return
		}

		slog.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+headerIdempotencyKey)
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// bodyRecorder tees the response body so it can be stored after the handler.
type bodyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// IdempotencyMiddleware replays the stored response of an earlier successful
// POST carrying the same Idempotency-Key. Requests without the header pass
// through untouched. Only 200 JSON responses are stored, so a failed run can
// be retried under the same key.
func IdempotencyMiddleware(store portidem.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader(headerIdempotencyKey))
		if store == nil || header == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		key := c.Request.Method + " " + c.Request.URL.Path + " " + header
		ctx := c.Request.Context()

		cached, ok, err := store.Check(ctx, key)
		if err != nil {
			slog.WarnContext(ctx, "idempotency check failed", "error", err)
		}
		if ok {
			c.Header(headerReplayed, "true")
			c.Data(http.StatusOK, "application/json; charset=utf-8", cached)
			c.Abort()
			return
		}

		rec := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Next()

		if rec.Status() != http.StatusOK || !strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
			return
		}
		// The client may hang up once the body is written; the entry is still kept.
		if err := store.Store(context.WithoutCancel(ctx), key, c.Request.URL.Path, rec.body.Bytes()); err != nil {
			slog.WarnContext(ctx, "idempotency store failed", "error", err)
		}
	}
}
