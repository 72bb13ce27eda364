package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hpn/hpn-relay/internal/ui"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-Id"

const ctxKeyRequestID = "request_id"

// RequestIDMiddleware propagates the caller's X-Request-Id or generates a new one.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(RequestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(ctxKeyRequestID, rid)
		c.Header(RequestIDHeader, rid)
		c.Next()
	}
}

// CORSMiddleware returns a middleware that allows the configured origin.
func CORSMiddleware(origin string) gin.HandlerFunc {
	if origin == "" {
		origin = "*"
	}
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", origin)
		if origin != "*" {
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Headers", "Content-Type, Accept, Origin, X-Requested-With, X-Request-Id")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// BodyLimitMiddleware caps the request body at limit bytes.
func BodyLimitMiddleware(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}

// LoggingMiddleware returns a middleware that logs request details in JSON format.
func LoggingMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		attrs := []any{
			slog.String("request_id", c.GetString(ctxKeyRequestID)),
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		}
		if provider := c.GetString(ctxKeyProvider); provider != "" {
			attrs = append(attrs,
				slog.String("provider", provider),
				slog.String("model", c.GetString(ctxKeyModel)),
				slog.Int("input_tokens_est", c.GetInt(ctxKeyInputTokens)),
				slog.Int("output_tokens_est", c.GetInt(ctxKeyOutputTokens)),
			)
		}
		if errMsg := c.GetString(ctxKeyError); errMsg != "" {
			attrs = append(attrs, slog.String("error", errMsg))
		}

		logger.Info("request completed", attrs...)
	}
}

// ConsoleMiddleware prints a colored one-line summary of every API request.
func ConsoleMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		ui.PrintRequest(c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start), c.GetString(ctxKeyProvider))
	}
}

// RecoveryMiddleware returns a middleware that recovers from panics.
// It logs the error and returns a 500 response in the relay's error format.
func RecoveryMiddleware(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic recovered",
					slog.Any("error", err),
					slog.String("path", c.Request.URL.Path),
					slog.String("request_id", c.GetString(ctxKeyRequestID)),
				)

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
			}
		}()

		c.Next()
	}
}
