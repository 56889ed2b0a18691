package server

import (
	"bytes"
	"io"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/FACorreiaa/go-concierge/internal/app/middleware"
	"github.com/FACorreiaa/go-concierge/internal/pkg/config"
	"github.com/FACorreiaa/go-concierge/internal/routes"
)

const maxLoggedBody = 512

// SetupRouter configures and returns the Gin router with all middleware and routes
func SetupRouter(cfg *config.Config, h *routes.AppHandlers, logger *zap.Logger) *gin.Engine {
	gin.SetMode(cfg.GinMode)

	r := gin.New()

	r.Use(ginzap.GinzapWithConfig(logger, &ginzap.Config{
		UTC:        true,
		TimeFormat: time.RFC3339,
		Context:    zapContextFunc(),
		SkipPaths:  []string{"/healthz"},
	}))
	r.Use(ginzap.RecoveryWithZap(logger, true))
	r.Use(middleware.OTELGinMiddleware(cfg.ServiceName))
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins...))
	r.Use(middleware.SecurityMiddleware())

	routes.Setup(r, cfg, h, logger)

	return r
}

// zapContextFunc returns the Zap context function for logging
func zapContextFunc() ginzap.Fn {
	return func(c *gin.Context) []zapcore.Field {
		fields := []zapcore.Field{}

		if requestID := c.Writer.Header().Get("X-Request-Id"); requestID != "" {
			fields = append(fields, zap.String("request_id", requestID))
		}

		if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().IsValid() {
			fields = append(fields,
				zap.String("trace_id", span.SpanContext().TraceID().String()),
				zap.String("span_id", span.SpanContext().SpanID().String()),
			)
		}

		if id := middleware.GetSessionID(c); id != "" {
			fields = append(fields, zap.String("session", id))
		}

		// Request bodies are small JSON documents; keep a prefix.
		if c.Request.Body != nil {
			var buf bytes.Buffer
			tee := io.TeeReader(c.Request.Body, &buf)
			body, _ := io.ReadAll(tee)
			c.Request.Body = io.NopCloser(&buf)
			if len(body) > maxLoggedBody {
				body = body[:maxLoggedBody]
			}
			if len(body) > 0 {
				fields = append(fields, zap.String("body", string(body)))
			}
		}

		return fields
	}
}
