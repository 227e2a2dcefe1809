package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// route returns the matched route pattern, or a fixed label for 404s so
// unknown paths do not explode metric cardinality.
func route(c *gin.Context) string {
	if r := c.FullPath(); r != "" {
		return r
	}
	return "unmatched"
}

// observability traces each request, records its metrics and logs it.
func observability(tracer trace.Tracer, metrics *Metrics, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		ctx, span := tracer.Start(c.Request.Context(), c.Request.Method+" "+route(c),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", c.Request.Method),
				attribute.String("http.route", route(c)),
			))
		defer span.End()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		status := c.Writer.Status()
		latency := time.Since(start)
		span.SetAttributes(attribute.Int("http.status_code", status))
		if status >= 500 {
			span.SetStatus(codes.Error, c.Errors.String())
		}
		metrics.RecordRequest(c.Request.Method, route(c), status, latency)

		level := slog.LevelInfo
		if status >= 500 {
			level = slog.LevelError
		}
		logger.Log(ctx, level, "request",
			"method", c.Request.Method,
			"route", route(c),
			"status", status,
			"latency_ms", float64(latency.Microseconds())/1000.0,
			"client_ip", c.ClientIP(),
		)
	}
}

// recovery turns panics into 500s and logs them.
func recovery(logger *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, err any) {
		logger.ErrorContext(c.Request.Context(), "panic recovered", "error", err, "route", route(c))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	})
}
