package telemetry

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quote-manager/internal/platform/logging"
)

const instrumentationName = "github.com/jsamuelsen/quote-manager/internal/platform/telemetry"

// HeaderTraceID carries the trace id of the server span back to the caller.
const HeaderTraceID = "X-Trace-ID"

// serverMetrics are the HTTP server instruments.
type serverMetrics struct {
	active metric.Int64UpDownCounter
}

func newServerMetrics() (*serverMetrics, error) {
	active, err := otel.Meter(instrumentationName).Int64UpDownCounter("http.server.active_requests",
		metric.WithDescription("Number of in-flight HTTP requests"))
	if err != nil {
		return nil, err
	}

	return &serverMetrics{active: active}, nil
}

// Middleware returns the server instrumentation: otelgin, which starts the
// server span and records request duration, followed by a handler that
// tracks in-flight requests, echoes the trace id in X-Trace-ID and adds it
// to the request logger. Paths under /-/ are not traced.
func Middleware(serviceName string) []gin.HandlerFunc {
	metrics, err := newServerMetrics()
	if err != nil {
		otel.Handle(err)
	}

	tracing := otelgin.Middleware(serviceName,
		otelgin.WithGinFilter(func(c *gin.Context) bool {
			return !strings.HasPrefix(c.Request.URL.Path, "/-/")
		}))

	return []gin.HandlerFunc{tracing, func(c *gin.Context) {
		if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
			traceID := sc.TraceID().String()
			c.Header(HeaderTraceID, traceID)
			c.Request = c.Request.WithContext(
				logging.With(c.Request.Context(), slog.String("trace_id", traceID)))
		}

		if metrics == nil {
			c.Next()
			return
		}

		attrs := metric.WithAttributes(
			attribute.String("http.request.method", c.Request.Method),
			attribute.String("http.route", c.FullPath()),
		)

		metrics.active.Add(c.Request.Context(), 1, attrs)
		defer metrics.active.Add(c.Request.Context(), -1, attrs)

		c.Next()
	}}
}
