package llmchat

import (
	"context"
	"iter"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-concierge/internal/app/observability/metrics"
	"github.com/FACorreiaa/go-concierge/internal/app/streaming"
)

// StreamProcessor relays provider deltas to an SSE response.
type StreamProcessor struct {
	logger *zap.Logger
}

func NewStreamProcessor(logger *zap.Logger) *StreamProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StreamProcessor{logger: logger}
}

// Relay writes each delta as a content event followed by the sentinel.
//
// The response is committed lazily: if the provider fails before producing
// anything the guest gets a 500 JSON body instead of an event stream. Once
// events have been sent a failure simply ends the response without the
// sentinel, which the consumer treats as an incomplete stream. Failures are
// logged here.
func (sp *StreamProcessor) Relay(c *gin.Context, route string, stream iter.Seq2[string, error]) {
	next, stop := iter.Pull2(stream)
	defer stop()

	delta, err, ok := next()
	if err != nil {
		sp.logger.Error("Provider failed before streaming", zap.String("route", route), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process chat request"})
		return
	}

	streaming.SetSSEHeaders(c.Writer.Header())
	c.Status(http.StatusOK)
	ew := streaming.NewEventWriter(c.Writer)
	defer sp.count(c.Request.Context(), route, ew)

	for ok {
		if delta != "" {
			if err := ew.WriteDelta(delta); err != nil {
				sp.logger.Info("Client went away mid-stream", zap.String("route", route), zap.Error(err))
				return
			}
		}
		delta, err, ok = next()
		if err != nil {
			sp.logger.Warn("Provider failed mid-stream", zap.String("route", route),
				zap.Int("events_sent", ew.Events()), zap.Error(err))
			return
		}
	}

	if err := ew.WriteDone(); err != nil {
		sp.logger.Info("Client went away before the sentinel", zap.String("route", route), zap.Error(err))
	}
}

func (sp *StreamProcessor) count(ctx context.Context, route string, ew *streaming.EventWriter) {
	metrics.Get().SSEEventsTotal.Add(ctx, int64(ew.Events()),
		metric.WithAttributes(attribute.String("route", route)))
}
