package structured

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-concierge/internal/app/models"
	"github.com/FACorreiaa/go-concierge/internal/app/observability/metrics"
	"github.com/FACorreiaa/go-concierge/internal/app/streaming"
)

type Handlers struct {
	service *Service
	logger  *zap.Logger
}

func NewHandlers(service *Service, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{service: service, logger: logger}
}

func (h *Handlers) HandleLocalDining(c *gin.Context) {
	h.handle(c, models.DomainDining)
}

func (h *Handlers) HandleNearbyAttractions(c *gin.Context) {
	h.handle(c, models.DomainAttractions)
}

func (h *Handlers) handle(c *gin.Context, d models.Domain) {
	var req models.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid structured request", zap.String("domain", string(d)), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}

	streaming.SetSSEHeaders(c.Writer.Header())
	c.Status(http.StatusOK)
	ew := streaming.NewEventWriter(c.Writer)

	ctx := c.Request.Context()
	res, err := h.service.Stream(ctx, d, req.Query, ew)
	metrics.Get().SSEEventsTotal.Add(ctx, int64(ew.Events()),
		metric.WithAttributes(attribute.String("route", string(d))))
	if err != nil {
		h.logger.Info("Structured stream ended early",
			zap.String("domain", string(d)),
			zap.Int("events_sent", ew.Events()),
			zap.Error(err))
		return
	}
	h.logger.Info("Structured stream completed",
		zap.String("domain", string(d)),
		zap.String("source", string(res.Source)),
		zap.Int("events_sent", ew.Events()))
}
