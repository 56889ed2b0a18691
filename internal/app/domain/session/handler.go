// Package session hosts the page-level routes of the concierge: each visitor
// gets a transcript and a recommendation cache keyed by the session cookie,
// and every request runs the consuming pipeline against the completion
// endpoints.
package session

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-concierge/internal/app/client"
	"github.com/FACorreiaa/go-concierge/internal/app/domain/widgets"
	"github.com/FACorreiaa/go-concierge/internal/app/middleware"
	"github.com/FACorreiaa/go-concierge/internal/app/models"
	"github.com/FACorreiaa/go-concierge/internal/pkg/cache"
)

type askRequest struct {
	Content string `json:"content" binding:"required"`
}

type Handlers struct {
	registry  *cache.Registry
	transport client.Transport
	detector  *widgets.Detector
	chatPath  string
	logger    *zap.Logger
}

func NewHandlers(registry *cache.Registry, transport client.Transport, detector *widgets.Detector, chatPath string, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	if chatPath == "" {
		chatPath = client.ChatPath
	}
	return &Handlers{
		registry:  registry,
		transport: transport,
		detector:  detector,
		chatPath:  chatPath,
		logger:    logger,
	}
}

func (h *Handlers) concierge(c *gin.Context) *client.Concierge {
	id := middleware.GetSessionID(c)
	logger := h.logger.With(zap.String("session", id))
	store := h.registry.Store(c.Request.Context(), id)
	return client.NewConcierge(h.transport, store, h.detector,
		client.WithChatPath(h.chatPath),
		client.WithLogger(logger))
}

// HandleTranscript returns the conversation so far.
func (h *Handlers) HandleTranscript(c *gin.Context) {
	c.JSON(http.StatusOK, h.concierge(c).Transcript(c.Request.Context()))
}

// HandleAsk sends a guest message and returns Simon's reply.
func (h *Handlers) HandleAsk(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
		return
	}

	reply, err := h.concierge(c).Ask(c.Request.Context(), req.Content, nil)
	if err != nil {
		h.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, reply)
}

// HandleRecommendations returns the structured answer for ?q=, falling back
// to the domain's default query.
func (h *Handlers) HandleRecommendations(c *gin.Context) {
	d, err := models.ParseDomain(c.Param("domain"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		query = client.DefaultQuery(d)
	}

	res, err := h.concierge(c).Recommendations(c.Request.Context(), d, query)
	if err != nil {
		h.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// HandleEntity resolves a detail page.
func (h *Handlers) HandleEntity(c *gin.Context) {
	e, err := h.concierge(c).Entity(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// HandlePreload warms both default lists. ?force=true refetches them.
func (h *Handlers) HandlePreload(c *gin.Context) {
	force := c.Query("force") == "true"
	rep := client.NewPreloader(h.concierge(c), h.logger).PreloadAll(c.Request.Context(), force)
	c.JSON(http.StatusOK, rep)
}

// HandleClear forgets everything about the session.
func (h *Handlers) HandleClear(c *gin.Context) {
	h.registry.Drop(c.Request.Context(), middleware.GetSessionID(c))
	c.Status(http.StatusNoContent)
}

func (h *Handlers) abort(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrBadRequest), errors.Is(err, models.ErrUnknownDomain):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrUpstream),
		errors.Is(err, models.ErrInvalidDocument),
		errors.Is(err, models.ErrIncompleteStream):
		status = http.StatusBadGateway
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}
	if status >= http.StatusInternalServerError {
		h.logger.Warn("Session request failed",
			zap.String("path", c.FullPath()),
			zap.Int("status", status),
			zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
