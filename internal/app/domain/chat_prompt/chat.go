// Package llmchat serves the conversational completion endpoints.
package llmchat

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-concierge/internal/app/llm"
	"github.com/FACorreiaa/go-concierge/internal/app/models"
)

type ChatHandlers struct {
	provider  llm.Provider
	mock      llm.Provider
	maxTokens int
	processor *StreamProcessor
	logger    *zap.Logger
}

func NewChatHandlers(provider, mock llm.Provider, maxTokens int, logger *zap.Logger) *ChatHandlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatHandlers{
		provider:  provider,
		mock:      mock,
		maxTokens: maxTokens,
		processor: NewStreamProcessor(logger),
		logger:    logger,
	}
}

// HandleChat streams Simon's reply from the configured provider.
func (h *ChatHandlers) HandleChat(c *gin.Context) {
	h.handle(c, "chat", h.provider)
}

// HandleMockChat streams a canned reply.
func (h *ChatHandlers) HandleMockChat(c *gin.Context) {
	h.handle(c, "chat_mock", h.mock)
}

func (h *ChatHandlers) handle(c *gin.Context, route string, p llm.Provider) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid chat request", zap.String("route", route), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "messages must be a non-empty list of {role, content}"})
		return
	}

	topic := DetectTopic(req.Messages)
	h.logger.Info("Chat request received",
		zap.String("route", route),
		zap.String("provider", p.Name()),
		zap.Int("turns", len(req.Messages)),
		zap.Int("topic", int(topic)))

	stream := p.Stream(c.Request.Context(), llm.Request{
		System:    SystemPrompt(topic),
		Turns:     req.Messages,
		MaxTokens: h.maxTokens,
	})
	h.processor.Relay(c, route, stream)
}
