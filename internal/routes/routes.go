package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-concierge/internal/app/client"
	llmchat "github.com/FACorreiaa/go-concierge/internal/app/domain/chat_prompt"
	"github.com/FACorreiaa/go-concierge/internal/app/domain/extractor"
	"github.com/FACorreiaa/go-concierge/internal/app/domain/session"
	"github.com/FACorreiaa/go-concierge/internal/app/domain/structured"
	"github.com/FACorreiaa/go-concierge/internal/app/domain/widgets"
	"github.com/FACorreiaa/go-concierge/internal/app/llm"
	"github.com/FACorreiaa/go-concierge/internal/app/middleware"
	"github.com/FACorreiaa/go-concierge/internal/app/streaming"
	"github.com/FACorreiaa/go-concierge/internal/pkg/cache"
	"github.com/FACorreiaa/go-concierge/internal/pkg/config"
)

type AppHandlers struct {
	Chat       *llmchat.ChatHandlers
	Structured *structured.Handlers
	Session    *session.Handlers

	// Transport carries session requests to the completion endpoints
	// in-process.
	Transport *client.LocalTransport
}

// NewAppHandlers builds every handler from the configured provider and
// session registry.
func NewAppHandlers(cfg *config.Config, provider llm.Provider, registry *cache.Registry, logger *zap.Logger) *AppHandlers {
	var pacer streaming.Pacer = streaming.NoPacer{}
	if cfg.StreamChunkDelay > 0 {
		pacer = streaming.FixedPacer{Interval: cfg.StreamChunkDelay}
	}
	svc := structured.NewService(provider,
		structured.WithPacer(pacer),
		structured.WithChunkSize(cfg.StreamChunkSize),
		structured.WithMaxTokens(cfg.LLMMaxTokens),
		structured.WithLogger(logger),
	)

	h := &AppHandlers{
		Chat:       llmchat.NewChatHandlers(provider, llm.NewMock(40*time.Millisecond), cfg.LLMMaxTokens, logger),
		Structured: structured.NewHandlers(svc, logger),
	}

	api := gin.New()
	api.Use(gin.Recovery())
	RegisterAPI(api, h)
	h.Transport = client.NewLocalTransport(api)

	detector := widgets.NewDetector(extractor.NewSeeded(uint64(time.Now().UnixNano())), logger)
	h.Session = session.NewHandlers(registry, h.Transport, detector, client.ChatPath, logger)
	return h
}

// RegisterAPI mounts the completion endpoints.
func RegisterAPI(r gin.IRouter, h *AppHandlers) {
	r.POST(client.ChatPath, h.Chat.HandleChat)
	r.POST(client.MockChatPath, h.Chat.HandleMockChat)
	r.POST(client.DiningPath, h.Structured.HandleLocalDining)
	r.POST(client.AttractionsPath, h.Structured.HandleNearbyAttractions)
}

// RegisterSession mounts the per-visitor routes.
func RegisterSession(r gin.IRouter, h *AppHandlers, cookie string, lifetime time.Duration) {
	g := r.Group("/session", middleware.SessionMiddleware(cookie, lifetime))
	{
		g.GET("/messages", h.Session.HandleTranscript)
		g.POST("/messages", h.Session.HandleAsk)
		g.GET("/recommendations/:domain", h.Session.HandleRecommendations)
		g.GET("/entities/:id", h.Session.HandleEntity)
		g.POST("/preload", h.Session.HandlePreload)
		g.DELETE("", h.Session.HandleClear)
	}
}

func Setup(r *gin.Engine, cfg *config.Config, h *AppHandlers, logger *zap.Logger) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	limited := r.Group("", middleware.NewRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst, logger).Middleware())
	RegisterAPI(limited, h)
	RegisterSession(limited, h, cfg.SessionCookie, cfg.SessionLifetime)
}
