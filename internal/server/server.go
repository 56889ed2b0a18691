package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-concierge/internal/app/llm"
	"github.com/FACorreiaa/go-concierge/internal/pkg/cache"
	"github.com/FACorreiaa/go-concierge/internal/pkg/config"
)

// Server holds the dependencies for the HTTP server
type Server struct {
	cfg      *config.Config
	logger   *zap.Logger
	provider llm.Provider
	registry *cache.Registry
	redis    *redis.Client
	router   http.Handler
}

// New creates a new Server instance with all dependencies
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	s := &Server{
		cfg:    cfg,
		logger: logger,
	}

	provider, err := llm.New(ctx, llm.Config{
		Provider:        cfg.LLMProvider,
		GeminiAPIKey:    cfg.GeminiAPIKey,
		GeminiModel:     cfg.GeminiModel,
		AnthropicAPIKey: cfg.AnthropicAPIKey,
		AnthropicModel:  cfg.AnthropicModel,
		MaxTokens:       cfg.LLMMaxTokens,
		Timeout:         cfg.LLMTimeout,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to set up llm provider: %w", err)
	}
	s.provider = llm.WithLogging(provider, logger)

	storage, err := s.setupStorage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to set up session storage: %w", err)
	}
	s.registry = cache.NewRegistry(storage, cfg.CacheTTL, cfg.SessionLifetime, logger)

	logger.Info("Server dependencies ready",
		zap.String("provider", provider.Name()),
		zap.String("session_backend", cfg.SessionBackend))
	return s, nil
}

// setupStorage picks where session blobs live.
func (s *Server) setupStorage(ctx context.Context) (cache.Storage, error) {
	if s.cfg.SessionBackend != "redis" {
		return cache.NewMemoryStorage(s.cfg.SessionLifetime), nil
	}

	client, err := cache.NewRedisClient(ctx, cache.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPassword,
		DB:       s.cfg.RedisDB,
	})
	if err != nil {
		return nil, err
	}
	s.redis = client
	s.logger.Info("Connected to Redis", zap.String("addr", s.cfg.RedisAddr), zap.Int("db", s.cfg.RedisDB))
	return cache.NewRedisStorage(client, "simon:session:", s.cfg.SessionLifetime), nil
}

// HTTPServer creates and configures the HTTP server. There is no write
// timeout because responses are long-lived event streams.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              ":" + s.cfg.ServerPort,
		Handler:           s.router,
		IdleTimeout:       time.Minute,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
	}
}

// SetRouter sets the HTTP router/handler
func (s *Server) SetRouter(router http.Handler) {
	s.router = router
}

func (s *Server) Provider() llm.Provider { return s.provider }

func (s *Server) Registry() *cache.Registry { return s.registry }

// GetLogger returns the logger instance
func (s *Server) GetLogger() *zap.Logger {
	return s.logger
}

// GetConfig returns the configuration
func (s *Server) GetConfig() *config.Config {
	return s.cfg
}

// Close closes all server resources
func (s *Server) Close() {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Warn("Failed to close redis client", zap.Error(err))
		}
	}
}
