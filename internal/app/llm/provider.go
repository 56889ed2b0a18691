// Package llm adapts language-model backends to a single streaming
// interface.
package llm

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/FACorreiaa/go-concierge/internal/app/models"
)

// Request is one completion call.
type Request struct {
	System    string
	Turns     []models.ChatTurn
	MaxTokens int
	// JSON asks the backend for a bare JSON document.
	JSON bool
}

// Provider streams completion text.
type Provider interface {
	Name() string
	// Stream yields text deltas. A non-nil error ends the sequence.
	Stream(ctx context.Context, req Request) iter.Seq2[string, error]
}

// Collect drains a stream into one string.
func Collect(ctx context.Context, p Provider, req Request) (string, error) {
	var sb strings.Builder
	for text, err := range p.Stream(ctx, req) {
		if err != nil {
			return sb.String(), fmt.Errorf("%s completion: %w", p.Name(), err)
		}
		sb.WriteString(text)
	}
	return sb.String(), nil
}

// Prompt flattens a transcript for backends that take a single prompt.
func Prompt(turns []models.ChatTurn) string {
	if len(turns) == 1 {
		return turns[0].Content
	}
	var sb strings.Builder
	for _, t := range turns {
		role := "Guest"
		if t.Role == models.RoleAssistant {
			role = "Simon"
		}
		fmt.Fprintf(&sb, "%s: %s\n\n", role, t.Content)
	}
	sb.WriteString("Simon:")
	return sb.String()
}

// Config selects and configures a backend.
type Config struct {
	Provider        string
	GeminiAPIKey    string
	GeminiModel     string
	AnthropicAPIKey string
	AnthropicModel  string
	MaxTokens       int
	Timeout         time.Duration
}

// New builds the configured provider.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (Provider, error) {
	switch cfg.Provider {
	case "gemini":
		g, err := NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, logger)
		if err != nil {
			return nil, err
		}
		return g, nil
	case "anthropic":
		a, err := NewAnthropic(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.Timeout, logger)
		if err != nil {
			return nil, err
		}
		return a, nil
	case "mock", "":
		return NewMock(40 * time.Millisecond), nil
	}
	return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
}
