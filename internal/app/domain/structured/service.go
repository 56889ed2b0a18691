// Package structured serves recommendation lists as a single JSON document
// streamed over SSE, falling back to curated data whenever the provider
// answer is unusable.
package structured

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/FACorreiaa/go-concierge/internal/app/llm"
	"github.com/FACorreiaa/go-concierge/internal/app/models"
	"github.com/FACorreiaa/go-concierge/internal/app/observability/metrics"
	"github.com/FACorreiaa/go-concierge/internal/app/streaming"
	"github.com/FACorreiaa/go-concierge/internal/pkg/debugger"
)

const defaultMaxTokens = 2000

type Source string

const (
	SourceProvider Source = "provider"
	SourceFallback Source = "fallback"
)

// Result is a structured answer and where it came from. Source is for logs
// and tests; the emitted document looks the same either way.
type Result struct {
	Response models.StructuredResponse
	Source   Source
	Reason   string
}

// Document serializes the response as emitted on the wire.
func (r Result) Document() (string, error) {
	b, err := json.Marshal(r.Response)
	if err != nil {
		return "", fmt.Errorf("encoding structured response: %w", err)
	}
	return string(b), nil
}

type Service struct {
	provider  llm.Provider
	pacer     streaming.Pacer
	chunkSize int
	maxTokens int
	logger    *zap.Logger
}

type Option func(*Service)

// WithPacer sets the delay strategy between re-chunked events.
func WithPacer(p streaming.Pacer) Option {
	return func(s *Service) {
		if p != nil {
			s.pacer = p
		}
	}
}

func WithChunkSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.chunkSize = n
		}
	}
}

func WithMaxTokens(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxTokens = n
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func NewService(provider llm.Provider, opts ...Option) *Service {
	s := &Service{
		provider:  provider,
		pacer:     streaming.FixedPacer{Interval: streaming.DefaultChunkDelay},
		chunkSize: streaming.DefaultChunkSize,
		maxTokens: defaultMaxTokens,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Recommend asks the provider for a document and validates it. It never
// fails: every provider or document problem yields the fallback set.
func (s *Service) Recommend(ctx context.Context, d models.Domain, query string) Result {
	raw, err := llm.Collect(ctx, s.provider, llm.Request{
		System:    systemPrompt(d),
		Turns:     []models.ChatTurn{{Role: models.RoleUser, Content: userPrompt(d, query)}},
		MaxTokens: s.maxTokens,
		JSON:      true,
	})
	if err != nil {
		return s.fallback(ctx, d, query, "provider_error", err)
	}

	resp, err := Parse(d, raw)
	if err != nil {
		return s.fallback(ctx, d, query, "invalid_document", err)
	}

	s.logger.Info("Structured answer accepted",
		zap.String("domain", string(d)),
		zap.Int("entities", len(resp.Entities())))
	return Result{Response: resp, Source: SourceProvider}
}

func (s *Service) fallback(ctx context.Context, d models.Domain, query, reason string, err error) Result {
	level := s.logger.Warn
	if errors.Is(err, context.Canceled) {
		level = s.logger.Info
	}
	level("Using fallback recommendations",
		zap.String("domain", string(d)),
		zap.String("reason", reason),
		zap.Bool("family", IsFamilyQuery(query)),
		zap.Error(err))
	metrics.RecordFallback(ctx, string(d), reason)
	return Result{Response: Fallback(d, query), Source: SourceFallback, Reason: reason}
}

// Stream resolves the answer and writes it as paced, re-chunked delta
// events followed by the sentinel.
func (s *Service) Stream(ctx context.Context, d models.Domain, query string, ew *streaming.EventWriter) (Result, error) {
	res := s.Recommend(ctx, d, query)
	doc, err := res.Document()
	if err != nil {
		return res, err
	}
	debugger.LogDocument(s.logger, string(d), []byte(doc))
	if err := streaming.EmitChunked(ctx, ew, doc, s.chunkSize, s.pacer); err != nil {
		return res, fmt.Errorf("emitting structured document: %w", err)
	}
	return res, nil
}
