package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"iter"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-concierge/internal/app/observability/metrics"
)

// HashPrompt returns the SHA256 of a prompt so interactions can be
// correlated in logs without storing guest text.
func HashPrompt(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}

// Interaction summarises one provider stream.
type Interaction struct {
	Provider   string
	PromptHash string
	JSON       bool
	Chunks     int
	Bytes      int
	Latency    time.Duration
	Err        error
}

type loggedProvider struct {
	next   Provider
	logger *zap.Logger
}

// WithLogging wraps p so every stream is traced, timed and logged once it
// finishes or is abandoned.
func WithLogging(p Provider, logger *zap.Logger) Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &loggedProvider{next: p, logger: logger}
}

func (l *loggedProvider) Name() string { return l.next.Name() }

func (l *loggedProvider) Stream(ctx context.Context, req Request) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		ctx, span := otel.Tracer("LLMProvider").Start(ctx, "Stream", trace.WithAttributes(
			attribute.String("llm.provider", l.next.Name()),
			attribute.Bool("llm.json", req.JSON),
			attribute.Int("llm.turns", len(req.Turns)),
		))
		defer span.End()

		rec := Interaction{
			Provider:   l.next.Name(),
			PromptHash: HashPrompt(req.System + Prompt(req.Turns)),
			JSON:       req.JSON,
		}
		start := time.Now()
		defer func() {
			rec.Latency = time.Since(start)
			l.record(ctx, span, rec)
		}()

		for text, err := range l.next.Stream(ctx, req) {
			if err != nil {
				rec.Err = err
				yield("", err)
				return
			}
			rec.Chunks++
			rec.Bytes += len(text)
			if !yield(text, nil) {
				return
			}
		}
	}
}

func (l *loggedProvider) record(ctx context.Context, span trace.Span, rec Interaction) {
	attrs := metric.WithAttributes(attribute.String("provider", rec.Provider))
	m := metrics.Get()
	m.ProviderLatencySeconds.Record(ctx, rec.Latency.Seconds(), attrs)

	span.SetAttributes(
		attribute.Int("llm.chunks", rec.Chunks),
		attribute.Int64("llm.latency_ms", rec.Latency.Milliseconds()),
	)

	fields := []zap.Field{
		zap.String("provider", rec.Provider),
		zap.String("prompt_hash", rec.PromptHash),
		zap.Bool("json", rec.JSON),
		zap.Int("chunks", rec.Chunks),
		zap.Int("bytes", rec.Bytes),
		zap.Int64("latency_ms", rec.Latency.Milliseconds()),
	}
	if rec.Err != nil {
		m.ProviderErrorsTotal.Add(ctx, 1, attrs)
		span.RecordError(rec.Err)
		span.SetStatus(codes.Error, rec.Err.Error())
		l.logger.Warn("LLM stream failed", append(fields, zap.Error(rec.Err))...)
		return
	}
	l.logger.Info("LLM stream completed", fields...)
}
