package metrics

import (
	"context"
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the concierge's metric instruments.
type AppMetrics struct {
	HTTPRequestsTotal      metric.Int64Counter
	HTTPRequestDuration    metric.Float64Histogram
	SSEEventsTotal         metric.Int64Counter
	ProviderLatencySeconds metric.Float64Histogram
	ProviderErrorsTotal    metric.Int64Counter
	FallbacksTotal         metric.Int64Counter
	CacheLookupsTotal      metric.Int64Counter
	ActiveSessionsGauge    metric.Int64Gauge
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics creates the instruments once, from the global MeterProvider.
// The global provider delegates, so calling this before the exporter is
// installed is harmless.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("go-concierge")
		var err error
		m := &AppMetrics{}

		m.HTTPRequestsTotal, err = meter.Int64Counter(
			"http_requests_total",
			metric.WithDescription("Total number of HTTP requests completed"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create http_requests_total: %v", err)
		}

		m.HTTPRequestDuration, err = meter.Float64Histogram(
			"http_request_duration_seconds",
			metric.WithDescription("Duration of HTTP requests in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create http_request_duration_seconds: %v", err)
		}

		m.SSEEventsTotal, err = meter.Int64Counter(
			"sse_events_total",
			metric.WithDescription("Total number of server-sent events written"),
			metric.WithUnit("{event}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create sse_events_total: %v", err)
		}

		m.ProviderLatencySeconds, err = meter.Float64Histogram(
			"llm_provider_latency_seconds",
			metric.WithDescription("Time from request to completed provider stream"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create llm_provider_latency_seconds: %v", err)
		}

		m.ProviderErrorsTotal, err = meter.Int64Counter(
			"llm_provider_errors_total",
			metric.WithDescription("Total number of failed provider streams"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create llm_provider_errors_total: %v", err)
		}

		m.FallbacksTotal, err = meter.Int64Counter(
			"structured_fallbacks_total",
			metric.WithDescription("Structured answers served from fallback data"),
			metric.WithUnit("{response}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create structured_fallbacks_total: %v", err)
		}

		m.CacheLookupsTotal, err = meter.Int64Counter(
			"query_cache_lookups_total",
			metric.WithDescription("Query cache lookups by result"),
			metric.WithUnit("{lookup}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create query_cache_lookups_total: %v", err)
		}

		m.ActiveSessionsGauge, err = meter.Int64Gauge(
			"active_sessions_current",
			metric.WithDescription("Current number of live session stores"),
			metric.WithUnit("{session}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create active_sessions_current: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the instruments, creating them on first use.
func Get() *AppMetrics {
	InitAppMetrics()
	return appMetrics
}

// RecordFallback counts a structured answer served from fallback data.
func RecordFallback(ctx context.Context, domain, reason string) {
	Get().FallbacksTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("domain", domain),
		attribute.String("reason", reason),
	))
}

// RecordCacheLookup counts a query cache hit or miss.
func RecordCacheLookup(ctx context.Context, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	Get().CacheLookupsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

// RecordActiveSessions sets the number of live session stores.
func RecordActiveSessions(ctx context.Context, n int) {
	Get().ActiveSessionsGauge.Record(ctx, int64(n))
}
