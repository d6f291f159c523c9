package observability

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "mysticwriter-backend"

// Metrics holds the service's otel instruments. Instruments come from the
// global meter provider, so they are no-ops until one is installed.
type Metrics struct {
	avatarOutcomes  metric.Int64Counter
	aiRequests      metric.Int64Counter
	aiLatency       metric.Int64Histogram
	summaryCache    metric.Int64Counter
	activityUpserts metric.Int64Counter
	apiRequests     metric.Int64Counter
	apiLatency      metric.Int64Histogram
	apiInflight     metric.Int64UpDownCounter
	storageBoot     metric.Int64Counter
}

var (
	metricsOnce sync.Once
	current     *Metrics
)

// Current returns the process metrics, creating instruments on first use.
func Current() *Metrics {
	metricsOnce.Do(func() {
		current = newMetrics(otel.GetMeterProvider().Meter(meterName))
	})
	return current
}

func newMetrics(m metric.Meter) *Metrics {
	avatarOutcomes, _ := m.Int64Counter("avatar_generation_outcomes_total")
	aiRequests, _ := m.Int64Counter("ai_requests_total")
	aiLatency, _ := m.Int64Histogram("ai_request_duration_ms")
	summaryCache, _ := m.Int64Counter("analytics_summary_cache_total")
	activityUpserts, _ := m.Int64Counter("writing_activity_upserts_total")
	apiRequests, _ := m.Int64Counter("http_requests_total")
	apiLatency, _ := m.Int64Histogram("http_request_duration_ms")
	apiInflight, _ := m.Int64UpDownCounter("http_requests_inflight")
	storageBoot, _ := m.Int64Counter("object_storage_bootstrap_total")
	return &Metrics{
		avatarOutcomes:  avatarOutcomes,
		aiRequests:      aiRequests,
		aiLatency:       aiLatency,
		summaryCache:    summaryCache,
		activityUpserts: activityUpserts,
		apiRequests:     apiRequests,
		apiLatency:      apiLatency,
		apiInflight:     apiInflight,
		storageBoot:     storageBoot,
	}
}

func (m *Metrics) ObserveAvatarOutcome(ctx context.Context, stage string) {
	if m == nil || m.avatarOutcomes == nil {
		return
	}
	m.avatarOutcomes.Add(ctx, 1, metric.WithAttributes(attribute.String("stage", stage)))
}

func (m *Metrics) ObserveAIRequest(ctx context.Context, provider, operation, status string, dur time.Duration) {
	if m == nil || m.aiRequests == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("operation", operation),
		attribute.String("status", status),
	)
	m.aiRequests.Add(ctx, 1, attrs)
	if m.aiLatency != nil {
		m.aiLatency.Record(ctx, dur.Milliseconds(), attrs)
	}
}

func (m *Metrics) ObserveSummaryCache(ctx context.Context, result string) {
	if m == nil || m.summaryCache == nil {
		return
	}
	m.summaryCache.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

func (m *Metrics) ObserveActivityUpsert(ctx context.Context, counter, result string) {
	if m == nil || m.activityUpserts == nil {
		return
	}
	m.activityUpserts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("counter", counter),
		attribute.String("result", result),
	))
}

func (m *Metrics) APIInflight(ctx context.Context, delta int64) {
	if m == nil || m.apiInflight == nil {
		return
	}
	m.apiInflight.Add(ctx, delta)
}

func (m *Metrics) ObserveAPI(ctx context.Context, method, route, status string, dur time.Duration) {
	if m == nil || m.apiRequests == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.String("status", status),
	)
	m.apiRequests.Add(ctx, 1, attrs)
	if m.apiLatency != nil {
		m.apiLatency.Record(ctx, dur.Milliseconds(), attrs)
	}
}

func (m *Metrics) ObserveObjectStorageBootstrap(ctx context.Context, mode, result, code string) {
	if m == nil || m.storageBoot == nil {
		return
	}
	m.storageBoot.Add(ctx, 1, metric.WithAttributes(
		attribute.String("mode", mode),
		attribute.String("result", result),
		attribute.String("code", code),
	))
}
