// Package observe provides OpenTelemetry metrics for the reconciliation
// service. InitProvider bridges them to a Prometheus exporter so they can be
// scraped from /metrics. Tests should build their own Metrics with NewMetrics
// and a ManualReader.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"docrecon/internal/diff"
)

const meterName = "docrecon"

// Metrics holds all metric instruments for the application.
type Metrics struct {
	// CompareDuration tracks the time spent tokenizing, aligning and
	// segmenting one pair of texts.
	CompareDuration metric.Float64Histogram

	// CompareSegments counts emitted segments. Attribute: type.
	CompareSegments metric.Int64Counter

	// CompareTimeouts counts comparisons abandoned after the time budget.
	CompareTimeouts metric.Int64Counter

	// ApproximateAnchors counts tokens whose offsets fell back to the
	// approximate tier.
	ApproximateAnchors metric.Int64Counter

	// ExtractionDuration tracks Text A extraction latency per page.
	ExtractionDuration metric.Float64Histogram

	// ExtractionPages counts extraction outcomes. Attribute: status.
	ExtractionPages metric.Int64Counter

	// ActiveExtractions tracks pages currently being extracted.
	ActiveExtractions metric.Int64UpDownCounter

	// CorrectionSaves counts accepted page corrections.
	CorrectionSaves metric.Int64Counter

	// HTTPRequestDuration tracks request latency. Attributes: method, route, status.
	HTTPRequestDuration metric.Float64Histogram
}

var compareBuckets = []float64{
	0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10,
}

var extractionBuckets = []float64{
	0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120,
}

// NewMetrics creates all instruments from the given MeterProvider.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.CompareDuration, err = m.Float64Histogram("docrecon.compare.duration",
		metric.WithDescription("Latency of a single text comparison."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(compareBuckets...),
	); err != nil {
		return nil, err
	}
	if met.CompareSegments, err = m.Int64Counter("docrecon.compare.segments",
		metric.WithDescription("Segments emitted by comparisons, by type."),
	); err != nil {
		return nil, err
	}
	if met.CompareTimeouts, err = m.Int64Counter("docrecon.compare.timeouts",
		metric.WithDescription("Comparisons that exceeded the time budget."),
	); err != nil {
		return nil, err
	}
	if met.ApproximateAnchors, err = m.Int64Counter("docrecon.compare.approximate_anchors",
		metric.WithDescription("Tokens anchored with the approximate offset tier."),
	); err != nil {
		return nil, err
	}
	if met.ExtractionDuration, err = m.Float64Histogram("docrecon.extraction.duration",
		metric.WithDescription("Latency of Text A extraction for one page."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(extractionBuckets...),
	); err != nil {
		return nil, err
	}
	if met.ExtractionPages, err = m.Int64Counter("docrecon.extraction.pages",
		metric.WithDescription("Page extraction outcomes, by status."),
	); err != nil {
		return nil, err
	}
	if met.ActiveExtractions, err = m.Int64UpDownCounter("docrecon.extraction.active",
		metric.WithDescription("Pages currently being extracted."),
	); err != nil {
		return nil, err
	}
	if met.CorrectionSaves, err = m.Int64Counter("docrecon.correction.saves",
		metric.WithDescription("Accepted page corrections."),
	); err != nil {
		return nil, err
	}
	if met.HTTPRequestDuration, err = m.Float64Histogram("docrecon.http.request.duration",
		metric.WithDescription("HTTP request latency by method, route and status."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns a package-level Metrics built from the global
// MeterProvider on first use.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// RecordComparison records latency, segment counts and approximate anchors
// for one finished comparison.
func (m *Metrics) RecordComparison(ctx context.Context, seconds float64, res *diff.Result) {
	m.CompareDuration.Record(ctx, seconds)
	counts := map[diff.Kind]int64{}
	for _, s := range res.Segments {
		counts[s.Type]++
	}
	for kind, n := range counts {
		m.CompareSegments.Add(ctx, n, metric.WithAttributes(attribute.String("type", string(kind))))
	}
	if res.Stats.ApproximateAnchors > 0 {
		m.ApproximateAnchors.Add(ctx, int64(res.Stats.ApproximateAnchors))
	}
}

// RecordExtraction records one page extraction outcome.
func (m *Metrics) RecordExtraction(ctx context.Context, seconds float64, status string) {
	attrs := metric.WithAttributes(attribute.String("status", status))
	m.ExtractionDuration.Record(ctx, seconds, attrs)
	m.ExtractionPages.Add(ctx, 1, attrs)
}
