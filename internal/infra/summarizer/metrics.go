package summarizer

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SummaryMetricsRecorder records per-provider summary metrics.
// Swapping the implementation lets tests observe recordings without Prometheus.
type SummaryMetricsRecorder interface {
	// RecordLength records the length of a generated summary in words.
	RecordLength(words int)

	// RecordLimitExceeded counts a summary longer than the requested maximum.
	RecordLimitExceeded()

	// RecordCompliance records whether the latest summary respected the requested maximum.
	RecordCompliance(withinLimit bool)

	// RecordDuration records the time taken by one call including retries.
	RecordDuration(duration time.Duration)
}

// PrometheusSummaryMetrics implements SummaryMetricsRecorder for one provider.
type PrometheusSummaryMetrics struct {
	lengthHistogram   prometheus.Observer
	exceededCounter   prometheus.Counter
	complianceGauge   prometheus.Gauge
	durationHistogram prometheus.Observer
}

type summaryMetricVecs struct {
	length     *prometheus.HistogramVec
	exceeded   *prometheus.CounterVec
	compliance *prometheus.GaugeVec
	duration   *prometheus.HistogramVec
}

var (
	summaryVecs     *summaryMetricVecs
	summaryVecsOnce sync.Once
)

// getOrCreateHistogramVec gets an existing histogram vector or registers a new one.
func getOrCreateHistogramVec(opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	h := prometheus.NewHistogramVec(opts, labels)
	if err := prometheus.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.HistogramVec)
		}
		return promauto.NewHistogramVec(opts, labels)
	}
	return h
}

// getOrCreateCounterVec gets an existing counter vector or registers a new one.
func getOrCreateCounterVec(opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(opts, labels)
	if err := prometheus.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.CounterVec)
		}
		return promauto.NewCounterVec(opts, labels)
	}
	return c
}

// getOrCreateGaugeVec gets an existing gauge vector or registers a new one.
func getOrCreateGaugeVec(opts prometheus.GaugeOpts, labels []string) *prometheus.GaugeVec {
	g := prometheus.NewGaugeVec(opts, labels)
	if err := prometheus.Register(g); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.GaugeVec)
		}
		return promauto.NewGaugeVec(opts, labels)
	}
	return g
}

func loadSummaryVecs() *summaryMetricVecs {
	summaryVecsOnce.Do(func() {
		labels := []string{"provider"}
		summaryVecs = &summaryMetricVecs{
			length: getOrCreateHistogramVec(prometheus.HistogramOpts{
				Name:    "summarizer_summary_length_words",
				Help:    "Distribution of provider summary lengths in words",
				Buckets: []float64{10, 25, 50, 75, 100, 150, 200, 300, 500},
			}, labels),
			exceeded: getOrCreateCounterVec(prometheus.CounterOpts{
				Name: "summarizer_summary_limit_exceeded_total",
				Help: "Total number of summaries longer than the requested maximum length",
			}, labels),
			compliance: getOrCreateGaugeVec(prometheus.GaugeOpts{
				Name: "summarizer_summary_limit_compliance",
				Help: "1 if the latest summary respected the requested maximum length, else 0",
			}, labels),
			duration: getOrCreateHistogramVec(prometheus.HistogramOpts{
				Name:    "summarizer_provider_duration_seconds",
				Help:    "Time taken by one provider call including retries",
				Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
			}, labels),
		}
	})
	return summaryVecs
}

// NewPrometheusSummaryMetrics returns a recorder whose series carry the given provider label.
// The underlying vectors are registered once per process.
func NewPrometheusSummaryMetrics(provider string) *PrometheusSummaryMetrics {
	v := loadSummaryVecs()
	return &PrometheusSummaryMetrics{
		lengthHistogram:   v.length.WithLabelValues(provider),
		exceededCounter:   v.exceeded.WithLabelValues(provider),
		complianceGauge:   v.compliance.WithLabelValues(provider),
		durationHistogram: v.duration.WithLabelValues(provider),
	}
}

// RecordLength implements SummaryMetricsRecorder.RecordLength
func (p *PrometheusSummaryMetrics) RecordLength(words int) {
	p.lengthHistogram.Observe(float64(words))
}

// RecordLimitExceeded implements SummaryMetricsRecorder.RecordLimitExceeded
func (p *PrometheusSummaryMetrics) RecordLimitExceeded() {
	p.exceededCounter.Inc()
}

// RecordCompliance implements SummaryMetricsRecorder.RecordCompliance
func (p *PrometheusSummaryMetrics) RecordCompliance(withinLimit bool) {
	if withinLimit {
		p.complianceGauge.Set(1.0)
	} else {
		p.complianceGauge.Set(0.0)
	}
}

// RecordDuration implements SummaryMetricsRecorder.RecordDuration
func (p *PrometheusSummaryMetrics) RecordDuration(duration time.Duration) {
	p.durationHistogram.Observe(duration.Seconds())
}
