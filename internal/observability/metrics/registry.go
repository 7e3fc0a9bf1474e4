// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Reduction metrics track whole-document summarization requests
var (
	// ReductionsTotal counts summarization requests by outcome
	ReductionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "document_reductions_total",
			Help: "Total number of document summarization requests",
		},
		[]string{"status"}, // status: success, failure, rejected
	)

	// ReductionDuration measures time to summarize one document end to end
	ReductionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "document_reduction_duration_seconds",
			Help:    "Time taken to summarize a document",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
		[]string{"mode"}, // mode: direct, chunked, recombined
	)

	// ReductionsInFlight tracks summarization requests currently running
	ReductionsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "document_reductions_in_flight",
			Help: "Number of document summarization requests in progress",
		},
	)

	// DocumentWords measures input document size in words
	DocumentWords = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "document_words",
			Help:    "Word count of summarized documents",
			Buckets: []float64{50, 100, 200, 400, 800, 1600, 3200, 6400, 12800, 25600},
		},
	)

	// DocumentChunks measures how many chunks a long document was split into
	DocumentChunks = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "document_chunks",
			Help:    "Number of chunks per chunked document",
			Buckets: []float64{2, 3, 4, 6, 8, 12, 16, 32, 64},
		},
	)

	// CompressionPercent measures the word-count reduction of successful summaries
	CompressionPercent = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "document_compression_percent",
			Help:    "Percentage reduction in word count between document and summary",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)
)

// Summarizer call metrics track individual calls into the external summarizer
var (
	// SummarizerCallsTotal counts summarizer calls by reduction stage and outcome
	SummarizerCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summarizer_calls_total",
			Help: "Total number of external summarizer calls",
		},
		[]string{"stage", "status"}, // stage: direct, chunk, recombine
	)

	// SummarizerCallDuration measures the latency of one summarizer call
	SummarizerCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "summarizer_call_duration_seconds",
			Help:    "Latency of external summarizer calls",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		[]string{"stage"},
	)
)
