package metrics

import "time"

// Reduction modes used as the "mode" label.
const (
	ModeDirect     = "direct"
	ModeChunked    = "chunked"
	ModeRecombined = "recombined"
)

// ReductionMode returns the mode label for a finished reduction.
func ReductionMode(chunks int, recombined bool) string {
	switch {
	case recombined:
		return ModeRecombined
	case chunks > 0:
		return ModeChunked
	default:
		return ModeDirect
	}
}

// RecordReductionStarted marks a summarization request as in progress.
// Every call must be paired with RecordReductionFinished.
func RecordReductionStarted() {
	ReductionsInFlight.Inc()
}

// RecordReductionFinished marks a summarization request as no longer in progress.
func RecordReductionFinished() {
	ReductionsInFlight.Dec()
}

// RecordReductionSuccess records a completed summarization.
//
// Parameters:
//   - mode: ModeDirect, ModeChunked or ModeRecombined
//   - duration: End-to-end reduction time
//   - words: Word count of the input document
//   - chunks: Number of chunks (0 for direct reductions)
//   - compression: Compression percentage, nil when undefined
func RecordReductionSuccess(mode string, duration time.Duration, words, chunks int, compression *int) {
	ReductionsTotal.WithLabelValues("success").Inc()
	ReductionDuration.WithLabelValues(mode).Observe(duration.Seconds())
	DocumentWords.Observe(float64(words))
	if chunks > 0 {
		DocumentChunks.Observe(float64(chunks))
	}
	if compression != nil {
		CompressionPercent.Observe(float64(*compression))
	}
}

// RecordReductionFailure records a summarization aborted by a summarizer error.
func RecordReductionFailure() {
	ReductionsTotal.WithLabelValues("failure").Inc()
}

// RecordReductionRejected records a request rejected before any summarizer call,
// such as empty input.
func RecordReductionRejected() {
	ReductionsTotal.WithLabelValues("rejected").Inc()
}

// RecordSummarizerCall records one call into the external summarizer.
// Stage should be "direct", "chunk" or "recombine".
func RecordSummarizerCall(stage string, duration time.Duration, success bool) {
	status := "success"
	if !success {
		status = "failure"
	}
	SummarizerCallsTotal.WithLabelValues(stage, status).Inc()
	SummarizerCallDuration.WithLabelValues(stage).Observe(duration.Seconds())
}
