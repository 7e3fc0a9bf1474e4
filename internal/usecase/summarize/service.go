package summarize

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"doc-summarizer/internal/config"
	"doc-summarizer/internal/domain/entity"
	"doc-summarizer/internal/observability/logging"
	"doc-summarizer/internal/observability/metrics"
	"doc-summarizer/internal/observability/tracing"
	"doc-summarizer/internal/utils/text"
)

// Summarizer is the external summarization capability.
// maxLength and minLength bound the summary length in words.
// Implementations must be safe for concurrent use, or be wrapped so that they are.
type Summarizer interface {
	Summarize(ctx context.Context, text string, maxLength, minLength int) (string, error)
}

// ProgressFunc observes per-chunk progress of a reduction.
// It receives (i+1)/total after chunk i completes, so the last call receives 1.
type ProgressFunc func(fraction float64)

// Option customizes a single Summarize call.
type Option func(*options)

type options struct {
	progress  ProgressFunc
	reduction config.ReductionConfig
}

// WithProgress registers an observer for per-chunk progress.
// Short documents are summarized in one call and report no progress.
func WithProgress(fn ProgressFunc) Option {
	return func(o *options) {
		o.progress = fn
	}
}

// WithReduction overrides the service's thresholds for one call.
// The caller is responsible for validating cfg.
func WithReduction(cfg config.ReductionConfig) Option {
	return func(o *options) {
		o.reduction = cfg
	}
}

// Service reduces documents of any length to a single summary.
// It holds no per-request state and is safe for concurrent use when its
// Summarizer is.
type Service struct {
	summarizer Summarizer
	cfg        config.ReductionConfig
}

// NewService creates a reduction service.
//
// Parameters:
//   - summarizer: External summarizer used for every model call
//   - cfg: Chunking and length thresholds
//
// Returns:
//   - *Service: Configured service ready to use
func NewService(summarizer Summarizer, cfg config.ReductionConfig) *Service {
	return &Service{
		summarizer: summarizer,
		cfg:        cfg,
	}
}

// Config returns the service's default thresholds.
func (s *Service) Config() config.ReductionConfig {
	return s.cfg
}

// Summarize produces one summary for document.
//
// Documents of at most ShortThreshold words are summarized with a single call
// bounded by the final lengths. Longer documents are segmented into chunks of
// at most MaxWordsPerChunk words, each chunk is summarized in order with the
// chunk lengths, and the chunk summaries are joined with single spaces. If the
// joined text has more than RecombineThreshold words it is summarized once more
// with the final lengths.
//
// Returns:
//   - *entity.Result: Final summary with word counts and compression
//   - error: ErrEmptyInput for documents without words, or a *SummarizationError
//     when any summarizer call fails or ctx is cancelled. No partial summary is
//     returned on error.
func (s *Service) Summarize(ctx context.Context, document string, opts ...Option) (*entity.Result, error) {
	o := options{reduction: s.cfg}
	for _, opt := range opts {
		opt(&o)
	}
	cfg := o.reduction

	logger := logging.FromContext(ctx)

	ctx, span := tracing.GetTracer().Start(ctx, "summarize.Reduce")
	defer span.End()

	originalWords := text.CountWords(document)
	span.SetAttributes(attribute.Int("document.words", originalWords))

	if originalWords == 0 {
		metrics.RecordReductionRejected()
		span.SetStatus(codes.Error, ErrEmptyInput.Error())
		logger.Warn("Empty document rejected")
		return nil, ErrEmptyInput
	}

	metrics.RecordReductionStarted()
	defer metrics.RecordReductionFinished()

	r := &reduction{
		summarizer: s.summarizer,
		cfg:        cfg,
		logger:     logger,
		progress:   o.progress,
	}

	start := time.Now()
	summary, err := r.run(ctx, document, originalWords)
	duration := time.Since(start)

	span.SetAttributes(
		attribute.Int("reduction.chunks", r.chunks),
		attribute.Bool("reduction.recombined", r.recombined),
		attribute.Int("reduction.calls", r.calls),
	)

	if err != nil {
		metrics.RecordReductionFailure()
		span.RecordError(err)
		span.SetStatus(codes.Error, "reduction failed")
		logger.Error("Document reduction failed",
			slog.Int("word_count", originalWords),
			slog.Int("chunks", r.chunks),
			slog.Int("summarizer_calls", r.calls),
			slog.Duration("duration", duration),
			slog.Any("error", err))
		return nil, err
	}

	result := &entity.Result{
		Summary:         summary,
		OriginalWords:   originalWords,
		SummaryWords:    text.CountWords(summary),
		Chunks:          r.chunks,
		Recombined:      r.recombined,
		SummarizerCalls: r.calls,
		Duration:        duration,
	}
	if pct, ok := CompressionPercent(result.OriginalWords, result.SummaryWords); ok {
		result.Compression = &pct
	}

	metrics.RecordReductionSuccess(
		metrics.ReductionMode(result.Chunks, result.Recombined),
		duration, result.OriginalWords, result.Chunks, result.Compression)

	logger.Info("Document reduction completed",
		slog.Int("word_count", result.OriginalWords),
		slog.Int("summary_words", result.SummaryWords),
		slog.Int("chunks", result.Chunks),
		slog.Bool("recombined", result.Recombined),
		slog.Int("summarizer_calls", result.SummarizerCalls),
		slog.Duration("duration", duration))

	return result, nil
}

// reduction holds the bookkeeping of one Summarize call.
type reduction struct {
	summarizer Summarizer
	cfg        config.ReductionConfig
	logger     *slog.Logger
	progress   ProgressFunc

	chunks     int
	recombined bool
	calls      int
}

func (r *reduction) run(ctx context.Context, document string, words int) (string, error) {
	if words <= r.cfg.ShortThreshold {
		r.logger.Info("Starting direct summarization", slog.Int("word_count", words))

		summary, err := r.call(ctx, StageDirect, -1, document, r.cfg.FinalMaxLength, r.cfg.FinalMinLength)
		if err != nil {
			return "", &SummarizationError{Stage: StageDirect, Chunk: -1, Err: err}
		}
		return summary, nil
	}

	chunks := Segment(document, r.cfg.MaxWordsPerChunk)
	r.chunks = len(chunks)

	r.logger.Info("Starting chunked summarization",
		slog.Int("word_count", words),
		slog.Int("chunks", len(chunks)),
		slog.Int("max_words_per_chunk", r.cfg.MaxWordsPerChunk))

	partials := make([]entity.Summary, 0, len(chunks))
	for _, chunk := range chunks {
		out, err := r.call(ctx, StageChunk, chunk.Index, chunk.Text(), r.cfg.ChunkMaxLength, r.cfg.ChunkMinLength)
		if err != nil {
			return "", &SummarizationError{Stage: StageChunk, Chunk: chunk.Index, Chunks: len(chunks), Err: err}
		}
		partial := entity.NewSummary(out)
		partials = append(partials, partial)

		r.logger.Debug("Chunk summarized",
			slog.Int("chunk_index", chunk.Index),
			slog.Int("chunk_words", chunk.WordCount()),
			slog.Int("summary_words", partial.WordCount))

		if r.progress != nil {
			r.progress(float64(chunk.Index+1) / float64(len(chunks)))
		}
	}

	combined, combinedWords := joinSummaries(partials)
	if combinedWords <= r.cfg.RecombineThreshold {
		return combined, nil
	}

	r.logger.Info("Recombining chunk summaries",
		slog.Int("combined_words", combinedWords),
		slog.Int("recombine_threshold", r.cfg.RecombineThreshold))

	r.recombined = true
	summary, err := r.call(ctx, StageRecombine, -1, combined, r.cfg.FinalMaxLength, r.cfg.FinalMinLength)
	if err != nil {
		return "", &SummarizationError{Stage: StageRecombine, Chunk: -1, Chunks: len(chunks), Err: err}
	}
	return summary, nil
}

// joinSummaries joins partial summaries in order with single spaces and
// returns the joined text with its word count.
func joinSummaries(partials []entity.Summary) (string, int) {
	texts := make([]string, len(partials))
	words := 0
	for i, p := range partials {
		texts[i] = p.Text
		words += p.WordCount
	}
	return strings.Join(texts, " "), words
}

// call invokes the summarizer once. A cancelled context fails the call
// without reaching the summarizer.
func (r *reduction) call(ctx context.Context, stage Stage, chunk int, input string, maxLength, minLength int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	attrs := []attribute.KeyValue{
		attribute.String("summarize.stage", string(stage)),
		attribute.Int("summarize.input_words", text.CountWords(input)),
		attribute.Int("summarize.max_length", maxLength),
		attribute.Int("summarize.min_length", minLength),
	}
	if chunk >= 0 {
		attrs = append(attrs, attribute.Int("summarize.chunk_index", chunk))
	}
	ctx, span := tracing.GetTracer().Start(ctx, "summarize.Call", trace.WithAttributes(attrs...))
	defer span.End()

	r.calls++
	start := time.Now()
	summary, err := r.summarizer.Summarize(ctx, input, maxLength, minLength)
	metrics.RecordSummarizerCall(string(stage), time.Since(start), err == nil)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "summarizer call failed")
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			r.logger.Warn("Summarizer call interrupted",
				slog.String("stage", string(stage)),
				slog.Int("chunk_index", chunk),
				slog.Any("error", err))
		}
		return "", err
	}
	return summary, nil
}
