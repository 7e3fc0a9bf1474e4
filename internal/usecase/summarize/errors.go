// Package summarize implements the document reduction use case: splitting a
// document into word-bounded chunks, summarizing each chunk with an external
// summarizer and recombining the partial summaries into one final summary.
package summarize

import (
	"errors"
	"fmt"
)

// Sentinel errors for summarize use case operations.
var (
	// ErrEmptyInput indicates that the document contains no words.
	// Empty and whitespace-only input is rejected rather than summarized.
	ErrEmptyInput = errors.New("input text is empty")

	// ErrDecoding indicates that the input bytes are not valid UTF-8 text.
	ErrDecoding = errors.New("input is not valid UTF-8 text")

	// ErrSummarizationFailed indicates that the external summarizer failed.
	// The whole reduction is aborted and no partial summary is returned.
	ErrSummarizationFailed = errors.New("summarization failed")
)

// Stage identifies which summarizer call of a reduction failed.
type Stage string

const (
	// StageDirect is the single call made for short documents.
	StageDirect Stage = "direct"
	// StageChunk is a per-chunk call.
	StageChunk Stage = "chunk"
	// StageRecombine is the second-pass call over the joined chunk summaries.
	StageRecombine Stage = "recombine"
)

// DecodingError reports invalid UTF-8 input.
type DecodingError struct {
	// Offset is the byte offset of the first invalid sequence.
	Offset int
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("%s: invalid byte sequence at offset %d", ErrDecoding.Error(), e.Offset)
}

// Unwrap lets errors.Is match ErrDecoding.
func (e *DecodingError) Unwrap() error {
	return ErrDecoding
}

// SummarizationError reports a failed summarizer call together with where in the
// reduction it happened.
type SummarizationError struct {
	Stage Stage
	// Chunk is the zero-based chunk index for StageChunk, -1 otherwise.
	Chunk int
	// Chunks is the total number of chunks, 0 for StageDirect.
	Chunks int
	Err    error
}

func (e *SummarizationError) Error() string {
	if e.Stage == StageChunk {
		return fmt.Sprintf("%s: chunk %d of %d: %v", ErrSummarizationFailed.Error(), e.Chunk+1, e.Chunks, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", ErrSummarizationFailed.Error(), e.Stage, e.Err)
}

// Unwrap returns both the sentinel and the cause so that errors.Is matches
// ErrSummarizationFailed as well as context.Canceled and provider errors.
func (e *SummarizationError) Unwrap() []error {
	return []error{ErrSummarizationFailed, e.Err}
}
