// Package entity defines the request-scoped domain types of the summarizer:
// chunks, summaries and the result of a summarization request.
package entity

import (
	"time"

	"doc-summarizer/internal/utils/text"
)

// Chunk is a contiguous run of a document's words, bounded by a maximum word count.
// Chunks of one document are produced in order and never overlap.
type Chunk struct {
	// Index is the zero-based position of the chunk within its document.
	Index int
	// Words holds the chunk's whitespace-delimited tokens in document order.
	Words []string
}

// Text returns the chunk's words joined with single spaces.
func (c Chunk) Text() string {
	return text.JoinWords(c.Words)
}

// WordCount returns the number of words in the chunk.
func (c Chunk) WordCount() int {
	return len(c.Words)
}

// Summary is text produced by the external summarizer for a chunk or for a
// concatenation of summaries.
type Summary struct {
	Text      string
	WordCount int
}

// NewSummary builds a Summary and counts its words.
func NewSummary(s string) Summary {
	return Summary{Text: s, WordCount: text.CountWords(s)}
}

// Result is the outcome of one summarization request.
type Result struct {
	// Summary is the final summary text.
	Summary string
	// OriginalWords is the word count of the input document.
	OriginalWords int
	// SummaryWords is the word count of Summary.
	SummaryWords int
	// Compression is the rounded percentage reduction in word count.
	// It is nil when OriginalWords is zero.
	Compression *int
	// Chunks is the number of chunks the document was split into (0 for short documents).
	Chunks int
	// Recombined reports whether the concatenated chunk summaries were summarized again.
	Recombined bool
	// SummarizerCalls counts every invocation of the external summarizer.
	SummarizerCalls int
	// Duration is the wall-clock time spent producing the summary.
	Duration time.Duration
}
