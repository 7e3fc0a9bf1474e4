package summarizer

import (
	"context"

	"doc-summarizer/internal/utils/text"
)

// NoOp is an offline summarizer that keeps the leading words of the input.
// It makes no network calls and is deterministic, which makes it useful for
// development, tests and dry runs of the reduction pipeline.
type NoOp struct{}

// NewNoOp creates a new NoOp summarizer.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// Summarize returns the first maxLength words of text joined by single spaces.
// minLength is ignored: the output is never padded.
func (n *NoOp) Summarize(ctx context.Context, input string, maxLength, minLength int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := ValidateLengths(maxLength, minLength); err != nil {
		return "", err
	}

	words := text.Words(input)
	if len(words) > maxLength {
		words = words[:maxLength]
	}
	return text.JoinWords(words), nil
}
