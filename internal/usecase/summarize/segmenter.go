package summarize

import (
	"doc-summarizer/internal/domain/entity"
	"doc-summarizer/internal/utils/text"
)

// DefaultMaxWords is the chunk size used when a non-positive size is requested.
const DefaultMaxWords = 400

// Segment splits text into consecutive chunks of at most maxWords words.
//
// Words are whitespace-delimited tokens, so a chunk boundary never falls inside a
// word. Chunks are returned in document order, do not overlap and together hold
// every word exactly once. Only the last chunk may be shorter than maxWords.
// Empty or whitespace-only text yields no chunks.
//
// Example:
//
//	chunks := Segment("a b c d e", 2)
//	// chunks[0].Text() == "a b", chunks[1].Text() == "c d", chunks[2].Text() == "e"
func Segment(input string, maxWords int) []entity.Chunk {
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}

	words := text.Words(input)
	if len(words) == 0 {
		return nil
	}

	chunks := make([]entity.Chunk, 0, (len(words)+maxWords-1)/maxWords)
	for start := 0; start < len(words); start += maxWords {
		end := min(start+maxWords, len(words))
		chunks = append(chunks, entity.Chunk{
			Index: len(chunks),
			// Cap the capacity so appending to one chunk cannot overwrite the next.
			Words: words[start:end:end],
		})
	}
	return chunks
}
