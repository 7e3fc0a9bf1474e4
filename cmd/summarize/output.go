package main

import (
	"encoding/json"
	"fmt"
	"io"

	"doc-summarizer/internal/domain/entity"
)

// SummaryOutput represents the JSON output format for a summary.
type SummaryOutput struct {
	Source             string `json:"source"`
	Provider           string `json:"provider"`
	Summary            string `json:"summary"`
	OriginalWords      int    `json:"original_words"`
	SummaryWords       int    `json:"summary_words"`
	CompressionPercent *int   `json:"compression_percent"`
	Chunks             int    `json:"chunks"`
	Recombined         bool   `json:"recombined"`
	SummarizerCalls    int    `json:"summarizer_calls"`
	DurationMS         int64  `json:"duration_ms"`
	Original           string `json:"original,omitempty"`
}

func newOutput(source, provider string, res *entity.Result) SummaryOutput {
	return SummaryOutput{
		Source:             source,
		Provider:           provider,
		Summary:            res.Summary,
		OriginalWords:      res.OriginalWords,
		SummaryWords:       res.SummaryWords,
		CompressionPercent: res.Compression,
		Chunks:             res.Chunks,
		Recombined:         res.Recombined,
		SummarizerCalls:    res.SummarizerCalls,
		DurationMS:         res.Duration.Milliseconds(),
	}
}

// writeText prints the summary in human-readable format.
func writeText(w io.Writer, out SummaryOutput) error {
	compression := "n/a"
	if out.CompressionPercent != nil {
		compression = fmt.Sprintf("%d%%", *out.CompressionPercent)
	}

	fmt.Fprintf(w, "Summary of %s\n\n", out.Source)
	fmt.Fprintf(w, "%s\n\n", out.Summary)
	fmt.Fprintf(w, "Original words:  %d\n", out.OriginalWords)
	fmt.Fprintf(w, "Summary words:   %d\n", out.SummaryWords)
	fmt.Fprintf(w, "Compression:     %s\n", compression)
	if out.Chunks > 0 {
		fmt.Fprintf(w, "Chunks:          %d (recombined: %t)\n", out.Chunks, out.Recombined)
	}

	if out.Original != "" {
		fmt.Fprintf(w, "\nOriginal text:\n%s\n", out.Original)
	}
	return nil
}

// writeJSON prints the summary as indented JSON.
func writeJSON(w io.Writer, out SummaryOutput) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(out); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}
