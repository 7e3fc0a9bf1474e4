package summary

import (
	"fmt"
	"net/url"
	"strconv"

	"doc-summarizer/internal/config"
	"doc-summarizer/internal/domain/entity"
)

// Options overrides the server's reduction thresholds for one request.
// Omitted fields keep the server defaults.
type Options struct {
	MaxWordsPerChunk   *int `json:"max_words_per_chunk,omitempty"`
	ShortThreshold     *int `json:"short_threshold,omitempty"`
	ChunkMaxLength     *int `json:"chunk_max_length,omitempty"`
	ChunkMinLength     *int `json:"chunk_min_length,omitempty"`
	FinalMaxLength     *int `json:"final_max_length,omitempty"`
	FinalMinLength     *int `json:"final_min_length,omitempty"`
	RecombineThreshold *int `json:"recombine_threshold,omitempty"`
}

// CreateRequest is the body of POST /summaries.
type CreateRequest struct {
	Text    string   `json:"text"`
	Options *Options `json:"options,omitempty"`
}

// Response is returned by both summary endpoints.
type Response struct {
	Summary       string `json:"summary"`
	OriginalWords int    `json:"original_words"`
	SummaryWords  int    `json:"summary_words"`
	// CompressionPercent is null when the original has no words.
	CompressionPercent *int   `json:"compression_percent"`
	Chunks             int    `json:"chunks"`
	Recombined         bool   `json:"recombined"`
	SummarizerCalls    int    `json:"summarizer_calls"`
	DurationMS         int64  `json:"duration_ms"`
	Filename           string `json:"filename,omitempty"`
}

func toResponse(res *entity.Result) Response {
	return Response{
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

// fields pairs every option with the config field it overrides.
func (o *Options) fields(cfg *config.ReductionConfig) []struct {
	name  string
	value **int
	dst   *int
} {
	return []struct {
		name  string
		value **int
		dst   *int
	}{
		{"max_words_per_chunk", &o.MaxWordsPerChunk, &cfg.MaxWordsPerChunk},
		{"short_threshold", &o.ShortThreshold, &cfg.ShortThreshold},
		{"chunk_max_length", &o.ChunkMaxLength, &cfg.ChunkMaxLength},
		{"chunk_min_length", &o.ChunkMinLength, &cfg.ChunkMinLength},
		{"final_max_length", &o.FinalMaxLength, &cfg.FinalMaxLength},
		{"final_min_length", &o.FinalMinLength, &cfg.FinalMinLength},
		{"recombine_threshold", &o.RecombineThreshold, &cfg.RecombineThreshold},
	}
}

// Apply overlays the options on base and validates the result.
// Returns base unchanged when o is nil.
func (o *Options) Apply(base config.ReductionConfig) (config.ReductionConfig, error) {
	if o == nil {
		return base, nil
	}

	cfg := base
	for _, f := range o.fields(&cfg) {
		if *f.value != nil {
			*f.dst = **f.value
		}
	}

	if err := cfg.Validate(); err != nil {
		return base, &entity.ValidationError{Field: "options", Message: err.Error()}
	}
	return cfg, nil
}

// optionsFromForm reads option overrides from multipart form values.
// Returns nil when no option field is present.
func optionsFromForm(values url.Values) (*Options, error) {
	o := &Options{}
	var cfg config.ReductionConfig
	present := false

	for _, f := range o.fields(&cfg) {
		raw := values.Get(f.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, &entity.ValidationError{
				Field:   f.name,
				Message: fmt.Sprintf("must be an integer, got %q", raw),
			}
		}
		*f.value = &n
		present = true
	}

	if !present {
		return nil, nil
	}
	return o, nil
}
