package summary

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"doc-summarizer/internal/domain/entity"
	"doc-summarizer/internal/handler/http/respond"
	"doc-summarizer/internal/resilience/circuitbreaker"
	"doc-summarizer/internal/usecase/summarize"
)

// Error codes returned in the "code" field of error responses.
const (
	CodeInvalidRequest        = "invalid_request"
	CodeInvalidOptions        = "invalid_options"
	CodeEmptyInput            = "empty_input"
	CodeInvalidEncoding       = "invalid_encoding"
	CodeUnsupportedFileType   = "unsupported_file_type"
	CodeBodyTooLarge          = "body_too_large"
	CodeSummarizationFailed   = "summarization_failed"
	CodeSummarizerUnavailable = "summarizer_unavailable"
	CodeTimeout               = "timeout"
)

// toAppError maps request and use case errors to client responses.
func toAppError(err error) *respond.AppError {
	var (
		appErr  *respond.AppError
		maxErr  *http.MaxBytesError
		valErr  *entity.ValidationError
		decErr  *summarize.DecodingError
		summErr *summarize.SummarizationError
	)

	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.As(err, &maxErr):
		return respond.NewAppError(http.StatusRequestEntityTooLarge, CodeBodyTooLarge,
			fmt.Sprintf("request body too large: limit is %d bytes", maxErr.Limit), nil)
	case errors.As(err, &valErr):
		return respond.NewAppError(http.StatusBadRequest, CodeInvalidOptions, valErr.Error(), nil)
	case errors.Is(err, summarize.ErrEmptyInput):
		return respond.NewAppError(http.StatusBadRequest, CodeEmptyInput, summarize.ErrEmptyInput.Error(), nil)
	case errors.As(err, &decErr):
		return respond.NewAppError(http.StatusBadRequest, CodeInvalidEncoding, decErr.Error(), nil)
	case errors.Is(err, circuitbreaker.ErrOpen):
		return respond.NewAppError(http.StatusServiceUnavailable, CodeSummarizerUnavailable,
			"summarizer temporarily unavailable, retry later", err)
	case errors.Is(err, context.DeadlineExceeded):
		return respond.NewAppError(http.StatusGatewayTimeout, CodeTimeout, "summarization timed out", err)
	case errors.As(err, &summErr):
		return respond.NewAppError(http.StatusBadGateway, CodeSummarizationFailed, failureMessage(summErr), err)
	default:
		return respond.NewAppError(http.StatusInternalServerError, "internal_error", "internal server error", err)
	}
}

// failureMessage describes where a reduction failed without exposing the provider error.
func failureMessage(e *summarize.SummarizationError) string {
	switch e.Stage {
	case summarize.StageChunk:
		return fmt.Sprintf("summarization failed at chunk %d of %d", e.Chunk+1, e.Chunks)
	case summarize.StageRecombine:
		return "summarization failed while recombining chunk summaries"
	default:
		return "summarization failed"
	}
}
