package summary

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"doc-summarizer/internal/handler/http/respond"
	"doc-summarizer/internal/usecase/summarize"
)

// CreateHandler summarizes text sent as JSON.
type CreateHandler struct{ Svc Service }

// ServeHTTP 要約作成
// @Summary      Summarize text
// @Description  Summarizes the given text. Long texts are chunked, each chunk summarized, and the joined summaries summarized again when still too long.
// @Tags         summaries
// @Accept       json
// @Produce      json
// @Param        request body CreateRequest true "Text and optional threshold overrides"
// @Success      200 {object} Response
// @Failure      400 {object} respond.ErrorBody "Empty text, invalid UTF-8 or invalid options"
// @Failure      413 {object} respond.ErrorBody "Request body too large"
// @Failure      502 {object} respond.ErrorBody "Summarizer failed"
// @Failure      503 {object} respond.ErrorBody "Summarizer circuit open"
// @Failure      504 {object} respond.ErrorBody "Summarization timed out"
// @Router       /summaries [post]
func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCreateRequest(r)
	if err != nil {
		respond.Fail(w, r, toAppError(err))
		return
	}

	cfg, err := req.Options.Apply(h.Svc.Config())
	if err != nil {
		respond.Fail(w, r, toAppError(err))
		return
	}

	res, err := h.Svc.Summarize(r.Context(), req.Text, summarizeOptions(r, cfg)...)
	if err != nil {
		respond.Fail(w, r, toAppError(err))
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(res))
}

// decodeCreateRequest reads the body in full and rejects bytes that are not
// UTF-8 before unmarshalling, since encoding/json would silently replace them.
func decodeCreateRequest(r *http.Request) (CreateRequest, error) {
	var req CreateRequest

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return req, err
		}
		return req, respond.NewAppError(http.StatusBadRequest, CodeInvalidRequest, "failed to read request body", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return req, respond.NewAppError(http.StatusBadRequest, CodeInvalidRequest, "request body is required", nil)
	}

	raw, err := summarize.DecodeText(body)
	if err != nil {
		return req, err
	}
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		return req, respond.NewAppError(http.StatusBadRequest, CodeInvalidRequest, "invalid JSON body", err)
	}

	if off := replacedRune(raw, req.Text); off >= 0 {
		return req, &summarize.DecodingError{Offset: off}
	}
	return req, nil
}

// replacedRune returns the offset in text of a U+FFFD that the JSON decoder
// produced from an unpaired surrogate escape, or -1. A replacement character
// the client sent literally or as \ufffd is kept.
func replacedRune(raw, text string) int {
	off := strings.IndexRune(text, utf8.RuneError)
	if off < 0 {
		return -1
	}
	if strings.ContainsRune(raw, utf8.RuneError) || strings.Contains(strings.ToLower(raw), `\ufffd`) {
		return -1
	}
	return off
}
